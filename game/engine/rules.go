package engine

// MoveToFoundation moves the top card of the named pile onto the foundation
// of its suit. The card must be exactly one rank above the foundation top
// (an Ace onto an empty foundation).
func MoveToFoundation(b *Board, from string) error {
	src, err := b.Pile(from)
	if err != nil {
		return err
	}
	if IsFoundation(from) {
		return newError(ErrIllegalMove, "cannot move a card out of a foundation")
	}
	card, ok := src.Peek()
	if !ok {
		return newError(ErrEmptySource, "%s has no cards", from)
	}

	dst := b.Foundation(card.Suit())
	if card.Rank() != dst.TopRank()+1 {
		if dst.IsEmpty() {
			return newError(ErrIllegalMove, "%s cannot start %s", card.Face(), dst.Name())
		}
		top, _ := dst.Peek()
		return newError(ErrIllegalMove, "%s cannot go on %s", card.Face(), top.Face())
	}

	src.Pop()
	dst.Push(card)
	src.revealTop()
	return nil
}

// MoveToPile moves face-up cards from the top of one pile onto a tableau
// column and returns how many cards moved.
//
// The face-up run at the top of the source is split into the cards ranked
// below the destination top (all of them when the run starts with a King
// and the destination is empty) and the rest. The move is legal when the
// bottom-most of the moving cards is one rank below the destination top, or
// is a King going to an empty column. A rejected move leaves both piles
// untouched.
func MoveToPile(b *Board, from, to string) (int, error) {
	src, err := b.Pile(from)
	if err != nil {
		return 0, err
	}
	dst, err := b.Pile(to)
	if err != nil {
		return 0, err
	}
	if IsFoundation(from) {
		return 0, newError(ErrIllegalMove, "cannot move a card out of a foundation")
	}
	if !IsTableau(to) {
		return 0, newError(ErrIllegalMove, "%s is not a tableau column", to)
	}
	if from == to {
		return 0, newError(ErrIllegalMove, "source and destination are both %s", to)
	}
	if src.IsEmpty() {
		return 0, newError(ErrEmptySource, "%s has no cards", from)
	}

	keep, moving, err := planPileMove(src, dst)
	if err != nil {
		return 0, err
	}

	run := src.faceUpRun()
	base := src.cards[:len(src.cards)-run]
	src.cards = append(base[:len(base):len(base)], keep...)
	dst.cards = append(dst.cards, moving...)
	src.revealTop()
	return len(moving), nil
}

// planPileMove splits the source's face-up run into the cards that stay and
// the cards that move, both bottom to top. It does not mutate either pile.
func planPileMove(src, dst *Pile) (keep, moving []*Card, err error) {
	n := src.faceUpRun()
	if n == 0 {
		return nil, nil, newError(ErrIllegalMove, "%s has no face-up cards", src.Name())
	}
	run := src.cards[len(src.cards)-n:]

	toRank := dst.TopRank()
	kingToEmpty := run[0].Rank() == King && dst.IsEmpty()
	for _, c := range run {
		if c.Rank() < toRank || kingToEmpty {
			moving = append(moving, c)
		} else {
			keep = append(keep, c)
		}
	}

	if len(moving) == 0 {
		if dst.IsEmpty() {
			return nil, nil, newError(ErrIllegalMove, "only a King can start empty %s", dst.Name())
		}
		top, _ := dst.Peek()
		return nil, nil, newError(ErrIllegalMove, "no card from %s fits on %s", src.Name(), top.Face())
	}

	lead := moving[0]
	if lead.Rank() == toRank-1 || (lead.Rank() == King && dst.IsEmpty()) {
		return keep, moving, nil
	}
	if dst.IsEmpty() {
		return nil, nil, newError(ErrIllegalMove, "only a King can start empty %s", dst.Name())
	}
	top, _ := dst.Peek()
	return nil, nil, newError(ErrIllegalMove, "%s cannot go on %s", lead.Face(), top.Face())
}

// DiscardThree deals up to three cards from the stock onto the discard pile
// and returns how many moved.
//
// Three cards and a single card land face-down; a pair keeps whatever
// visibility it had. The new stock top is turned face-up.
func DiscardThree(b *Board) (int, error) {
	stock, discard := b.Stock(), b.Discard()

	var moved int
	switch size := stock.Size(); {
	case size == 0:
		return 0, newError(ErrEmptySource, "stock is empty")
	case size >= 3:
		for i := 0; i < 3; i++ {
			c, _ := stock.Pop()
			discard.Push(c)
			c.SetFaceUp(false)
		}
		moved = 3
	case size == 2:
		for i := 0; i < 2; i++ {
			c, _ := stock.Pop()
			discard.Push(c)
		}
		moved = 2
	default:
		c, _ := stock.Pop()
		discard.Push(c)
		c.SetFaceUp(false)
		moved = 1
	}

	stock.revealTop()
	return moved, nil
}

// ResetStock turns the discard pile back into the stock once the stock has
// run out. The stock receives the discard cards in the same bottom-to-top
// order and its new top is turned face-up.
func ResetStock(b *Board) (int, error) {
	stock, discard := b.Stock(), b.Discard()
	if !stock.IsEmpty() {
		return 0, newError(ErrNotEmpty, "stock must be empty, it holds %d cards", stock.Size())
	}

	// Popping reverses the discard pile; reversing again restores its order.
	temp := make([]*Card, 0, discard.Size())
	for {
		c, ok := discard.Pop()
		if !ok {
			break
		}
		temp = append(temp, c)
	}
	for i := len(temp) - 1; i >= 0; i-- {
		stock.Push(temp[i])
	}

	stock.revealTop()
	return len(temp), nil
}

// CanMoveToFoundation reports whether MoveToFoundation would succeed.
func CanMoveToFoundation(b *Board, from string) bool {
	return MoveToFoundation(b.Clone(), from) == nil
}

// CanMoveToPile reports whether MoveToPile would succeed.
func CanMoveToPile(b *Board, from, to string) bool {
	_, err := MoveToPile(b.Clone(), from, to)
	return err == nil
}
