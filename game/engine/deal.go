package engine

// dealStride walks the ordered deck in a fixed permutation. It is coprime
// with DeckSize so every card is visited once.
const dealStride = 19

// OrderedDeck returns the 52 cards face-down, suit by suit from Ace to King.
func OrderedDeck() []*Card {
	deck := make([]*Card, 0, DeckSize)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			deck = append(deck, &Card{rank: r, suit: s})
		}
	}
	return deck
}

// StandardDeal lays out a fixed, repeatable Klondike position: column n gets
// n cards with only the top one face-up, and the remaining 24 cards form the
// stock with its top card face-up.
func StandardDeal() *Board {
	deck := OrderedDeck()
	b := NewBoard()

	next := 0
	draw := func() *Card {
		c := deck[(next*dealStride)%DeckSize]
		next++
		return c
	}

	for col := 1; col <= TableauCount; col++ {
		p := b.piles[TableauName(col)]
		for i := 0; i < col; i++ {
			p.Push(draw())
		}
		p.revealTop()
	}
	for next < DeckSize {
		b.Stock().Push(draw())
	}
	b.Stock().revealTop()
	return b
}
