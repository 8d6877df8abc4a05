package engine

import (
	"fmt"
	"strconv"
)

// Snapshot builds the JSON view of b.
func Snapshot(b *Board, reveal bool) *GameState {
	state := &GameState{
		Piles:           make([]PileState, 0, len(b.order)),
		Lines:           BoardLines(b, reveal),
		CardCount:       b.CardCount(),
		FoundationCards: FoundationCount(b),
		Won:             IsWon(b),
		Revealed:        reveal,
	}
	for _, p := range b.order {
		ps := PileState{
			Name:     p.Name(),
			Cards:    make([]string, 0, p.Size()),
			Size:     p.Size(),
			FaceDown: CountFaceDown(p),
		}
		for _, c := range p.cards {
			if reveal {
				ps.Cards = append(ps.Cards, c.Token())
			} else {
				ps.Cards = append(ps.Cards, c.Display())
			}
		}
		state.Piles = append(state.Piles, ps)
	}
	return state
}

// CountFaceDown returns the number of hidden cards in p.
func CountFaceDown(p *Pile) int {
	n := 0
	for _, c := range p.cards {
		if !c.IsFaceUp() {
			n++
		}
	}
	return n
}

// FoundationCount returns the number of cards on the four foundations.
func FoundationCount(b *Board) int {
	n := 0
	for _, s := range Suits {
		n += b.Foundation(s).Size()
	}
	return n
}

// IsWon reports whether every foundation holds a full suit.
func IsWon(b *Board) bool {
	for _, s := range Suits {
		if b.Foundation(s).Size() != King {
			return false
		}
	}
	return true
}

// LegalMoves lists every action that would currently succeed: foundation
// moves first, then tableau moves, then discard or reset. Moves that only
// shift a whole column onto another empty column are left out. The board is
// not modified.
func LegalMoves(b *Board) []Move {
	sources := []string{MoveStock}
	for i := 1; i <= TableauCount; i++ {
		sources = append(sources, strconv.Itoa(i))
	}

	var moves []Move
	for _, id := range sources {
		from, _ := ResolveSource(id)
		if CanMoveToFoundation(b, from) {
			moves = append(moves, Move{
				Command: fmt.Sprintf("move %s %s", id, MoveSuit),
				From:    id,
				To:      MoveSuit,
				Cards:   1,
			})
		}
	}

	for _, id := range sources {
		from, _ := ResolveSource(id)
		src := b.piles[from]
		for i := 1; i <= TableauCount; i++ {
			to := TableauName(i)
			if to == from {
				continue
			}
			dst := b.piles[to]
			_, moving, err := planPileMove(src, dst)
			if err != nil {
				continue
			}
			if dst.IsEmpty() && len(moving) == src.Size() && IsTableau(from) {
				continue
			}
			moves = append(moves, Move{
				Command: fmt.Sprintf("move %s %d", id, i),
				From:    id,
				To:      strconv.Itoa(i),
				Cards:   len(moving),
			})
		}
	}

	switch {
	case !b.Stock().IsEmpty():
		moves = append(moves, Move{Command: "discard"})
	case !b.Discard().IsEmpty():
		moves = append(moves, Move{Command: "reset"})
	}
	return moves
}
