package main

import (
	"strconv"

	"github.com/wricardo/klondike/game/engine"
)

// GreedyStrategy picks from the server's hints. Every move it makes either
// fills a foundation, empties the stock, or turns a hidden card over, so a
// game always ends; shuffling cards between columns is never tried.
type GreedyStrategy struct {
	// stale counts stock actions since the last move that made progress.
	stale int
}

func NewGreedyStrategy() *GreedyStrategy {
	return &GreedyStrategy{}
}

// Reset clears the strategy for a fresh attempt.
func (s *GreedyStrategy) Reset() {
	s.stale = 0
}

// NextMove returns the move to play, or false when the strategy is stuck.
func (s *GreedyStrategy) NextMove(state *engine.GameState, moves []engine.Move) (engine.Move, bool) {
	for _, m := range moves {
		if m.To == engine.MoveSuit {
			s.stale = 0
			return m, true
		}
	}

	for _, m := range moves {
		if m.From != engine.MoveStock && m.To != engine.MoveSuit && m.From != "" && revealsCard(state, m) {
			s.stale = 0
			return m, true
		}
	}

	for _, m := range moves {
		if m.From == engine.MoveStock && m.To != engine.MoveSuit {
			s.stale = 0
			return m, true
		}
	}

	for _, m := range moves {
		if m.Command != "discard" && m.Command != "reset" {
			continue
		}
		if s.stale > stockLimit(state) {
			return engine.Move{}, false
		}
		s.stale++
		return m, true
	}
	return engine.Move{}, false
}

// revealsCard reports whether m lifts the whole face-up run off a column
// that still has a face-down card under it.
func revealsCard(state *engine.GameState, m engine.Move) bool {
	n, err := strconv.Atoi(m.From)
	if err != nil {
		return false
	}
	pile := pileState(state, engine.TableauName(n))
	if pile == nil || pile.FaceDown == 0 {
		return false
	}
	return m.Cards == pile.Size-pile.FaceDown
}

// stockLimit is how many discards and resets may pass without progress:
// enough to cycle the whole stock through the discard pile twice.
func stockLimit(state *engine.GameState) int {
	cards := 0
	for _, name := range []string{engine.StockPile, engine.DiscardPile} {
		if p := pileState(state, name); p != nil {
			cards += p.Size
		}
	}
	return 2*(cards/3+2) + 2
}

func pileState(state *engine.GameState, name string) *engine.PileState {
	if state == nil {
		return nil
	}
	for i := range state.Piles {
		if state.Piles[i].Name == name {
			return &state.Piles[i]
		}
	}
	return nil
}
