package engine

import (
	"fmt"
	"time"
)

// Engine is the per-session game contract used by the command dispatcher
// and the service layer. Move identifiers use the move vocabulary
// ("1".."7", "stock", "suit").
type Engine interface {
	Board() *Board
	GetState(reveal bool) *GameState
	DealName() string
	Deal() *Board

	Move(from, to string) (int, error)
	Discard() (int, error)
	ResetStock() (int, error)
	Restart() *GameState

	Save() string
	Load(text string) error
	SetBoard(b *Board) error

	Hints() []Move
	IsWon() bool

	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements Engine over a single Board.
type GameEngine struct {
	board    *Board
	deal     *Board
	dealName string
	message  string
	history  []MoveHistoryEntry
	total    int
}

var _ Engine = (*GameEngine)(nil)

// NewEngine starts a game from a copy of deal.
func NewEngine(dealName string, deal *Board) (*GameEngine, error) {
	if deal == nil {
		return nil, fmt.Errorf("deal cannot be nil")
	}
	return &GameEngine{
		board:    deal.Clone(),
		deal:     deal.Clone(),
		dealName: dealName,
		message:  "Welcome to Klondike!",
	}, nil
}

// Board returns the live board. Callers outside the engine must not mutate it.
func (e *GameEngine) Board() *Board {
	return e.board
}

// DealName returns the name of the deal this game started from.
func (e *GameEngine) DealName() string {
	return e.dealName
}

// Deal returns a copy of the starting board Restart goes back to.
func (e *GameEngine) Deal() *Board {
	return e.deal.Clone()
}

// GetState returns a snapshot of the board.
func (e *GameEngine) GetState(reveal bool) *GameState {
	state := Snapshot(e.board, reveal)
	state.DealName = e.dealName
	state.Message = e.message
	state.TotalMoves = e.total
	return state
}

// Move moves cards between piles named in the move vocabulary. A target of
// "suit" routes the source's top card to its foundation.
func (e *GameEngine) Move(from, to string) (int, error) {
	action := fmt.Sprintf("move %s %s", from, to)

	src, err := ResolveSource(from)
	if err != nil {
		return 0, e.record(action, 0, err)
	}
	dst, err := ResolveTarget(to)
	if err != nil {
		return 0, e.record(action, 0, err)
	}

	if dst == MoveSuit {
		top, _ := e.board.piles[src].Peek()
		if err := MoveToFoundation(e.board, src); err != nil {
			return 0, e.record(action, 0, err)
		}
		e.message = fmt.Sprintf("Moved %s from %s to %s", top.Face(), src, top.SuitName())
		if IsWon(e.board) {
			e.message = "All foundations complete. You win!"
		}
		return 1, e.record(action, 1, nil)
	}

	n, err := MoveToPile(e.board, src, dst)
	if err != nil {
		return 0, e.record(action, 0, err)
	}
	e.message = fmt.Sprintf("Moved %d card(s) from %s to %s", n, src, dst)
	return n, e.record(action, n, nil)
}

// Discard deals up to three stock cards onto the discard pile.
func (e *GameEngine) Discard() (int, error) {
	n, err := DiscardThree(e.board)
	if err != nil {
		return 0, e.record("discard", 0, err)
	}
	e.message = fmt.Sprintf("Discarded %d card(s)", n)
	return n, e.record("discard", n, nil)
}

// ResetStock returns the discard pile to the empty stock.
func (e *GameEngine) ResetStock() (int, error) {
	n, err := ResetStock(e.board)
	if err != nil {
		return 0, e.record("reset", 0, err)
	}
	e.message = fmt.Sprintf("Stock refilled with %d card(s)", n)
	return n, e.record("reset", n, nil)
}

// Restart puts the board back to the starting deal. The move log is kept.
func (e *GameEngine) Restart() *GameState {
	e.board = e.deal.Clone()
	e.message = "Game restarted"
	e.record("restart", 0, nil)
	return e.GetState(false)
}

// Save returns the board in save-file format.
func (e *GameEngine) Save() string {
	return EncodeBoard(e.board)
}

// Load replaces the board with one parsed from save-file text. On any error
// the current board is left as it was.
func (e *GameEngine) Load(text string) error {
	b, err := DecodeBoard(text)
	if err != nil {
		return e.record("load", 0, err)
	}
	e.board = b
	e.message = "Game loaded"
	return e.record("load", b.CardCount(), nil)
}

// SetBoard swaps in b, used when restoring persisted sessions.
func (e *GameEngine) SetBoard(b *Board) error {
	if b == nil {
		return fmt.Errorf("board cannot be nil")
	}
	e.board = b
	return nil
}

// RestoreHistory replaces the move log, used when restoring persisted sessions.
func (e *GameEngine) RestoreHistory(history []MoveHistoryEntry) {
	e.history = append([]MoveHistoryEntry(nil), history...)
	if n := len(history); n > 0 {
		e.total = history[n-1].MoveNumber
	}
}

// Hints lists the actions that would currently succeed.
func (e *GameEngine) Hints() []Move {
	return LegalMoves(e.board)
}

// IsWon reports whether all four foundations are complete.
func (e *GameEngine) IsWon() bool {
	return IsWon(e.board)
}

// GetMoveHistory returns the move log, oldest first.
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the most recent entry, or nil if nothing was played.
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

func (e *GameEngine) record(action string, cards int, err error) error {
	e.total++
	entry := MoveHistoryEntry{
		Action:     action,
		Success:    err == nil,
		Cards:      cards,
		Timestamp:  time.Now().Unix(),
		MoveNumber: e.total,
	}
	if err != nil {
		entry.Error = err.Error()
		entry.Code = ErrorCode(err)
		e.message = err.Error()
	}
	e.history = append(e.history, entry)
	if len(e.history) > MaxHistory {
		e.history = e.history[len(e.history)-MaxHistory:]
	}
	return err
}
