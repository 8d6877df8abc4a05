package engine

import (
	"errors"
	"strings"
	"testing"
)

func newTestEngine(t *testing.T, lines ...string) *GameEngine {
	t.Helper()
	e, err := NewEngine("test", testBoard(t, lines...))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	if _, err := NewEngine("nil", nil); err == nil {
		t.Error("Expected error for nil deal")
	}

	deal := StandardDeal()
	e, err := NewEngine("standard", deal)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if e.DealName() != "standard" {
		t.Errorf("Expected deal name standard, got %s", e.DealName())
	}
	if e.Board() == deal {
		t.Error("Engine should play on a copy of the deal")
	}

	state := e.GetState(false)
	if state.CardCount != DeckSize {
		t.Errorf("Expected %d cards, got %d", DeckSize, state.CardCount)
	}
	if state.Won {
		t.Error("A fresh deal should not be won")
	}
	if state.Message == "" {
		t.Error("Expected a welcome message")
	}
}

func TestEngineMoveToSuit(t *testing.T) {
	e := newTestEngine(t, "PILE-1 [ As+ 3s- ]")

	n, err := e.Move("1", "suit")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 card moved, got %d", n)
	}
	if got := pileLine(t, e.Board(), "Spades"); got != "Spades [ As+ ]" {
		t.Errorf("Unexpected Spades: %q", got)
	}
	if got := pileLine(t, e.Board(), "PILE-1"); got != "PILE-1 [ 3s+ ]" {
		t.Errorf("Unexpected PILE-1: %q", got)
	}

	// 3s cannot follow the ace.
	if _, err := e.Move("1", "suit"); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Expected ErrIllegalMove, got %v", err)
	}
	if got := pileLine(t, e.Board(), "PILE-1"); got != "PILE-1 [ 3s+ ]" {
		t.Errorf("Rejected move changed PILE-1: %q", got)
	}
}

func TestEngineMoveVocabulary(t *testing.T) {
	e := newTestEngine(t, "Stock [ 6d+ ]", "PILE-1 [ 7s+ ]")

	tests := []struct {
		from, to string
		want     error
	}{
		{"suit", "1", ErrIllegalMove},
		{"9", "1", ErrUnknownPile},
		{"1", "waste", ErrUnknownPile},
		{"1", "stock", ErrIllegalMove},
		{"1", "1", ErrIllegalMove},
		{"3", "1", ErrEmptySource},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if _, err := e.Move(tt.from, tt.to); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if n, err := e.Move("stock", "1"); err != nil || n != 1 {
		t.Fatalf("Expected stock to 1 to move one card, got %d, %v", n, err)
	}
	if !strings.Contains(e.GetState(false).Message, "PILE-1") {
		t.Errorf("Unexpected message: %q", e.GetState(false).Message)
	}
}

func TestEngineHistory(t *testing.T) {
	e := newTestEngine(t, "Stock [ Ah+ 2h- 3h- ]")

	if e.GetLastMove() != nil {
		t.Error("Expected no last move on a fresh engine")
	}

	if _, err := e.Discard(); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if _, err := e.Discard(); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("Expected ErrEmptySource, got %v", err)
	}

	history := e.GetMoveHistory()
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	if !history[0].Success || history[0].Cards != 3 || history[0].Action != "discard" {
		t.Errorf("Unexpected first entry: %+v", history[0])
	}
	last := e.GetLastMove()
	if last.Success || last.Code != "empty_source" || last.MoveNumber != 2 {
		t.Errorf("Unexpected last entry: %+v", last)
	}
	if e.GetState(false).TotalMoves != 2 {
		t.Errorf("Expected 2 total moves, got %d", e.GetState(false).TotalMoves)
	}

	restored := newTestEngine(t)
	restored.RestoreHistory(history)
	if restored.GetState(false).TotalMoves != 2 || len(restored.GetMoveHistory()) != 2 {
		t.Error("RestoreHistory did not carry the move count")
	}
}

func TestEngineResetAndRestart(t *testing.T) {
	e := newTestEngine(t, "Stock [ Ah+ 2h- ]")

	if _, err := e.ResetStock(); !errors.Is(err, ErrNotEmpty) {
		t.Fatalf("Expected ErrNotEmpty, got %v", err)
	}
	if _, err := e.Discard(); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if n, err := e.ResetStock(); err != nil || n != 2 {
		t.Fatalf("Expected reset of 2 cards, got %d, %v", n, err)
	}

	if _, err := e.Discard(); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	state := e.Restart()
	if state.Piles[0].Size != 2 || state.Piles[1].Size != 0 {
		t.Errorf("Restart should restore the deal, got stock %d discard %d",
			state.Piles[0].Size, state.Piles[1].Size)
	}
}

func TestEngineSaveLoad(t *testing.T) {
	e := newTestEngine(t, "Stock [ Ah+ 2h- 3h- 4h- ]", "PILE-1 [ Kc+ ]")
	if _, err := e.Discard(); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	saved := e.Save()

	other := newTestEngine(t)
	if err := other.Load(saved); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !other.Board().Equal(e.Board()) {
		t.Error("Loaded board differs from the saved one")
	}

	before := other.Save()
	if err := other.Load("Stock [ garbage ]"); !errors.Is(err, ErrFormat) {
		t.Fatalf("Expected ErrFormat, got %v", err)
	}
	if other.Save() != before {
		t.Error("A failed load must leave the board untouched")
	}

	if err := other.Load("Stock [ Ah+ Ah+ ]"); !errors.Is(err, ErrFormat) {
		t.Fatalf("Expected ErrFormat for a repeated card, got %v", err)
	}
	if other.Save() != before {
		t.Error("A rejected repeated card must leave the board untouched")
	}
}

func TestEngineWinMessage(t *testing.T) {
	var lines []string
	for _, s := range Suits {
		if s == Clubs {
			continue
		}
		var toks []string
		for r := King; r >= Ace; r-- {
			toks = append(toks, RankSymbol(r)+string(s.Code())+"+")
		}
		lines = append(lines, s.String()+" [ "+strings.Join(toks, " ")+" ]")
	}
	var clubs []string
	for r := King - 1; r >= Ace; r-- {
		clubs = append(clubs, RankSymbol(r)+"c+")
	}
	lines = append(lines, "Clubs [ "+strings.Join(clubs, " ")+" ]", "PILE-5 [ Kc+ ]")

	e := newTestEngine(t, lines...)
	if e.IsWon() {
		t.Fatal("Game should not be won yet")
	}
	if _, err := e.Move("5", "suit"); err != nil {
		t.Fatalf("Final move failed: %v", err)
	}
	if !e.IsWon() {
		t.Error("Expected the game to be won")
	}
	if !strings.Contains(e.GetState(false).Message, "win") {
		t.Errorf("Expected a win message, got %q", e.GetState(false).Message)
	}
}
