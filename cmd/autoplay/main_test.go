package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/klondike/api"
	"github.com/wricardo/klondike/game/config"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
	"github.com/wricardo/klondike/game/session"
)

// endgameDeal is one move from a win: the King of spades sits on PILE-1.
func endgameDeal() string {
	var sb strings.Builder
	sb.WriteString("PILE-1 [ Ks+ ]\n")
	for _, suit := range []string{"Spades", "Hearts", "Diamonds", "Clubs"} {
		top := engine.King
		if suit == "Spades" {
			top = engine.King - 1
		}
		sb.WriteString(suit + " [ ")
		for r := top; r >= engine.Ace; r-- {
			sb.WriteString(engine.RankSymbol(r) + strings.ToLower(suit[:1]) + "+ ")
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "endgame.txt"), []byte(endgameDeal()), 0644); err != nil {
		t.Fatal(err)
	}
	deals, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create deal manager: %v", err)
	}

	svc := service.NewGameService(session.NewManager(), deals)
	ts := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(ts.Close)
	return ts
}

func TestRun_WinsEndgame(t *testing.T) {
	ts := startServer(t)

	out, err := Run(context.Background(), NewClient(ts.URL+"/"), Config{DealID: "endgame", MaxMoves: 10})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !out.Won {
		t.Fatal("Expected a win")
	}
	if out.Moves != 1 {
		t.Errorf("Expected 1 move, got %d", out.Moves)
	}
	if out.SessionID == "" {
		t.Error("Expected a session ID")
	}
}

func TestRun_TerminatesOnStandardDeal(t *testing.T) {
	ts := startServer(t)

	out, err := Run(context.Background(), NewClient(ts.URL), Config{DealID: "standard", MaxMoves: 2000})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Moves == 0 || out.Moves >= 2000 {
		t.Errorf("Expected the strategy to stop on its own, played %d moves", out.Moves)
	}
	if out.State == nil || out.State.CardCount != engine.DeckSize {
		t.Error("Expected a final state with every card")
	}
}

func TestRun_ResumeAndRestart(t *testing.T) {
	ts := startServer(t)

	client := NewClient(ts.URL)
	if _, err := client.CreateSession(context.Background(), "endgame"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Play(context.Background(), engine.Move{Command: "move 1 suit", From: "1", To: "suit"}); err != nil {
		t.Fatal(err)
	}

	out, err := Run(context.Background(), NewClient(ts.URL), Config{SessionID: client.sessionID, Restart: true, MaxMoves: 10})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !out.Won || out.Moves != 1 {
		t.Errorf("Expected the restarted game to be won again in 1 move, got won=%v moves=%d", out.Won, out.Moves)
	}
}

func TestRun_Errors(t *testing.T) {
	ts := startServer(t)

	if _, err := Run(context.Background(), NewClient(ts.URL), Config{DealID: "missing", MaxMoves: 10}); err == nil {
		t.Error("Expected an error for an unknown deal")
	}
	if _, err := Run(context.Background(), NewClient(ts.URL), Config{SessionID: "zzzz", MaxMoves: 10}); err == nil {
		t.Error("Expected an error for an unknown session")
	}
}

func TestClient_PlayRejected(t *testing.T) {
	ts := startServer(t)
	client := NewClient(ts.URL)
	if _, err := client.CreateSession(context.Background(), "endgame"); err != nil {
		t.Fatal(err)
	}

	state, err := client.Play(context.Background(), engine.Move{Command: "move 2 suit", From: "2", To: "suit"})
	if err == nil || !strings.Contains(err.Error(), "empty_source") {
		t.Errorf("Expected an empty_source rejection, got %v", err)
	}
	if state == nil {
		t.Error("Expected the unchanged state with a rejection")
	}
}

func TestClient_ServerDown(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	if _, err := NewClient(ts.URL).CreateSession(context.Background(), ""); err == nil {
		t.Error("Expected an error when the server is down")
	}
}
