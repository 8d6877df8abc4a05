package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/klondike/game/engine"
)

func TestAnalyzeBoard_Standard(t *testing.T) {
	a := analyzeBoard(engine.StandardDeal())

	if len(a.Piles) != len(engine.PileNames) {
		t.Fatalf("Expected %d piles, got %d", len(engine.PileNames), len(a.Piles))
	}
	// 23 face-down in the stock plus 0+1+...+6 in the tableau.
	if a.Hidden != 23+21 {
		t.Errorf("Expected 44 hidden cards, got %d", a.Hidden)
	}
	if a.FoundationCards != 0 || a.Won {
		t.Error("Expected an unplayed board")
	}
	if len(a.Problems) != 0 {
		t.Errorf("Expected no problems, got %v", a.Problems)
	}
	if len(a.Moves) == 0 {
		t.Error("Expected at least the discard move")
	}
}

func TestAnalyzeBoard_EmptyPileTop(t *testing.T) {
	a := analyzeBoard(engine.NewBoard())
	for _, p := range a.Piles {
		if p.Top != "-" {
			t.Errorf("Expected '-' for empty %s, got %s", p.Name, p.Top)
		}
	}
	if len(a.Problems) == 0 {
		t.Error("Expected an empty board to be reported as unplayable")
	}
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	printAnalysis(&buf, analyzeBoard(engine.StandardDeal()))
	out := buf.String()

	for _, want := range []string{"Stock", "PILE-7", "Hidden cards: 44", "Foundations: 0/52", "Available moves", "discard"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrintAnalysis_Stuck(t *testing.T) {
	var buf bytes.Buffer
	printAnalysis(&buf, analyzeBoard(engine.NewBoard()))

	if !strings.Contains(buf.String(), "no moves available") {
		t.Errorf("Expected the stuck banner:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "not a playable deal") {
		t.Errorf("Expected the problem warning:\n%s", buf.String())
	}
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deal.txt")
	if err := os.WriteFile(path, []byte("PILE-1 [ As+ ]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := analyzeFile(&buf, path); err != nil {
		t.Fatalf("analyzeFile failed: %v", err)
	}
	if !strings.Contains(buf.String(), "move 1 suit") {
		t.Errorf("Expected the foundation move:\n%s", buf.String())
	}

	if err := analyzeFile(&buf, filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
