// Command analyze prints quick, human-readable heuristics about deal and save
// files: pile sizes, hidden cards, foundation progress and the moves
// available right now.
//
// Usage: analyze [file.txt ...]  (defaults to deals/*.txt)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	colorize "github.com/fatih/color"

	"github.com/wricardo/klondike/game/engine"
)

// PileSummary is one row of the pile table.
type PileSummary struct {
	Name     string
	Size     int
	FaceDown int
	Top      string
}

// Analysis is everything reported for one board.
type Analysis struct {
	Piles           []PileSummary
	Hidden          int
	FoundationCards int
	Won             bool
	Moves           []engine.Move
	Problems        []string
}

func analyzeBoard(b *engine.Board) Analysis {
	a := Analysis{
		FoundationCards: engine.FoundationCount(b),
		Won:             engine.IsWon(b),
		Moves:           engine.LegalMoves(b),
		Problems:        engine.CheckBoard(b),
	}
	for _, p := range b.Piles() {
		top := "-"
		if c, ok := p.Peek(); ok {
			top = c.Display()
		}
		down := engine.CountFaceDown(p)
		a.Hidden += down
		a.Piles = append(a.Piles, PileSummary{Name: p.Name(), Size: p.Size(), FaceDown: down, Top: top})
	}
	return a
}

func printAnalysis(out io.Writer, a Analysis) {
	for _, p := range a.Piles {
		fmt.Fprintf(out, "%-9s %2d cards  %2d hidden  top %s\n", p.Name, p.Size, p.FaceDown, p.Top)
	}
	fmt.Fprintf(out, "Hidden cards: %d\n", a.Hidden)
	fmt.Fprintf(out, "Foundations: %d/%d\n", a.FoundationCards, engine.DeckSize)

	if len(a.Problems) > 0 {
		fmt.Fprintln(out, colorize.YellowString("⚠️  WARNING: %d problems, this is not a playable deal", len(a.Problems)))
		for i, p := range a.Problems {
			if i < 5 {
				fmt.Fprintf(out, "   %s\n", p)
			}
		}
		if len(a.Problems) > 5 {
			fmt.Fprintf(out, "   ... and %d more\n", len(a.Problems)-5)
		}
	}

	switch {
	case a.Won:
		fmt.Fprintln(out, colorize.GreenString("✅ Game is won"))
	case len(a.Moves) == 0:
		fmt.Fprintln(out, colorize.RedString("⚠️  CRITICAL: no moves available"))
	default:
		fmt.Fprintf(out, "Available moves (%d):\n", len(a.Moves))
		for _, m := range a.Moves {
			fmt.Fprintf(out, "   %s\n", m.Command)
		}
	}
}

func analyzeFile(out io.Writer, path string) error {
	b, err := engine.LoadBoardFile(path)
	if err != nil {
		return err
	}
	printAnalysis(out, analyzeBoard(b))
	return nil
}

func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		files, _ = filepath.Glob(filepath.Join("deals", "*.txt"))
		sort.Strings(files)
	}
	if len(files) == 0 {
		fmt.Println("No deal files given and none found in deals/")
		os.Exit(1)
	}

	for _, f := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(f))
		if err := analyzeFile(os.Stdout, f); err != nil {
			fmt.Printf("Error reading file: %v\n", err)
		}
	}
}
