package engine

import (
	"strings"
	"testing"
)

// testBoard decodes save-format lines (top card first) into a board.
func testBoard(t *testing.T, lines ...string) *Board {
	t.Helper()
	b, err := DecodeBoard(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("Failed to decode test board: %v", err)
	}
	return b
}

// pileLine returns the save-format line of one pile.
func pileLine(t *testing.T, b *Board, name string) string {
	t.Helper()
	p, err := b.Pile(name)
	if err != nil {
		t.Fatalf("Pile(%s) failed: %v", name, err)
	}
	return FormatPile(p, true)
}
