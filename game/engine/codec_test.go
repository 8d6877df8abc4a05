package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFormatPile(t *testing.T) {
	p := NewPile("PILE-2")
	p.Push(MustCard("9", "s", false))
	p.Push(MustCard("K", "h", true))
	p.Push(MustCard("Q", "s", true))

	if got := FormatPile(p, true); got != "PILE-2 [ Qs+ Kh+ 9s- ]" {
		t.Errorf("Unexpected revealed line: %q", got)
	}
	if got := FormatPile(p, false); got != "PILE-2 [ Qs Kh ?? ]" {
		t.Errorf("Unexpected hidden line: %q", got)
	}
	if got := FormatPile(NewPile("Clubs"), false); got != "Clubs [ ]" {
		t.Errorf("Unexpected empty line: %q", got)
	}
}

func TestEncodeBoardListsAllPiles(t *testing.T) {
	text := EncodeBoard(NewBoard())
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) != len(PileNames) {
		t.Fatalf("Expected %d lines, got %d", len(PileNames), len(lines))
	}
	for i, name := range PileNames {
		if lines[i] != name+" [ ]" {
			t.Errorf("Line %d: expected %q, got %q", i, name+" [ ]", lines[i])
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := StandardDeal()
	if _, err := DiscardThree(b); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}

	text := EncodeBoard(b)
	loaded, err := DecodeBoard(text)
	if err != nil {
		t.Fatalf("DecodeBoard failed: %v", err)
	}
	if !b.Equal(loaded) {
		t.Error("Decoded board differs from the original")
	}
	if EncodeBoard(loaded) != text {
		t.Error("Re-encoding produced different text")
	}

	var buf bytes.Buffer
	if err := WriteBoard(&buf, b); err != nil {
		t.Fatalf("WriteBoard failed: %v", err)
	}
	fromReader, err := ReadBoard(&buf)
	if err != nil {
		t.Fatalf("ReadBoard failed: %v", err)
	}
	if !b.Equal(fromReader) {
		t.Error("ReadBoard result differs from the original")
	}
}

func TestDecodeBoardTolerance(t *testing.T) {
	text := "\n  Stock [ 2c+ 3c- ]  \n\nPILE-4 [ Kh+ ]\n"
	b, err := DecodeBoard(text)
	if err != nil {
		t.Fatalf("DecodeBoard failed: %v", err)
	}
	if b.Stock().Size() != 2 {
		t.Errorf("Expected 2 stock cards, got %d", b.Stock().Size())
	}
	top, _ := b.Stock().Peek()
	if top.Face() != "2c" || !top.IsFaceUp() {
		t.Errorf("Expected stock top 2c face-up, got %s", top.Token())
	}
	if !b.Discard().IsEmpty() {
		t.Error("Missing pile lines should decode as empty piles")
	}
}

func TestDecodeBoardErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"missing brackets", "Stock 2c+", "line 1"},
		{"unknown pile", "Waste [ 2c+ ]", "unknown pile"},
		{"duplicate pile", "Stock [ ]\nStock [ 2c+ ]", "listed twice"},
		{"repeated card in one pile", "Stock [ Ah+ Ah+ ]", "Ah is already in Stock"},
		{"repeated card across piles", "Stock [ 5c- ]\nPILE-3 [ 5c+ ]", "line 2: 5c is already in Stock"},
		{"bad token", "Stock [ 2c* ]", "line 1"},
		{"missing visibility", "PILE-1 [ Kd ]", "line 1"},
		{"bad card on later line", "Stock [ ]\n\nPILE-1 [ Zz+ ]", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBoard(tt.text)
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("Expected ErrFormat, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error to mention %q, got %q", tt.want, err.Error())
			}
			if strings.Count(err.Error(), ErrFormat.Error()) != 1 {
				t.Errorf("Error kind repeated in %q", err.Error())
			}
		})
	}
}
