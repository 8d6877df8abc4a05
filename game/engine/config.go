package engine

import (
	"fmt"
	"os"
	"strings"
)

// ValidateDeal checks that b is a complete, well-formed Klondike position:
// 52 distinct cards, foundations built up in suit from the Ace, and every
// tableau column showing a face-down prefix under a strictly descending
// face-up run.
func ValidateDeal(b *Board) error {
	if problems := CheckBoard(b); len(problems) > 0 {
		return fmt.Errorf("deal validation: %s", problems[0])
	}
	return nil
}

// CheckBoard returns every rule violation found in b, in pile order.
func CheckBoard(b *Board) []string {
	var problems []string

	if n := b.CardCount(); n != DeckSize {
		problems = append(problems, fmt.Sprintf("board holds %d cards, want %d", n, DeckSize))
	}

	seen := make(map[string]string)
	for _, p := range b.order {
		for _, c := range p.cards {
			face := c.Face()
			if prev, dup := seen[face]; dup {
				problems = append(problems, fmt.Sprintf("%s appears in both %s and %s", face, prev, p.Name()))
				continue
			}
			seen[face] = p.Name()
		}
	}

	for _, s := range Suits {
		f := b.Foundation(s)
		for i, c := range f.cards {
			if c.Suit() != s {
				problems = append(problems, fmt.Sprintf("%s holds %s", f.Name(), c.Face()))
				break
			}
			if c.Rank() != i+1 {
				problems = append(problems, fmt.Sprintf("%s position %d holds %s, want rank %s",
					f.Name(), i+1, c.Face(), RankSymbol(i+1)))
				break
			}
		}
	}

	for i := 1; i <= TableauCount; i++ {
		p := b.piles[TableauName(i)]
		problems = append(problems, checkTableau(p)...)
	}

	return problems
}

func checkTableau(p *Pile) []string {
	var problems []string
	faceUp := false
	for i, c := range p.cards {
		if c.IsFaceUp() {
			if faceUp {
				prev := p.cards[i-1]
				if c.Rank() >= prev.Rank() {
					problems = append(problems, fmt.Sprintf("%s: %s on %s is not descending", p.Name(), c.Face(), prev.Face()))
				}
			}
			faceUp = true
			continue
		}
		if faceUp {
			problems = append(problems, fmt.Sprintf("%s: face-down %s above a face-up card", p.Name(), c.Face()))
		}
	}
	if top, ok := p.Peek(); ok && !top.IsFaceUp() {
		problems = append(problems, fmt.Sprintf("%s: top card is face-down", p.Name()))
	}
	return problems
}

// LoadBoardFile reads a save-format file from disk.
func LoadBoardFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return DecodeBoard(string(data))
}

// SaveBoardFile writes b in save format. The file name must end in .txt.
func SaveBoardFile(path string, b *Board) error {
	if !strings.HasSuffix(path, ".txt") {
		return newError(ErrInvalidInput, "save file %q must end with .txt", path)
	}
	if err := os.WriteFile(path, []byte(EncodeBoard(b)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
