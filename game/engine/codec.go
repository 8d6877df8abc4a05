package engine

import (
	"bufio"
	"io"
	"strings"
)

// FormatPile renders a pile as "<Name> [ c1 c2 ... ]" with the top card
// first. With reveal set, cards are written as save tokens (face plus +/-);
// otherwise face-down cards are hidden as "??".
func FormatPile(p *Pile, reveal bool) string {
	var sb strings.Builder
	sb.WriteString(p.Name())
	sb.WriteString(" [ ")
	for i := len(p.cards) - 1; i >= 0; i-- {
		if reveal {
			sb.WriteString(p.cards[i].Token())
		} else {
			sb.WriteString(p.cards[i].Display())
		}
		sb.WriteByte(' ')
	}
	sb.WriteByte(']')
	return sb.String()
}

// BoardLines renders every pile in board order. See FormatPile.
func BoardLines(b *Board, reveal bool) []string {
	lines := make([]string, 0, len(b.order))
	for _, p := range b.order {
		lines = append(lines, FormatPile(p, reveal))
	}
	return lines
}

// EncodeBoard returns the save-file text of b, one line per pile.
func EncodeBoard(b *Board) string {
	return strings.Join(BoardLines(b, true), "\n") + "\n"
}

// WriteBoard writes the save-file text of b to w.
func WriteBoard(w io.Writer, b *Board) error {
	_, err := io.WriteString(w, EncodeBoard(b))
	return err
}

// DecodeBoard parses save-file text into a new board. Piles missing from the
// text are empty. Any malformed line or repeated card fails the whole decode.
func DecodeBoard(text string) (*Board, error) {
	return ReadBoard(strings.NewReader(text))
}

// ReadBoard is DecodeBoard over a reader.
func ReadBoard(r io.Reader) (*Board, error) {
	b := NewBoard()
	seen := make(map[string]bool)
	owner := make(map[string]string)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, cards, err := parsePileLine(line)
		if err != nil {
			return nil, newError(ErrFormat, "line %d: %s", lineNo, detail(err))
		}
		pile, ok := b.piles[name]
		if !ok {
			return nil, newError(ErrFormat, "line %d: unknown pile %q", lineNo, name)
		}
		if seen[name] {
			return nil, newError(ErrFormat, "line %d: pile %s listed twice", lineNo, name)
		}
		seen[name] = true
		for _, c := range cards {
			if prev, dup := owner[c.Face()]; dup {
				return nil, newError(ErrFormat, "line %d: %s is already in %s", lineNo, c.Face(), prev)
			}
			owner[c.Face()] = name
		}

		// Tokens are listed top first.
		for i := len(cards) - 1; i >= 0; i-- {
			pile.Push(cards[i])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, newError(ErrFormat, "read: %v", err)
	}
	return b, nil
}

func parsePileLine(line string) (string, []*Card, error) {
	open := strings.Index(line, " [")
	if open < 0 || !strings.HasSuffix(line, "]") {
		return "", nil, newError(ErrFormat, "expected \"<Name> [ cards ]\", got %q", line)
	}
	name := line[:open]
	body := strings.TrimSpace(line[open+2 : len(line)-1])

	var cards []*Card
	for _, tok := range strings.Fields(body) {
		c, err := ParseToken(tok)
		if err != nil {
			return "", nil, err
		}
		cards = append(cards, c)
	}
	return name, cards, nil
}
