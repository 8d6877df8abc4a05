package engine

import (
	"strconv"
	"strings"
)

// Suit is one of the four French suits.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists the suits in foundation order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the full suit name, which is also the name of its foundation pile.
func (s Suit) String() string {
	switch s {
	case Spades:
		return "Spades"
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	default:
		return "Unknown"
	}
}

// Code returns the one-letter suit code used in card tokens.
func (s Suit) Code() byte {
	switch s {
	case Spades:
		return 's'
	case Hearts:
		return 'h'
	case Diamonds:
		return 'd'
	default:
		return 'c'
	}
}

// IsRed reports whether the suit is hearts or diamonds.
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// ParseSuit maps a short suit code (s, h, d, c) to its Suit.
func ParseSuit(code string) (Suit, error) {
	switch code {
	case "s":
		return Spades, nil
	case "h":
		return Hearts, nil
	case "d":
		return Diamonds, nil
	case "c":
		return Clubs, nil
	default:
		return 0, newError(ErrInvalidInput, "suit %q is not one of s, h, d, c", code)
	}
}

const (
	Ace  = 1
	King = 13
)

// ParseRank converts a rank symbol to its value. A, T, J, Q and K are
// case-insensitive; any other symbol must be a plain number from 1 to 13,
// without a sign or leading zero.
func ParseRank(symbol string) (int, error) {
	switch strings.ToUpper(symbol) {
	case "A":
		return Ace, nil
	case "T":
		return 10, nil
	case "J":
		return 11, nil
	case "Q":
		return 12, nil
	case "K":
		return King, nil
	}
	if symbol == "" || symbol[0] < '1' || symbol[0] > '9' {
		return 0, newError(ErrInvalidInput, "rank %q is not a valid rank", symbol)
	}
	n, err := strconv.Atoi(symbol)
	if err != nil || n < Ace || n > King {
		return 0, newError(ErrInvalidInput, "rank %q is not a valid rank", symbol)
	}
	return n, nil
}

// RankSymbol returns the canonical one-character symbol for a rank value.
func RankSymbol(rank int) string {
	switch rank {
	case Ace:
		return "A"
	case 10:
		return "T"
	case 11:
		return "J"
	case 12:
		return "Q"
	case King:
		return "K"
	default:
		return strconv.Itoa(rank)
	}
}

// Card is a playing card. Rank and suit never change after construction;
// visibility is flipped by the rule engine.
type Card struct {
	rank   int
	suit   Suit
	faceUp bool
}

// NewCard builds a face-down card from a rank symbol and a suit code.
func NewCard(rank, suit string) (*Card, error) {
	r, err := ParseRank(rank)
	if err != nil {
		return nil, err
	}
	s, err := ParseSuit(suit)
	if err != nil {
		return nil, err
	}
	return &Card{rank: r, suit: s}, nil
}

// MustCard is NewCard for literals known to be valid. It panics otherwise.
func MustCard(rank, suit string, faceUp bool) *Card {
	c, err := NewCard(rank, suit)
	if err != nil {
		panic(err)
	}
	c.faceUp = faceUp
	return c
}

// ParseToken reads a persisted card token such as "Qh+" or "7c-".
func ParseToken(tok string) (*Card, error) {
	if len(tok) < 3 {
		return nil, newError(ErrFormat, "card token %q is too short", tok)
	}
	vis := tok[len(tok)-1]
	if vis != '+' && vis != '-' {
		return nil, newError(ErrFormat, "card token %q has no +/- visibility marker", tok)
	}
	body := tok[:len(tok)-1]
	c, err := NewCard(body[:len(body)-1], body[len(body)-1:])
	if err != nil {
		return nil, newError(ErrFormat, "card token %q: %s", tok, detail(err))
	}
	c.faceUp = vis == '+'
	return c, nil
}

func (c *Card) Rank() int        { return c.rank }
func (c *Card) Suit() Suit       { return c.suit }
func (c *Card) SuitName() string { return c.suit.String() }
func (c *Card) IsFaceUp() bool   { return c.faceUp }

func (c *Card) SetFaceUp(faceUp bool) {
	c.faceUp = faceUp
}

// Face returns the rank symbol and suit code regardless of visibility.
func (c *Card) Face() string {
	return RankSymbol(c.rank) + string(c.suit.Code())
}

// Display returns the face for a face-up card and "??" otherwise.
func (c *Card) Display() string {
	if !c.faceUp {
		return "??"
	}
	return c.Face()
}

// Token returns the persisted form: face plus a visibility marker.
func (c *Card) Token() string {
	if c.faceUp {
		return c.Face() + "+"
	}
	return c.Face() + "-"
}

func (c *Card) String() string {
	return c.Display()
}

func (c *Card) clone() *Card {
	cp := *c
	return &cp
}
