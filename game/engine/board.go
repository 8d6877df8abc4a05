package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Pile names, in save-file order.
const (
	StockPile   = "Stock"
	DiscardPile = "Discard"
)

// TableauCount is the number of tableau columns.
const TableauCount = 7

// Move vocabulary accepted by ResolveSource and ResolveTarget.
const (
	MoveStock = "stock"
	MoveSuit  = "suit"
)

// PileNames lists all thirteen piles in their fixed order.
var PileNames = []string{
	StockPile, DiscardPile,
	"Spades", "Hearts", "Diamonds", "Clubs",
	"PILE-1", "PILE-2", "PILE-3", "PILE-4", "PILE-5", "PILE-6", "PILE-7",
}

// TableauName returns the pile name of tableau column n (1-based).
func TableauName(n int) string {
	return fmt.Sprintf("PILE-%d", n)
}

// IsTableau reports whether name is one of the tableau columns.
func IsTableau(name string) bool {
	n, ok := strings.CutPrefix(name, "PILE-")
	if !ok {
		return false
	}
	i, err := strconv.Atoi(n)
	return err == nil && i >= 1 && i <= TableauCount
}

// IsFoundation reports whether name is one of the four suit piles.
func IsFoundation(name string) bool {
	for _, s := range Suits {
		if s.String() == name {
			return true
		}
	}
	return false
}

// Board owns the thirteen piles of a game.
type Board struct {
	piles map[string]*Pile
	order []*Pile
}

// NewBoard returns a board with every pile empty.
func NewBoard() *Board {
	b := &Board{piles: make(map[string]*Pile, len(PileNames))}
	for _, name := range PileNames {
		p := NewPile(name)
		b.piles[name] = p
		b.order = append(b.order, p)
	}
	return b
}

// Pile looks up a pile by its exact name.
func (b *Board) Pile(name string) (*Pile, error) {
	p, ok := b.piles[name]
	if !ok {
		return nil, newError(ErrUnknownPile, "%q", name)
	}
	return p, nil
}

// Piles returns the piles in save-file order.
func (b *Board) Piles() []*Pile {
	out := make([]*Pile, len(b.order))
	copy(out, b.order)
	return out
}

func (b *Board) Stock() *Pile   { return b.piles[StockPile] }
func (b *Board) Discard() *Pile { return b.piles[DiscardPile] }

// Foundation returns the pile that collects suit.
func (b *Board) Foundation(suit Suit) *Pile {
	return b.piles[suit.String()]
}

// Tableau returns column n, 1 through 7.
func (b *Board) Tableau(n int) (*Pile, error) {
	if n < 1 || n > TableauCount {
		return nil, newError(ErrUnknownPile, "tableau column %d", n)
	}
	return b.piles[TableauName(n)], nil
}

// MoveTargets returns the identifiers accepted by the move command.
func MoveTargets() []string {
	ids := make([]string, 0, TableauCount+2)
	for i := 1; i <= TableauCount; i++ {
		ids = append(ids, strconv.Itoa(i))
	}
	return append(ids, MoveStock, MoveSuit)
}

// ResolveSource maps a move identifier to the pile a card is taken from.
// The foundation sentinel is not a valid source.
func ResolveSource(id string) (string, error) {
	if id == MoveSuit {
		return "", newError(ErrIllegalMove, "cannot move a card out of a foundation")
	}
	return resolveID(id)
}

// ResolveTarget maps a move identifier to a destination pile name. The
// foundation sentinel resolves to MoveSuit; the caller routes it by suit.
func ResolveTarget(id string) (string, error) {
	if id == MoveSuit {
		return MoveSuit, nil
	}
	return resolveID(id)
}

func resolveID(id string) (string, error) {
	if id == MoveStock {
		return StockPile, nil
	}
	if n, err := strconv.Atoi(id); err == nil && n >= 1 && n <= TableauCount {
		return TableauName(n), nil
	}
	return "", newError(ErrUnknownPile, "%q is not one of %s", id, strings.Join(MoveTargets(), ", "))
}

// CardCount returns the number of cards on the board.
func (b *Board) CardCount() int {
	n := 0
	for _, p := range b.order {
		n += p.Size()
	}
	return n
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cp := &Board{piles: make(map[string]*Pile, len(b.order))}
	for _, p := range b.order {
		pc := p.clone()
		cp.piles[pc.name] = pc
		cp.order = append(cp.order, pc)
	}
	return cp
}

// Equal reports whether both boards hold the same cards in the same order
// with the same visibility.
func (b *Board) Equal(other *Board) bool {
	if other == nil {
		return false
	}
	for _, p := range b.order {
		q, ok := other.piles[p.name]
		if !ok || q.Size() != p.Size() {
			return false
		}
		for i, c := range p.cards {
			if c.Token() != q.cards[i].Token() {
				return false
			}
		}
	}
	return true
}
