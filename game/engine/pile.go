package engine

// Pile is a named LIFO stack of cards. It performs no rule checks.
type Pile struct {
	name  string
	cards []*Card
}

// NewPile returns an empty pile.
func NewPile(name string) *Pile {
	return &Pile{name: name}
}

func (p *Pile) Name() string { return p.name }

func (p *Pile) Size() int { return len(p.cards) }

func (p *Pile) IsEmpty() bool { return len(p.cards) == 0 }

// Push places card on top of the pile.
func (p *Pile) Push(card *Card) {
	p.cards = append(p.cards, card)
}

// Pop removes and returns the top card. ok is false when the pile is empty.
func (p *Pile) Pop() (card *Card, ok bool) {
	if len(p.cards) == 0 {
		return nil, false
	}
	last := len(p.cards) - 1
	card = p.cards[last]
	p.cards[last] = nil
	p.cards = p.cards[:last]
	return card, true
}

// Peek returns the top card without removing it.
func (p *Pile) Peek() (card *Card, ok bool) {
	if len(p.cards) == 0 {
		return nil, false
	}
	return p.cards[len(p.cards)-1], true
}

// TopRank returns the rank of the top card, or 0 for an empty pile.
func (p *Pile) TopRank() int {
	if top, ok := p.Peek(); ok {
		return top.Rank()
	}
	return 0
}

// Cards returns the cards bottom to top. The slice is a copy; the cards are not.
func (p *Pile) Cards() []*Card {
	out := make([]*Card, len(p.cards))
	copy(out, p.cards)
	return out
}

// revealTop turns the top card face-up, if there is one.
func (p *Pile) revealTop() {
	if top, ok := p.Peek(); ok {
		top.SetFaceUp(true)
	}
}

// faceUpRun returns the length of the contiguous face-up suffix.
func (p *Pile) faceUpRun() int {
	n := 0
	for i := len(p.cards) - 1; i >= 0 && p.cards[i].IsFaceUp(); i-- {
		n++
	}
	return n
}

func (p *Pile) clone() *Pile {
	cp := &Pile{name: p.name, cards: make([]*Card, len(p.cards))}
	for i, c := range p.cards {
		cp.cards[i] = c.clone()
	}
	return cp
}
