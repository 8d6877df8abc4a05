package engine

const (
	// DeckSize is the number of cards in a full deal.
	DeckSize = 52

	// MaxHistory caps the move log kept per engine.
	MaxHistory = 1000
)

// PileState is the JSON view of one pile.
type PileState struct {
	Name     string   `json:"name"`
	Cards    []string `json:"cards"` // bottom to top
	Size     int      `json:"size"`
	FaceDown int      `json:"face_down"`
}

// GameState is a JSON snapshot of a board. Face-down cards are hidden as
// "??" unless Revealed is set.
type GameState struct {
	DealName        string      `json:"deal_name"`
	Piles           []PileState `json:"piles"`
	Lines           []string    `json:"lines"` // top card first, as printed by the board command
	CardCount       int         `json:"card_count"`
	FoundationCards int         `json:"foundation_cards"`
	Won             bool        `json:"won"`
	Revealed        bool        `json:"revealed"`
	Message         string      `json:"message"`
	TotalMoves      int         `json:"total_moves"`
}

// MoveHistoryEntry records one attempted action. The log is informational;
// entries cannot be replayed backwards.
type MoveHistoryEntry struct {
	Action     string `json:"action"`
	Success    bool   `json:"success"`
	Cards      int    `json:"cards"`
	Code       string `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
	Timestamp  int64  `json:"timestamp"`
	MoveNumber int    `json:"move_number"`
}

// Move is a legal action found by LegalMoves, expressed in the move
// vocabulary (From and To are "1".."7", "stock" or "suit").
type Move struct {
	Command string `json:"command"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Cards   int    `json:"cards,omitempty"`
}
