package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/klondike/game/command"
	"github.com/wricardo/klondike/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	DealName       string            `json:"deal_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a single action. Rule rejections are
// reported here with Success false rather than as an error.
type MoveResult struct {
	Success   bool              `json:"success"`
	Action    string            `json:"action"`
	Cards     int               `json:"cards"`
	Code      string            `json:"code,omitempty"` // engine error code when Success is false
	Message   string            `json:"message"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// CommandResult is the outcome of a text command run through the dispatcher.
type CommandResult struct {
	Success   bool              `json:"success"`
	Command   string            `json:"command"`
	Lines     []string          `json:"lines"`
	Code      string            `json:"code,omitempty"`
	Message   string            `json:"message,omitempty"`
	Done      bool              `json:"done,omitempty"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// HintsResponse lists the actions that would currently succeed.
type HintsResponse struct {
	Moves []engine.Move `json:"moves"`
	Won   bool          `json:"won"`
}

// Event types.
const (
	EventMove     = "move"
	EventDiscard  = "discard"
	EventReset    = "reset"
	EventRestart  = "restart"
	EventLoad     = "load"
	EventVictory  = "victory"
	EventDeleted  = "session_deleted"
	EventCreated  = "session_created"
	EventRejected = "rejected"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	Cards     int       `json:"cards,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewGameEvent stamps an event with a fresh ID and the current time.
func NewGameEvent(sessionID, eventType, message string) GameEvent {
	return GameEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		SessionID: sessionID,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// DealInfo provides information about a starting board
type DealInfo struct {
	Filename        string `json:"filename,omitempty"`
	DealID          string `json:"deal_id"` // The identifier to use for session creation
	BuiltIn         bool   `json:"built_in"`
	StockCards      int    `json:"stock_cards"`
	FaceDownCards   int    `json:"face_down_cards"`
	FoundationCards int    `json:"foundation_cards"`
}

// Rules describes the game for clients that need it spelled out.
type Rules struct {
	Piles    []string       `json:"piles"`
	MoveIDs  []string       `json:"move_ids"`
	Commands []command.Spec `json:"commands"`
	Text     string         `json:"text"`
}

// GameRules returns the rules summary served over the API and MCP.
func GameRules() *Rules {
	return &Rules{
		Piles:    engine.PileNames,
		MoveIDs:  engine.MoveTargets(),
		Commands: command.Specs,
		Text: `Klondike with a three-card draw.
Tableau columns PILE-1..PILE-7 are built down regardless of color; only a King may start an empty column.
Foundations (Spades, Hearts, Diamonds, Clubs) are built up in suit from the Ace.
"discard" deals three cards from the stock to the discard pile. A pair keeps its visibility, a single card lands face-down.
"reset" returns the discard pile to the stock once the stock is empty.
Moves name columns 1-7 or "stock" as the source, and 1-7 or "suit" as the destination.
The game is won when all four foundations hold thirteen cards.`,
	}
}
