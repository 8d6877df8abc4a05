package service

import (
	"context"
	"time"

	"github.com/wricardo/klondike/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, dealName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	MoveToFoundation(ctx context.Context, sessionID, from string) (*MoveResult, error)
	MoveToPile(ctx context.Context, sessionID, from, to string) (*MoveResult, error)
	Discard(ctx context.Context, sessionID string) (*MoveResult, error)
	ResetStock(ctx context.Context, sessionID string) (*MoveResult, error)
	Restart(ctx context.Context, sessionID string) (*engine.GameState, error)
	Execute(ctx context.Context, sessionID, line string) (*CommandResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string, reveal bool) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	GetHints(ctx context.Context, sessionID string) (*HintsResponse, error)

	// Save files
	ExportSave(ctx context.Context, sessionID string) (string, error)
	ImportSave(ctx context.Context, sessionID, text string) (*engine.GameState, error)

	// Deals
	ListDeals(ctx context.Context) ([]*DealInfo, error)
	LoadDeal(ctx context.Context, dealName string) (*engine.Board, error)
	SaveDeal(ctx context.Context, dealName string, deal *engine.Board) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, dealName string, deal *engine.Board) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, dealName string, deal *engine.Board) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// DealManager handles loading of starting boards
type DealManager interface {
	LoadDeal(name string) (*engine.Board, error)
	ListDeals() ([]*DealInfo, error)
	GetDefault() (*engine.Board, string)
	SaveDeal(name string, deal *engine.Board) error
}

// EventPublisher receives every event produced by a successful state change.
type EventPublisher interface {
	Publish(sessionID string, event GameEvent)
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	DealName       string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
