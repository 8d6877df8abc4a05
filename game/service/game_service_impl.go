package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/wricardo/klondike/game/command"
	"github.com/wricardo/klondike/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions   SessionManager
	deals      DealManager
	publishers []EventPublisher
	mu         sync.RWMutex
}

// NewGameService creates a new game service instance. Every event produced
// by a state change is handed to each publisher.
func NewGameService(sessions SessionManager, deals DealManager, publishers ...EventPublisher) GameService {
	return &gameServiceImpl{
		sessions:   sessions,
		deals:      deals,
		publishers: publishers,
	}
}

// CreateSession creates a new game session from a named deal, or from the
// default deal when dealName is empty.
func (s *gameServiceImpl) CreateSession(ctx context.Context, dealName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deal *engine.Board
	var err error
	if dealName != "" {
		deal, err = s.deals.LoadDeal(dealName)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				available, listErr := s.deals.ListDeals()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, d := range available {
						ids = append(ids, d.DealID)
					}
					return nil, fmt.Errorf("%w: deal '%s'. Available deals: %v", ErrNotFound, dealName, ids)
				}
				return nil, fmt.Errorf("%w: deal '%s'. Use /api/deals to list available deals", ErrNotFound, dealName)
			}
			return nil, fmt.Errorf("failed to load deal %s: %w", dealName, err)
		}
	} else {
		deal, dealName = s.deals.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", dealName, deal)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.publish(session.ID, NewGameEvent(session.ID, EventCreated, fmt.Sprintf("Session started with deal %s", dealName)))
	return sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.publish(sessionID, NewGameEvent(sessionID, EventDeleted, "Session deleted"))
	return nil
}

// MoveToFoundation moves the top card of from ("1".."7" or "stock") to its
// foundation.
func (s *gameServiceImpl) MoveToFoundation(ctx context.Context, sessionID, from string) (*MoveResult, error) {
	return s.MoveToPile(ctx, sessionID, from, engine.MoveSuit)
}

// MoveToPile moves cards from one pile to another using the move vocabulary.
func (s *gameServiceImpl) MoveToPile(ctx context.Context, sessionID, from, to string) (*MoveResult, error) {
	return s.act(sessionID, fmt.Sprintf("move %s %s", from, to), EventMove, func(e *engine.GameEngine) (int, error) {
		return e.Move(from, to)
	})
}

// Discard deals up to three cards from the stock.
func (s *gameServiceImpl) Discard(ctx context.Context, sessionID string) (*MoveResult, error) {
	return s.act(sessionID, "discard", EventDiscard, func(e *engine.GameEngine) (int, error) {
		return e.Discard()
	})
}

// ResetStock turns the discard pile back into the stock.
func (s *gameServiceImpl) ResetStock(ctx context.Context, sessionID string) (*MoveResult, error) {
	return s.act(sessionID, "reset", EventReset, func(e *engine.GameEngine) (int, error) {
		return e.ResetStock()
	})
}

// act runs one engine action on a session. Rule rejections are reported in
// the result; only a missing session is an error.
func (s *gameServiceImpl) act(sessionID, action, eventType string, fn func(*engine.GameEngine) (int, error)) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	n, err := fn(sess.Engine)
	state := sess.Engine.GetState(false)
	result := &MoveResult{
		Success:   err == nil,
		Action:    action,
		Cards:     n,
		Message:   state.Message,
		GameState: state,
	}
	if err != nil {
		result.Code = engine.ErrorCode(err)
		result.Message = command.Describe(err)
		s.publish(sess.ID, NewGameEvent(sess.ID, EventRejected, result.Message))
		return result, nil
	}

	ev := NewGameEvent(sess.ID, eventType, state.Message)
	ev.Cards = n
	result.Events = append(result.Events, ev)
	if sess.Engine.IsWon() {
		result.Events = append(result.Events, NewGameEvent(sess.ID, EventVictory, "All foundations complete"))
	}

	s.save(sess.ID, action)
	s.publish(sess.ID, result.Events...)
	return result, nil
}

// Restart returns a session to its starting deal
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Restart()
	s.save(sess.ID, "restart")
	s.publish(sess.ID, NewGameEvent(sess.ID, EventRestart, "Game restarted"))
	return state, nil
}

// Execute runs one text command against a session. File commands are not
// available remotely.
func (s *gameServiceImpl) Execute(ctx context.Context, sessionID, line string) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := command.NewDispatcher(sess.Engine).Execute(line)
	result := &CommandResult{
		Success:   err == nil,
		Command:   res.Command.String(),
		Lines:     res.Lines,
		Done:      res.Done,
		GameState: sess.Engine.GetState(false),
	}
	if err != nil {
		result.Code = engine.ErrorCode(err)
		result.Message = command.Describe(err)
		return result, nil
	}

	if res.Mutated {
		ev := NewGameEvent(sess.ID, commandEvent(res.Command.Verb), result.GameState.Message)
		ev.Cards = res.Cards
		result.Events = append(result.Events, ev)
		if sess.Engine.IsWon() {
			result.Events = append(result.Events, NewGameEvent(sess.ID, EventVictory, "All foundations complete"))
		}
		s.save(sess.ID, res.Command.Verb)
		s.publish(sess.ID, result.Events...)
	}
	return result, nil
}

func commandEvent(verb string) string {
	switch verb {
	case command.VerbDiscard:
		return EventDiscard
	case command.VerbReset:
		return EventReset
	case command.VerbLoad:
		return EventLoad
	default:
		return EventMove
	}
}

// GetGameState retrieves the current board. With reveal set, face-down
// cards are shown.
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string, reveal bool) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(reveal), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// GetHints lists the actions that would currently succeed
func (s *gameServiceImpl) GetHints(ctx context.Context, sessionID string) (*HintsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	moves := sess.Engine.Hints()
	if moves == nil {
		moves = []engine.Move{}
	}
	return &HintsResponse{Moves: moves, Won: sess.Engine.IsWon()}, nil
}

// ExportSave returns the session's board in save-file format
func (s *gameServiceImpl) ExportSave(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return "", err
	}
	return sess.Engine.Save(), nil
}

// ImportSave replaces the session's board with save-file text. A bad file
// leaves the board untouched and returns an engine.ErrFormat error.
func (s *gameServiceImpl) ImportSave(ctx context.Context, sessionID, text string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.Load(text); err != nil {
		return nil, err
	}

	state := sess.Engine.GetState(false)
	s.save(sess.ID, "import")
	s.publish(sess.ID, NewGameEvent(sess.ID, EventLoad, state.Message))
	return state, nil
}

// ListDeals returns available starting boards
func (s *gameServiceImpl) ListDeals(ctx context.Context) ([]*DealInfo, error) {
	return s.deals.ListDeals()
}

// LoadDeal loads a specific starting board
func (s *gameServiceImpl) LoadDeal(ctx context.Context, dealName string) (*engine.Board, error) {
	return s.deals.LoadDeal(dealName)
}

// SaveDeal validates and stores a starting board
func (s *gameServiceImpl) SaveDeal(ctx context.Context, dealName string, deal *engine.Board) error {
	return s.deals.SaveDeal(dealName, deal)
}

// getSession looks a session up and marks it as accessed. Callers must hold
// s.mu for writing since the access time is written in place.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) save(sessionID, action string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after %s: %v", sessionID, action, err)
	}
}

func (s *gameServiceImpl) publish(sessionID string, events ...GameEvent) {
	for _, p := range s.publishers {
		for _, ev := range events {
			p.Publish(sessionID, ev)
		}
	}
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		DealName:       sess.DealName,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(false),
	}
}
