package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
	"github.com/wricardo/klondike/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	SaveFunc func(id string) error
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, dealName string, deal *engine.Board) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, fmt.Errorf("session %w", service.ErrConflict)
	}

	eng, err := engine.NewEngine(dealName, deal)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		DealName:       dealName,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, fmt.Errorf("session %w", service.ErrNotFound)
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id, dealName string, deal *engine.Board) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, dealName, deal)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return fmt.Errorf("session %w", service.ErrNotFound)
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return fmt.Errorf("session %w", service.ErrNotFound)
}

func (m *MockSessionManager) Save(id string) error {
	m.saves++
	if m.SaveFunc != nil {
		return m.SaveFunc(id)
	}
	return nil
}

// MockDealManager implements service.DealManager for testing
type MockDealManager struct {
	deals map[string]*engine.Board
}

func NewMockDealManager(t *testing.T) *MockDealManager {
	t.Helper()
	return &MockDealManager{
		deals: map[string]*engine.Board{
			"standard": engine.StandardDeal(),
			"small":    decode(t, smallDeal...),
			"endgame":  decode(t, endgameDeal()...),
		},
	}
}

func (m *MockDealManager) LoadDeal(name string) (*engine.Board, error) {
	deal, exists := m.deals[name]
	if !exists {
		return nil, fmt.Errorf("deal %w", service.ErrNotFound)
	}
	return deal.Clone(), nil
}

func (m *MockDealManager) ListDeals() ([]*service.DealInfo, error) {
	result := make([]*service.DealInfo, 0, len(m.deals))
	for name := range m.deals {
		result = append(result, &service.DealInfo{Filename: name + ".txt", DealID: name})
	}
	return result, nil
}

func (m *MockDealManager) GetDefault() (*engine.Board, string) {
	return m.deals["standard"].Clone(), "standard"
}

func (m *MockDealManager) SaveDeal(name string, deal *engine.Board) error {
	m.deals[name] = deal.Clone()
	return nil
}

// MockPublisher records published events
type MockPublisher struct {
	mu     sync.Mutex
	events []service.GameEvent
}

func (p *MockPublisher) Publish(sessionID string, event service.GameEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *MockPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

var smallDeal = []string{
	"Stock [ 2h+ 5c- 6d- 7s- ]",
	"PILE-1 [ As+ 3s- ]",
	"PILE-2 [ 8h+ ]",
	"PILE-3 [ 9c+ ]",
}

// endgameDeal is one move from a win: PILE-1 holds the last king.
func endgameDeal() []string {
	lines := []string{"PILE-1 [ Ks+ ]"}
	for _, suit := range []string{"Spades", "Hearts", "Diamonds", "Clubs"} {
		top := engine.King
		if suit == "Spades" {
			top = engine.King - 1
		}
		var toks []string
		for r := top; r >= 1; r-- {
			toks = append(toks, engine.RankSymbol(r)+strings.ToLower(suit[:1])+"+")
		}
		lines = append(lines, suit+" [ "+strings.Join(toks, " ")+" ]")
	}
	return lines
}

func decode(t *testing.T, lines ...string) *engine.Board {
	t.Helper()
	b, err := engine.DecodeBoard(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("Failed to decode deal: %v", err)
	}
	return b
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager, *MockPublisher) {
	t.Helper()
	sessions := NewMockSessionManager()
	pub := &MockPublisher{}
	return service.NewGameService(sessions, NewMockDealManager(t), pub), sessions, pub
}

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestService(t)

	tests := []struct {
		name     string
		dealName string
		wantDeal string
		wantErr  bool
	}{
		{
			name:     "create with default deal",
			dealName: "",
			wantDeal: "standard",
		},
		{
			name:     "create with specific deal",
			dealName: "small",
			wantDeal: "small",
		},
		{
			name:     "create with unknown deal",
			dealName: "nonexistent",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.dealName)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, service.ErrNotFound) {
					t.Errorf("Expected ErrNotFound, got %v", err)
				}
				if !strings.Contains(err.Error(), "Available deals") {
					t.Errorf("Expected the available deals in the error, got %v", err)
				}
				return
			}
			if session.DealName != tt.wantDeal {
				t.Errorf("Expected deal %s, got %s", tt.wantDeal, session.DealName)
			}
			if session.GameState == nil {
				t.Error("Expected a game state")
			}
		})
	}

	if got := pub.types(); len(got) != 2 || got[0] != service.EventCreated {
		t.Errorf("Expected two session_created events, got %v", got)
	}
}

func TestGameService_MoveToFoundation(t *testing.T) {
	ctx := context.Background()
	svc, sessions, pub := newTestService(t)

	info, err := svc.CreateSession(ctx, "small")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	result, err := svc.MoveToFoundation(ctx, info.ID, "1")
	if err != nil {
		t.Fatalf("MoveToFoundation failed: %v", err)
	}
	if !result.Success || result.Cards != 1 {
		t.Errorf("Expected one card moved, got %+v", result)
	}
	if len(result.Events) != 1 || result.Events[0].Type != service.EventMove {
		t.Errorf("Expected a move event, got %+v", result.Events)
	}
	if sessions.saves != 1 {
		t.Errorf("Expected 1 auto-save, got %d", sessions.saves)
	}

	// PILE-1 now shows 3s, which needs the 2s on Spades first.
	result, err = svc.MoveToFoundation(ctx, info.ID, "1")
	if err != nil {
		t.Fatalf("Rejected move should not be an error: %v", err)
	}
	if result.Success {
		t.Error("Expected the 3 of spades to be rejected")
	}
	if result.Code != "illegal_move" {
		t.Errorf("Expected illegal_move, got %s", result.Code)
	}
	if !strings.HasPrefix(result.Message, "Not a valid move:") {
		t.Errorf("Unexpected message: %q", result.Message)
	}
	if sessions.saves != 1 {
		t.Errorf("Rejected moves should not save, got %d saves", sessions.saves)
	}

	types := pub.types()
	if types[len(types)-1] != service.EventRejected {
		t.Errorf("Expected a rejected event last, got %v", types)
	}

	if _, err := svc.MoveToFoundation(ctx, "missing", "1"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing session, got %v", err)
	}
}

func TestGameService_MoveToPile(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	info, _ := svc.CreateSession(ctx, "small")

	tests := []struct {
		name     string
		from, to string
		success  bool
		code     string
	}{
		{"red eight on black nine", "2", "3", true, ""},
		{"unknown pile", "9", "1", false, "unknown_pile"},
		{"empty source", "5", "1", false, "empty_source"},
		{"foundation is not a destination here", "suit", "1", false, "illegal_move"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.MoveToPile(ctx, info.ID, tt.from, tt.to)
			if err != nil {
				t.Fatalf("MoveToPile() error = %v", err)
			}
			if result.Success != tt.success {
				t.Errorf("Expected success %v, got %+v", tt.success, result)
			}
			if result.Code != tt.code {
				t.Errorf("Expected code %q, got %q", tt.code, result.Code)
			}
		})
	}
}

func TestGameService_DiscardAndReset(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	info, _ := svc.CreateSession(ctx, "small")

	result, err := svc.ResetStock(ctx, info.ID)
	if err != nil {
		t.Fatalf("ResetStock failed: %v", err)
	}
	if result.Success || result.Code != "not_empty" {
		t.Errorf("Expected not_empty with cards in the stock, got %+v", result)
	}

	for i, want := range []int{3, 1} {
		result, err := svc.Discard(ctx, info.ID)
		if err != nil {
			t.Fatalf("Discard %d failed: %v", i, err)
		}
		if !result.Success || result.Cards != want {
			t.Errorf("Discard %d: expected %d cards, got %+v", i, want, result)
		}
	}

	result, _ = svc.Discard(ctx, info.ID)
	if result.Success {
		t.Error("Expected discard from an empty stock to be rejected")
	}

	result, err = svc.ResetStock(ctx, info.ID)
	if err != nil {
		t.Fatalf("ResetStock failed: %v", err)
	}
	if !result.Success || result.Cards != 4 {
		t.Errorf("Expected 4 cards back in the stock, got %+v", result)
	}
}

func TestGameService_Victory(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestService(t)
	info, _ := svc.CreateSession(ctx, "endgame")

	result, err := svc.MoveToFoundation(ctx, info.ID, "1")
	if err != nil {
		t.Fatalf("MoveToFoundation failed: %v", err)
	}
	if !result.GameState.Won {
		t.Error("Expected the game to be won")
	}
	if len(result.Events) != 2 || result.Events[1].Type != service.EventVictory {
		t.Errorf("Expected move and victory events, got %+v", result.Events)
	}

	hints, err := svc.GetHints(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetHints failed: %v", err)
	}
	if !hints.Won {
		t.Error("Expected hints to report the win")
	}

	types := pub.types()
	if types[len(types)-1] != service.EventVictory {
		t.Errorf("Expected victory to be published, got %v", types)
	}
}

func TestGameService_Execute(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService(t)
	info, _ := svc.CreateSession(ctx, "small")

	tests := []struct {
		name    string
		line    string
		success bool
		mutated bool
		code    string
	}{
		{"discard", "discard", true, true, ""},
		{"board", "board", true, false, ""},
		{"comment", "comment hello there", true, false, ""},
		{"unknown verb", "fly 1 2", false, false, "invalid_input"},
		{"bad move", "move 3 suit", false, false, "illegal_move"},
		{"files are disabled", "save out.txt", false, false, "invalid_input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sessions.saves
			result, err := svc.Execute(ctx, info.ID, tt.line)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if result.Success != tt.success {
				t.Errorf("Expected success %v, got %+v", tt.success, result)
			}
			if result.Code != tt.code {
				t.Errorf("Expected code %q, got %q", tt.code, result.Code)
			}
			if saved := sessions.saves > before; saved != tt.mutated {
				t.Errorf("Expected save %v, got %v", tt.mutated, saved)
			}
		})
	}

	result, _ := svc.Execute(ctx, info.ID, "done")
	if !result.Done {
		t.Error("Expected done to end the game loop")
	}
}

func TestGameService_RestartAndHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	info, _ := svc.CreateSession(ctx, "small")

	svc.Discard(ctx, info.ID)
	svc.MoveToPile(ctx, info.ID, "9", "1")
	svc.MoveToFoundation(ctx, info.ID, "1")

	history, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Limit: 2})
	if err != nil {
		t.Fatalf("GetMoveHistory failed: %v", err)
	}
	if history.TotalMoves != 3 {
		t.Errorf("Expected 3 moves, got %d", history.TotalMoves)
	}
	if len(history.Moves) != 2 || !history.HasNext {
		t.Errorf("Expected a first page of 2 with more to come, got %+v", history)
	}
	if history.Moves[0].Action != "move 1 suit" {
		t.Errorf("Expected most recent move first, got %s", history.Moves[0].Action)
	}

	asc, _ := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Order: "asc", Page: 2, Limit: 2})
	if len(asc.Moves) != 1 || asc.Moves[0].Action != "move 1 suit" {
		t.Errorf("Unexpected second ascending page: %+v", asc.Moves)
	}

	state, err := svc.Restart(ctx, info.ID)
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	saved, _ := svc.ExportSave(ctx, info.ID)
	if !decode(t, strings.Split(saved, "\n")...).Equal(decode(t, smallDeal...)) {
		t.Error("Restart should return to the starting deal")
	}
	if state.TotalMoves != 4 {
		t.Errorf("Expected restart to be logged, total %d", state.TotalMoves)
	}
}

func TestGameService_SaveImport(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	info, _ := svc.CreateSession(ctx, "small")
	other, _ := svc.CreateSession(ctx, "standard")

	text, err := svc.ExportSave(ctx, info.ID)
	if err != nil {
		t.Fatalf("ExportSave failed: %v", err)
	}

	state, err := svc.ImportSave(ctx, other.ID, text)
	if err != nil {
		t.Fatalf("ImportSave failed: %v", err)
	}
	if state.CardCount != 8 {
		t.Errorf("Expected 8 cards after import, got %d", state.CardCount)
	}

	before, _ := svc.ExportSave(ctx, other.ID)
	if _, err := svc.ImportSave(ctx, other.ID, "Stock [ Zz+ ]"); !errors.Is(err, engine.ErrFormat) {
		t.Errorf("Expected ErrFormat, got %v", err)
	}
	after, _ := svc.ExportSave(ctx, other.ID)
	if before != after {
		t.Error("A failed import should leave the board untouched")
	}
}

func TestGameService_GameState(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	info, _ := svc.CreateSession(ctx, "small")

	hidden, err := svc.GetGameState(ctx, info.ID, false)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if hidden.Revealed {
		t.Error("Expected a hidden view")
	}
	revealed, _ := svc.GetGameState(ctx, info.ID, true)
	if !revealed.Revealed {
		t.Error("Expected a revealed view")
	}
	if strings.Join(hidden.Lines, "\n") == strings.Join(revealed.Lines, "\n") {
		t.Error("Face-down cards should differ between the two views")
	}
}

func TestGameService_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(session.NewManager(), NewMockDealManager(t))
	info, err := svc.CreateSession(ctx, "small")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := svc.GetSession(ctx, info.ID); err != nil {
					errs <- err
					return
				}
				if _, err := svc.GetGameState(ctx, info.ID, false); err != nil {
					errs <- err
					return
				}
				if _, err := svc.GetHints(ctx, info.ID); err != nil {
					errs <- err
					return
				}
				if _, err := svc.ListSessions(ctx); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent read failed: %v", err)
	}
}

func TestGameService_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestService(t)

	a, _ := svc.CreateSession(ctx, "small")
	svc.CreateSession(ctx, "standard")

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(list))
	}

	if err := svc.DeleteSession(ctx, a.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, a.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteSession(ctx, a.ID); err == nil {
		t.Error("Expected error deleting twice")
	}

	types := pub.types()
	if types[len(types)-1] != service.EventDeleted {
		t.Errorf("Expected session_deleted last, got %v", types)
	}
}

func TestGameService_SaveFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService(t)
	sessions.SaveFunc = func(string) error { return errors.New("disk full") }
	info, _ := svc.CreateSession(ctx, "small")

	result, err := svc.Discard(ctx, info.ID)
	if err != nil {
		t.Fatalf("Discard should succeed when saving fails: %v", err)
	}
	if !result.Success {
		t.Error("Expected the discard to succeed")
	}
}

func TestGameService_Deals(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	deals, err := svc.ListDeals(ctx)
	if err != nil {
		t.Fatalf("ListDeals failed: %v", err)
	}
	if len(deals) != 3 {
		t.Errorf("Expected 3 deals, got %d", len(deals))
	}

	if err := svc.SaveDeal(ctx, "copy", engine.StandardDeal()); err != nil {
		t.Fatalf("SaveDeal failed: %v", err)
	}
	deal, err := svc.LoadDeal(ctx, "copy")
	if err != nil {
		t.Fatalf("LoadDeal failed: %v", err)
	}
	if !deal.Equal(engine.StandardDeal()) {
		t.Error("Loaded deal differs from the saved one")
	}
}
