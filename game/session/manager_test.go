package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/klondike/game/engine"
)

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	deal := engine.StandardDeal()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "standard", deal)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be initialized")
		}
		if session.DealName != "standard" {
			t.Errorf("Expected deal name standard, got %s", session.DealName)
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "standard", deal)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got '%s'", session.ID)
		}
	})

	t.Run("duplicate ID is case-insensitive", func(t *testing.T) {
		if _, err := manager.Create("TEST-SESSION", "standard", deal); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		for _, id := range []string{"../etc", "a b", "x/y", strings.Repeat("a", 65)} {
			if _, err := manager.Create(id, "standard", deal); !errors.Is(err, ErrInvalidSessionID) {
				t.Errorf("%q: expected ErrInvalidSessionID, got %v", id, err)
			}
		}
	})

	t.Run("nil deal", func(t *testing.T) {
		if _, err := manager.Create("nodeal", "none", nil); err == nil {
			t.Error("Expected error for nil deal")
		}
	})

	t.Run("sessions do not share boards", func(t *testing.T) {
		a, _ := manager.Create("", "standard", deal)
		b, _ := manager.Create("", "standard", deal)
		if _, err := a.Engine.Discard(); err != nil {
			t.Fatalf("Discard failed: %v", err)
		}
		if a.Engine.Board().Equal(b.Engine.Board()) {
			t.Error("A move in one session changed another")
		}
		if !deal.Equal(engine.StandardDeal()) {
			t.Error("A move changed the deal passed to Create")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, err := manager.Create("AbCd", "standard", engine.StandardDeal())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"exact", "AbCd", false},
		{"lowercase", "abcd", false},
		{"uppercase", "ABCD", false},
		{"missing", "zzzz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := manager.Get(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrSessionNotFound) {
					t.Errorf("Expected ErrSessionNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if session != created {
				t.Error("Expected the created session")
			}
		})
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	deal := engine.StandardDeal()

	first, err := manager.GetOrCreate("game", "standard", deal)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	second, err := manager.GetOrCreate("game", "standard", deal)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if first != second {
		t.Error("Expected the same session on the second call")
	}
}

func TestManager_ListAndDelete(t *testing.T) {
	manager := NewManager()
	deal := engine.StandardDeal()

	for _, id := range []string{"s1", "s2", "s3"} {
		if _, err := manager.Create(id, "standard", deal); err != nil {
			t.Fatalf("Failed to create %s: %v", id, err)
		}
	}

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].CreatedAt.Before(sessions[i-1].CreatedAt) {
			t.Error("List should be ordered by creation time")
		}
	}

	if err := manager.Delete("S2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if manager.Count() != 2 {
		t.Errorf("Expected 2 sessions, got %d", manager.Count())
	}
	if err := manager.Delete("s2"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
	if err := manager.DeleteFromMemory("s1"); err != nil {
		t.Errorf("DeleteFromMemory failed: %v", err)
	}
	if err := manager.DeleteFromMemory("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("touch", "standard", engine.StandardDeal())
	before := session.LastAccessedAt

	time.Sleep(5 * time.Millisecond)
	if err := manager.UpdateLastAccessed("touch"); err != nil {
		t.Fatalf("UpdateLastAccessed failed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected last accessed time to advance")
	}
	if err := manager.UpdateLastAccessed("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	deal := engine.StandardDeal()

	old, _ := manager.Create("old", "standard", deal)
	manager.Create("new", "standard", deal)
	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if _, err := manager.Get("old"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected old session to be gone, got %v", err)
	}
	if _, err := manager.Get("new"); err != nil {
		t.Errorf("Expected new session to remain, got %v", err)
	}
}

func TestManager_ConcurrentCreate(t *testing.T) {
	manager := NewManager()
	deal := engine.StandardDeal()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.Create("", "standard", deal); err != nil {
				t.Errorf("Concurrent create failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}
