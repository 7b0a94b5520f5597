package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/monopoly/game/engine"
	"github.com/wricardo/mcp-training/monopoly/game/service"
)

func createTestConfig() *engine.GameConfig {
	config := engine.DefaultGameConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func newGame(seed uint64) service.NewGame {
	return service.NewGame{
		ConfigID: "test",
		Players:  []string{"Ada", "Grace"},
		Seed:     seed,
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"game-1", false},
		{"Game_2", false},
		{"a", false},
		{"", true},
		{"has space", true},
		{"../etc", true},
		{"dots.json", true},
		{strings.Repeat("a", MaxIDLength), false},
		{strings.Repeat("a", MaxIDLength+1), true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("len%d_%q", len(tt.id), tt.id), func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSessionID) {
				t.Errorf("Expected ErrInvalidSessionID, got %v", err)
			}
		})
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config, newGame(1))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Fatal("Expected engine to be initialized")
		}
		if session.ConfigID != "test" {
			t.Errorf("Expected config ID 'test', got '%s'", session.ConfigID)
		}
		if len(session.Engine.Players()) != 2 {
			t.Errorf("Expected 2 players, got %d", len(session.Engine.Players()))
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", config, newGame(0))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 8 {
			t.Errorf("Expected 8-character session ID, got %q", session.ID)
		}
		if ValidateID(session.ID) != nil {
			t.Errorf("Generated ID %q should be valid", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", config, newGame(1))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", config, newGame(1))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("no/slashes", config, newGame(1))
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		invalidConfig := createTestConfig()
		invalidConfig.Name = "" // Make config invalid
		_, err := manager.Create("invalid-test", invalidConfig, newGame(1))
		if err == nil {
			t.Error("Expected error for invalid config")
		}
	})

	t.Run("invalid players", func(t *testing.T) {
		game := newGame(1)
		game.Players = []string{"Solo"}
		_, err := manager.Create("solo", config, game)
		if !errors.Is(err, engine.ErrInvalidPlayer) {
			t.Errorf("Expected ErrInvalidPlayer, got %v", err)
		}
	})
}

func TestManager_CreateSeededGamesMatch(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	a, err := manager.Create("seed-a", config, newGame(42))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	b, err := manager.Create("seed-b", config, newGame(42))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	for i := 0; i < 20; i++ {
		la, errA := a.Engine.PlayTurn()
		lb, errB := b.Engine.PlayTurn()
		if errA != nil || errB != nil {
			break
		}
		if fmt.Sprint(la.Dice) != fmt.Sprint(lb.Dice) {
			t.Fatalf("Turn %d: dice differ %v vs %v", i+1, la.Dice, lb.Dice)
		}
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	created, _ := manager.Create("get-test", config, newGame(1))

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected same session instance")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session != created {
			t.Error("Expected same session instance")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create new session", func(t *testing.T) {
		session, err := manager.GetOrCreate("goc-test", config, newGame(1))
		if err != nil {
			t.Fatalf("Failed to get or create session: %v", err)
		}
		if session.ID != "goc-test" {
			t.Errorf("Expected session ID 'goc-test', got '%s'", session.ID)
		}
	})

	t.Run("get existing session", func(t *testing.T) {
		first, _ := manager.Get("goc-test")
		session, err := manager.GetOrCreate("goc-test", config, newGame(2))
		if err != nil {
			t.Fatalf("Failed to get existing session: %v", err)
		}
		if session != first {
			t.Error("Expected existing session to be returned")
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("delete existing session", func(t *testing.T) {
		manager.Create("delete-test", config, newGame(1))
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("non-existent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-delete", config, newGame(1))
		if err := manager.Delete("CASE-DELETE"); err != nil {
			t.Fatalf("Failed to delete session with different case: %v", err)
		}
		if manager.Count() != 0 {
			t.Errorf("Expected no sessions left, got %d", manager.Count())
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	if len(manager.List()) != 0 {
		t.Error("Expected empty list initially")
	}

	ids := []string{"list-1", "list-2", "list-3"}
	for _, id := range ids {
		if _, err := manager.Create(id, config, newGame(1)); err != nil {
			t.Fatalf("Failed to create session %s: %v", id, err)
		}
	}

	sessions := manager.List()
	if len(sessions) != len(ids) {
		t.Fatalf("Expected %d sessions, got %d", len(ids), len(sessions))
	}

	found := make(map[string]bool)
	for _, session := range sessions {
		found[session.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			t.Errorf("Session %s not found in list", id)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	old, _ := manager.Create("old-session", config, newGame(1))
	manager.Create("new-session", config, newGame(1))

	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if _, err := manager.Get("old-session"); err != ErrSessionNotFound {
		t.Error("Expected old session to be removed")
	}
	if _, err := manager.Get("new-session"); err != nil {
		t.Error("Expected new session to remain")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session, _ := manager.Create("access-test", config, newGame(1))
	before := session.LastAccessedAt
	time.Sleep(5 * time.Millisecond)

	if err := manager.UpdateLastAccessed("ACCESS-TEST"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected last accessed time to be updated")
	}

	if err := manager.UpdateLastAccessed("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_SaveWithoutPersistence(t *testing.T) {
	manager := NewManager()
	if err := manager.Save("anything"); err != nil {
		t.Errorf("Save without persistence should be a no-op, got %v", err)
	}
	if err := manager.SaveAllSessions(); err != nil {
		t.Errorf("SaveAllSessions without persistence should be a no-op, got %v", err)
	}
	if err := manager.LoadPersistedSessions(); err != nil {
		t.Errorf("LoadPersistedSessions without persistence should be a no-op, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("conc-%d", id%20)
			_, err := manager.GetOrCreate(sessionID, config, newGame(uint64(id+1)))
			if err != nil && err != ErrSessionAlreadyExists {
				errs <- err
			}
			manager.UpdateLastAccessed(sessionID)
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", config, newGame(1))
	session2, _ := manager.Create("iso-2", config, newGame(1))

	if _, err := session1.Engine.PlayTurn(); err != nil {
		t.Fatalf("PlayTurn failed: %v", err)
	}

	if session2.Engine.TurnNumber() != 0 {
		t.Error("Session 2 should not be affected by session 1 turns")
	}
	if session1.Engine.TurnNumber() != 1 {
		t.Errorf("Expected session 1 at turn 1, got %d", session1.Engine.TurnNumber())
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	generatedIDs := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := manager.Create("", config, newGame(0))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true
	}
}
