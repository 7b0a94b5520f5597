package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/monopoly/game/engine"
	"github.com/wricardo/mcp-training/monopoly/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions.
// Every backend stores this document.
type PersistedSessionData struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Config         *engine.GameConfig `json:"config,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
}

// codec turns sessions into persisted documents and back. The rules travel
// with the session so a later edit to the config file cannot change a game
// in progress; configs is only consulted for documents that lack them.
type codec struct {
	configs service.ConfigManager
}

func (c codec) encode(session *service.Session) ([]byte, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	if session.Engine == nil {
		return nil, fmt.Errorf("session %s has no engine", session.ID)
	}

	data := PersistedSessionData{
		ID:             session.ID,
		ConfigName:     c.configID(session),
		Config:         session.Config,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}
	return jsonData, nil
}

func (c codec) decode(jsonData []byte) (*service.Session, error) {
	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	if data.GameState == nil {
		return nil, fmt.Errorf("session %s has no game state", data.ID)
	}

	gameConfig := data.Config
	if gameConfig == nil {
		if c.configs == nil {
			return nil, fmt.Errorf("session %s has no rules and no config manager", data.ID)
		}
		loaded, err := c.configs.LoadConfig(data.ConfigName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
		}
		gameConfig = loaded
	}

	gameEngine, err := engine.RestoreEngine(gameConfig, data.GameState)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game state: %w", err)
	}

	return &service.Session{
		ID:             data.ID,
		ConfigID:       data.ConfigName,
		Engine:         gameEngine,
		Config:         gameConfig,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// configID returns the config ID (filename without extension) for a session
func (c codec) configID(session *service.Session) string {
	if session.ConfigID != "" {
		return session.ConfigID
	}
	if session.Config == nil {
		return ""
	}
	if c.configs != nil {
		if configs, err := c.configs.ListConfigs(); err == nil {
			for _, config := range configs {
				if config.Name == session.Config.Name {
					return config.ConfigID
				}
			}
		}
	}
	// If not found, assume the display name is already the config ID
	return session.Config.Name
}
