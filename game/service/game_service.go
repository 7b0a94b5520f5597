package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/monopoly/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Turn flow
	PlayTurn(ctx context.Context, sessionID string) (*TurnResult, error)
	PlayTurns(ctx context.Context, sessionID string, count int) (*BulkTurnResult, error)

	// Driver actions
	BuyProperty(ctx context.Context, sessionID string) (*ActionResult, error)
	BuildHouse(ctx context.Context, sessionID string, player, space int) (*ActionResult, error)
	BuildHotel(ctx context.Context, sessionID string, player, space int) (*ActionResult, error)
	Mortgage(ctx context.Context, sessionID string, space int) (*ActionResult, error)
	Unmortgage(ctx context.Context, sessionID string, space int) (*ActionResult, error)
	Surrender(ctx context.Context, sessionID string, player int) (*ActionResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetStandings(ctx context.Context, sessionID string) (*StandingsResponse, error)
	GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, game NewGame) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig, game NewGame) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Notifier receives every turn and action log a session produces
type Notifier interface {
	Notify(sessionID string, log *engine.TurnLog, state *engine.GameState)
}

// NewGame describes the game a new session starts
type NewGame struct {
	ConfigID string
	Players  []string
	// Seed makes the game replayable; zero draws a random seed
	Seed uint64
}

// Session represents an active game session
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
