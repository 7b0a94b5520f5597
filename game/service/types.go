package service

import (
	"time"

	"github.com/wricardo/mcp-training/monopoly/game/engine"
)

// MaxBulkTurns caps how many turns one PlayTurns call may play
const MaxBulkTurns = 50

// CreateSessionRequest describes a session to create
type CreateSessionRequest struct {
	SessionID  string   `json:"session_id,omitempty"`
	ConfigName string   `json:"config_name,omitempty"`
	Players    []string `json:"players"`
	Seed       uint64   `json:"seed,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// TurnResult contains the outcome of one played turn
type TurnResult struct {
	Turn         *engine.TurnLog   `json:"turn"`
	GameState    *engine.GameState `json:"game_state"`
	NextPlayer   string            `json:"next_player"`
	GameOver     bool              `json:"game_over"`
	Winner       string            `json:"winner,omitempty"`
	PendingOffer bool              `json:"pending_offer,omitempty"`
	Message      string            `json:"message"`
}

// BulkTurnResult contains the outcome of several turns played in one call
type BulkTurnResult struct {
	RequestedTurns int               `json:"requested_turns"`
	TurnsPlayed    int               `json:"turns_played"`
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	Turns          []engine.TurnLog  `json:"turns"`
	GameState      *engine.GameState `json:"game_state"`
	GameOver       bool              `json:"game_over"`
	Winner         string            `json:"winner,omitempty"`
	// StopReasonCode is game_over, purchase_offer or empty when every requested turn was played
	StopReasonCode string `json:"stop_reason_code,omitempty"`
}

// ActionResult contains the outcome of a driver action. Success false means
// the rules rejected it and nothing changed.
type ActionResult struct {
	Action    string            `json:"action"`
	Success   bool              `json:"success"`
	Amount    int               `json:"amount,omitempty"`
	Message   string            `json:"message"`
	Log       *engine.TurnLog   `json:"log,omitempty"`
	GameState *engine.GameState `json:"game_state"`
}

// StandingsResponse ranks the players of a session
type StandingsResponse struct {
	GameOver  bool              `json:"game_over"`
	Winner    string            `json:"winner,omitempty"`
	Standings []engine.Standing `json:"standings"`
}

// HistoryOptions configures turn history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Turns       []engine.TurnLog `json:"turns"`
	TotalTurns  int              `json:"total_turns"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"`
	TotalPages  int              `json:"total_pages"`
	HasNext     bool             `json:"has_next"`
	HasPrevious bool             `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	StartingMoney int    `json:"starting_money"`
	MinPlayers    int    `json:"min_players"`
	MaxPlayers    int    `json:"max_players"`
	AutoBuy       bool   `json:"auto_buy"`
}
