package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wricardo/mcp-training/monopoly/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	notifier Notifier
	logger   zerolog.Logger
	mu       sync.RWMutex
}

// Option customizes the game service
type Option func(*gameServiceImpl)

// WithNotifier publishes every turn and action log, e.g. to websocket subscribers
func WithNotifier(n Notifier) Option {
	return func(s *gameServiceImpl) {
		s.notifier = n
	}
}

// WithLogger sets the service logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *gameServiceImpl) {
		s.logger = logger.With().Str("component", "service").Logger()
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if req.ConfigName != "" {
		config, err = s.configs.LoadConfig(req.ConfigName)
		if err != nil {
			return nil, s.configLoadError(req.ConfigName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	configID := req.ConfigName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	sess, err := s.sessions.Create(req.SessionID, config, NewGame{
		ConfigID: configID,
		Players:  req.Players,
		Seed:     req.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info().
		Str("session", sess.ID).
		Str("config", configID).
		Strs("players", req.Players).
		Msg("session created")

	return s.sessionInfo(sess), nil
}

// configLoadError lists the available configs when the requested one is missing
func (s *gameServiceImpl) configLoadError(name string, err error) error {
	availableConfigs, listErr := s.configs.ListConfigs()
	if listErr != nil || len(availableConfigs) == 0 {
		return fmt.Errorf("config '%s': %w", name, err)
	}
	var configIDs []string
	for _, cfg := range availableConfigs {
		configIDs = append(configIDs, cfg.ConfigID)
	}
	return fmt.Errorf("config '%s' (available configs: %v): %w", name, configIDs, err)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
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
	s.logger.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// PlayTurn plays one turn for the current player of a session
func (s *gameServiceImpl) PlayTurn(ctx context.Context, sessionID string) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	log, err := sess.Engine.PlayTurn()
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	result := &TurnResult{
		Turn:       log,
		GameState:  state,
		NextPlayer: sess.Engine.CurrentPlayer().Name,
		GameOver:   sess.Engine.IsGameOver(),
		Winner:     winnerName(sess.Engine),
		Message:    turnSummary(log),
	}
	_, result.PendingOffer = sess.Engine.PendingOffer()

	s.logger.Debug().
		Str("session", sessionID).
		Int("turn", log.Turn).
		Ints("dice", log.Dice).
		Int("events", len(log.Events)).
		Bool("game_over", result.GameOver).
		Msg("turn played")

	s.persist(sessionID)
	s.publish(sessionID, log, state)
	return result, nil
}

// PlayTurns plays up to count turns, stopping early at game over or at an
// open purchase offer that needs a decision
func (s *gameServiceImpl) PlayTurns(ctx context.Context, sessionID string, count int) (*BulkTurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Engine.IsGameOver() {
		return nil, engine.ErrGameOver
	}
	if count < 1 {
		count = 1
	}
	result := &BulkTurnResult{
		RequestedTurns: count,
		Turns:          []engine.TurnLog{},
	}
	if count > MaxBulkTurns {
		result.Truncated = true
		result.Limit = MaxBulkTurns
		count = MaxBulkTurns
	}

	for i := 0; i < count; i++ {
		if ctx.Err() != nil || sess.Engine.IsGameOver() {
			break
		}
		log, err := sess.Engine.PlayTurn()
		if err != nil {
			return nil, err
		}
		result.TurnsPlayed++
		result.Turns = append(result.Turns, *log)
		if s.notifier != nil {
			s.notifier.Notify(sessionID, log, sess.Engine.GetState())
		}
		if _, pending := sess.Engine.PendingOffer(); pending {
			result.StopReasonCode = "purchase_offer"
			break
		}
	}
	if sess.Engine.IsGameOver() {
		result.StopReasonCode = "game_over"
	}

	result.GameState = sess.Engine.GetState()
	result.GameOver = sess.Engine.IsGameOver()
	result.Winner = winnerName(sess.Engine)

	s.logger.Debug().
		Str("session", sessionID).
		Int("played", result.TurnsPlayed).
		Int("requested", result.RequestedTurns).
		Str("stop", result.StopReasonCode).
		Msg("bulk turns played")

	s.persist(sessionID)
	return result, nil
}

// BuyProperty buys the space under the player holding the purchase offer
func (s *gameServiceImpl) BuyProperty(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(sessionID, engine.ActionBuy, func(e *engine.GameEngine) (bool, int, error) {
		p := e.CurrentPlayer()
		if idx, ok := e.PendingOffer(); ok {
			p = e.Players()[idx]
		}
		price := 0
		if o, ok := e.Board().Ownable(p.Position); ok {
			price = o.Price()
		}
		if !e.BuyCurrentProperty() {
			return false, 0, nil
		}
		return true, price, nil
	})
}

// BuildHouse adds a house for player on space
func (s *gameServiceImpl) BuildHouse(ctx context.Context, sessionID string, player, space int) (*ActionResult, error) {
	return s.act(sessionID, engine.ActionBuildHouse, func(e *engine.GameEngine) (bool, int, error) {
		prop, err := developableSpace(e, player, space)
		if err != nil {
			return false, 0, err
		}
		if !e.BuildHouse(player, space) {
			return false, 0, nil
		}
		return true, prop.HouseCost(), nil
	})
}

// BuildHotel replaces four houses with a hotel for player on space
func (s *gameServiceImpl) BuildHotel(ctx context.Context, sessionID string, player, space int) (*ActionResult, error) {
	return s.act(sessionID, engine.ActionBuildHotel, func(e *engine.GameEngine) (bool, int, error) {
		prop, err := developableSpace(e, player, space)
		if err != nil {
			return false, 0, err
		}
		if !e.BuildHotel(player, space) {
			return false, 0, nil
		}
		return true, prop.HouseCost(), nil
	})
}

// Mortgage mortgages space for its owner
func (s *gameServiceImpl) Mortgage(ctx context.Context, sessionID string, space int) (*ActionResult, error) {
	return s.act(sessionID, engine.ActionMortgage, func(e *engine.GameEngine) (bool, int, error) {
		if err := ownableSpace(e, space); err != nil {
			return false, 0, err
		}
		value := e.Mortgage(space)
		return value > 0, value, nil
	})
}

// Unmortgage lifts the mortgage on space
func (s *gameServiceImpl) Unmortgage(ctx context.Context, sessionID string, space int) (*ActionResult, error) {
	return s.act(sessionID, engine.ActionUnmortgage, func(e *engine.GameEngine) (bool, int, error) {
		if err := ownableSpace(e, space); err != nil {
			return false, 0, err
		}
		cost := e.Unmortgage(space)
		return cost > 0, cost, nil
	})
}

// Surrender removes player from the game and ends it
func (s *gameServiceImpl) Surrender(ctx context.Context, sessionID string, player int) (*ActionResult, error) {
	return s.act(sessionID, engine.ActionSurrender, func(e *engine.GameEngine) (bool, int, error) {
		if err := e.Surrender(player); err != nil {
			return false, 0, err
		}
		return true, 0, nil
	})
}

// act runs a driver action against a session and reports the log it produced
func (s *gameServiceImpl) act(sessionID, action string, apply func(e *engine.GameEngine) (bool, int, error)) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Engine.IsGameOver() {
		return nil, engine.ErrGameOver
	}

	before := len(sess.Engine.History())
	ok, amount, err := apply(sess.Engine)
	if err != nil {
		return nil, err
	}

	result := &ActionResult{
		Action:    action,
		Success:   ok,
		Amount:    amount,
		GameState: sess.Engine.GetState(),
	}
	if !ok {
		result.Message = fmt.Sprintf("%s rejected by the rules", action)
		return result, nil
	}

	if history := sess.Engine.History(); len(history) > before {
		log := history[len(history)-1]
		result.Log = &log
		if len(log.Events) > 0 {
			result.Message = log.Events[0].Message
		}
	}

	s.logger.Info().
		Str("session", sessionID).
		Str("action", action).
		Int("amount", amount).
		Msg(result.Message)

	s.persist(sessionID)
	s.publish(sessionID, result.Log, result.GameState)
	return result, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetStandings ranks the players of a session
func (s *gameServiceImpl) GetStandings(ctx context.Context, sessionID string) (*StandingsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return &StandingsResponse{
		GameOver:  sess.Engine.IsGameOver(),
		Winner:    winnerName(sess.Engine),
		Standings: sess.Engine.Standings(),
	}, nil
}

// GetTurnHistory returns paginated turn history
func (s *gameServiceImpl) GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.History()
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

	turns := []engine.TurnLog{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			turns = append(turns, history[i])
		}
	} else if start < total {
		turns = append(turns, history[start:end]...)
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// session fetches a session and marks it accessed
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", sessionID, err)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("failed to update last access")
	}
	return sess, nil
}

func (s *gameServiceImpl) persist(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("failed to persist session")
	}
}

func (s *gameServiceImpl) publish(sessionID string, log *engine.TurnLog, state *engine.GameState) {
	if s.notifier != nil && log != nil {
		s.notifier.Notify(sessionID, log, state)
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

func developableSpace(e *engine.GameEngine, player, space int) (*engine.PropertySpace, error) {
	if _, ok := e.Player(player); !ok {
		return nil, fmt.Errorf("%w: no player in seat %d", engine.ErrInvalidPlayer, player)
	}
	if !e.Board().Valid(space) {
		return nil, fmt.Errorf("%w: %d", engine.ErrInvalidSpace, space)
	}
	prop, ok := e.Board().Property(space)
	if !ok {
		return nil, fmt.Errorf("%w: %s takes no buildings", engine.ErrNotOwnable, e.Board().SpaceAt(space).Name())
	}
	return prop, nil
}

func ownableSpace(e *engine.GameEngine, space int) error {
	if !e.Board().Valid(space) {
		return fmt.Errorf("%w: %d", engine.ErrInvalidSpace, space)
	}
	if _, ok := e.Board().Ownable(space); !ok {
		return fmt.Errorf("%w: %s", engine.ErrNotOwnable, e.Board().SpaceAt(space).Name())
	}
	return nil
}

func winnerName(e *engine.GameEngine) string {
	if w, ok := e.Winner(); ok {
		if p, ok := e.Player(w); ok {
			return p.Name
		}
	}
	return ""
}

// turnSummary is the last event message of a turn, or a note for empty turns
func turnSummary(log *engine.TurnLog) string {
	if log == nil || len(log.Events) == 0 {
		return ""
	}
	for i := len(log.Events) - 1; i >= 0; i-- {
		if log.Events[i].Type != engine.EventExtraTurn {
			return log.Events[i].Message
		}
	}
	return log.Events[len(log.Events)-1].Message
}
