package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/wricardo/mcp-training/monopoly/game/config"
	"github.com/wricardo/mcp-training/monopoly/game/engine"
	"github.com/wricardo/mcp-training/monopoly/game/service"
	"github.com/wricardo/mcp-training/monopoly/game/session"
	"github.com/wricardo/mcp-training/monopoly/transport/websocket"
)

// EventSessionDeleted is broadcast to subscribers of a session that was removed
const EventSessionDeleted = "session_deleted"

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	handler http.Handler
	logger  zerolog.Logger
}

// NewServer creates a new API server. hub may be nil when live updates are
// not served.
func NewServer(gameService service.GameService, hub *websocket.Hub, logger zerolog.Logger) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logger.With().Str("component", "api").Logger(),
	}

	s.setupRoutes()

	// Access logging for every request, matched or not
	var h http.Handler = s.router
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	s.handler = hlog.NewHandler(s.logger)(h)
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Turn flow
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/turn", s.handlePlayTurn).Methods("POST")
	api.HandleFunc("/sessions/{id}/turns", s.handlePlayTurns).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/sessions/{id}/standings", s.handleGetStandings).Methods("GET")

	// Driver actions
	api.HandleFunc("/sessions/{id}/buy", s.handleBuy).Methods("POST")
	api.HandleFunc("/sessions/{id}/build-house", s.handleBuildHouse).Methods("POST")
	api.HandleFunc("/sessions/{id}/build-hotel", s.handleBuildHotel).Methods("POST")
	api.HandleFunc("/sessions/{id}/mortgage", s.handleMortgage).Methods("POST")
	api.HandleFunc("/sessions/{id}/unmortgage", s.handleUnmortgage).Methods("POST")
	api.HandleFunc("/sessions/{id}/surrender", s.handleSurrender).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP status codes
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	respondError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, config.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrGameOver),
		errors.Is(err, session.ErrSessionAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidPlayer),
		errors.Is(err, engine.ErrInvalidSpace),
		errors.Is(err, engine.ErrNotOwnable),
		errors.Is(err, session.ErrInvalidSessionID),
		errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		service.CreateSessionRequest
		ConfigID string `json:"config_id,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// config_id and config_name are interchangeable
	if req.ConfigName == "" {
		req.ConfigName = req.ConfigID
	}
	if len(req.Players) == 0 {
		respondError(w, http.StatusBadRequest, "players is required")
		return
	}

	info, err := s.service.CreateSession(r.Context(), req.CreateSessionRequest)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	total := len(sessions)

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, EventSessionDeleted, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Turn Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handlePlayTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.PlayTurn(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	hlog.FromRequest(r).Debug().
		Str("session", sessionID).
		Int("turn", result.Turn.Turn).
		Int("player", result.Turn.Player).
		Ints("dice", result.Turn.Dice).
		Int("events", len(result.Turn.Events)).
		Bool("game_over", result.GameOver).
		Msg("turn played")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePlayTurns(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Count int `json:"count"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if countStr := r.URL.Query().Get("count"); countStr != "" && req.Count == 0 {
		c, err := strconv.Atoi(countStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "count must be a number")
			return
		}
		req.Count = c
	}
	if req.Count <= 0 {
		respondError(w, http.StatusBadRequest, "count must be positive")
		return
	}

	result, err := s.service.PlayTurns(r.Context(), sessionID, req.Count)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	hlog.FromRequest(r).Debug().
		Str("session", sessionID).
		Int("played", result.TurnsPlayed).
		Int("requested", result.RequestedTurns).
		Str("stop", result.StopReasonCode).
		Msg("turns played")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetTurnHistory(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleGetStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := s.service.GetStandings(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, standings)
}

// Action Handlers

// actionRequest carries the arguments of driver actions. Pointers tell an
// omitted field apart from seat or space zero.
type actionRequest struct {
	Player *int `json:"player"`
	Space  *int `json:"space"`
}

func (s *Server) decodeAction(w http.ResponseWriter, r *http.Request, needPlayer, needSpace bool) (actionRequest, bool) {
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if needPlayer && req.Player == nil {
		respondError(w, http.StatusBadRequest, "player is required")
		return req, false
	}
	if needSpace && req.Space == nil {
		respondError(w, http.StatusBadRequest, "space is required")
		return req, false
	}
	return req, true
}

func (s *Server) respondAction(w http.ResponseWriter, r *http.Request, result *service.ActionResult, err error) {
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	hlog.FromRequest(r).Debug().
		Str("session", mux.Vars(r)["id"]).
		Str("action", result.Action).
		Bool("success", result.Success).
		Int("amount", result.Amount).
		Msg("action")
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.BuyProperty(r.Context(), mux.Vars(r)["id"])
	s.respondAction(w, r, result, err)
}

func (s *Server) handleBuildHouse(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAction(w, r, true, true)
	if !ok {
		return
	}
	result, err := s.service.BuildHouse(r.Context(), mux.Vars(r)["id"], *req.Player, *req.Space)
	s.respondAction(w, r, result, err)
}

func (s *Server) handleBuildHotel(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAction(w, r, true, true)
	if !ok {
		return
	}
	result, err := s.service.BuildHotel(r.Context(), mux.Vars(r)["id"], *req.Player, *req.Space)
	s.respondAction(w, r, result, err)
}

func (s *Server) handleMortgage(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAction(w, r, false, true)
	if !ok {
		return
	}
	result, err := s.service.Mortgage(r.Context(), mux.Vars(r)["id"], *req.Space)
	s.respondAction(w, r, result, err)
}

func (s *Server) handleUnmortgage(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAction(w, r, false, true)
	if !ok {
		return
	}
	result, err := s.service.Unmortgage(r.Context(), mux.Vars(r)["id"], *req.Space)
	s.respondAction(w, r, result, err)
}

func (s *Server) handleSurrender(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAction(w, r, true, false)
	if !ok {
		return
	}
	result, err := s.service.Surrender(r.Context(), mux.Vars(r)["id"], *req.Player)
	s.respondAction(w, r, result, err)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := mux.Vars(r)["name"]
	for _, ext := range engine.ConfigExtensions {
		configName = strings.TrimSuffix(configName, ext)
	}

	cfg, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		engine.GameConfig
		ConfigID string `json:"config_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}
	configID := req.ConfigID
	if configID == "" {
		configID = req.Name
	}

	gameConfig := req.GameConfig
	if err := s.service.SaveConfig(r.Context(), configID, &gameConfig); err != nil {
		respondServiceError(w, r, fmt.Errorf("failed to save config: %w", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "live updates disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
