package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/wricardo/mcp-training/monopoly/game/config"
	"github.com/wricardo/mcp-training/monopoly/game/engine"
	"github.com/wricardo/mcp-training/monopoly/game/service"
	"github.com/wricardo/mcp-training/monopoly/game/session"
	"github.com/wricardo/mcp-training/monopoly/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, req service.CreateSessionRequest) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Turn flow
	PlayTurnFunc  func(ctx context.Context, sessionID string) (*service.TurnResult, error)
	PlayTurnsFunc func(ctx context.Context, sessionID string, count int) (*service.BulkTurnResult, error)

	// Driver actions
	BuyPropertyFunc func(ctx context.Context, sessionID string) (*service.ActionResult, error)
	BuildHouseFunc  func(ctx context.Context, sessionID string, player, space int) (*service.ActionResult, error)
	BuildHotelFunc  func(ctx context.Context, sessionID string, player, space int) (*service.ActionResult, error)
	MortgageFunc    func(ctx context.Context, sessionID string, space int) (*service.ActionResult, error)
	UnmortgageFunc  func(ctx context.Context, sessionID string, space int) (*service.ActionResult, error)
	SurrenderFunc   func(ctx context.Context, sessionID string, player int) (*service.ActionResult, error)

	// Game State
	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetStandingsFunc   func(ctx context.Context, sessionID string) (*service.StandingsResponse, error)
	GetTurnHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, req service.CreateSessionRequest) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, req)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: req.ConfigName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "classic",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Turn flow
func (m *MockGameService) PlayTurn(ctx context.Context, sessionID string) (*service.TurnResult, error) {
	if m.PlayTurnFunc != nil {
		return m.PlayTurnFunc(ctx, sessionID)
	}
	return &service.TurnResult{
		Turn:      &engine.TurnLog{Turn: 1, Action: engine.ActionTurn, Dice: []int{3, 4}, Events: []engine.Event{}},
		GameState: &engine.GameState{Turn: 1},
	}, nil
}

func (m *MockGameService) PlayTurns(ctx context.Context, sessionID string, count int) (*service.BulkTurnResult, error) {
	if m.PlayTurnsFunc != nil {
		return m.PlayTurnsFunc(ctx, sessionID, count)
	}
	return &service.BulkTurnResult{
		RequestedTurns: count,
		TurnsPlayed:    count,
		Turns:          []engine.TurnLog{},
		GameState:      &engine.GameState{Turn: count},
	}, nil
}

func actionResult(action string) *service.ActionResult {
	return &service.ActionResult{Action: action, Success: true, GameState: &engine.GameState{}}
}

// Driver actions
func (m *MockGameService) BuyProperty(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	if m.BuyPropertyFunc != nil {
		return m.BuyPropertyFunc(ctx, sessionID)
	}
	return actionResult(engine.ActionBuy), nil
}

func (m *MockGameService) BuildHouse(ctx context.Context, sessionID string, player, space int) (*service.ActionResult, error) {
	if m.BuildHouseFunc != nil {
		return m.BuildHouseFunc(ctx, sessionID, player, space)
	}
	return actionResult(engine.ActionBuildHouse), nil
}

func (m *MockGameService) BuildHotel(ctx context.Context, sessionID string, player, space int) (*service.ActionResult, error) {
	if m.BuildHotelFunc != nil {
		return m.BuildHotelFunc(ctx, sessionID, player, space)
	}
	return actionResult(engine.ActionBuildHotel), nil
}

func (m *MockGameService) Mortgage(ctx context.Context, sessionID string, space int) (*service.ActionResult, error) {
	if m.MortgageFunc != nil {
		return m.MortgageFunc(ctx, sessionID, space)
	}
	return actionResult(engine.ActionMortgage), nil
}

func (m *MockGameService) Unmortgage(ctx context.Context, sessionID string, space int) (*service.ActionResult, error) {
	if m.UnmortgageFunc != nil {
		return m.UnmortgageFunc(ctx, sessionID, space)
	}
	return actionResult(engine.ActionUnmortgage), nil
}

func (m *MockGameService) Surrender(ctx context.Context, sessionID string, player int) (*service.ActionResult, error) {
	if m.SurrenderFunc != nil {
		return m.SurrenderFunc(ctx, sessionID, player)
	}
	return actionResult(engine.ActionSurrender), nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetStandings(ctx context.Context, sessionID string) (*service.StandingsResponse, error) {
	if m.GetStandingsFunc != nil {
		return m.GetStandingsFunc(ctx, sessionID)
	}
	return &service.StandingsResponse{Standings: []engine.Standing{}}, nil
}

func (m *MockGameService) GetTurnHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetTurnHistoryFunc != nil {
		return m.GetTurnHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Turns:      []engine.TurnLog{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	cfg := engine.DefaultGameConfig()
	cfg.Name = configName
	return cfg, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	t.Helper()
	hub := websocket.NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return NewServer(mockService, hub, zerolog.Nop())
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func serve(t *testing.T, mockService *MockGameService, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	server := setupTestServer(t, mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(t, &MockGameService{}, makeRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy, got %q", resp["status"])
	}
	if w.Header().Get("Request-Id") == "" {
		t.Error("Expected a Request-Id header")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("session %q: %w", "x", session.ErrSessionNotFound), http.StatusNotFound},
		{fmt.Errorf("config 'x': %w", config.ErrConfigNotFound), http.StatusNotFound},
		{engine.ErrGameOver, http.StatusConflict},
		{fmt.Errorf("failed to create session: %w", session.ErrSessionAlreadyExists), http.StatusConflict},
		{fmt.Errorf("%w: duplicate name", engine.ErrInvalidPlayer), http.StatusBadRequest},
		{engine.ErrInvalidSpace, http.StatusBadRequest},
		{engine.ErrNotOwnable, http.StatusBadRequest},
		{session.ErrInvalidSessionID, http.StatusBadRequest},
		{config.ErrInvalidConfig, http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.status {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.status)
			}
		})
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*testing.T, *MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: map[string]interface{}{"players": []string{"Ada", "Grace"}},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, req service.CreateSessionRequest) (*service.SessionInfo, error) {
					if len(req.Players) != 2 || req.ConfigName != "" {
						t.Errorf("Unexpected request: %+v", req)
					}
					return &service.SessionInfo{ID: "sess-123", ConfigName: "classic"}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "sess-123" {
					t.Errorf("Expected session ID sess-123, got %s", resp.ID)
				}
			},
		},
		{
			name: "Create seeded session with explicit id",
			requestBody: map[string]interface{}{
				"session_id":  "table-1",
				"config_name": "quick",
				"players":     []string{"Ada", "Grace", "Linus"},
				"seed":        42,
			},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, req service.CreateSessionRequest) (*service.SessionInfo, error) {
					if req.SessionID != "table-1" || req.ConfigName != "quick" || req.Seed != 42 || len(req.Players) != 3 {
						t.Errorf("Unexpected request: %+v", req)
					}
					return &service.SessionInfo{ID: req.SessionID, ConfigName: req.ConfigName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "config_id is an alias of config_name",
			requestBody: map[string]interface{}{"config_id": "quick", "players": []string{"Ada", "Grace"}},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, req service.CreateSessionRequest) (*service.SessionInfo, error) {
					if req.ConfigName != "quick" {
						t.Errorf("Expected config name 'quick', got %s", req.ConfigName)
					}
					return &service.SessionInfo{ID: "s", ConfigName: req.ConfigName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing players",
			requestBody:    map[string]interface{}{"config_name": "classic"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed body",
			requestBody:    "not an object",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid players",
			requestBody: map[string]interface{}{"players": []string{"Ada", "ada"}},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, req service.CreateSessionRequest) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("failed to create session: %w", engine.ErrInvalidPlayer)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Duplicate session id",
			requestBody: map[string]interface{}{"session_id": "dup", "players": []string{"Ada", "Grace"}},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, req service.CreateSessionRequest) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("failed to create session: %w", session.ErrSessionAlreadyExists)
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:        "Unknown config",
			requestBody: map[string]interface{}{"config_name": "nope", "players": []string{"Ada", "Grace"}},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, req service.CreateSessionRequest) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("config 'nope': %w", config.ErrConfigNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Handle service error",
			requestBody: map[string]interface{}{"players": []string{"Ada", "Grace"}},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, req service.CreateSessionRequest) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(t, mockService)
			}

			w := serve(t, mockService, makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	sessions := func() []*service.SessionInfo {
		return []*service.SessionInfo{
			{ID: "old", CreatedAt: now.Add(-3 * time.Hour), LastAccessedAt: now.Add(-time.Minute)},
			{ID: "mid", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-time.Hour)},
			{ID: "new", CreatedAt: now.Add(-1 * time.Hour), LastAccessedAt: now.Add(-2 * time.Hour)},
		}
	}

	tests := []struct {
		name     string
		query    string
		expected []string
		total    int
	}{
		{"default sorts by last access, newest first", "", []string{"old", "mid", "new"}, 3},
		{"sort by created descending", "?sort=created", []string{"new", "mid", "old"}, 3},
		{"sort by created ascending", "?sort=created&order=asc", []string{"old", "mid", "new"}, 3},
		{"limit", "?sort=created&limit=2", []string{"new", "mid"}, 3},
		{"limit larger than list", "?limit=10", []string{"old", "mid", "new"}, 3},
		{"bad limit ignored", "?limit=abc", []string{"old", "mid", "new"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
					return sessions(), nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", "/api/sessions"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Count != len(tt.expected) || resp.Total != tt.total {
				t.Errorf("Expected count %d total %d, got %d/%d", len(tt.expected), tt.total, resp.Count, resp.Total)
			}
			var ids []string
			for _, s := range resp.Sessions {
				ids = append(ids, s.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("Expected order %v, got %v", tt.expected, ids)
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID == "missing" {
				return nil, fmt.Errorf("session %q: %w", sessionID, session.ErrSessionNotFound)
			}
			return &service.SessionInfo{ID: sessionID, ConfigName: "classic"}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/sessions/sess-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var info service.SessionInfo
	parseResponse(t, w, &info)
	if info.ID != "sess-1" {
		t.Errorf("Expected sess-1, got %s", info.ID)
	}

	w = serve(t, mockService, makeRequest("GET", "/api/sessions/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	var deleted string
	mockService := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID == "missing" {
				return session.ErrSessionNotFound
			}
			deleted = sessionID
			return nil
		},
	}

	w := serve(t, mockService, makeRequest("DELETE", "/api/sessions/sess-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if deleted != "sess-1" {
		t.Errorf("Expected sess-1 to be deleted, got %q", deleted)
	}

	w = serve(t, mockService, makeRequest("DELETE", "/api/sessions/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Turn Tests

func TestPlayTurn(t *testing.T) {
	t.Run("plays a turn", func(t *testing.T) {
		w := serve(t, &MockGameService{}, makeRequest("POST", "/api/sessions/sess-1/turn", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var result service.TurnResult
		parseResponse(t, w, &result)
		if result.Turn == nil || result.Turn.Turn != 1 || len(result.Turn.Dice) != 2 {
			t.Errorf("Unexpected turn: %+v", result.Turn)
		}
	})

	t.Run("game over is a conflict", func(t *testing.T) {
		mockService := &MockGameService{
			PlayTurnFunc: func(ctx context.Context, sessionID string) (*service.TurnResult, error) {
				return nil, engine.ErrGameOver
			},
		}
		w := serve(t, mockService, makeRequest("POST", "/api/sessions/sess-1/turn", nil))
		if w.Code != http.StatusConflict {
			t.Errorf("Expected status 409, got %d", w.Code)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		mockService := &MockGameService{
			PlayTurnFunc: func(ctx context.Context, sessionID string) (*service.TurnResult, error) {
				return nil, fmt.Errorf("session %q: %w", sessionID, session.ErrSessionNotFound)
			},
		}
		w := serve(t, mockService, makeRequest("POST", "/api/sessions/nope/turn", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestPlayTurns(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           interface{}
		expectedStatus int
		expectedCount  int
	}{
		{"count in body", "/api/sessions/s/turns", map[string]int{"count": 12}, http.StatusOK, 12},
		{"count in query", "/api/sessions/s/turns?count=7", nil, http.StatusOK, 7},
		{"body wins over query", "/api/sessions/s/turns?count=7", map[string]int{"count": 3}, http.StatusOK, 3},
		{"missing count", "/api/sessions/s/turns", nil, http.StatusBadRequest, 0},
		{"negative count", "/api/sessions/s/turns", map[string]int{"count": -1}, http.StatusBadRequest, 0},
		{"non-numeric count", "/api/sessions/s/turns?count=many", nil, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := 0
			mockService := &MockGameService{
				PlayTurnsFunc: func(ctx context.Context, sessionID string, count int) (*service.BulkTurnResult, error) {
					got = count
					return &service.BulkTurnResult{RequestedTurns: count, TurnsPlayed: count, GameState: &engine.GameState{}}, nil
				},
			}

			w := serve(t, mockService, makeRequest("POST", tt.path, tt.body))
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if got != tt.expectedCount {
				t.Errorf("Expected count %d passed to service, got %d", tt.expectedCount, got)
			}
		})
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected service.HistoryOptions
	}{
		{"defaults", "", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"explicit", "?page=3&limit=5&order=asc", service.HistoryOptions{Page: 3, Limit: 5, Order: "asc"}},
		{"invalid values ignored", "?page=-1&limit=x&order=sideways", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			mockService := &MockGameService{
				GetTurnHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{Turns: []engine.TurnLog{}, Page: opts.Page, PageSize: opts.Limit}, nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", "/api/sessions/s/history"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got != tt.expected {
				t.Errorf("Expected options %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestGetStandings(t *testing.T) {
	mockService := &MockGameService{
		GetStandingsFunc: func(ctx context.Context, sessionID string) (*service.StandingsResponse, error) {
			return &service.StandingsResponse{
				GameOver: true,
				Winner:   "Ada",
				Standings: []engine.Standing{
					{Rank: 1, Player: 0, Name: "Ada", NetWorth: 2100},
					{Rank: 2, Player: 1, Name: "Grace", Bankrupt: true},
				},
			}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/sessions/s/standings", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp service.StandingsResponse
	parseResponse(t, w, &resp)
	if !resp.GameOver || resp.Winner != "Ada" || len(resp.Standings) != 2 {
		t.Errorf("Unexpected standings: %+v", resp)
	}
}

func TestGetGameState(t *testing.T) {
	mockService := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			return &engine.GameState{Turn: 9, CurrentPlayer: 1, Winner: engine.NoPlayer}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/sessions/s/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var state engine.GameState
	parseResponse(t, w, &state)
	if state.Turn != 9 || state.CurrentPlayer != 1 {
		t.Errorf("Unexpected state: %+v", state)
	}
}

// Action Tests

func TestActions(t *testing.T) {
	type call struct {
		player, space int
	}

	tests := []struct {
		name           string
		path           string
		body           interface{}
		err            error
		expectedStatus int
		expectedCall   *call
	}{
		{"buy", "/api/sessions/s/buy", nil, nil, http.StatusOK, &call{}},
		{"build house", "/api/sessions/s/build-house", map[string]int{"player": 1, "space": 39}, nil, http.StatusOK, &call{1, 39}},
		{"build house on seat zero", "/api/sessions/s/build-house", map[string]int{"player": 0, "space": 1}, nil, http.StatusOK, &call{0, 1}},
		{"build house without space", "/api/sessions/s/build-house", map[string]int{"player": 1}, nil, http.StatusBadRequest, nil},
		{"build hotel", "/api/sessions/s/build-hotel", map[string]int{"player": 2, "space": 37}, nil, http.StatusOK, &call{2, 37}},
		{"build hotel without player", "/api/sessions/s/build-hotel", map[string]int{"space": 37}, nil, http.StatusBadRequest, nil},
		{"mortgage", "/api/sessions/s/mortgage", map[string]int{"space": 5}, nil, http.StatusOK, &call{space: 5}},
		{"mortgage unownable", "/api/sessions/s/mortgage", map[string]int{"space": 0}, engine.ErrNotOwnable, http.StatusBadRequest, &call{space: 0}},
		{"unmortgage", "/api/sessions/s/unmortgage", map[string]int{"space": 12}, nil, http.StatusOK, &call{space: 12}},
		{"unmortgage out of range", "/api/sessions/s/unmortgage", map[string]int{"space": 99}, engine.ErrInvalidSpace, http.StatusBadRequest, &call{space: 99}},
		{"surrender", "/api/sessions/s/surrender", map[string]int{"player": 1}, nil, http.StatusOK, &call{player: 1}},
		{"surrender without player", "/api/sessions/s/surrender", nil, nil, http.StatusBadRequest, nil},
		{"surrender after game over", "/api/sessions/s/surrender", map[string]int{"player": 0}, engine.ErrGameOver, http.StatusConflict, &call{}},
		{"malformed body", "/api/sessions/s/mortgage", "space", nil, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *call
			record := func(player, space int) (*service.ActionResult, error) {
				got = &call{player, space}
				if tt.err != nil {
					return nil, tt.err
				}
				return &service.ActionResult{Success: true, GameState: &engine.GameState{}}, nil
			}
			mockService := &MockGameService{
				BuyPropertyFunc: func(ctx context.Context, sessionID string) (*service.ActionResult, error) {
					return record(0, 0)
				},
				BuildHouseFunc: func(ctx context.Context, sessionID string, player, space int) (*service.ActionResult, error) {
					return record(player, space)
				},
				BuildHotelFunc: func(ctx context.Context, sessionID string, player, space int) (*service.ActionResult, error) {
					return record(player, space)
				},
				MortgageFunc: func(ctx context.Context, sessionID string, space int) (*service.ActionResult, error) {
					return record(0, space)
				},
				UnmortgageFunc: func(ctx context.Context, sessionID string, space int) (*service.ActionResult, error) {
					return record(0, space)
				},
				SurrenderFunc: func(ctx context.Context, sessionID string, player int) (*service.ActionResult, error) {
					return record(player, 0)
				},
			}

			w := serve(t, mockService, makeRequest("POST", tt.path, tt.body))
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			switch {
			case tt.expectedCall == nil && got != nil:
				t.Errorf("Service should not be called, got %+v", got)
			case tt.expectedCall != nil && (got == nil || *got != *tt.expectedCall):
				t.Errorf("Expected call %+v, got %+v", tt.expectedCall, got)
			}
		})
	}
}

func TestActionRejectedByRules(t *testing.T) {
	mockService := &MockGameService{
		BuildHouseFunc: func(ctx context.Context, sessionID string, player, space int) (*service.ActionResult, error) {
			return &service.ActionResult{Action: engine.ActionBuildHouse, Success: false, Message: "not allowed"}, nil
		},
	}

	w := serve(t, mockService, makeRequest("POST", "/api/sessions/s/build-house", map[string]int{"player": 0, "space": 1}))
	if w.Code != http.StatusOK {
		t.Fatalf("Rule rejections are not transport errors, got status %d", w.Code)
	}
	var result service.ActionResult
	parseResponse(t, w, &result)
	if result.Success {
		t.Error("Expected Success false")
	}
}

// Configuration Tests

func TestListConfigs(t *testing.T) {
	mockService := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{
				{Filename: "classic.json", ConfigID: "classic", Name: "Classic", AutoBuy: true},
				{Filename: "quick.yaml", ConfigID: "quick", Name: "Quick"},
			}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/configs", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var configs []service.ConfigInfo
	parseResponse(t, w, &configs)
	if len(configs) != 2 || configs[1].ConfigID != "quick" {
		t.Errorf("Unexpected configs: %+v", configs)
	}
}

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedName   string
		expectedStatus int
	}{
		{"by id", "/api/configs/classic", "classic", http.StatusOK},
		{"json extension stripped", "/api/configs/classic.json", "classic", http.StatusOK},
		{"yaml extension stripped", "/api/configs/quick.yaml", "quick", http.StatusOK},
		{"not found", "/api/configs/missing", "missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requested string
			mockService := &MockGameService{
				LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
					requested = configName
					if configName == "missing" {
						return nil, config.ErrConfigNotFound
					}
					cfg := engine.DefaultGameConfig()
					cfg.Name = configName
					return cfg, nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", tt.path, nil))
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if requested != tt.expectedName {
				t.Errorf("Expected lookup of %q, got %q", tt.expectedName, requested)
			}
		})
	}
}

func TestCreateConfig(t *testing.T) {
	t.Run("saves under config_id", func(t *testing.T) {
		var savedID string
		var saved *engine.GameConfig
		mockService := &MockGameService{
			SaveConfigFunc: func(ctx context.Context, configName string, cfg *engine.GameConfig) error {
				savedID, saved = configName, cfg
				return nil
			},
		}

		body := map[string]interface{}{
			"config_id":      "rich",
			"name":           "Rich Start",
			"starting_money": 5000,
			"auto_buy":       true,
		}
		w := serve(t, mockService, makeRequest("POST", "/api/configs", body))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		if savedID != "rich" || saved == nil || saved.StartingMoney != 5000 || saved.Name != "Rich Start" {
			t.Errorf("Unexpected save: %q %+v", savedID, saved)
		}
	})

	t.Run("name is required", func(t *testing.T) {
		w := serve(t, &MockGameService{}, makeRequest("POST", "/api/configs", map[string]int{"starting_money": 100}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("invalid rules", func(t *testing.T) {
		mockService := &MockGameService{
			SaveConfigFunc: func(ctx context.Context, configName string, cfg *engine.GameConfig) error {
				return fmt.Errorf("%w: config validation: starting money must be positive", config.ErrInvalidConfig)
			},
		}
		w := serve(t, mockService, makeRequest("POST", "/api/configs", map[string]interface{}{"name": "broke", "starting_money": -1}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

// WebSocket Tests

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "Missing session parameter",
			queryParams:    "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid session",
			queryParams: "?session=invalid",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, session.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(t, mockService, httptest.NewRequest("GET", "/ws"+tt.queryParams, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}

	t.Run("Valid session upgrades", func(t *testing.T) {
		server := httptest.NewServer(setupTestServer(t, &MockGameService{}))
		defer server.Close()

		wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?session=sess-123"
		conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("Failed to connect: %v", err)
		}
		defer conn.Close()
		if resp.StatusCode != http.StatusSwitchingProtocols {
			t.Errorf("Expected status 101, got %d", resp.StatusCode)
		}
	})

	t.Run("Disabled without hub", func(t *testing.T) {
		server := NewServer(&MockGameService{}, nil, zerolog.Nop())
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/ws?session=s", nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", w.Code)
		}
	})
}

func TestDeleteSessionNotifiesSubscribers(t *testing.T) {
	server := httptest.NewServer(setupTestServer(t, &MockGameService{}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?session=doomed"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	// Registration happens asynchronously after the upgrade
	time.Sleep(50 * time.Millisecond)

	req, _ := http.NewRequest("DELETE", server.URL+"/api/sessions/doomed", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg websocket.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	if msg.Event != EventSessionDeleted || msg.SessionID != "doomed" {
		t.Errorf("Unexpected message: %+v", msg)
	}
}
