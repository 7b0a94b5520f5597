package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wricardo/mcp-training/monopoly/game/engine"
	"github.com/wricardo/mcp-training/monopoly/game/service"
)

// Client drives one game session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID is the session the client plays
func (c *Client) SessionID() string {
	return c.sessionID
}

// Resume points the client at an existing session and returns its state
func (c *Client) Resume(ctx context.Context, sessionID string) (*engine.GameState, error) {
	c.sessionID = sessionID
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.path("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}
	return &state, nil
}

func (c *Client) CreateSession(ctx context.Context, req service.CreateSessionRequest) (*engine.GameState, error) {
	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) PlayTurn(ctx context.Context) (*service.TurnResult, error) {
	var result service.TurnResult
	if err := c.do(ctx, http.MethodPost, c.path("/turn"), nil, &result); err != nil {
		return nil, fmt.Errorf("play turn: %w", err)
	}
	return &result, nil
}

func (c *Client) Buy(ctx context.Context) (*service.ActionResult, error) {
	return c.action(ctx, "/buy", nil)
}

func (c *Client) BuildHouse(ctx context.Context, player, space int) (*service.ActionResult, error) {
	return c.action(ctx, "/build-house", map[string]int{"player": player, "space": space})
}

func (c *Client) BuildHotel(ctx context.Context, player, space int) (*service.ActionResult, error) {
	return c.action(ctx, "/build-hotel", map[string]int{"player": player, "space": space})
}

func (c *Client) Unmortgage(ctx context.Context, space int) (*service.ActionResult, error) {
	return c.action(ctx, "/unmortgage", map[string]int{"space": space})
}

func (c *Client) Standings(ctx context.Context) (*service.StandingsResponse, error) {
	var standings service.StandingsResponse
	if err := c.do(ctx, http.MethodGet, c.path("/standings"), nil, &standings); err != nil {
		return nil, fmt.Errorf("standings: %w", err)
	}
	return &standings, nil
}

func (c *Client) action(ctx context.Context, suffix string, body interface{}) (*service.ActionResult, error) {
	var result service.ActionResult
	if err := c.do(ctx, http.MethodPost, c.path(suffix), body, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", suffix[1:], err)
	}
	return &result, nil
}

func (c *Client) path(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s - %s", resp.Status, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
