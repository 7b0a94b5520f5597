package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/monopoly/game/engine"
	"github.com/wricardo/mcp-training/monopoly/game/service"
)

// ServerVersion is reported to MCP clients during initialization
const ServerVersion = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Monopoly",
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Monopoly - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Players are seats 0..N-1. Board spaces are indices 0..39 (0 is GO, 10 is
Jail, 30 is Go To Jail). Every turn is resolved by the engine: dice, movement,
rent, taxes, cards and jail. You drive the game and decide on purchases when
auto_buy is off, building and mortgages.

AVAILABLE TOOLS:
- create_game: Start a game for 2-8 named players
- list_games: List active games
- game_state: Players, money, positions and holdings
- play_turn / play_turns: Resolve one turn, or up to 50 in a row
- buy_property: Accept the open purchase offer
- build_house / build_hotel: Develop a property of a completed color group
- mortgage / unmortgage: Raise or repay money on a property
- surrender: A player concedes, which ends the game
- turn_history: Past turns with every event
- standings: Players ranked by net worth
- describe_space: Details of one board space
- list_configs: Available rule configurations
- game_instructions: Rules summary`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Game session ID",
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game session for 2-8 players",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"players": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Player names in seat order",
				},
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Rule configuration to use (optional, see list_configs)",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to use (optional, generated when omitted)",
				},
				"seed": intProperty("Random seed for a replayable game (optional)"),
			},
			Required: []string{"players"},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	// Turn flow
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_turn",
		Description: "Play one turn for the current player",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handlePlayTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_turns",
		Description: fmt.Sprintf("Play several turns in a row (at most %d). Stops early on game over or an open purchase offer.", service.MaxBulkTurns),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"count":      intProperty("Number of turns to play"),
			},
			Required: []string{"session_id", "count"},
		},
	}, c.handlePlayTurns)

	// Driver actions
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "buy_property",
		Description: "Buy the property the offered player landed on (only when auto_buy is off)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleBuyProperty)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "build_house",
		Description: "Build a house on a property. Requires the whole color group, no mortgages in it and even building.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"player":     intProperty("Seat of the owner"),
				"space":      intProperty("Board index of the property"),
			},
			Required: []string{"session_id", "player", "space"},
		},
	}, c.handleBuildHouse)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "build_hotel",
		Description: "Replace four houses with a hotel",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"player":     intProperty("Seat of the owner"),
				"space":      intProperty("Board index of the property"),
			},
			Required: []string{"session_id", "player", "space"},
		},
	}, c.handleBuildHotel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mortgage",
		Description: "Mortgage a property for half its price",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"space":      intProperty("Board index of the property"),
			},
			Required: []string{"session_id", "space"},
		},
	}, c.handleMortgage)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "unmortgage",
		Description: "Repay a mortgage (mortgage value plus 10%)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"space":      intProperty("Board index of the property"),
			},
			Required: []string{"session_id", "space"},
		},
	}, c.handleUnmortgage)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "surrender",
		Description: "A player surrenders. Their holdings return to the bank and the game ends; the remaining player with the highest net worth wins.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"player":     intProperty("Seat of the surrendering player"),
			},
			Required: []string{"session_id", "player"},
		},
	}, c.handleSurrender)

	// Inspection
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_history",
		Description: "Get the turn history of a session, most recent first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page":       intProperty("Page number"),
				"limit":      intProperty("Turns per page"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleTurnHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "standings",
		Description: "Rank players by net worth",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleStandings)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_space",
		Description: "Get details about one board space: kind, price, owner, development and mortgage status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"space":      intProperty("Board index (0-39)"),
			},
			Required: []string{"session_id", "space"},
		},
	}, c.handleDescribeSpace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rule configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get a summary of the rules the engine plays by",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

func requireInt(args map[string]interface{}, key string) (int, *mcp.CallToolResult) {
	v, ok := intArg(args, key)
	if !ok {
		return 0, mcp.NewToolResultError(key + " is required and must be a number")
	}
	return v, nil
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	playersRaw, _ := args["players"].([]interface{})
	players := make([]string, 0, len(playersRaw))
	for _, p := range playersRaw {
		if name, ok := p.(string); ok {
			players = append(players, name)
		}
	}
	if len(players) == 0 {
		return mcp.NewToolResultError("players is required"), nil
	}

	body := map[string]interface{}{"players": players}
	if configName, _ := args["config_name"].(string); configName != "" {
		body["config_name"] = configName
	}
	if sessionID, _ := args["session_id"].(string); sessionID != "" {
		body["session_id"] = sessionID
	}
	if seed, ok := intArg(args, "seed"); ok && seed > 0 {
		body["seed"] = seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\nConfig: %s\n\n", session.ID, session.ConfigName)
	result += formatGameState(session.GameState)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Games (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.GameState != nil {
			if s.GameState.GameOver {
				status = "finished"
			}
			status = fmt.Sprintf("%s, turn %d, %d players", status, s.GameState.Turn, len(s.GameState.Players))
		}
		result += fmt.Sprintf("- %s (Config: %s, %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handlePlayTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	var result service.TurnResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/turn"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handlePlayTurns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	count, errResult := requireInt(args, "count")
	if errResult != nil {
		return errResult, nil
	}

	var result service.BulkTurnResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/turns"), map[string]int{"count": count}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkTurnResult(sessionID, &result)), nil
}

func (c *Client) action(ctx context.Context, sessionID, path string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, path), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleBuyProperty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}
	return c.action(ctx, sessionID, "/buy", nil)
}

func (c *Client) handleBuildHouse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.developmentAction(ctx, request, "/build-house")
}

func (c *Client) handleBuildHotel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.developmentAction(ctx, request, "/build-hotel")
}

func (c *Client) developmentAction(ctx context.Context, request mcp.CallToolRequest, path string) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	player, errResult := requireInt(args, "player")
	if errResult != nil {
		return errResult, nil
	}
	space, errResult := requireInt(args, "space")
	if errResult != nil {
		return errResult, nil
	}
	return c.action(ctx, sessionID, path, map[string]int{"player": player, "space": space})
}

func (c *Client) handleMortgage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.spaceAction(ctx, request, "/mortgage")
}

func (c *Client) handleUnmortgage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.spaceAction(ctx, request, "/unmortgage")
}

func (c *Client) spaceAction(ctx context.Context, request mcp.CallToolRequest, path string) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	space, errResult := requireInt(args, "space")
	if errResult != nil {
		return errResult, nil
	}
	return c.action(ctx, sessionID, path, map[string]int{"space": space})
}

func (c *Client) handleSurrender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	player, errResult := requireInt(args, "player")
	if errResult != nil {
		return errResult, nil
	}
	return c.action(ctx, sessionID, "/surrender", map[string]int{"player": player})
}

func (c *Client) handleTurnHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleStandings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var standings service.StandingsResponse
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/standings"), nil, &standings); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStandings(&standings)), nil
}

func (c *Client) handleDescribeSpace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	index, errResult := requireInt(args, "space")
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if index < 0 || index >= len(state.Board) {
		return mcp.NewToolResultError(fmt.Sprintf("Space %d is out of range. The board has spaces 0-%d", index, len(state.Board)-1)), nil
	}

	return mcp.NewToolResultText(formatSpace(&state, state.Board[index])), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Starting money: $%d, Players: %d-%d, Auto-buy: %t\n\n",
			config.ConfigID, config.Name, config.Description,
			config.StartingMoney, config.MinPlayers, config.MaxPlayers, config.AutoBuy)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Monopoly - Rules Summary

OBJECTIVE:
Be the last player who is not bankrupt.

TURN:
1. A player in jail uses a Get Out of Jail Free card, rolls for doubles, or
   pays the jail fee after the last allowed attempt.
2. Two dice are rolled. Three doubles in a row send the player to jail.
3. The token moves; passing or landing on GO pays the GO salary.
4. The landing space is resolved: rent, tax, a card, or Go To Jail.
5. An unowned property is bought automatically when auto_buy is on and the
   player can afford it. Otherwise a purchase offer stays open for buy_property.
6. Doubles give another turn unless the player went to jail.

RENT:
- Properties: the purchase price while undeveloped, doubled when the owner
  holds the complete color group, then the rent table for 1-4 houses or a hotel.
- Railroads: 25, 50, 100 or 200 by how many the owner has.
- Utilities: 4x the dice with one, 10x with both.
- Mortgaged properties charge nothing.

BUILDING:
- Houses need the whole color group, no mortgages in it, and even building.
- A hotel replaces four houses.

MONEY:
- Mortgage a property for half its price. Repaying costs the mortgage plus 10%.
- A player who cannot pay goes bankrupt. Their holdings return to the bank.
- A surrender ends the game at once. Standings decide the winner.

TOOLS:
- play_turns plays up to 50 turns and stops early on game over or an open
  purchase offer.
- turn_history lists every event of past turns.
- describe_space shows owner, development and rent of one space.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func playerName(state *engine.GameState, seat int) string {
	if state != nil && seat >= 0 && seat < len(state.Players) {
		return state.Players[seat].Name
	}
	if seat == engine.NoPlayer {
		return "bank"
	}
	return fmt.Sprintf("player %d", seat)
}

func spaceName(state *engine.GameState, index int) string {
	if state != nil && index >= 0 && index < len(state.Board) {
		return state.Board[index].Name
	}
	return fmt.Sprintf("space %d", index)
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Turn: %d\n", state.Turn)

	switch {
	case state.GameOver:
		b.WriteString("🏁 GAME OVER")
		if state.Winner != engine.NoPlayer {
			fmt.Fprintf(&b, " - Winner: %s", playerName(state, state.Winner))
		}
		b.WriteString("\n")
	default:
		fmt.Fprintf(&b, "Current player: %s\n", playerName(state, state.CurrentPlayer))
	}

	if state.PendingOffer != engine.NoPlayer {
		p := state.PendingOffer
		if p >= 0 && p < len(state.Players) {
			pos := state.Players[p].Position
			fmt.Fprintf(&b, "Purchase offer open: %s may buy %s\n", playerName(state, p), spaceName(state, pos))
		}
	}

	b.WriteString("\nPlayers:\n")
	for _, p := range state.Players {
		status := ""
		switch {
		case p.Surrendered:
			status = " [surrendered]"
		case p.Bankrupt:
			status = " [bankrupt]"
		case p.InJail:
			status = fmt.Sprintf(" [in jail, %d attempts]", p.JailTurns)
		}
		fmt.Fprintf(&b, "  %d. %s: $%d at %s (%d)%s\n",
			p.ID, p.Name, p.Money, spaceName(state, p.Position), p.Position, status)

		if len(p.Properties) > 0 {
			names := make([]string, 0, len(p.Properties))
			for _, idx := range p.Properties {
				names = append(names, holdingLabel(state, idx))
			}
			fmt.Fprintf(&b, "     Holdings: %s\n", strings.Join(names, ", "))
		}
		if len(p.JailCards) > 0 {
			fmt.Fprintf(&b, "     Get Out of Jail Free cards: %d\n", len(p.JailCards))
		}
	}

	return b.String()
}

func holdingLabel(state *engine.GameState, index int) string {
	label := spaceName(state, index)
	if index < 0 || index >= len(state.Board) {
		return label
	}
	s := state.Board[index]
	switch {
	case s.Hotel:
		label += " (hotel)"
	case s.Houses > 0:
		label += fmt.Sprintf(" (%d houses)", s.Houses)
	}
	if s.Mortgaged {
		label += " [mortgaged]"
	}
	return label
}

func formatTurnLog(log *engine.TurnLog, state *engine.GameState) string {
	if log == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Turn %d - %s", log.Turn, playerName(state, log.Player))
	if len(log.Dice) == 2 {
		fmt.Fprintf(&b, " rolled %d+%d", log.Dice[0], log.Dice[1])
	}
	if log.Action != "" && log.Action != engine.ActionTurn {
		fmt.Fprintf(&b, " (%s)", log.Action)
	}
	b.WriteString("\n")
	for _, e := range log.Events {
		if e.Type == engine.EventTurnStarted || e.Message == "" {
			continue
		}
		fmt.Fprintf(&b, "  • %s\n", e.Message)
	}
	return b.String()
}

func formatTurnResult(result *service.TurnResult) string {
	var b strings.Builder
	b.WriteString(formatTurnLog(result.Turn, result.GameState))

	switch {
	case result.GameOver:
		fmt.Fprintf(&b, "\n🏁 GAME OVER - Winner: %s\n", result.Winner)
	case result.PendingOffer:
		b.WriteString("\nA purchase offer is open. Use buy_property to accept or play_turn to decline.\n")
	default:
		fmt.Fprintf(&b, "\nNext: %s\n", result.NextPlayer)
	}
	return b.String()
}

func formatBulkTurnResult(sessionID string, result *service.BulkTurnResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: played %d of %d requested turns\n", sessionID, result.TurnsPlayed, result.RequestedTurns)
	if result.Truncated {
		fmt.Fprintf(&b, "Request capped at %d turns\n", result.Limit)
	}
	switch result.StopReasonCode {
	case "game_over":
		fmt.Fprintf(&b, "Stopped: game over, winner %s\n", result.Winner)
	case "purchase_offer":
		b.WriteString("Stopped: a purchase offer is open (buy_property to accept)\n")
	}

	b.WriteString("\n")
	for i := range result.Turns {
		b.WriteString(formatTurnLog(&result.Turns[i], result.GameState))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s succeeded", result.Action)
	} else {
		fmt.Fprintf(&b, "✗ %s rejected", result.Action)
	}
	if result.Amount != 0 {
		fmt.Fprintf(&b, " ($%d)", result.Amount)
	}
	b.WriteString("\n")
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if result.Log != nil {
		b.WriteString(formatTurnLog(result.Log, result.GameState))
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn History (Page %d/%d, %d entries total):\n\n",
		history.Page, history.TotalPages, history.TotalTurns)
	for i := range history.Turns {
		b.WriteString(formatTurnLog(&history.Turns[i], nil))
	}
	if history.HasNext {
		b.WriteString("\nMore entries on the next page\n")
	}
	return b.String()
}

func formatStandings(standings *service.StandingsResponse) string {
	var b strings.Builder
	if standings.GameOver {
		fmt.Fprintf(&b, "🏁 Final standings - Winner: %s\n\n", standings.Winner)
	} else {
		b.WriteString("Current standings:\n\n")
	}
	for _, s := range standings.Standings {
		status := ""
		if s.Bankrupt {
			status = " [out]"
		}
		fmt.Fprintf(&b, "%d. %s - net worth $%d (cash $%d, %d properties)%s\n",
			s.Rank, s.Name, s.NetWorth, s.Money, s.Properties, status)
	}
	return b.String()
}

func formatSpace(state *engine.GameState, s engine.SpaceState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Space %d: %s\nKind: %s\n", s.Index, s.Name, s.Kind)

	switch s.Kind {
	case engine.KindProperty, engine.KindRailroad, engine.KindUtility:
		fmt.Fprintf(&b, "Price: $%d\n", s.Price)
		if s.ColorGroup != "" {
			fmt.Fprintf(&b, "Color group: %s (house cost $%d)\n", s.ColorGroup, s.HouseCost)
		}
		if s.Owner == engine.NoPlayer {
			b.WriteString("Owner: none (bank)\n")
		} else {
			fmt.Fprintf(&b, "Owner: %s\n", playerName(state, s.Owner))
		}
		switch {
		case s.Hotel:
			b.WriteString("Development: hotel\n")
		case s.Houses > 0:
			fmt.Fprintf(&b, "Development: %d houses\n", s.Houses)
		}
		if s.Mortgaged {
			b.WriteString("Mortgaged: yes (no rent is charged)\n")
		}
	case engine.KindTax:
		fmt.Fprintf(&b, "Tax: $%d\n", s.TaxValue)
	}

	var here []string
	for _, p := range state.Players {
		if p.Position == s.Index && !p.Bankrupt {
			here = append(here, p.Name)
		}
	}
	if len(here) > 0 {
		fmt.Fprintf(&b, "Players here: %s\n", strings.Join(here, ", "))
	}
	return b.String()
}
