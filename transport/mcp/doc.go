// Package mcp exposes the Monopoly REST API as Model Context Protocol tools.
//
// The Client registers its tools on an mcp-go server and forwards every call
// to the HTTP API, so an agent sees the same sessions as REST and WebSocket
// clients.
//
// MCP Tools:
//
//   - create_game: start a session with player names, optional config and seed
//   - list_games: list active sessions
//   - game_state: players, holdings and any open purchase offer
//   - play_turn: play the current player's turn
//   - play_turns: play up to 50 turns, stopping early on game over or an offer
//   - buy_property: accept the open purchase offer
//   - build_house, build_hotel: develop a property of a complete color group
//   - mortgage, unmortgage: raise or repay cash against a property
//   - surrender: concede for a player, which ends the game
//   - turn_history: paginated turn logs
//   - standings: players ranked by net worth
//   - describe_space: one board space with owner and development
//   - list_configs: available rule configurations
//   - game_instructions: rules summary
//
// Transport Modes:
//
// The server runs over stdio for local agents or is mounted on the HTTP
// server at /mcp.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
