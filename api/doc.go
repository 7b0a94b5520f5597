// Package api provides the HTTP REST API for the Monopoly game server.
//
// Every driver operation of a game session is exposed under /api:
//
// Sessions:
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - POST /api/sessions - Create a session {players, config_name, session_id, seed}
//   - GET /api/sessions/{id} - Session info with its game state
//   - DELETE /api/sessions/{id} - Delete a session
//
// Turn flow:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/turn - Play one turn
//   - POST /api/sessions/{id}/turns - Play up to 50 turns {count}
//   - GET /api/sessions/{id}/history - Turn history (?page&limit&order)
//   - GET /api/sessions/{id}/standings - Players ranked by net worth
//
// Driver actions:
//   - POST /api/sessions/{id}/buy - Accept the open purchase offer
//   - POST /api/sessions/{id}/build-house - {player, space}
//   - POST /api/sessions/{id}/build-hotel - {player, space}
//   - POST /api/sessions/{id}/mortgage - {space}
//   - POST /api/sessions/{id}/unmortgage - {space}
//   - POST /api/sessions/{id}/surrender - {player}
//
// Configuration:
//   - GET /api/configs - List rule configs
//   - GET /api/configs/{name} - Load one rule config
//   - POST /api/configs - Save a rule config
//
// Live updates are served at /ws?session={id}.
//
// Errors:
//
// Errors are returned as {"error": "..."}. Missing sessions and configs map
// to 404, actions on a finished game or a taken session ID to 409, and bad
// players, spaces, IDs or rules to 400. A move the rules reject (building
// unevenly, mortgaging a developed group) is not an error: the response is
// 200 with "success": false.
//
// Logging:
//
// Requests are logged through zerolog's hlog middleware with a request ID
// echoed in the Request-Id header.
package api
