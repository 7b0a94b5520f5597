// Package websocket pushes live game updates to browser and agent clients.
//
// A Hub keeps the clients subscribed to each session and fans out one JSON
// Message per frame:
//
//	{"session_id": "abc12345", "event": "turn", "log": {...}, "game_state": {...}}
//
// Events:
//   - turn: a turn was played; log holds its TurnLog
//   - action: a driver action (buy, build, mortgage, surrender) was applied
//   - state_update: a bare state snapshot
//   - session_deleted: the session is gone
//
// The Hub implements service.Notifier, so wiring it into the game service
// is enough for every turn to reach subscribers:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	svc := service.NewGameService(sessions, configs, service.WithNotifier(hub))
//
// Clients connect with ?session={id}. Messages are only read to keep the
// connection alive. A client whose send buffer fills up is dropped, and
// cancelling the context passed to Run closes every client.
package websocket
