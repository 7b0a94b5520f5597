// Package service provides the business logic layer for the Monopoly engine.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Turn play, single and bulk
//   - Driver actions: buying, building, mortgaging and surrendering
//   - Turn history and standings
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, persistence and lifecycle.
// ConfigManager manages rule configuration loading and validation.
// Notifier receives every log a session produces, usually a websocket hub.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, configuration management, and
// business logic orchestration. Each session owns its own engine instance.
// Actions the rules reject come back as an ActionResult with Success false;
// malformed requests come back as errors wrapping the engine sentinels.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, service.CreateSessionRequest{
//		ConfigName: "classic",
//		Players:    []string{"Ada", "Grace"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.PlayTurn(ctx, info.ID)
package service
