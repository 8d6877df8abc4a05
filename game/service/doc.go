// Package service provides the business logic layer for the Klondike server.
//
// The service package implements:
//   - Multi-session game management
//   - Deal selection and loading
//   - Move processing with rule rejections reported in results
//   - Text command execution through the command dispatcher
//   - Move history tracking and event publishing
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// DealManager loads, lists and stores starting boards.
// EventPublisher receives every GameEvent produced by a state change.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP, SSH)
// and the game engine. Each session owns its own engine, so sessions never
// share a board. Successful mutations are saved through the SessionManager
// and then published.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	dealMgr, _ := config.NewManager("deals")
//	gameService := service.NewGameService(sessionMgr, dealMgr, hub)
//
//	info, err := gameService.CreateSession(ctx, "standard")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.MoveToPile(ctx, info.ID, "stock", "3")
//
// Error Classes:
//
// Manager errors wrap ErrNotFound, ErrInvalid or ErrConflict so transports
// can map them with errors.Is. Engine rule errors keep their own kinds.
package service
