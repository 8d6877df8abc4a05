// Package mcp exposes Klondike to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a REST request to the
// api package, so agents and browsers always see the same sessions.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - board, move, discard, reset_stock, restart, command
//   - hints, move_history
//   - export_save, import_save
//   - list_deals, game_rules
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer()) for local agents
//   - HTTP: POST /mcp on the main server, handled by HandleMessage
//
// Rejected moves are not tool errors. They come back as text starting with
// "✗" plus the rejection code, and the agent is expected to try again.
package mcp
