// Package api provides the HTTP REST API for the Klondike server.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions               {"deal_id": "standard"} creates a session
//   - GET    /api/sessions               ?sort=created|accessed&order=asc|desc&limit=N&deal=name
//   - GET    /api/sessions/{id}
//   - DELETE /api/sessions/{id}
//
// Play:
//   - GET  /api/sessions/{id}/state      ?reveal=true shows face-down cards
//   - POST /api/sessions/{id}/move       {"from": "stock", "to": "3"}; "to": "suit" targets the foundation
//   - POST /api/sessions/{id}/foundation {"from": "1"}
//   - POST /api/sessions/{id}/discard
//   - POST /api/sessions/{id}/reset      turns the discard pile over once the stock is empty
//   - POST /api/sessions/{id}/restart
//   - POST /api/sessions/{id}/command    {"command": "move 1 suit"}
//   - GET  /api/sessions/{id}/history    ?page=1&limit=20&order=desc
//   - GET  /api/sessions/{id}/hints
//
// Saves:
//   - GET /api/sessions/{id}/save        {"save": "Stock [ ... ]\n..."}
//   - PUT /api/sessions/{id}/save        replaces the board; the old board stays on a format error
//
// Deals:
//   - GET  /api/deals
//   - GET  /api/deals/{name}
//   - POST /api/deals                    {"deal_id": "mine", "save": "..."}
//
// Misc:
//   - GET /api/rules, GET /api/health
//   - GET /ws?session={id} upgrades to a websocket for live updates
//
// Error Handling:
//
// Failures are JSON {"error": "..."}. Missing sessions or deals are 404,
// bad input and malformed saves are 400, duplicate IDs are 409. A move the
// rules reject is not an HTTP error: it returns 200 with "success": false
// and a "code" such as "illegal_move".
package api
