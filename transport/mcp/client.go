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
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
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
		"Klondike",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Klondike Solitaire - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Build all four foundations (Spades, Hearts, Diamonds, Clubs) from Ace to King.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage games
- board: show the board (face-down cards as ??)
- move: move cards; from is 1-7 or stock, to is 1-7 or suit - requires intent explanation
- discard: deal three cards from the stock
- reset_stock: turn the discard pile over once the stock is empty
- restart: go back to the starting deal
- command: run one text command such as "move 1 suit"
- hints: list the actions that would currently succeed
- move_history: view past actions
- export_save / import_save: save-file text for the current board
- list_deals: starting boards available for create_session
- game_rules: the rules in full

NOTE: The 'intent' parameter on move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionSchema(extra map[string]interface{}, required ...string) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"session_id"}, required...),
	}
}

var pileIDs = []string{"1", "2", "3", "4", "5", "6", "7", engine.MoveStock}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally from a named deal",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"deal_id": map[string]interface{}{
					"type":        "string",
					"description": "Deal to start from (see list_deals); the default deal when omitted",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board",
		Description: "Show the board, top card first on each pile",
		InputSchema: sessionSchema(map[string]interface{}{
			"reveal": map[string]interface{}{
				"type":        "boolean",
				"description": "Show face-down cards (debug view)",
			},
		}),
	}, c.handleBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move cards from a tableau column or the stock to a tableau column or the foundations",
		InputSchema: sessionSchema(map[string]interface{}{
			"from": map[string]interface{}{
				"type":        "string",
				"enum":        pileIDs,
				"description": "Source: 1-7 or stock",
			},
			"to": map[string]interface{}{
				"type":        "string",
				"enum":        append(pileIDs[:7:7], engine.MoveSuit),
				"description": "Destination: 1-7 or suit",
			},
			"intent": map[string]interface{}{
				"type":        "string",
				"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
			},
		}, "from", "to"),
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "discard",
		Description: "Deal up to three cards from the stock onto the discard pile",
		InputSchema: sessionSchema(nil),
	}, c.handleDiscard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_stock",
		Description: "Turn the discard pile back into the stock (the stock must be empty)",
		InputSchema: sessionSchema(nil),
	}, c.handleResetStock)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Return the session to its starting deal",
		InputSchema: sessionSchema(nil),
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Run one text command (move, discard, reset, board, comment, hint, help)",
		InputSchema: sessionSchema(map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"description": "Command line, e.g. \"move stock 3\"",
			},
		}, "command"),
	}, c.handleCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hints",
		Description: "List every action that would currently succeed",
		InputSchema: sessionSchema(nil),
	}, c.handleHints)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get paginated move history",
		InputSchema: sessionSchema(map[string]interface{}{
			"page": map[string]interface{}{
				"type":        "number",
				"description": "Page number (default 1)",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Moves per page (default 20)",
			},
		}),
	}, c.handleMoveHistory)

	// Saves
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "export_save",
		Description: "Get the board in save-file format",
		InputSchema: sessionSchema(nil),
	}, c.handleExportSave)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "import_save",
		Description: "Replace the board with save-file text; a malformed save leaves the board unchanged",
		InputSchema: sessionSchema(map[string]interface{}{
			"save": map[string]interface{}{
				"type":        "string",
				"description": "Save-file text, one pile per line",
			},
		}, "save"),
	}, c.handleImportSave)

	// Deals and rules
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_deals",
		Description: "List available starting deals",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListDeals)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the rules and the command vocabulary",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server
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

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	id, _ := args["session_id"].(string)
	if id == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(id) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	dealID, _ := args["deal_id"].(string)

	body := map[string]string{}
	if dealID != "" {
		body["deal_id"] = dealID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nDeal: %s\n\n%s", session.ID, session.DealName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		foundation := 0
		if s.GameState != nil {
			foundation = s.GameState.FoundationCards
		}
		fmt.Fprintf(&b, "- %s (Deal: %s, Foundations: %d/52, Created: %s)\n",
			s.ID, s.DealName, foundation, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	reveal, _ := args["reveal"].(bool)

	path, err := sessionPath(args, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if reveal {
		path += "?reveal=true"
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	from, _ := args["from"].(string)
	to, _ := args["to"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_, _ = args["intent"].(string)

	path, err := sessionPath(args, "/move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", path, map[string]string{"from": from, "to": to}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleDiscard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postMove(ctx, request, "/discard")
}

func (c *Client) handleResetStock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postMove(ctx, request, "/reset")
}

func (c *Client) postMove(ctx context.Context, request mcp.CallToolRequest, suffix string) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/restart")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	line, _ := args["command"].(string)

	path, err := sessionPath(args, "/command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", path, map[string]string{"command": line}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	for _, l := range result.Lines {
		b.WriteString(l + "\n")
	}
	if !result.Success {
		fmt.Fprintf(&b, "✗ %s\n", result.Message)
	}
	if result.GameState != nil && result.GameState.Won {
		b.WriteString("\n🎉 VICTORY!")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleHints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/hints")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var hints service.HintsResponse
	if err := c.apiCall(ctx, "GET", path, nil, &hints); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHints(&hints)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	query := url.Values{}
	if page, ok := args["page"].(float64); ok {
		query.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		query.Set("limit", fmt.Sprintf("%d", int(limit)))
	}

	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleExportSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/save")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var save struct {
		Save string `json:"save"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &save); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(save.Save), nil
}

func (c *Client) handleImportSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	text, _ := args["save"].(string)

	path, err := sessionPath(args, "/save")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "PUT", path, map[string]string{"save": text}, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Save loaded\n\n" + formatGameState(&state)), nil
}

func (c *Client) handleListDeals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var deals []service.DealInfo
	if err := c.apiCall(ctx, "GET", "/api/deals", nil, &deals); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Deals:\n\n")
	for _, d := range deals {
		builtIn := ""
		if d.BuiltIn {
			builtIn = " (built-in)"
		}
		fmt.Fprintf(&b, "• %s%s\n  Stock: %d, Face-down: %d, Foundations: %d\n\n",
			d.DealID, builtIn, d.StockCards, d.FaceDownCards, d.FoundationCards)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rules service.Rules
	if err := c.apiCall(ctx, "GET", "/api/rules", nil, &rules); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Klondike Solitaire - Rules\n\n")
	b.WriteString(rules.Text + "\n\n")
	fmt.Fprintf(&b, "PILES: %s\n", strings.Join(rules.Piles, ", "))
	fmt.Fprintf(&b, "MOVE IDS: %s\n\n", strings.Join(rules.MoveIDs, ", "))
	b.WriteString("COMMANDS:\n")
	for _, spec := range rules.Commands {
		fmt.Fprintf(&b, "  %-20s %s\n", spec.Usage, spec.Help)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Formatting

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nDeal: %s\nCreated: %s\n\n%s",
		session.ID, session.DealName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Deal: %s | Foundations: %d/%d | Moves: %d\n\n",
		state.DealName, state.FoundationCards, engine.DeckSize, state.TotalMoves)

	for _, line := range state.Lines {
		result.WriteString(line + "\n")
	}

	if state.Won {
		result.WriteString("\n🎉 VICTORY!")
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s (%d card(s))\n", result.Action, result.Cards)
	} else {
		fmt.Fprintf(&b, "✗ %s rejected [%s]: %s\n", result.Action, result.Code, result.Message)
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHints(hints *service.HintsResponse) string {
	if hints.Won {
		return "The game is won. No moves needed."
	}
	if len(hints.Moves) == 0 {
		return "No legal actions. Try restart."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Legal actions (%d):\n", len(hints.Moves))
	for _, m := range hints.Moves {
		b.WriteString("- " + m.Command + "\n")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗ " + move.Code
		}
		fmt.Fprintf(&b, "%d. %s %s\n", move.MoveNumber, move.Action, status)
	}

	return b.String()
}
