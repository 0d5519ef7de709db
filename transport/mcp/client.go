package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
	"github.com/wricardo/mcp-training/tilemerge/game/service"
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
		baseURL: baseURL,
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
		"Tile Merge",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tile Merge - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME:
A 4x4 board of power-of-two tiles. Each move slides every tile toward one edge; two equal
neighbours merge once into their sum. After a move that changes the board, one new tile
(a 2, or sometimes a 4) appears in an empty cell chosen from the session seed and the board,
so the same seed and moves always give the same game.

AVAILABLE TOOLS:
- create_session: Create a session (optional config_id and seed)
- list_sessions / get_session: Inspect sessions
- game_state: Current board
- move: Single move (up/down/left/right) - requires intent explanation
- bulk_move: Several moves at once - requires intent explanation
- reset_game: Restart from the preset
- clear_transformation: Zero the slide distances of the last move
- clone_session: Fork a session to try a line of play
- move_history: View past moves
- replay: Play a move list on a fresh board without a session
- list_configs: List presets
- game_instructions: Rules and strategy notes

NOTE: The 'intent' parameter on move/bulk_move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

var directions = []string{"up", "down", "left", "right"}

func sessionIDParam() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID"))
}

func directionListParam(name, description string, opts ...mcp.PropertyOption) mcp.ToolOption {
	opts = append(opts,
		mcp.Description(description),
		mcp.Items(map[string]interface{}{"type": "string", "enum": directions}),
	)
	return mcp.WithArray(name, opts...)
}

func intentParam(what string) mcp.ToolOption {
	return mcp.WithString("intent",
		mcp.Description("Brief explanation of the intent behind "+what+" (serves as a rubber duck to help explain your reasoning)"))
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Tools that only need a session
	for _, t := range []struct {
		name, description string
		handler           server.ToolHandlerFunc
	}{
		{"get_session", "Get details of a specific session", c.handleGetSession},
		{"clone_session", "Fork a session into a new one with the same board, seed and history", c.handleCloneSession},
		{"game_state", "Get the current game state", c.handleGameState},
		{"reset_game", "Reset the game to its starting board", c.handleReset},
		{"clear_transformation", "Zero the per-cell slide distances recorded by the last move", c.handleClearTransformation},
	} {
		c.mcpServer.AddTool(mcp.NewTool(t.name, mcp.WithDescription(t.description), sessionIDParam()), t.handler)
	}

	c.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create a new game session with optional preset and seed"),
		mcp.WithString("config_id", mcp.Description("Preset to use (optional, see list_configs)")),
		mcp.WithString("seed", mcp.Description("Seed for tile spawns (optional, overrides the preset seed)")),
	), c.handleCreateSession)

	c.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List all active game sessions"),
	), c.handleListSessions)

	c.mcpServer.AddTool(mcp.NewTool("move",
		mcp.WithDescription("Slide all tiles in a direction"),
		sessionIDParam(),
		mcp.WithString("direction", mcp.Required(), mcp.Enum(directions...), mcp.Description("Direction to slide the tiles")),
		intentParam("this move"),
		mcp.WithBoolean("reset", mcp.Description("Reset before moving")),
	), c.handleMove)

	c.mcpServer.AddTool(mcp.NewTool("bulk_move",
		mcp.WithDescription(fmt.Sprintf("Execute up to %d moves in sequence", engine.MaxBulkMoves)),
		sessionIDParam(),
		directionListParam("moves", "Moves in order", mcp.Required()),
		intentParam("this sequence of moves"),
		mcp.WithBoolean("reset", mcp.Description("Reset before moving")),
	), c.handleBulkMove)

	c.mcpServer.AddTool(mcp.NewTool("move_history",
		mcp.WithDescription("Get move history for a session"),
		sessionIDParam(),
		mcp.WithNumber("page", mcp.Description("Page number")),
		mcp.WithNumber("limit", mcp.Description("Items per page")),
		mcp.WithString("order", mcp.Enum("asc", "desc"), mcp.Description("Oldest first (asc) or newest first (desc, default)")),
	), c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.NewTool("replay",
		mcp.WithDescription("Play a move list on a fresh board from a preset and seed, without creating a session"),
		mcp.WithString("config_id", mcp.Description("Preset to start from (optional)")),
		mcp.WithString("seed", mcp.Description("Seed (optional, defaults to the preset seed)")),
		directionListParam("moves", "Moves to replay", mcp.Required()),
	), c.handleReplay)

	c.mcpServer.AddTool(mcp.NewTool("list_configs",
		mcp.WithDescription("List available game presets"),
	), c.handleListConfigs)

	c.mcpServer.AddTool(mcp.NewTool("game_instructions",
		mcp.WithDescription("Get game rules and strategy notes"),
	), c.handleGameInstructions)
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

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func stringsArg(args map[string]interface{}, key string) []string {
	raw, _ := args[key].([]interface{})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]string{}
	if configID := stringArg(args, "config_id"); configID != "" {
		body["config_id"] = configID
	}
	if seed := stringArg(args, "seed"); seed != "" {
		body["seed"] = seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
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

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		moves := 0
		if s.GameState != nil {
			moves = s.GameState.TotalMoves
		}
		result += fmt.Sprintf("- %s (Config: %s, Moves: %d, Created: %s)\n",
			s.ID, s.ConfigName, moves, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleCloneSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var clone service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions/"+url.PathEscape(sessionID)+"/clone", nil, &clone); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Cloned %s into %s\n\n%s", sessionID, clone.ID, formatGameState(clone.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID)+"/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")
	reset, _ := args["reset"].(bool)

	// intent is for the caller's benefit only

	body := map[string]interface{}{
		"direction": stringArg(args, "direction"),
		"reset":     reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", "/api/sessions/"+url.PathEscape(sessionID)+"/move", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")
	reset, _ := args["reset"].(bool)

	body := map[string]interface{}{
		"moves": stringsArg(args, "moves"),
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", "/api/sessions/"+url.PathEscape(sessionID)+"/bulk-move", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", "/api/sessions/"+url.PathEscape(sessionID)+"/reset", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleClearTransformation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var state engine.GameState
	if err := c.apiCall(ctx, "DELETE", "/api/sessions/"+url.PathEscape(sessionID)+"/transformation", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Transformation cleared\n\n" + formatGameState(&state)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order := stringArg(args, "order"); order != "" {
		params.Set("order", order)
	}

	path := "/api/sessions/" + url.PathEscape(sessionID) + "/history"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)

	// Also show the current segment from live state
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID)+"/state", nil, &state); err == nil {
		result += "\n" + formatCurrentSegment(&state)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleReplay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]interface{}{
		"config_id": stringArg(args, "config_id"),
		"seed":      stringArg(args, "seed"),
		"moves":     stringsArg(args, "moves"),
	}

	var result service.ReplayResult
	if err := c.apiCall(ctx, "POST", "/api/replay", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReplayResult(&result)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, cfg := range configs {
		start := "empty board"
		if cfg.HasInitialGrid {
			start = "preset board"
		}
		seed := cfg.Seed
		if seed == "" {
			seed = "(none)"
		}
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Start: %s, Seed: %s\n\n",
			cfg.ConfigID, cfg.Format, cfg.Description, start, seed)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}
