package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/tilemerge/api"
	"github.com/wricardo/mcp-training/tilemerge/game/config"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
	"github.com/wricardo/mcp-training/tilemerge/game/service"
	"github.com/wricardo/mcp-training/tilemerge/game/session"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "a1b2"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "a1b2" {
		t.Errorf("Expected id a1b2, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"plain body", "Internal Server Error", "API error: 500"},
		{"json error", `{"error":"session x: session not found"}`, "session x: session not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Expected %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["config_id"] != "corner" || body["seed"] != "s1" {
			t.Errorf("Expected config_id and seed forwarded, got %v", body)
		}

		resp := service.SessionInfo{
			ID:         "test-session-123",
			ConfigName: "corner",
			GameState:  &engine.GameState{Seed: "s1", EmptyCells: 14},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), toolRequest("create_session", map[string]interface{}{
		"config_id": "corner",
		"seed":      "s1",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "test-session-123") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
}

func TestClient_bulkMoveForwardsMoves(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/a1b2/bulk-move" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body struct {
			Moves []string `json:"moves"`
			Reset bool     `json:"reset"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if strings.Join(body.Moves, ",") != "left,up" || !body.Reset {
			t.Errorf("Expected moves and reset forwarded, got %+v", body)
		}
		json.NewEncoder(w).Encode(service.BulkMoveResult{
			MovesExecuted:  2,
			RequestedMoves: 2,
			MovesChanged:   1,
			GameState:      &engine.GameState{},
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleBulkMove(context.Background(), toolRequest("bulk_move", map[string]interface{}{
		"session_id": "a1b2",
		"moves":      []interface{}{"left", "up"},
		"reset":      true,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Executed 2/2 moves (1 changed the board)") {
		t.Errorf("Unexpected summary: %s", text)
	}
}

func TestClient_moveHistoryQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sessions/a1b2/history":
			q := r.URL.Query()
			if q.Get("page") != "2" || q.Get("limit") != "5" || q.Get("order") != "asc" {
				t.Errorf("Unexpected query %s", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode(service.HistoryResponse{
				Moves:      []engine.MoveHistoryEntry{{Action: "left", Changed: true, MoveNumber: 6}},
				TotalMoves: 6, Page: 2, PageSize: 5, TotalPages: 2,
			})
		case "/api/sessions/a1b2/state":
			json.NewEncoder(w).Encode(engine.GameState{})
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleMoveHistory(context.Background(), toolRequest("move_history", map[string]interface{}{
		"session_id": "a1b2",
		"page":       float64(2),
		"limit":      float64(5),
		"order":      "asc",
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "6. left ✓") {
		t.Errorf("Expected numbered history entry, got: %s", text)
	}
	if !strings.Contains(text, "(no moves in current segment)") {
		t.Errorf("Expected current segment section, got: %s", text)
	}
}

func TestClient_errorsBecomeToolErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session nope: session not found"})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleGameState(context.Background(), toolRequest("game_state", map[string]interface{}{
		"session_id": "nope",
	}))
	if err != nil {
		t.Fatalf("Expected tool error result, got Go error %v", err)
	}
	if !result.IsError {
		t.Error("Expected IsError result")
	}
	if text := resultText(t, result); !strings.Contains(text, "not found") {
		t.Errorf("Expected error text, got: %s", text)
	}
}

func TestFormatGrid(t *testing.T) {
	g := engine.Grid{
		{2, 0, 0, 1024},
		{0, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 8},
	}
	want := "   2    .    . 1024\n" +
		"   .    4    .    .\n" +
		"   .    .    .    .\n" +
		"   .    .    .    8\n"
	if got := formatGrid(g); got != want {
		t.Errorf("formatGrid() =\n%s\nwant\n%s", got, want)
	}

	empty := formatGrid(engine.Grid{})
	if empty != ". . . .\n. . . .\n. . . .\n. . . .\n" {
		t.Errorf("Unexpected empty grid rendering:\n%s", empty)
	}
}

func TestFormatGameState(t *testing.T) {
	state := &engine.GameState{
		Grid:          engine.Grid{{2, 2, 0, 0}},
		Seed:          "abc",
		EmptyCells:    14,
		TotalMoves:    3,
		LastSpawn:     &engine.Spawn{Col: 1, Row: 0, Value: 2},
		PossibleMoves: []string{"down", "right"},
		Message:       "Moved left.",
	}

	result := formatGameState(state)

	for _, field := range []string{
		`Seed: "abc"`,
		"Empty: 14",
		"Moves: 3",
		"Last spawn: 2 at (1,0)",
		"Possible moves: down,right",
		"Message: Moved left.",
	} {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}

	locked := formatGameState(&engine.GameState{})
	if !strings.Contains(locked, "No move changes the board") {
		t.Errorf("Expected stuck notice, got: %s", locked)
	}
	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatMoveResult(t *testing.T) {
	changed := formatMoveResult(&service.MoveResult{
		Success: true,
		Changed: true,
		Step: &service.StepInfo{
			Idx: 1, Dir: "left", Changed: true,
			Spawn:       &engine.Spawn{Col: 3, Row: 2, Value: 4},
			EmptyBefore: 14, EmptyAfter: 14,
		},
		Events:    []service.GameEvent{{Type: service.EventMove, Message: "Moved left"}},
		GameState: &engine.GameState{},
	})
	for _, field := range []string{"✓ Board changed", "1. left changed spawn=4 at (3,2) empty=14->14", "- move: Moved left"} {
		if !strings.Contains(changed, field) {
			t.Errorf("Expected '%s' in output, got: %s", field, changed)
		}
	}

	unchanged := formatMoveResult(&service.MoveResult{Success: true, GameState: &engine.GameState{}})
	if !strings.Contains(unchanged, "• Nothing moved") {
		t.Errorf("Expected nothing-moved line, got: %s", unchanged)
	}
}

func TestFormatBulkMoveResult_Stopped(t *testing.T) {
	out := formatBulkMoveResult("a1b2", &service.BulkMoveResult{
		MovesExecuted:  1,
		RequestedMoves: 60,
		Truncated:      true,
		Limit:          engine.MaxBulkMoves,
		StoppedReason:  `move 2: invalid direction: "x"`,
		StoppedOnMove:  2,
		GameState:      &engine.GameState{ConfigName: "classic"},
	})
	for _, field := range []string{"Session: a1b2 • Config: classic", "Truncated to the first 50 moves", "Stopped on move 2"} {
		if !strings.Contains(out, field) {
			t.Errorf("Expected '%s' in output, got: %s", field, out)
		}
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), toolRequest("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{
		"Tile Merge - Complete Instructions",
		"MOVES:",
		"SPAWNS:",
		"TRANSFORMATION:",
		"STRATEGY NOTES:",
		"MOVEMENT COMMANDS:",
	} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}

// End-to-end through the REST server.
func TestClient_AgainstAPIServer(t *testing.T) {
	configMgr, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to load presets: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), configMgr)
	ts := httptest.NewServer(api.NewServer(svc, nil))
	defer ts.Close()

	client := NewClient(ts.URL)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "seeded", "")
	if err != nil {
		t.Fatal(err)
	}

	result, err := client.handleMove(ctx, toolRequest("move", map[string]interface{}{
		"session_id": created.ID,
		"direction":  "left",
		"intent":     "push tiles to the left edge",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("Unexpected tool error: %s", resultText(t, result))
	}

	result, _ = client.handleCloneSession(ctx, toolRequest("clone_session", map[string]interface{}{
		"session_id": created.ID,
	}))
	if text := resultText(t, result); !strings.Contains(text, "Cloned "+created.ID) {
		t.Errorf("Unexpected clone output: %s", text)
	}

	result, _ = client.handleListSessions(ctx, toolRequest("list_sessions", nil))
	if text := resultText(t, result); !strings.Contains(text, "Active Sessions (2)") {
		t.Errorf("Expected two sessions, got: %s", text)
	}

	result, _ = client.handleReplay(ctx, toolRequest("replay", map[string]interface{}{
		"config_id": "seeded",
		"moves":     []interface{}{"left"},
	}))
	if text := resultText(t, result); !strings.Contains(text, `Replay of "seeded" with seed "tilemerge": 1 moves`) {
		t.Errorf("Unexpected replay output: %s", text)
	}

	result, _ = client.handleListConfigs(ctx, toolRequest("list_configs", nil))
	text := resultText(t, result)
	for _, id := range []string{"classic (json)", "endgame (hcl)", "corner (yaml)"} {
		if !strings.Contains(text, id) {
			t.Errorf("Expected %s in config list, got: %s", id, text)
		}
	}

	result, _ = client.handleMove(ctx, toolRequest("move", map[string]interface{}{
		"session_id": created.ID,
		"direction":  "sideways",
	}))
	if !result.IsError {
		t.Error("Expected tool error for an unknown direction")
	}
}
