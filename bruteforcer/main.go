// Command bruteforcer plays tile-merge games against a running server through the REST
// API. Each attempt starts a session with its own seed and plays greedy moves until the
// target tile appears, the board locks or the move budget runs out.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
	"github.com/wricardo/mcp-training/tilemerge/game/service"
)

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends a JSON request and decodes a JSON response. Error responses carry {"error": "..."}.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, errResp.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *Client) CreateSession(ctx context.Context, configID, seed string) (*engine.GameState, error) {
	req := map[string]string{}
	if configID != "" {
		req["config_id"] = configID
	}
	if seed != "" {
		req["seed"] = seed
	}

	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) Move(ctx context.Context, direction string) (*service.MoveResult, error) {
	var result service.MoveResult
	req := map[string]string{"direction": direction}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/move"), req, &result); err != nil {
		return nil, fmt.Errorf("move %s: %w", direction, err)
	}
	return &result, nil
}

func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return resp.State, nil
}

// Attempt summarises one play-through.
type Attempt struct {
	SessionID string
	Moves     int
	MaxTile   int
	Reached   bool
	Locked    bool
}

// play makes greedy moves from state until target is reached, no move changes the board
// or maxMoves moves have been made.
func play(ctx context.Context, client *Client, strategy *GreedyStrategy, state *engine.GameState, maxMoves, target int, delay time.Duration) (Attempt, error) {
	attempt := Attempt{SessionID: client.sessionID, MaxTile: maxTile(state.Grid)}

	for attempt.Moves < maxMoves {
		if attempt.MaxTile >= target {
			attempt.Reached = true
			return attempt, nil
		}

		direction := strategy.NextMove(state.Grid)
		if direction == "" {
			attempt.Locked = true
			return attempt, nil
		}

		result, err := client.Move(ctx, direction)
		if err != nil {
			return attempt, err
		}
		attempt.Moves++
		state = result.GameState
		attempt.MaxTile = maxTile(state.Grid)

		if delay > 0 {
			select {
			case <-ctx.Done():
				return attempt, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	attempt.Reached = attempt.MaxTile >= target
	return attempt, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	serverURL := cmd.String("url")
	target := cmd.Int("target")
	if target < 4 || !engine.IsTileValue(target) {
		return fmt.Errorf("--target must be a power of two of at least 4, got %d", target)
	}

	log.Printf("Connecting to game server at %s", serverURL)
	client := NewClient(serverURL)
	strategy := NewGreedyStrategy()

	for i := 1; i <= cmd.Int("max-attempts"); i++ {
		var (
			state *engine.GameState
			err   error
		)

		if id := cmd.String("continue"); id != "" {
			client.sessionID = id
			if i == 1 {
				log.Printf("Resuming session: %s", id)
				state, err = client.GetState(ctx)
			} else {
				state, err = client.Reset(ctx)
			}
		} else {
			seed := fmt.Sprintf("%s-%d", cmd.String("seed"), i)
			state, err = client.CreateSession(ctx, cmd.String("config"), seed)
		}
		if err != nil {
			return err
		}

		log.Printf("=== Attempt %d/%d (session %s, seed %q) ===", i, cmd.Int("max-attempts"), client.sessionID, state.Seed)

		attempt, err := play(ctx, client, strategy, state, cmd.Int("max-moves"), target, cmd.Duration("delay"))
		if err != nil {
			return err
		}
		log.Printf("Attempt %d: moves=%d largest=%d locked=%t", i, attempt.Moves, attempt.MaxTile, attempt.Locked)

		if attempt.Reached {
			log.Printf("Reached %d in attempt %d with %d moves (session %s)", target, i, attempt.Moves, attempt.SessionID)
			return nil
		}
	}

	return cli.Exit(fmt.Sprintf("failed to reach %d after %d attempts", target, cmd.Int("max-attempts")), 1)
}

func main() {
	cmd := &cli.Command{
		Name:  "bruteforcer",
		Usage: "Play greedy tile-merge games through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "config", Usage: "Preset to play (server default when empty)"},
			&cli.StringFlag{Name: "seed", Value: "bruteforcer", Usage: "Seed prefix; attempt N plays seed <prefix>-N"},
			&cli.StringFlag{Name: "continue", Usage: "Play an existing session by ID, resetting it between attempts"},
			&cli.IntFlag{Name: "target", Value: 2048, Usage: "Tile value that counts as a win"},
			&cli.IntFlag{Name: "max-moves", Value: 5000, Usage: "Maximum moves per attempt"},
			&cli.IntFlag{Name: "max-attempts", Value: 20, Usage: "Maximum attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between moves"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
