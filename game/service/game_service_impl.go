package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// resolveConfig loads a preset by identifier, or the default preset for an empty name.
func (s *gameServiceImpl) resolveConfig(configName string) (*engine.GameConfig, string, error) {
	if configName == "" {
		config := s.configs.GetDefault()
		return config, s.getConfigID(config.Name), nil
	}

	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			// Provide helpful error message with available options
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, "", fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
			}
			return nil, "", fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
		}
		return nil, "", fmt.Errorf("failed to load config %s: %w", configName, err)
	}
	return config, configName, nil
}

// getSession looks up a session and marks it accessed.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return sess, nil
}

// sessionInfo builds the public view of a session. Callers hold the session lock.
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName, seed string) (*SessionInfo, error) {
	config, configID, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()
	sess.ConfigID = configID
	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		sess.Lock()
		result = append(result, s.sessionInfo(sess))
		sess.Unlock()
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	return nil
}

// CloneSession forks a session into a new one with a generated ID
func (s *gameServiceImpl) CloneSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	clone, err := s.sessions.Clone(sessionID, "")
	if err != nil {
		return nil, fmt.Errorf("clone session %s: %w", sessionID, err)
	}

	clone.Lock()
	defer clone.Unlock()
	return s.sessionInfo(clone), nil
}

// Move executes a single move for a session. Unknown directions are rejected before
// anything, including the optional reset, is applied.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	// Collect events
	events := []GameEvent{}

	// Handle reset if requested
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	emptyBefore := sess.Engine.GetGrid().EmptyCount()
	moveResult, err := sess.Engine.Move(dir.String())
	if err != nil {
		return nil, err
	}
	state := sess.Engine.GetState()

	return &MoveResult{
		Success:   true,
		Changed:   moveResult.Changed,
		GameState: state,
		Message:   state.Message,
		Events:    append(events, moveEvents(dir.String(), moveResult)...),
		Step: &StepInfo{
			Idx:         1,
			Dir:         dir.String(),
			Changed:     moveResult.Changed,
			Spawn:       moveResult.Spawn,
			EmptyBefore: emptyBefore,
			EmptyAfter:  state.EmptyCells,
		},
	}, nil
}

// BulkMove executes multiple moves in sequence. Moves that change nothing are recorded
// and do not stop the run; an unknown direction does.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	// Handle reset
	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}
	result.StartEmpty = sess.Engine.GetGrid().EmptyCount()

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		emptyBefore := sess.Engine.GetGrid().EmptyCount()
		moveResult, err := sess.Engine.Move(move)
		if err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d: %v", i+1, err)
			result.StopReasonCode = StopInvalidDirection
			result.StoppedOnMove = i + 1
			break
		}

		dir := moveResult.Direction.String()
		result.MovesExecuted++
		if moveResult.Changed {
			result.MovesChanged++
		}
		result.Events = append(result.Events, moveEvents(dir, moveResult)...)
		result.Steps = append(result.Steps, StepInfo{
			Idx:         i + 1,
			Dir:         dir,
			Changed:     moveResult.Changed,
			Spawn:       moveResult.Spawn,
			EmptyBefore: emptyBefore,
			EmptyAfter:  sess.Engine.GetGrid().EmptyCount(),
		})
	}

	result.GameState = sess.Engine.GetState()
	result.EndEmpty = result.GameState.EmptyCells
	result.Message = result.GameState.Message
	result.PossibleMoves = result.GameState.PossibleMoves

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return sess.Engine.Reset(), nil
}

// ClearTransformation zeroes the slide distances once a client has animated them
func (s *gameServiceImpl) ClearTransformation(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	sess.Engine.ClearTransformation()
	return sess.Engine.GetState(), nil
}

// Replay plays moves on a fresh engine without touching any session. The same preset,
// seed and moves always produce the same result.
func (s *gameServiceImpl) Replay(ctx context.Context, configName, seed string, moves []string) (*ReplayResult, error) {
	if len(moves) > engine.MaxReplayMoves {
		return nil, fmt.Errorf("%w: %d exceeds the replay limit of %d", ErrTooManyMoves, len(moves), engine.MaxReplayMoves)
	}

	config, configID, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	eng, err := engine.NewEngine(config, seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	result := &ReplayResult{
		ConfigName:  configID,
		Seed:        eng.GetSeed(),
		InitialGrid: eng.GetGrid(),
		Steps:       make([]StepInfo, 0, len(moves)),
	}

	for i, move := range moves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		emptyBefore := eng.GetGrid().EmptyCount()
		moveResult, err := eng.Move(move)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}

		result.MovesApplied++
		if moveResult.Changed {
			result.MovesChanged++
		}
		result.Steps = append(result.Steps, StepInfo{
			Idx:         i + 1,
			Dir:         moveResult.Direction.String(),
			Changed:     moveResult.Changed,
			Spawn:       moveResult.Spawn,
			EmptyBefore: emptyBefore,
			EmptyAfter:  eng.GetGrid().EmptyCount(),
		})
	}

	result.GameState = eng.GetState()
	return result, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	history := sess.Engine.GetMoveHistory()
	sess.Unlock()

	return paginateHistory(history, opts), nil
}

func paginateHistory(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

// moveEvents describes one applied move: no_change, or move followed by spawn or board_full.
func moveEvents(direction string, result engine.MoveResult) []GameEvent {
	now := time.Now()
	if !result.Changed {
		return []GameEvent{{
			Type:      EventNoChange,
			Message:   fmt.Sprintf("Move %s changed nothing", direction),
			Timestamp: now,
		}}
	}

	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Moved %s", direction),
		Timestamp: now,
	}}
	if result.Spawned {
		events = append(events, GameEvent{
			Type:      EventSpawn,
			Message:   fmt.Sprintf("Spawned %d at (%d,%d)", result.Spawn.Value, result.Spawn.Col, result.Spawn.Row),
			Timestamp: now,
			Spawn:     result.Spawn,
		})
	} else {
		events = append(events, GameEvent{
			Type:      EventBoardFull,
			Message:   "No empty cell left for a new tile",
			Timestamp: now,
		})
	}
	return events
}
