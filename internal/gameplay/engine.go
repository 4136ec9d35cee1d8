// Package gameplay runs the speech/vote state machine of a game session.
//
// The pure rule functions in rules.go mutate a *models.GameSession in
// place. Engine wraps them with storage: every action on a room loads the
// session, applies the rule, saves it and, when the game ended, returns
// the players' agents to idle.
package gameplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aaronzipp/sus-arena/internal/agentstate"
	"github.com/aaronzipp/sus-arena/internal/keylock"
	"github.com/aaronzipp/sus-arena/internal/logging"
	"github.com/aaronzipp/sus-arena/internal/models"
	"github.com/aaronzipp/sus-arena/internal/store"
)

// SessionStore loads and saves sessions
type SessionStore interface {
	SaveSession(ctx context.Context, session *models.GameSession) error
	LoadSession(ctx context.Context, roomID string) (*models.GameSession, error)
}

// ResultRecorder credits a finished game to the players' profiles
type ResultRecorder interface {
	RecordResult(ctx context.Context, roomID string, players, winners []models.Player) ([]models.PlayerScore, error)
}

// ActionKind names what an agent does on its turn
type ActionKind string

const (
	ActionSpeech ActionKind = "speech"
	ActionVote   ActionKind = "vote"
)

// Action is one agent move submitted to a room
type Action struct {
	Kind       ActionKind `json:"kind"`
	Content    string     `json:"content,omitempty"`
	VoteTarget string     `json:"voteToMockName,omitempty"`
}

// ActionResult reports the session after an action was applied
type ActionResult struct {
	Status       models.GameStatus `json:"status"`
	CurrentRound int               `json:"currentRound"`
	VoteValid    bool              `json:"voteIsValid,omitempty"`
	Eliminated   string            `json:"eliminated,omitempty"`
	Finished     bool              `json:"finished"`
}

// Engine applies agent actions to stored sessions
type Engine struct {
	sessions SessionStore
	states   *agentstate.Store
	results  ResultRecorder
	locks    *keylock.Map
	now      func() time.Time
	logger   *slog.Logger
}

// NewEngine creates an engine. results may be nil, in which case finished
// games carry no scores.
func NewEngine(sessions SessionStore, states *agentstate.Store, results ResultRecorder, now func() time.Time, logger *slog.Logger) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		sessions: sessions,
		states:   states,
		results:  results,
		locks:    keylock.New(),
		now:      now,
		logger:   logging.OrDefault(logger).With("component", "gameplay"),
	}
}

func (e *Engine) load(ctx context.Context, roomID string) (*models.GameSession, error) {
	s, err := e.sessions.LoadSession(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
		}
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}
	return s, nil
}

// SubmitAction applies one speech or vote to roomID
func (e *Engine) SubmitAction(ctx context.Context, roomID, agentID string, action Action) (ActionResult, error) {
	switch action.Kind {
	case ActionSpeech:
	case ActionVote:
		if strings.TrimSpace(action.VoteTarget) == "" {
			return ActionResult{}, ErrEmptyVoteTarget
		}
	default:
		return ActionResult{}, fmt.Errorf("%w: %q", ErrUnknownAction, action.Kind)
	}

	unlock := e.locks.Lock(roomID)
	defer unlock()

	s, err := e.load(ctx, roomID)
	if err != nil {
		return ActionResult{}, err
	}
	if s.Status == models.StatusFinished {
		return ActionResult{}, fmt.Errorf("room %s: %w", roomID, ErrGameFinished)
	}

	now := e.now()
	var result ActionResult
	var outcome VoteOutcome
	switch action.Kind {
	case ActionSpeech:
		if err := RecordSpeech(s, agentID, action.Content, now); err != nil {
			return ActionResult{}, err
		}
	case ActionVote:
		outcome, err = RecordVote(s, agentID, strings.TrimSpace(action.VoteTarget), now)
		if err != nil {
			return ActionResult{}, err
		}
		result.VoteValid = outcome.Valid
		result.Eliminated = outcome.Eliminated
	}

	if outcome.GameOver {
		e.EndGame(ctx, s)
	}
	if err := e.sessions.SaveSession(ctx, s); err != nil {
		return ActionResult{}, fmt.Errorf("save room %s: %w", roomID, err)
	}
	if outcome.GameOver {
		e.releasePlayers(s)
	}

	result.Status = s.Status
	result.CurrentRound = s.CurrentRound
	result.Finished = s.Status == models.StatusFinished
	return result, nil
}

// EndGame finishes s in place, crediting results through the recorder.
// A recorder failure is logged and the game still ends without scores.
func (e *Engine) EndGame(ctx context.Context, s *models.GameSession) {
	var scores []models.PlayerScore
	if e.results != nil {
		players := make([]models.Player, 0, len(s.Players))
		for _, p := range s.Players {
			players = append(players, *p)
		}
		var err error
		scores, err = e.results.RecordResult(ctx, s.RoomID, players, Winners(s))
		if err != nil {
			e.logger.Error("record game result", "room", s.RoomID, "err", err)
			scores = nil
		}
	}
	FinishGame(s, scores, e.now())
	e.logger.Info("game over", "room", s.RoomID, "winner", s.EndGameData.WinnerRole, "rounds", s.CurrentRound)
}

// releasePlayers moves every agent of a finished session back to idle
func (e *Engine) releasePlayers(s *models.GameSession) {
	for _, p := range s.Players {
		_, err := e.states.Update(p.AgentID, func(cur models.AgentMatchState) (*agentstate.Change, error) {
			if cur.Status != models.AgentInGame || cur.RoomID != s.RoomID {
				return nil, nil
			}
			return &agentstate.Change{Status: models.AgentIdle}, nil
		})
		if err != nil {
			e.logger.Error("release player", "room", s.RoomID, "agent", p.AgentID, "err", err)
		}
	}
}
