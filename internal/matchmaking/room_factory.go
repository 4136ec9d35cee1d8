package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaronzipp/sus-arena/internal/agentstate"
	"github.com/aaronzipp/sus-arena/internal/game"
	"github.com/aaronzipp/sus-arena/internal/logging"
	"github.com/aaronzipp/sus-arena/internal/models"
	"github.com/aaronzipp/sus-arena/internal/store"
)

// AgentDirectory resolves agent profiles
type AgentDirectory interface {
	GetAgentByID(ctx context.Context, agentID string) (models.AgentProfile, error)
	ListAgents(ctx context.Context) ([]models.AgentProfile, error)
}

// SessionStore persists newly formed sessions
type SessionStore interface {
	SaveSession(ctx context.Context, session *models.GameSession) error
	DeleteSession(ctx context.Context, roomID string) error
}

// RoomFactory turns a set of queued candidates into a playing session
type RoomFactory struct {
	states    *agentstate.Store
	queue     *Queue
	directory AgentDirectory
	sessions  SessionStore
	words     []models.WordPair
	spyRatio  float64
	now       func() time.Time
	logger    *slog.Logger
}

// NewRoomFactory creates a factory; now defaults to time.Now
func NewRoomFactory(states *agentstate.Store, queue *Queue, directory AgentDirectory, sessions SessionStore, words []models.WordPair, spyRatio float64, now func() time.Time, logger *slog.Logger) *RoomFactory {
	if now == nil {
		now = time.Now
	}
	return &RoomFactory{
		states:    states,
		queue:     queue,
		directory: directory,
		sessions:  sessions,
		words:     words,
		spyRatio:  spyRatio,
		now:       now,
		logger:    logging.OrDefault(logger).With("component", "room_factory"),
	}
}

// CreateRoom builds, saves and commits a session for candidates.
//
// Failures before the session is saved leave every candidate queued. A
// drifted candidate, or any failure while committing, returns every
// candidate to idle and removes the saved session.
func (f *RoomFactory) CreateRoom(ctx context.Context, candidates []models.QueueEntry) (*models.GameSession, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	// Taken under each agent's lock so a join still in progress settles first.
	for _, c := range candidates {
		_, err := f.states.Update(c.AgentID, func(cur models.AgentMatchState) (*agentstate.Change, error) {
			if cur.Status != models.AgentInMatchingQueue {
				return nil, fmt.Errorf("%w: agent %s is %s", ErrCandidateDrifted, c.AgentID, cur.Status)
			}
			return nil, nil
		})
		if err != nil {
			f.rollback(ctx, candidates, "")
			return nil, err
		}
	}

	session, err := f.buildSession(ctx, candidates)
	if err != nil {
		return nil, err
	}

	if err := f.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session %s: %w", session.RoomID, err)
	}

	for _, c := range candidates {
		_, err := f.states.Update(c.AgentID, func(cur models.AgentMatchState) (*agentstate.Change, error) {
			if cur.Status != models.AgentInMatchingQueue {
				return nil, fmt.Errorf("%w: agent %s is %s", ErrCandidateDrifted, c.AgentID, cur.Status)
			}
			if err := f.queue.Dequeue(ctx, c.AgentID); err != nil {
				return nil, err
			}
			return &agentstate.Change{Status: models.AgentInGame, RoomID: session.RoomID}, nil
		})
		if err != nil {
			f.logger.Error("commit room failed, rolling back", "room", session.RoomID, "agent", c.AgentID, "err", err)
			f.rollback(ctx, candidates, session.RoomID)
			if delErr := f.sessions.DeleteSession(ctx, session.RoomID); delErr != nil {
				f.logger.Error("delete rolled back session", "room", session.RoomID, "err", delErr)
			}
			return nil, fmt.Errorf("commit room %s: %w", session.RoomID, err)
		}
	}

	f.logger.Info("room created", "room", session.RoomID, "players", len(session.Players), "word", session.Word)
	return session, nil
}

func (f *RoomFactory) buildSession(ctx context.Context, candidates []models.QueueEntry) (*models.GameSession, error) {
	roomID := game.NewRoomID()

	names, err := game.PickDisplayNames(len(candidates))
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", roomID, err)
	}

	players := make([]*models.Player, 0, len(candidates))
	for i, c := range candidates {
		profile, err := f.directory.GetAgentByID(ctx, c.AgentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("room %s: %w: %s", roomID, ErrAgentNotFound, c.AgentID)
			}
			return nil, fmt.Errorf("room %s: lookup agent %s: %w", roomID, c.AgentID, err)
		}
		players = append(players, &models.Player{
			AgentID:     profile.AgentID,
			DisplayName: names[i],
			SourceName:  profile.Name,
			Role:        models.RoleInnocent,
			Status:      models.PlayerAlive,
			Avatar:      profile.Avatar,
			Score:       profile.Score,
			WinCount:    profile.WinCount,
			GameCount:   profile.GameCount,
		})
	}

	spies, err := game.PickSpyIndices(len(players), f.spyRatio)
	if err != nil {
		return nil, fmt.Errorf("room %s: pick spies: %w", roomID, err)
	}
	for _, i := range spies {
		players[i].Role = models.RoleSpy
	}

	pair, err := game.PickWord(f.words)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", roomID, err)
	}
	for _, p := range players {
		if p.Role == models.RoleSpy {
			p.Word = pair.Spy
		} else {
			p.Word = pair.Common
		}
	}

	now := f.now()
	session := &models.GameSession{
		RoomID:       roomID,
		Status:       models.StatusPlaying,
		Word:         pair.Common,
		SpyWord:      pair.Spy,
		CurrentRound: 1,
		Players:      players,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	session.Events = append(session.Events, models.GameEvent{
		Round:              1,
		Type:               models.EventStart,
		Text:               "Round 1 begins.",
		StatusDescriptions: game.StatusDescriptions(session, models.EventStart),
		HighlightIndex:     0,
		At:                 now,
	})
	return session, nil
}

// rollback returns candidates to idle. With a roomID it also releases agents
// already committed to that room.
func (f *RoomFactory) rollback(ctx context.Context, candidates []models.QueueEntry, roomID string) {
	for _, c := range candidates {
		_, err := f.states.Update(c.AgentID, func(cur models.AgentMatchState) (*agentstate.Change, error) {
			switch {
			case cur.Status == models.AgentInMatchingQueue:
			case roomID != "" && cur.Status == models.AgentInGame && cur.RoomID == roomID:
			default:
				return nil, nil
			}
			if err := f.queue.DequeueTolerant(ctx, c.AgentID); err != nil {
				return nil, err
			}
			return &agentstate.Change{Status: models.AgentIdle}, nil
		})
		if err != nil {
			f.logger.Error("rollback candidate", "agent", c.AgentID, "room", roomID, "err", err)
		}
	}
}
