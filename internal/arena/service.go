// Package arena assembles the matching loop and the gameplay engine into
// one service that lives for the whole process.
package arena

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aaronzipp/sus-arena/internal/agentstate"
	"github.com/aaronzipp/sus-arena/internal/game"
	"github.com/aaronzipp/sus-arena/internal/gameplay"
	"github.com/aaronzipp/sus-arena/internal/logging"
	"github.com/aaronzipp/sus-arena/internal/matchmaking"
	"github.com/aaronzipp/sus-arena/internal/models"
	"github.com/aaronzipp/sus-arena/internal/sse"
	"github.com/aaronzipp/sus-arena/internal/store"
)

// Backend is the storage the service runs on; both stores in package store satisfy it
type Backend interface {
	matchmaking.QueueStore
	matchmaking.AgentDirectory
	matchmaking.SessionStore
	gameplay.SessionStore
	gameplay.ResultRecorder
	store.AgentSaver
}

// Options tune a Service
type Options struct {
	Matchmaking matchmaking.Config
	SeedAgents  bool
	Now         func() time.Time
	Logger      *slog.Logger
}

// Service is the arena's single state-holding object
type Service struct {
	backend Backend
	states  *agentstate.Store
	coord   *matchmaking.Coordinator
	engine  *gameplay.Engine
	hub     *sse.Hub
	opts    Options
	logger  *slog.Logger
}

// New wires a service over backend
func New(backend Backend, opts Options) (*Service, error) {
	words, err := game.LoadWords()
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := logging.OrDefault(opts.Logger)
	states := agentstate.New(opts.Now)
	return &Service{
		backend: backend,
		states:  states,
		coord: matchmaking.NewCoordinator(opts.Matchmaking, matchmaking.Deps{
			States:    states,
			Queue:     backend,
			Directory: backend,
			Sessions:  backend,
			Words:     words,
			Now:       opts.Now,
			Logger:    logger,
		}),
		engine: gameplay.NewEngine(backend, states, backend, opts.Now, logger),
		hub:    sse.NewHub(logger),
		opts:   opts,
		logger: logger.With("component", "arena"),
	}, nil
}

// Prepare clears leftovers of a previous run and seeds the demo agents if asked
func (s *Service) Prepare(ctx context.Context) error {
	if err := s.coord.ResetQueue(ctx); err != nil {
		return err
	}
	s.states.Reset()
	if s.opts.SeedAgents {
		if err := store.SeedAgents(ctx, s.backend); err != nil {
			return err
		}
	}
	s.logger.Info("arena prepared", "seeded", s.opts.SeedAgents)
	return nil
}

// Start prepares the service and launches the matching loop
func (s *Service) Start(ctx context.Context) error {
	if err := s.Prepare(ctx); err != nil {
		return err
	}
	s.coord.Start(ctx)
	return nil
}

// Stop halts the matching loop and drops in-memory agent state
func (s *Service) Stop() {
	s.coord.Stop()
	s.states.Reset()
}

// Coordinator exposes the matching coordinator
func (s *Service) Coordinator() *matchmaking.Coordinator { return s.coord }

// Engine exposes the gameplay engine
func (s *Service) Engine() *gameplay.Engine { return s.engine }

// Hub exposes the spectator event hub
func (s *Service) Hub() *sse.Hub { return s.hub }

// SubmitAction applies an agent action and pushes the new room view to spectators
func (s *Service) SubmitAction(ctx context.Context, roomID, agentID string, action gameplay.Action) (gameplay.ActionResult, error) {
	res, err := s.engine.SubmitAction(ctx, roomID, agentID, action)
	if err != nil {
		return res, err
	}
	s.publish(ctx, roomID, res.Finished)
	return res, nil
}

// GetSessionView returns the spectator view of roomID
func (s *Service) GetSessionView(ctx context.Context, roomID string) (gameplay.SessionView, error) {
	return s.engine.GetSessionView(ctx, roomID)
}

// GetAgentView returns roomID as seen by one of its players
func (s *Service) GetAgentView(ctx context.Context, roomID, agentID string) (gameplay.AgentView, error) {
	return s.engine.GetAgentView(ctx, roomID, agentID)
}

func (s *Service) publish(ctx context.Context, roomID string, finished bool) {
	if s.hub.Clients(roomID) == 0 {
		return
	}
	view, err := s.engine.GetSessionView(ctx, roomID)
	if err != nil {
		s.logger.Error("load view for spectators", "room", roomID, "err", err)
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		s.logger.Error("encode view for spectators", "room", roomID, "err", err)
		return
	}
	s.hub.Publish(roomID, sse.EventRoomView, string(data))
	if finished {
		s.hub.Publish(roomID, sse.EventRoomFinished, roomID)
	}
}

// CreateAgent registers a new agent profile with a generated id
func (s *Service) CreateAgent(ctx context.Context, name, avatar string) (models.AgentProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.AgentProfile{}, fmt.Errorf("agent name is required")
	}
	agent := models.AgentProfile{AgentID: "agent_" + uuid.NewString(), Name: name, Avatar: avatar}
	if err := s.backend.SaveAgent(ctx, agent); err != nil {
		return models.AgentProfile{}, fmt.Errorf("create agent: %w", err)
	}
	s.logger.Info("agent created", "agent", agent.AgentID, "name", name)
	return agent, nil
}

// ListAgents returns the agent directory
func (s *Service) ListAgents(ctx context.Context) ([]models.AgentProfile, error) {
	return s.backend.ListAgents(ctx)
}

// SeedAgents upserts the demo agents
func (s *Service) SeedAgents(ctx context.Context) ([]models.AgentProfile, error) {
	if err := store.SeedAgents(ctx, s.backend); err != nil {
		return nil, err
	}
	return store.TestAgents(), nil
}
