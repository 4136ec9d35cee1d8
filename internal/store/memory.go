package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aaronzipp/sus-arena/internal/models"
)

// MemoryStore manages sessions, queue entries and agents in process memory
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]*models.GameSession
	queue      []models.QueueEntry // insertion order
	agents     map[string]models.AgentProfile
	agentOrder []string
	results    map[string][]models.PlayerScore // by room
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.GameSession),
		agents:   make(map[string]models.AgentProfile),
		results:  make(map[string][]models.PlayerScore),
	}
}

// SaveSession stores a copy of the session, replacing any previous version
func (s *MemoryStore) SaveSession(ctx context.Context, session *models.GameSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session == nil || strings.TrimSpace(session.RoomID) == "" {
		return fmt.Errorf("room id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.RoomID] = session.Clone()
	return nil
}

// LoadSession retrieves a copy of the session for roomID
func (s *MemoryStore) LoadSession(ctx context.Context, roomID string) (*models.GameSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[roomID]
	if !exists {
		return nil, fmt.Errorf("session %s: %w", roomID, ErrNotFound)
	}
	return session.Clone(), nil
}

// DeleteSession removes a session; deleting a missing session is not an error
func (s *MemoryStore) DeleteSession(ctx context.Context, roomID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, roomID)
	return nil
}

// SessionExists checks if a session is stored
func (s *MemoryStore) SessionExists(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.sessions[roomID]
	return exists
}

// Enqueue upserts a queue entry; an existing entry for the agent moves to the back
func (s *MemoryStore) Enqueue(ctx context.Context, entry models.QueueEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = slices.DeleteFunc(s.queue, func(e models.QueueEntry) bool { return e.AgentID == entry.AgentID })
	s.queue = append(s.queue, entry)
	return nil
}

// Dequeue deletes the agent's entry if present and reports whether one was removed
func (s *MemoryStore) Dequeue(ctx context.Context, agentID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.queue)
	s.queue = slices.DeleteFunc(s.queue, func(e models.QueueEntry) bool { return e.AgentID == agentID })
	return len(s.queue) < before, nil
}

// ListQueue returns the queue in insertion order
func (s *MemoryStore) ListQueue(ctx context.Context) ([]models.QueueEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.queue), nil
}

// ClearQueue removes every queue entry
func (s *MemoryStore) ClearQueue(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
	return nil
}

// SaveAgent creates or updates an agent profile
func (s *MemoryStore) SaveAgent(ctx context.Context, agent models.AgentProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(agent.AgentID) == "" {
		return fmt.Errorf("agent id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.agents[agent.AgentID]; !exists {
		s.agentOrder = append(s.agentOrder, agent.AgentID)
	}
	s.agents[agent.AgentID] = agent
	return nil
}

// GetAgentByID retrieves an agent profile
func (s *MemoryStore) GetAgentByID(ctx context.Context, agentID string) (models.AgentProfile, error) {
	if err := ctx.Err(); err != nil {
		return models.AgentProfile{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	agent, exists := s.agents[agentID]
	if !exists {
		return models.AgentProfile{}, fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	return agent, nil
}

// ListAgents returns every agent in creation order
func (s *MemoryStore) ListAgents(ctx context.Context) ([]models.AgentProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AgentProfile, 0, len(s.agentOrder))
	for _, id := range s.agentOrder {
		out = append(out, s.agents[id])
	}
	return out, nil
}

// RecordResult credits a finished game to every player's profile. A room
// is credited once; later calls return its stored scores.
func (s *MemoryStore) RecordResult(ctx context.Context, roomID string, players, winners []models.Player) ([]models.PlayerScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	won := winnerSet(winners)
	s.mu.Lock()
	defer s.mu.Unlock()
	if scores, ok := s.results[roomID]; ok {
		return slices.Clone(scores), nil
	}
	for _, p := range players {
		if _, exists := s.agents[p.AgentID]; !exists {
			return nil, fmt.Errorf("record result for room %s: agent %s: %w", roomID, p.AgentID, ErrNotFound)
		}
	}
	scores := make([]models.PlayerScore, 0, len(players))
	for _, p := range players {
		updated, score := settle(s.agents[p.AgentID], won[p.AgentID])
		s.agents[p.AgentID] = updated
		scores = append(scores, score)
	}
	s.results[roomID] = slices.Clone(scores)
	return scores, nil
}
