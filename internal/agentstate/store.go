// Package agentstate tracks each agent's match/game status in memory.
//
// Records are created lazily as idle and only move along the edges
//
//	idle -> in_matching_queue
//	in_matching_queue -> idle | inGame
//	inGame -> idle
//
// Every mutation for one agent runs under that agent's lock, so a user
// action and the matching tick never interleave on the same record.
package agentstate

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aaronzipp/sus-arena/internal/keylock"
	"github.com/aaronzipp/sus-arena/internal/models"
)

// ErrInvalidTransition is returned when a status change leaves the transition table
var ErrInvalidTransition = errors.New("invalid state transition")

var transitions = map[models.AgentStatus][]models.AgentStatus{
	models.AgentIdle:            {models.AgentInMatchingQueue},
	models.AgentInMatchingQueue: {models.AgentIdle, models.AgentInGame},
	models.AgentInGame:          {models.AgentIdle},
}

// TransitionError describes a rejected status change
type TransitionError struct {
	AgentID string
	From    models.AgentStatus
	To      models.AgentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("agent %s: invalid state transition: %s -> %s", e.AgentID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Allowed reports whether to is a legal successor of from
func Allowed(from, to models.AgentStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Change is the status and room an Update callback wants to move to
type Change struct {
	Status models.AgentStatus
	RoomID string
}

// Store holds AgentMatchState records for the process lifetime
type Store struct {
	locks *keylock.Map
	now   func() time.Time

	mu     sync.RWMutex
	states map[string]models.AgentMatchState
}

// New creates an empty store; now defaults to time.Now
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		locks:  keylock.New(),
		now:    now,
		states: make(map[string]models.AgentMatchState),
	}
}

func (s *Store) read(agentID string) models.AgentMatchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[agentID]; ok {
		return st
	}
	return models.AgentMatchState{AgentID: agentID, Status: models.AgentIdle}
}

// Get returns a copy of the agent's state, idle if it was never seen
func (s *Store) Get(agentID string) models.AgentMatchState {
	return s.read(agentID)
}

// Transition moves the agent to status, validating the edge
func (s *Store) Transition(agentID string, status models.AgentStatus, roomID string) (models.AgentMatchState, error) {
	return s.Update(agentID, func(models.AgentMatchState) (*Change, error) {
		return &Change{Status: status, RoomID: roomID}, nil
	})
}

// Update runs fn under the agent's lock and applies the change it returns.
// A nil change leaves the record untouched. fn must not call back into the
// store for the same agent.
func (s *Store) Update(agentID string, fn func(cur models.AgentMatchState) (*Change, error)) (models.AgentMatchState, error) {
	unlock := s.locks.Lock(agentID)
	defer unlock()

	cur := s.read(agentID)
	change, err := fn(cur)
	if err != nil {
		return cur, err
	}
	if change == nil {
		return cur, nil
	}
	if !Allowed(cur.Status, change.Status) {
		return cur, &TransitionError{AgentID: agentID, From: cur.Status, To: change.Status}
	}

	next := models.AgentMatchState{
		AgentID:        agentID,
		Status:         change.Status,
		LastUpdateTime: s.now(),
	}
	if change.Status == models.AgentInGame {
		next.RoomID = change.RoomID
	}

	s.mu.Lock()
	s.states[agentID] = next
	s.mu.Unlock()
	return next, nil
}

// Snapshot returns a copy of every record that has been written
func (s *Store) Snapshot() []models.AgentMatchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AgentMatchState, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st)
	}
	return out
}

// Reset drops every record, returning all agents to implicit idle
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[string]models.AgentMatchState)
}
