package matchmaking

import "errors"

var (
	// ErrAlreadyMatching is returned when an agent that is queued or in a game asks to match
	ErrAlreadyMatching = errors.New("agent is already in matching or game")

	// ErrNotInQueue is returned when cancelling or dequeuing an agent that is not queued
	ErrNotInQueue = errors.New("agent is not in the matching queue")

	// ErrAgentNotFound is returned when the directory has no profile for an agent
	ErrAgentNotFound = errors.New("agent not found")

	// ErrCandidateDrifted is returned when a room candidate left the queue during room formation
	ErrCandidateDrifted = errors.New("room candidate is no longer queued")

	// ErrNoCandidates is returned when a room is requested for an empty candidate set
	ErrNoCandidates = errors.New("no room candidates")
)
