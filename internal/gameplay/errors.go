package gameplay

import "errors"

var (
	// ErrRoomNotFound is returned when no session exists for a room id
	ErrRoomNotFound = errors.New("room not found")
	// ErrPlayerNotFound is returned when the acting agent is not seated in the room
	ErrPlayerNotFound = errors.New("player not found in room")
	// ErrVoterNotFound is returned when a vote comes from an agent not seated in the room
	ErrVoterNotFound = errors.New("voter not found in room")
	// ErrTargetNotFound is returned when no player in the room has the voted display name
	ErrTargetNotFound = errors.New("vote target not found in room")
	// ErrAlreadyVoted is returned when a living player votes twice in one round
	ErrAlreadyVoted = errors.New("already voted this round")
	// ErrGameFinished is returned for actions on a finished game
	ErrGameFinished = errors.New("game already finished")
	// ErrUnknownAction is returned for an action kind other than speech or vote
	ErrUnknownAction = errors.New("unknown action")
	// ErrEmptyVoteTarget is returned for a vote without a target
	ErrEmptyVoteTarget = errors.New("vote target is required")
)
