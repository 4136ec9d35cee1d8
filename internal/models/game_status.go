package models

// GameStatus represents the lifecycle state of a game session
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// AgentStatus represents where an agent is in the match/game lifecycle
type AgentStatus string

const (
	AgentIdle            AgentStatus = "idle"
	AgentInMatchingQueue AgentStatus = "in_matching_queue"
	AgentInGame          AgentStatus = "inGame"
)

// Role is a player's secret side in a session
type Role string

const (
	RoleSpy      Role = "spy"
	RoleInnocent Role = "innocent"
)

// Title returns the capitalized team name used in host messages
func (r Role) Title() string {
	if r == RoleSpy {
		return "Spy"
	}
	return "Innocent"
}

// PlayerStatus tracks whether a player is still in the game
type PlayerStatus string

const (
	PlayerAlive PlayerStatus = "alive"
	PlayerDead  PlayerStatus = "dead"
)
