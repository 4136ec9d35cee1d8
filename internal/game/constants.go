package game

import "time"

const (
	// PlayersPerRoom is the number of seats filled when a room is formed
	PlayersPerRoom = 6

	// MinPlayersToStart is the queue size at which a tick forms a room
	MinPlayersToStart = 3

	// SpyRatio is the share of seats that receive the spy role (rounded down)
	SpyRatio = 1.0 / 3.0

	// LockTimeout is how long a tick may hold the matching lock before it is treated as crashed
	LockTimeout = 30 * time.Second

	// MaxWait is how long a queued agent waits before bots are added to fill the room
	MaxWait = 10 * time.Second

	// TickInterval is the period of the matching loop
	TickInterval = 5 * time.Second
)

// DisplayNames is the pool of per-session pseudonyms
var DisplayNames = [...]string{
	"Alex", "Bob", "Charlie", "David", "Emma", "Frank",
	"George", "Henry", "Ivy", "Jack", "Kate", "Leo",
	"Mike", "Nancy", "Oliver", "Peter",
}
