// Package store holds sessions, the matching queue and the agent directory.
//
// MemoryStore keeps everything in process; SQLiteStore persists the same
// records with modernc.org/sqlite. Both hand out copies, never shared pointers.
package store

import (
	"errors"

	"github.com/aaronzipp/sus-arena/internal/models"
)

// ErrNotFound is returned when a session or agent does not exist
var ErrNotFound = errors.New("not found")

// WinScore is the score credited to every winner of a game
const WinScore = 10

// settle computes the updated profile and score row for one player of a finished game
func settle(profile models.AgentProfile, won bool) (models.AgentProfile, models.PlayerScore) {
	profile.GameCount++
	delta := 0.0
	if won {
		delta = WinScore
		profile.WinCount++
		profile.Score += delta
	}
	return profile, models.PlayerScore{AgentID: profile.AgentID, Delta: delta, Score: profile.Score}
}

func winnerSet(winners []models.Player) map[string]bool {
	set := make(map[string]bool, len(winners))
	for _, w := range winners {
		set[w.AgentID] = true
	}
	return set
}
