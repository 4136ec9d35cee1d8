package game

import (
	"sort"
	"strconv"

	"github.com/aaronzipp/sus-arena/internal/models"
)

// VoteResult represents the outcome of counting one round's valid votes
type VoteResult struct {
	VoteCount  map[string]int
	Leaders    []string // display names holding the maximum, sorted
	MostVoted  string   // set only when exactly one player leads
	IsTie      bool
	ValidVotes int
}

// RoundVotes returns the valid vote events cast in the session's current round
func RoundVotes(s *models.GameSession) []models.GameEvent {
	var votes []models.GameEvent
	for _, e := range s.Events {
		if e.Round == s.CurrentRound && e.Type == models.EventVote && e.VoteValid {
			votes = append(votes, e)
		}
	}
	return votes
}

// HasVoted reports whether agentID already cast a valid vote this round
func HasVoted(s *models.GameSession, agentID string) bool {
	for _, e := range RoundVotes(s) {
		if e.AgentID == agentID {
			return true
		}
	}
	return false
}

// CountVotes tallies the current round's valid votes by target display name
func CountVotes(s *models.GameSession) *VoteResult {
	votes := RoundVotes(s)
	voteCount := make(map[string]int)
	for _, e := range votes {
		voteCount[e.VoteTarget]++
	}

	maxVotes := 0
	var leaders []string
	for name, count := range voteCount {
		if count > maxVotes {
			maxVotes = count
			leaders = []string{name}
		} else if count == maxVotes {
			leaders = append(leaders, name)
		}
	}
	sort.Strings(leaders)

	result := &VoteResult{
		VoteCount:  voteCount,
		Leaders:    leaders,
		IsTie:      len(leaders) != 1,
		ValidVotes: len(votes),
	}
	if !result.IsTie {
		result.MostVoted = leaders[0]
	}
	return result
}

// AliveCounts returns the number of living spies and innocents
func AliveCounts(s *models.GameSession) (spies, innocents int) {
	for _, p := range s.Players {
		if !p.Alive() {
			continue
		}
		switch p.Role {
		case models.RoleSpy:
			spies++
		case models.RoleInnocent:
			innocents++
		}
	}
	return spies, innocents
}

// IsGameOver reports whether no spy is alive or spies are no longer outnumbered
func IsGameOver(s *models.GameSession) bool {
	spies, innocents := AliveCounts(s)
	return spies == 0 || spies >= innocents
}

// WinnerRole returns spy while any spy is alive, innocent otherwise
func WinnerRole(s *models.GameSession) models.Role {
	spies, _ := AliveCounts(s)
	if spies > 0 {
		return models.RoleSpy
	}
	return models.RoleInnocent
}

// StatusDescriptions derives the display lines for a session as an event of type next is appended
func StatusDescriptions(s *models.GameSession, next models.EventType) []string {
	switch s.Status {
	case models.StatusWaiting:
		return []string{"Waiting for players to join..."}
	case models.StatusPlaying:
		desc := []string{"Round " + strconv.Itoa(s.CurrentRound)}
		switch next {
		case models.EventVote:
			desc = append(desc, "Voting in progress...")
		case models.EventSpeech:
			desc = append(desc, "Players are describing...")
		}
		return desc
	case models.StatusFinished:
		desc := []string{"Game Over"}
		if s.EndGameData != nil {
			desc = append(desc, "Winner: "+s.EndGameData.WinnerRole.Title())
		}
		return desc
	default:
		return []string{}
	}
}
