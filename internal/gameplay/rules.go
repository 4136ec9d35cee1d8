package gameplay

import (
	"fmt"
	"time"

	"github.com/aaronzipp/sus-arena/internal/game"
	"github.com/aaronzipp/sus-arena/internal/models"
)

// appendEvent stamps status descriptions for e from the session as it will be after e
func appendEvent(s *models.GameSession, e models.GameEvent, now time.Time) {
	e.Round = s.CurrentRound
	e.At = now
	e.StatusDescriptions = game.StatusDescriptions(s, e.Type)
	s.Events = append(s.Events, e)
	s.UpdatedAt = now
}

// RecordSpeech appends a speech by agentID
func RecordSpeech(s *models.GameSession, agentID, text string, now time.Time) error {
	idx := s.PlayerIndexByAgent(agentID)
	if idx < 0 {
		return fmt.Errorf("speech in room %s: %w: %s", s.RoomID, ErrPlayerNotFound, agentID)
	}
	p := s.Players[idx]
	appendEvent(s, models.GameEvent{
		Type:           models.EventSpeech,
		AgentID:        p.AgentID,
		DisplayName:    p.DisplayName,
		Text:           text,
		HighlightIndex: idx,
	}, now)
	return nil
}

// VoteOutcome reports what a recorded vote set in motion
type VoteOutcome struct {
	Valid      bool
	Resolved   bool
	Eliminated string // display name, empty on a tie
	GameOver   bool
}

// RecordVote appends a vote by agentID against the player shown as target.
// A vote counts when voter and target are both alive. A living voter with
// a counted vote this round is rejected with ErrAlreadyVoted and nothing is
// appended. Once every living player has a counted vote the round
// resolves. If that ends the game the caller must finish it with EndGame;
// otherwise the next round has already begun.
func RecordVote(s *models.GameSession, agentID, target string, now time.Time) (VoteOutcome, error) {
	voterIdx := s.PlayerIndexByAgent(agentID)
	if voterIdx < 0 {
		return VoteOutcome{}, fmt.Errorf("vote in room %s: %w: %s", s.RoomID, ErrVoterNotFound, agentID)
	}
	targetIdx := s.PlayerIndexByName(target)
	if targetIdx < 0 {
		return VoteOutcome{}, fmt.Errorf("vote in room %s: %w: %s", s.RoomID, ErrTargetNotFound, target)
	}
	voter, victim := s.Players[voterIdx], s.Players[targetIdx]
	if voter.Alive() && game.HasVoted(s, voter.AgentID) {
		return VoteOutcome{}, fmt.Errorf("vote in room %s: %w: %s", s.RoomID, ErrAlreadyVoted, agentID)
	}
	valid := voter.Alive() && victim.Alive()

	appendEvent(s, models.GameEvent{
		Type:              models.EventVote,
		AgentID:           voter.AgentID,
		DisplayName:       voter.DisplayName,
		VoteTarget:        victim.DisplayName,
		VoteTargetAgentID: victim.AgentID,
		VoteValid:         valid,
		HighlightIndex:    voterIdx,
	}, now)

	out := VoteOutcome{Valid: valid}
	if !valid || len(game.RoundVotes(s)) < len(s.AlivePlayers()) {
		return out, nil
	}

	out.Resolved = true
	out.Eliminated = ResolveRound(s, now)
	if CheckGameOver(s) {
		out.GameOver = true
		return out, nil
	}
	AdvanceRound(s, now)
	return out, nil
}

// ResolveRound eliminates the single most-voted player and announces the
// result. It returns the eliminated display name, or "" on a tie.
func ResolveRound(s *models.GameSession, now time.Time) string {
	result := game.CountVotes(s)
	if result.IsTie {
		appendEvent(s, models.GameEvent{
			Type:           models.EventHostSpeech,
			Text:           "Tie vote, no one is eliminated.",
			HighlightIndex: models.NoHighlight,
		}, now)
		return ""
	}

	idx := s.PlayerIndexByName(result.MostVoted)
	s.Players[idx].Status = models.PlayerDead
	appendEvent(s, models.GameEvent{
		Type:           models.EventHostSpeech,
		Text:           result.MostVoted + " has been voted out.",
		HighlightIndex: idx,
	}, now)
	return result.MostVoted
}

// CheckGameOver reports whether the living players decide the game
func CheckGameOver(s *models.GameSession) bool {
	return game.IsGameOver(s)
}

// AdvanceRound opens the next round
func AdvanceRound(s *models.GameSession, now time.Time) {
	s.CurrentRound++
	appendEvent(s, models.GameEvent{
		Type:           models.EventStart,
		Text:           fmt.Sprintf("Round %d begins.", s.CurrentRound),
		HighlightIndex: models.NoHighlight,
	}, now)
}

// FinishGame marks the session finished with the given scores. Winners are the living players.
func FinishGame(s *models.GameSession, scores []models.PlayerScore, now time.Time) {
	role := game.WinnerRole(s)
	s.Status = models.StatusFinished
	s.EndGameData = &models.EndGameData{WinnerRole: role, Winners: Winners(s), Scores: scores}
	appendEvent(s, models.GameEvent{
		Type:           models.EventEnd,
		Text:           fmt.Sprintf("Game Over! %s team wins!", role.Title()),
		WinnerRole:     role,
		HighlightIndex: models.NoHighlight,
	}, now)
}

// Winners returns the living players of s
func Winners(s *models.GameSession) []models.Player {
	alive := s.AlivePlayers()
	out := make([]models.Player, 0, len(alive))
	for _, p := range alive {
		out = append(out, *p)
	}
	return out
}
