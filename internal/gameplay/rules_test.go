package gameplay

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/aaronzipp/sus-arena/internal/game"
	"github.com/aaronzipp/sus-arena/internal/models"
)

var testNow = time.Date(2026, time.October, 19, 15, 0, 0, 0, time.UTC)

// newTestSession seats Alex..Frank as agents a1..a6 with Bob and Emma as spies
func newTestSession() *models.GameSession {
	names := []string{"Alex", "Bob", "Charlie", "David", "Emma", "Frank"}
	s := &models.GameSession{
		RoomID:       "room-1",
		Status:       models.StatusPlaying,
		Word:         "coffee",
		SpyWord:      "tea",
		CurrentRound: 1,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	for i, name := range names {
		p := &models.Player{
			AgentID:     "a" + string(rune('1'+i)),
			DisplayName: name,
			Role:        models.RoleInnocent,
			Status:      models.PlayerAlive,
			Word:        "coffee",
		}
		if name == "Bob" || name == "Emma" {
			p.Role = models.RoleSpy
			p.Word = "tea"
		}
		s.Players = append(s.Players, p)
	}
	s.Events = []models.GameEvent{{Round: 1, Type: models.EventStart, StatusDescriptions: []string{"Round 1"}, At: testNow}}
	return s
}

// castVotes has each agent vote for the paired display name, in order
func castVotes(t *testing.T, s *models.GameSession, votes [][2]string) VoteOutcome {
	t.Helper()
	var last VoteOutcome
	for _, v := range votes {
		out, err := RecordVote(s, v[0], v[1], testNow)
		if err != nil {
			t.Fatalf("vote %s -> %s: %v", v[0], v[1], err)
		}
		last = out
	}
	return last
}

func countEvents(s *models.GameSession, round int, typ models.EventType) int {
	n := 0
	for _, e := range s.Events {
		if e.Round == round && e.Type == typ {
			n++
		}
	}
	return n
}

func TestInnocentsWinAfterTwoRounds(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	out := castVotes(t, s, [][2]string{
		{"a1", "Bob"}, {"a2", "Alex"}, {"a3", "Bob"}, {"a4", "Bob"}, {"a5", "Alex"}, {"a6", "Bob"},
	})
	if !out.Resolved || out.Eliminated != "Bob" || out.GameOver {
		t.Fatalf("round 1 outcome = %+v", out)
	}
	if s.Players[1].Status != models.PlayerDead {
		t.Fatal("Bob is still alive")
	}
	if s.CurrentRound != 2 {
		t.Fatalf("round = %d, want 2", s.CurrentRound)
	}

	host := s.Events[len(s.Events)-2]
	if host.Type != models.EventHostSpeech || host.Text != "Bob has been voted out." || host.HighlightIndex != 1 {
		t.Fatalf("host event = %+v", host)
	}
	start := s.Events[len(s.Events)-1]
	if start.Type != models.EventStart || start.Round != 2 || start.HighlightIndex != models.NoHighlight {
		t.Fatalf("start event = %+v", start)
	}

	out = castVotes(t, s, [][2]string{
		{"a1", "Emma"}, {"a3", "Emma"}, {"a4", "Alex"}, {"a5", "Alex"}, {"a6", "Emma"},
	})
	if !out.GameOver || out.Eliminated != "Emma" {
		t.Fatalf("round 2 outcome = %+v", out)
	}
	if !CheckGameOver(s) {
		t.Fatal("CheckGameOver = false after last spy left")
	}

	FinishGame(s, nil, testNow)
	if s.Status != models.StatusFinished {
		t.Fatalf("status = %q", s.Status)
	}
	if s.EndGameData.WinnerRole != models.RoleInnocent || len(s.EndGameData.Winners) != 4 {
		t.Fatalf("end data = %+v", s.EndGameData)
	}
	end, _ := s.LastEvent()
	if end.Type != models.EventEnd || end.Text != "Game Over! Innocent team wins!" {
		t.Fatalf("end event = %+v", end)
	}
	if !slices.Equal(end.StatusDescriptions, []string{"Game Over", "Winner: Innocent"}) {
		t.Fatalf("end descriptions = %v", end.StatusDescriptions)
	}
}

func TestSpiesWinWhenNoLongerOutnumbered(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	castVotes(t, s, [][2]string{
		{"a1", "Alex"}, {"a2", "Alex"}, {"a3", "Alex"}, {"a4", "Alex"}, {"a5", "Alex"}, {"a6", "Bob"},
	})
	out := castVotes(t, s, [][2]string{
		{"a2", "Charlie"}, {"a3", "Bob"}, {"a4", "Charlie"}, {"a5", "Charlie"}, {"a6", "Charlie"},
	})
	if !out.GameOver || out.Eliminated != "Charlie" {
		t.Fatalf("outcome = %+v", out)
	}

	FinishGame(s, nil, testNow)
	if s.EndGameData.WinnerRole != models.RoleSpy {
		t.Fatalf("winner = %q, want spy", s.EndGameData.WinnerRole)
	}
	if len(s.EndGameData.Winners) != 4 {
		t.Fatalf("winners = %d, want the 4 living players", len(s.EndGameData.Winners))
	}
}

func TestTieNeverEliminates(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	out := castVotes(t, s, [][2]string{
		{"a1", "Bob"}, {"a2", "Emma"}, {"a3", "Bob"}, {"a4", "Emma"}, {"a5", "Bob"}, {"a6", "Emma"},
	})
	if !out.Resolved || out.Eliminated != "" || out.GameOver {
		t.Fatalf("outcome = %+v", out)
	}
	for _, p := range s.Players {
		if !p.Alive() {
			t.Fatalf("%s eliminated on a tie", p.DisplayName)
		}
	}
	host := s.Events[len(s.Events)-2]
	if host.Text != "Tie vote, no one is eliminated." || host.HighlightIndex != models.NoHighlight {
		t.Fatalf("host event = %+v", host)
	}
	if s.CurrentRound != 2 {
		t.Fatalf("round = %d, want 2", s.CurrentRound)
	}
}

func TestResolutionFiresOnceInAnyOrder(t *testing.T) {
	t.Parallel()

	base := [][2]string{
		{"a1", "Bob"}, {"a2", "Alex"}, {"a3", "Bob"}, {"a4", "Bob"}, {"a5", "Alex"}, {"a6", "Bob"},
	}
	for shift := range base {
		s := newTestSession()
		order := append(slices.Clone(base[shift:]), base[:shift]...)
		for i, v := range order {
			out, err := RecordVote(s, v[0], v[1], testNow)
			if err != nil {
				t.Fatalf("vote: %v", err)
			}
			if out.Resolved != (i == len(order)-1) {
				t.Fatalf("shift %d vote %d resolved = %v", shift, i, out.Resolved)
			}
		}
		if n := countEvents(s, 1, models.EventHostSpeech); n != 1 {
			t.Fatalf("shift %d: host speeches = %d, want 1", shift, n)
		}
	}
}

func TestInvalidVotesAreRecordedButNotCounted(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	castVotes(t, s, [][2]string{
		{"a1", "Bob"}, {"a2", "Alex"}, {"a3", "Bob"}, {"a4", "Bob"}, {"a5", "Alex"}, {"a6", "Bob"},
	})

	tests := []struct {
		name   string
		voter  string
		target string
	}{
		{name: "dead voter", voter: "a2", target: "Alex"},
		{name: "dead target", voter: "a1", target: "Bob"},
	}
	for _, tt := range tests {
		before := len(s.Events)
		out, err := RecordVote(s, tt.voter, tt.target, testNow)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if out.Valid || out.Resolved {
			t.Fatalf("%s: outcome = %+v", tt.name, out)
		}
		if len(s.Events) != before+1 || s.Events[before].VoteValid {
			t.Fatalf("%s: vote not appended as invalid", tt.name)
		}
	}

	if n := len(game.RoundVotes(s)); n != 0 {
		t.Fatalf("counted votes = %d, want 0", n)
	}

	self, err := RecordVote(s, "a3", "Charlie", testNow)
	if err != nil || !self.Valid {
		t.Fatalf("vote for self = %+v, %v; want valid", self, err)
	}
	if n := len(game.RoundVotes(s)); n != 1 {
		t.Fatalf("counted votes = %d, want 1", n)
	}
}

func TestRepeatVoteIsRejected(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	first, err := RecordVote(s, "a1", "Emma", testNow)
	if err != nil || !first.Valid {
		t.Fatalf("first vote = %+v, %v", first, err)
	}
	before := len(s.Events)
	if _, err := RecordVote(s, "a1", "Charlie", testNow); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("repeat vote err = %v, want ErrAlreadyVoted", err)
	}
	if len(s.Events) != before {
		t.Fatalf("repeat vote appended %d events", len(s.Events)-before)
	}

	// Five distinct voters plus a rejected repeat must not resolve the round.
	castVotes(t, s, [][2]string{{"a2", "Alex"}, {"a3", "Emma"}, {"a4", "Emma"}, {"a5", "Alex"}})
	if _, err := RecordVote(s, "a4", "Alex", testNow); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("repeat vote err = %v, want ErrAlreadyVoted", err)
	}
	if countEvents(s, 1, models.EventHostSpeech) != 0 || s.CurrentRound != 1 {
		t.Fatalf("round resolved early: round = %d", s.CurrentRound)
	}
	out := castVotes(t, s, [][2]string{{"a6", "Emma"}})
	if !out.Resolved || out.Eliminated != "Emma" {
		t.Fatalf("last vote outcome = %+v", out)
	}
}

func TestRecordErrors(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	if err := RecordSpeech(s, "ghost", "hi", testNow); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("speech err = %v, want ErrPlayerNotFound", err)
	}
	if _, err := RecordVote(s, "ghost", "Bob", testNow); !errors.Is(err, ErrVoterNotFound) {
		t.Fatalf("vote err = %v, want ErrVoterNotFound", err)
	}
	if _, err := RecordVote(s, "a1", "Zed", testNow); !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("vote err = %v, want ErrTargetNotFound", err)
	}
	if len(s.Events) != 1 {
		t.Fatalf("failed actions appended events: %d", len(s.Events))
	}
}

func TestEventStatusDescriptions(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	if err := RecordSpeech(s, "a3", "It is warm.", testNow); err != nil {
		t.Fatalf("speech: %v", err)
	}
	speech, _ := s.LastEvent()
	if speech.HighlightIndex != 2 || !slices.Equal(speech.StatusDescriptions, []string{"Round 1", "Players are describing..."}) {
		t.Fatalf("speech event = %+v", speech)
	}

	if _, err := RecordVote(s, "a4", "Bob", testNow); err != nil {
		t.Fatalf("vote: %v", err)
	}
	vote, _ := s.LastEvent()
	if vote.HighlightIndex != 3 || !slices.Equal(vote.StatusDescriptions, []string{"Round 1", "Voting in progress..."}) {
		t.Fatalf("vote event = %+v", vote)
	}
}
