package bots

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aaronzipp/sus-arena/internal/agentstate"
	"github.com/aaronzipp/sus-arena/internal/gameplay"
	"github.com/aaronzipp/sus-arena/internal/logging"
	"github.com/aaronzipp/sus-arena/internal/models"
	"github.com/aaronzipp/sus-arena/internal/store"
)

func first(int) int { return 0 }

func newRoom(t *testing.T) (*gameplay.Engine, *agentstate.Store) {
	t.Helper()

	ctx := context.Background()
	mem := store.NewMemoryStore()
	states := agentstate.New(nil)
	s := &models.GameSession{
		RoomID:       "room-1",
		Status:       models.StatusPlaying,
		Word:         "piano",
		SpyWord:      "guitar",
		CurrentRound: 1,
		CreatedAt:    time.Now(),
	}
	for i, name := range []string{"Alex", "Bob", "Charlie", "David", "Emma", "Frank"} {
		role, word := models.RoleInnocent, "piano"
		if name == "Bob" || name == "Emma" {
			role, word = models.RoleSpy, "guitar"
		}
		id := fmt.Sprintf("bot-%d", i+1)
		s.Players = append(s.Players, &models.Player{AgentID: id, DisplayName: name, Role: role, Status: models.PlayerAlive, Word: word})
		if err := mem.SaveAgent(ctx, models.AgentProfile{AgentID: id, Name: name}); err != nil {
			t.Fatalf("save agent: %v", err)
		}
		if _, err := states.Transition(id, models.AgentInMatchingQueue, ""); err != nil {
			t.Fatalf("transition: %v", err)
		}
		if _, err := states.Transition(id, models.AgentInGame, s.RoomID); err != nil {
			t.Fatalf("transition: %v", err)
		}
	}
	if err := mem.SaveSession(ctx, s); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return gameplay.NewEngine(mem, states, mem, nil, logging.Discard()), states
}

func TestPlayToEnd(t *testing.T) {
	t.Parallel()

	engine, states := newRoom(t)
	d := &Driver{Room: engine, Behavior: Scripted{Pick: first}, Logger: logging.Discard()}

	view, err := d.PlayToEnd(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("play to end: %v", err)
	}
	if view.Status != models.StatusFinished || view.CurrentRound != 4 {
		t.Fatalf("status = %q round %d, want finished in round 4", view.Status, view.CurrentRound)
	}
	if view.EndGameData.WinnerRole != models.RoleSpy {
		t.Fatalf("winner = %q, want spy", view.EndGameData.WinnerRole)
	}

	speeches := 0
	for _, e := range view.Events {
		if e.Type == models.EventSpeech {
			speeches++
		}
	}
	// 6 + 5 + 4 + 3 living speakers across the four rounds.
	if speeches != 18 {
		t.Fatalf("speeches = %d, want 18", speeches)
	}
	for i := 1; i <= 6; i++ {
		if st := states.Get(fmt.Sprintf("bot-%d", i)); st.Status != models.AgentIdle {
			t.Fatalf("bot-%d status = %q, want idle", i, st.Status)
		}
	}
}

func TestPlayRoundSkipsAgentThatAlreadyVoted(t *testing.T) {
	t.Parallel()

	engine, _ := newRoom(t)
	ctx := context.Background()
	if _, err := engine.SubmitAction(ctx, "room-1", "bot-3", gameplay.Action{Kind: gameplay.ActionVote, VoteTarget: "Alex"}); err != nil {
		t.Fatalf("early vote: %v", err)
	}

	d := &Driver{Room: engine, Behavior: Scripted{Pick: first}, Logger: logging.Discard()}
	view, err := d.PlayRound(ctx, "room-1")
	if err != nil {
		t.Fatalf("play round: %v", err)
	}
	if view.CurrentRound != 2 {
		t.Fatalf("round = %d, want the first round resolved", view.CurrentRound)
	}
}

func TestPlayToEndRoundLimit(t *testing.T) {
	t.Parallel()

	engine, _ := newRoom(t)
	d := &Driver{Room: engine, Behavior: Scripted{Pick: first}, MaxRounds: 2}

	view, err := d.PlayToEnd(context.Background(), "room-1")
	if !errors.Is(err, ErrRoundLimit) {
		t.Fatalf("err = %v, want ErrRoundLimit", err)
	}
	if view.Status != models.StatusPlaying || view.CurrentRound != 3 {
		t.Fatalf("status = %q round %d", view.Status, view.CurrentRound)
	}
}

func TestPlayRoundOnFinishedRoomIsNoop(t *testing.T) {
	t.Parallel()

	engine, _ := newRoom(t)
	d := &Driver{Room: engine, Behavior: Scripted{Pick: first}}
	if _, err := d.PlayToEnd(context.Background(), "room-1"); err != nil {
		t.Fatalf("play to end: %v", err)
	}
	before, err := engine.GetSessionView(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	after, err := d.PlayRound(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("play round: %v", err)
	}
	if len(after.Events) != len(before.Events) {
		t.Fatalf("events grew from %d to %d", len(before.Events), len(after.Events))
	}
}

func TestScriptedVoteNeedsChoices(t *testing.T) {
	t.Parallel()

	if _, err := (Scripted{}).Vote(context.Background(), gameplay.AgentView{}, nil); err == nil {
		t.Fatal("expected error for empty choices")
	}
	got, err := (Scripted{}).Vote(context.Background(), gameplay.AgentView{}, []string{"Ivy"})
	if err != nil || got != "Ivy" {
		t.Fatalf("vote = %q, %v", got, err)
	}
}
