package agentstate

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aaronzipp/sus-arena/internal/models"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestGetUnseenAgentIsIdle(t *testing.T) {
	t.Parallel()

	s := New(fixedClock())
	got := s.Get("never-seen")
	if got.Status != models.AgentIdle {
		t.Fatalf("status = %q, want idle", got.Status)
	}
	if got.RoomID != "" {
		t.Fatalf("room = %q, want empty", got.RoomID)
	}
	if len(s.Snapshot()) != 0 {
		t.Fatal("Get must not write a record")
	}
}

func TestTransitionTable(t *testing.T) {
	t.Parallel()

	all := []models.AgentStatus{models.AgentIdle, models.AgentInMatchingQueue, models.AgentInGame}
	allowed := map[[2]models.AgentStatus]bool{
		{models.AgentIdle, models.AgentInMatchingQueue}:   true,
		{models.AgentInMatchingQueue, models.AgentIdle}:   true,
		{models.AgentInMatchingQueue, models.AgentInGame}: true,
		{models.AgentInGame, models.AgentIdle}:            true,
	}
	for _, from := range all {
		for _, to := range all {
			if got, want := Allowed(from, to), allowed[[2]models.AgentStatus{from, to}]; got != want {
				t.Errorf("Allowed(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTransitionRejectsIllegalEdge(t *testing.T) {
	t.Parallel()

	s := New(fixedClock())
	_, err := s.Transition("a1", models.AgentInGame, "room-1")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	var te *TransitionError
	if !errors.As(err, &te) || te.From != models.AgentIdle || te.To != models.AgentInGame {
		t.Fatalf("err = %#v, want idle -> inGame TransitionError", err)
	}
	if got := s.Get("a1"); got.Status != models.AgentIdle {
		t.Fatalf("status = %q after rejected transition, want idle", got.Status)
	}
}

func TestRoomIDOnlyWhileInGame(t *testing.T) {
	t.Parallel()

	s := New(fixedClock())
	if _, err := s.Transition("a1", models.AgentInMatchingQueue, "ignored"); err != nil {
		t.Fatalf("enqueue transition: %v", err)
	}
	if got := s.Get("a1"); got.RoomID != "" {
		t.Fatalf("room = %q while queued, want empty", got.RoomID)
	}
	if _, err := s.Transition("a1", models.AgentInGame, "room-1"); err != nil {
		t.Fatalf("in-game transition: %v", err)
	}
	if got := s.Get("a1"); got.RoomID != "room-1" {
		t.Fatalf("room = %q, want room-1", got.RoomID)
	}
	if _, err := s.Transition("a1", models.AgentIdle, "room-1"); err != nil {
		t.Fatalf("idle transition: %v", err)
	}
	got := s.Get("a1")
	if got.RoomID != "" || got.Status != models.AgentIdle {
		t.Fatalf("state = %+v, want idle with no room", got)
	}
	if got.LastUpdateTime.IsZero() {
		t.Fatal("LastUpdateTime not set")
	}
}

func TestUpdateNilChangeLeavesRecord(t *testing.T) {
	t.Parallel()

	s := New(fixedClock())
	if _, err := s.Update("a1", func(models.AgentMatchState) (*Change, error) { return nil, nil }); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(s.Snapshot()) != 0 {
		t.Fatal("nil change wrote a record")
	}
}

func TestUpdateCallbackErrorAborts(t *testing.T) {
	t.Parallel()

	s := New(fixedClock())
	boom := errors.New("queue write failed")
	_, err := s.Update("a1", func(models.AgentMatchState) (*Change, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want callback error", err)
	}
}

func TestConcurrentStartOnlyOneWins(t *testing.T) {
	t.Parallel()

	s := New(fixedClock())
	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Transition("a1", models.AgentInMatchingQueue, ""); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins.Load())
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	s := New(fixedClock())
	if _, err := s.Transition("a1", models.AgentInMatchingQueue, ""); err != nil {
		t.Fatalf("transition: %v", err)
	}
	s.Reset()
	if got := s.Get("a1"); got.Status != models.AgentIdle {
		t.Fatalf("status = %q after reset, want idle", got.Status)
	}
}
