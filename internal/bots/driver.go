package bots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aaronzipp/sus-arena/internal/gameplay"
	"github.com/aaronzipp/sus-arena/internal/logging"
	"github.com/aaronzipp/sus-arena/internal/models"
)

// ErrRoundLimit is returned when a room is still playing after MaxRounds
var ErrRoundLimit = errors.New("round limit reached")

// Room is the part of the gameplay engine a Driver needs
type Room interface {
	GetSessionView(ctx context.Context, roomID string) (gameplay.SessionView, error)
	GetAgentView(ctx context.Context, roomID, agentID string) (gameplay.AgentView, error)
	SubmitAction(ctx context.Context, roomID, agentID string, action gameplay.Action) (gameplay.ActionResult, error)
}

// Driver plays every living player of a room with one Behavior
type Driver struct {
	Room      Room
	Behavior  Behavior
	MaxRounds int
	Logger    *slog.Logger
}

// PlayRound has every living player speak once and then vote once
func (d *Driver) PlayRound(ctx context.Context, roomID string) (gameplay.SessionView, error) {
	view, err := d.Room.GetSessionView(ctx, roomID)
	if err != nil {
		return view, err
	}
	if view.Status == models.StatusFinished {
		return view, nil
	}
	alive := alivePlayers(view)

	for _, p := range alive {
		av, err := d.Room.GetAgentView(ctx, roomID, p.AgentID)
		if err != nil {
			return view, err
		}
		text, err := d.Behavior.Describe(ctx, av)
		if err != nil {
			return view, fmt.Errorf("describe for %s: %w", p.AgentID, err)
		}
		if _, err := d.Room.SubmitAction(ctx, roomID, p.AgentID, gameplay.Action{Kind: gameplay.ActionSpeech, Content: text}); err != nil {
			return view, err
		}
	}

	for _, p := range alive {
		av, err := d.Room.GetAgentView(ctx, roomID, p.AgentID)
		if err != nil {
			return view, err
		}
		choices := make([]string, 0, len(alive)-1)
		for _, other := range alive {
			if other.AgentID != p.AgentID {
				choices = append(choices, other.DisplayName)
			}
		}
		target, err := d.Behavior.Vote(ctx, av, choices)
		if err != nil {
			return view, fmt.Errorf("vote for %s: %w", p.AgentID, err)
		}
		res, err := d.Room.SubmitAction(ctx, roomID, p.AgentID, gameplay.Action{Kind: gameplay.ActionVote, VoteTarget: target})
		if errors.Is(err, gameplay.ErrAlreadyVoted) {
			continue
		}
		if err != nil {
			return view, err
		}
		if res.Finished {
			break
		}
	}
	return d.Room.GetSessionView(ctx, roomID)
}

// PlayToEnd plays rounds until the room is finished
func (d *Driver) PlayToEnd(ctx context.Context, roomID string) (gameplay.SessionView, error) {
	logger := logging.OrDefault(d.Logger)
	maxRounds := d.MaxRounds
	if maxRounds <= 0 {
		maxRounds = 20
	}
	var view gameplay.SessionView
	for range maxRounds {
		if err := ctx.Err(); err != nil {
			return view, err
		}
		var err error
		view, err = d.PlayRound(ctx, roomID)
		if err != nil {
			return view, err
		}
		logger.Debug("round played", "room", roomID, "round", view.CurrentRound, "status", view.Status)
		if view.Status == models.StatusFinished {
			return view, nil
		}
	}
	return view, fmt.Errorf("room %s: %w after %d rounds", roomID, ErrRoundLimit, maxRounds)
}

func alivePlayers(view gameplay.SessionView) []models.Player {
	var alive []models.Player
	for _, p := range view.Players {
		if p.Status == models.PlayerAlive {
			alive = append(alive, p)
		}
	}
	return alive
}
