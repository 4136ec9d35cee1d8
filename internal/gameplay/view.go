package gameplay

import (
	"context"
	"fmt"

	"github.com/aaronzipp/sus-arena/internal/models"
)

// SessionView is the spectator's read-only picture of a room
type SessionView struct {
	RoomID             string              `json:"roomId"`
	Status             models.GameStatus   `json:"status"`
	CurrentRound       int                 `json:"currentRound"`
	Word               string              `json:"word"`
	Events             []models.GameEvent  `json:"eventList"`
	Players            []models.Player     `json:"initialPlayerList"`
	StatusDescriptions []string            `json:"currentStatusDescriptions"`
	HighlightIndex     int                 `json:"highLightIndex"`
	EndGameData        *models.EndGameData `json:"endGameData,omitempty"`
}

// AgentView is what a single seated agent may know about its room
type AgentView struct {
	SessionView
	Self models.Player `json:"self"`
}

// NewSessionView builds the view of s. Per-player words are withheld.
func NewSessionView(s *models.GameSession) SessionView {
	v := SessionView{
		RoomID:             s.RoomID,
		Status:             s.Status,
		CurrentRound:       s.CurrentRound,
		Word:               s.Word,
		Events:             s.Events,
		Players:            make([]models.Player, 0, len(s.Players)),
		StatusDescriptions: []string{},
		EndGameData:        s.EndGameData,
	}
	if v.Events == nil {
		v.Events = []models.GameEvent{}
	}
	for _, p := range s.Players {
		pc := *p
		pc.Word = ""
		v.Players = append(v.Players, pc)
	}
	if last, ok := s.LastEvent(); ok {
		v.StatusDescriptions = last.StatusDescriptions
		v.HighlightIndex = last.HighlightIndex
	}
	return v
}

// GetSessionView returns the spectator view of roomID
func (e *Engine) GetSessionView(ctx context.Context, roomID string) (SessionView, error) {
	s, err := e.load(ctx, roomID)
	if err != nil {
		return SessionView{}, err
	}
	return NewSessionView(s), nil
}

// GetAgentView returns roomID as seen by agentID: its own word, and no
// roles until the game is over
func (e *Engine) GetAgentView(ctx context.Context, roomID, agentID string) (AgentView, error) {
	s, err := e.load(ctx, roomID)
	if err != nil {
		return AgentView{}, err
	}
	idx := s.PlayerIndexByAgent(agentID)
	if idx < 0 {
		return AgentView{}, fmt.Errorf("room %s: %w: %s", roomID, ErrPlayerNotFound, agentID)
	}
	view := AgentView{SessionView: NewSessionView(s), Self: *s.Players[idx]}
	if s.Status != models.StatusFinished {
		for i := range view.Players {
			view.Players[i].Role = ""
		}
		view.Self.Role = ""
	}
	return view, nil
}
