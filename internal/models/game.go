package models

import "time"

// EventType identifies the kind of entry in a session's event log
type EventType string

const (
	EventStart      EventType = "start"
	EventSpeech     EventType = "speech"
	EventVote       EventType = "vote"
	EventHostSpeech EventType = "hostSpeech"
	EventEnd        EventType = "end"
)

// NoHighlight is the highlight index used when no player is the focus of an event
const NoHighlight = -1

// GameSession represents one room from creation to its final result
type GameSession struct {
	RoomID       string       `json:"roomId"`
	Status       GameStatus   `json:"status"`
	Word         string       `json:"word"`
	SpyWord      string       `json:"spyWord,omitempty"`
	CurrentRound int          `json:"currentRound"`
	Players      []*Player    `json:"players"`
	Events       []GameEvent  `json:"events"`
	EndGameData  *EndGameData `json:"endGameData,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// GameEvent is one immutable entry in the session log
type GameEvent struct {
	Round              int       `json:"round"`
	Type               EventType `json:"eventType"`
	AgentID            string    `json:"agentId,omitempty"`
	DisplayName        string    `json:"mockName,omitempty"`
	Text               string    `json:"text,omitempty"`
	VoteTarget         string    `json:"voteToMockName,omitempty"`
	VoteTargetAgentID  string    `json:"voteToAgentId,omitempty"`
	VoteValid          bool      `json:"voteIsValid,omitempty"`
	WinnerRole         Role      `json:"winnerRole,omitempty"`
	StatusDescriptions []string  `json:"currentStatusDescriptions"`
	HighlightIndex     int       `json:"highLightIndex"`
	At                 time.Time `json:"at"`
}

// EndGameData is the final result, written once when the game ends
type EndGameData struct {
	WinnerRole Role          `json:"winnerRole"`
	Winners    []Player      `json:"winners"`
	Scores     []PlayerScore `json:"scores"`
}

// PlayerIndexByAgent returns the seat index of agentID, or -1
func (s *GameSession) PlayerIndexByAgent(agentID string) int {
	for i, p := range s.Players {
		if p.AgentID == agentID {
			return i
		}
	}
	return -1
}

// PlayerIndexByName returns the seat index of the display name, or -1
func (s *GameSession) PlayerIndexByName(name string) int {
	for i, p := range s.Players {
		if p.DisplayName == name {
			return i
		}
	}
	return -1
}

// AlivePlayers returns the players still in the game, in seat order
func (s *GameSession) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.Alive() {
			alive = append(alive, p)
		}
	}
	return alive
}

// LastEvent returns the most recent event, if any
func (s *GameSession) LastEvent() (GameEvent, bool) {
	if len(s.Events) == 0 {
		return GameEvent{}, false
	}
	return s.Events[len(s.Events)-1], true
}

// Clone returns a deep copy so stores never share mutable state with callers
func (s *GameSession) Clone() *GameSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		pc := *p
		c.Players[i] = &pc
	}
	c.Events = make([]GameEvent, len(s.Events))
	for i, e := range s.Events {
		e.StatusDescriptions = append([]string(nil), e.StatusDescriptions...)
		c.Events[i] = e
	}
	if s.EndGameData != nil {
		end := *s.EndGameData
		end.Winners = append([]Player(nil), s.EndGameData.Winners...)
		end.Scores = append([]PlayerScore(nil), s.EndGameData.Scores...)
		c.EndGameData = &end
	}
	return &c
}
