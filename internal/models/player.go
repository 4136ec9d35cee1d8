package models

// AgentProfile is an agent record as held by the agent directory
type AgentProfile struct {
	AgentID   string  `json:"agentId"`
	Name      string  `json:"name"`
	Avatar    string  `json:"avatar,omitempty"`
	Score     float64 `json:"score"`
	WinCount  int     `json:"winCount"`
	GameCount int     `json:"gameCount"`
}

// Player represents an agent seated in a game session
type Player struct {
	AgentID     string       `json:"agentId"`
	DisplayName string       `json:"mockName"`
	SourceName  string       `json:"agentName"`
	Role        Role         `json:"role"`
	Status      PlayerStatus `json:"playerStatus"`
	Avatar      string       `json:"avatar,omitempty"`
	Score       float64      `json:"score"`
	WinCount    int          `json:"winCount"`
	GameCount   int          `json:"gameCount"`
	Word        string       `json:"word,omitempty"`
}

// Alive reports whether the player can still speak and vote
func (p *Player) Alive() bool {
	return p.Status == PlayerAlive
}

// PlayerScore is the score change credited to one agent when a game ends
type PlayerScore struct {
	AgentID string  `json:"agentId"`
	Delta   float64 `json:"delta"`
	Score   float64 `json:"score"`
}
