package models

import "time"

// QueueEntry is one agent waiting in the matching queue
type QueueEntry struct {
	AgentID  string    `json:"agentId"`
	Score    float64   `json:"score"`
	IsHuman  bool      `json:"isHuman"`
	JoinTime time.Time `json:"joinTime"`
}

// QueueInfo summarizes the matching queue for status endpoints
type QueueInfo struct {
	Count int             `json:"count"`
	Items []QueueInfoItem `json:"items"`
}

// QueueInfoItem is one row of QueueInfo
type QueueInfoItem struct {
	AgentID string `json:"agentId"`
	IsHuman bool   `json:"isHuman"`
}

// AgentMatchState is the in-memory match/game status of an agent
type AgentMatchState struct {
	AgentID        string      `json:"agentId"`
	Status         AgentStatus `json:"gameStatus"`
	RoomID         string      `json:"roomId,omitempty"`
	LastUpdateTime time.Time   `json:"lastUpdateTime"`
}
