package store

import (
	"context"
	"fmt"

	"github.com/aaronzipp/sus-arena/internal/models"
)

const defaultAvatar = "https://img.alicdn.com/imgextra/i6/O1CN01yCnY2D1YS9kn1IyLJ_!!6000000003057-0-tps-300-300.jpg"

// TestAgents returns the built-in demo agents
func TestAgents() []models.AgentProfile {
	return []models.AgentProfile{
		{AgentID: "test_agent_1", Name: "Test Agent 1", Avatar: defaultAvatar, Score: 173.2, WinCount: 90, GameCount: 219},
		{AgentID: "test_agent_2", Name: "Test Agent 2", Avatar: defaultAvatar, Score: 185.5, WinCount: 94, GameCount: 180},
		{AgentID: "test_agent_3", Name: "Test Agent 3", Avatar: defaultAvatar, Score: 195.8, WinCount: 72, GameCount: 150},
		{AgentID: "test_agent_4", Name: "Test Agent 4", Avatar: defaultAvatar, Score: 200.0, WinCount: 50, GameCount: 100},
		{AgentID: "test_agent_5", Name: "Test Agent 5", Avatar: defaultAvatar, Score: 210.5, WinCount: 66, GameCount: 120},
		{AgentID: "test_agent_6", Name: "Test Agent 6", Avatar: defaultAvatar, Score: 220.8, WinCount: 78, GameCount: 130},
	}
}

// AgentSaver is anything that can upsert an agent profile
type AgentSaver interface {
	SaveAgent(ctx context.Context, agent models.AgentProfile) error
}

// SeedAgents upserts the demo agents
func SeedAgents(ctx context.Context, s AgentSaver) error {
	for _, a := range TestAgents() {
		if err := s.SaveAgent(ctx, a); err != nil {
			return fmt.Errorf("seed agent %s: %w", a.AgentID, err)
		}
	}
	return nil
}
