// Package bots plays seated agents automatically.
package bots

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/aaronzipp/sus-arena/internal/gameplay"
)

// Behavior decides what a seated agent says and whom it votes for
type Behavior interface {
	Describe(ctx context.Context, view gameplay.AgentView) (string, error)
	Vote(ctx context.Context, view gameplay.AgentView, choices []string) (string, error)
}

var phrases = []string{
	"You would find this in most homes.",
	"People usually have strong opinions about it.",
	"It comes in many different varieties.",
	"I think of it every morning.",
	"It is more common than you would expect.",
	"Kids and adults both know it well.",
}

// Scripted picks canned descriptions and random votes.
// Pick returns an index in [0, n); nil uses math/rand/v2.
type Scripted struct {
	Pick func(n int) int
}

func (b Scripted) pick(n int) int {
	if b.Pick != nil {
		return b.Pick(n)
	}
	return rand.IntN(n)
}

// Describe returns a vague one-line description
func (b Scripted) Describe(_ context.Context, view gameplay.AgentView) (string, error) {
	return fmt.Sprintf("%s (round %d)", phrases[b.pick(len(phrases))], view.CurrentRound), nil
}

// Vote picks one of choices
func (b Scripted) Vote(_ context.Context, _ gameplay.AgentView, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no vote choices")
	}
	return choices[b.pick(len(choices))], nil
}
