// Package render formats rooms and agents for terminals and QR codes.
package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aaronzipp/sus-arena/internal/gameplay"
	"github.com/aaronzipp/sus-arena/internal/models"
)

// PlayerList renders the seats of a room, one per line
func PlayerList(players []models.Player) string {
	var b strings.Builder
	b.WriteString("Players (")
	b.WriteString(strconv.Itoa(len(players)))
	b.WriteString(")\n")
	for i, p := range players {
		fmt.Fprintf(&b, "  %d. %-8s %-16s", i+1, p.DisplayName, p.SourceName)
		if p.Role != "" {
			b.WriteString(" ")
			b.WriteString(p.Role.Title())
		}
		if !p.Alive() {
			b.WriteString(" (out)")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Event renders one log entry as a single line
func Event(e models.GameEvent) string {
	switch e.Type {
	case models.EventSpeech:
		return fmt.Sprintf("[R%d] %s: %s", e.Round, e.DisplayName, e.Text)
	case models.EventVote:
		line := fmt.Sprintf("[R%d] %s votes %s", e.Round, e.DisplayName, e.VoteTarget)
		if !e.VoteValid {
			line += " (not counted)"
		}
		return line
	case models.EventHostSpeech, models.EventStart, models.EventEnd:
		return fmt.Sprintf("[R%d] Host: %s", e.Round, e.Text)
	default:
		return fmt.Sprintf("[R%d] %s", e.Round, e.Type)
	}
}

// Transcript renders a full room: header, seats, every event and the result
func Transcript(view gameplay.SessionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room %s  word=%s  status=%s  round=%d\n", view.RoomID, view.Word, view.Status, view.CurrentRound)
	b.WriteString(PlayerList(view.Players))
	b.WriteString("\n")
	for _, e := range view.Events {
		b.WriteString(Event(e))
		b.WriteString("\n")
	}
	if view.EndGameData != nil {
		b.WriteString("\n")
		b.WriteString(Result(view.EndGameData))
	}
	return b.String()
}

// Result renders the winners and score changes of a finished room
func Result(end *models.EndGameData) string {
	var b strings.Builder
	b.WriteString("Winner: ")
	b.WriteString(end.WinnerRole.Title())
	b.WriteString("\n")
	names := make([]string, 0, len(end.Winners))
	for _, w := range end.Winners {
		names = append(names, w.DisplayName)
	}
	b.WriteString("Survivors: ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\n")
	for _, s := range end.Scores {
		fmt.Fprintf(&b, "  %s %+g -> %g\n", s.AgentID, s.Delta, s.Score)
	}
	return b.String()
}

// ScoreTable renders agents sorted by wins descending, then name
func ScoreTable(agents []models.AgentProfile) string {
	if len(agents) == 0 {
		return ""
	}
	list := make([]models.AgentProfile, len(agents))
	copy(list, agents)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].WinCount == list[j].WinCount {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		}
		return list[i].WinCount > list[j].WinCount
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%-40s %-16s %8s %6s %6s\n", "AGENT", "NAME", "SCORE", "WINS", "GAMES")
	for _, a := range list {
		fmt.Fprintf(&b, "%-40s %-16s %8.1f %6d %6d\n", a.AgentID, a.Name, a.Score, a.WinCount, a.GameCount)
	}
	return b.String()
}
