package handlers

import (
	"net/http"
	"strings"

	"github.com/aaronzipp/sus-arena/internal/gameplay"
	"github.com/aaronzipp/sus-arena/internal/render"
)

const qrSize = 256

type actionRequest struct {
	RoomID     string              `json:"roomId"`
	AgentID    string              `json:"agentId"`
	Kind       gameplay.ActionKind `json:"kind"`
	Content    string              `json:"content"`
	VoteTarget string              `json:"voteToMockName"`
}

func (ctx *Context) roomURL(roomID string) string {
	return render.RoomURL(ctx.PublicURL, roomID)
}

// HandleRoom returns the spectator view of a room
func (ctx *Context) HandleRoom(w http.ResponseWriter, r *http.Request) {
	view, err := ctx.Arena.GetSessionView(r.Context(), r.PathValue("roomId"))
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeOK(w, view)
}

// HandleAgentRoom returns a room as seen by one of its players
func (ctx *Context) HandleAgentRoom(w http.ResponseWriter, r *http.Request) {
	view, err := ctx.Arena.GetAgentView(r.Context(), r.PathValue("roomId"), r.PathValue("agentId"))
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeOK(w, view)
}

// HandleRoomQR serves a QR code linking to the spectator view
func (ctx *Context) HandleRoomQR(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	if _, err := ctx.Arena.GetSessionView(r.Context(), roomID); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	png, err := render.QRCodePNG(ctx.roomURL(roomID), qrSize)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}

// HandleAction applies a speech or vote
func (ctx *Context) HandleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decode(w, r, &req); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	roomID, agentID := strings.TrimSpace(req.RoomID), strings.TrimSpace(req.AgentID)
	if roomID == "" || agentID == "" {
		ctx.writeError(w, r, errorf("roomId and agentId are required"))
		return
	}
	res, err := ctx.Arena.SubmitAction(r.Context(), roomID, agentID, gameplay.Action{
		Kind:       req.Kind,
		Content:    req.Content,
		VoteTarget: req.VoteTarget,
	})
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	ctx.logger().Info("action applied", "room", roomID, "agent", agentID, "kind", req.Kind, "round", res.CurrentRound)
	writeOK(w, res)
}
