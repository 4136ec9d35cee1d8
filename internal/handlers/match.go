package handlers

import (
	"net/http"
	"strings"

	"github.com/aaronzipp/sus-arena/internal/models"
)

type agentRequest struct {
	AgentID string `json:"agentId"`
}

func (ctx *Context) agentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req agentRequest
	if err := decode(w, r, &req); err != nil {
		ctx.writeError(w, r, err)
		return "", false
	}
	id := strings.TrimSpace(req.AgentID)
	if id == "" {
		ctx.writeError(w, r, errorf("agentId is required"))
		return "", false
	}
	return id, true
}

// HandleStartMatch puts an agent into the matching queue
func (ctx *Context) HandleStartMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := ctx.agentID(w, r)
	if !ok {
		return
	}
	if err := ctx.Arena.Coordinator().StartMatching(r.Context(), id); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeOK(w, ctx.Arena.Coordinator().CheckStatus(id))
}

// HandleCancelMatch takes an agent out of the matching queue
func (ctx *Context) HandleCancelMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := ctx.agentID(w, r)
	if !ok {
		return
	}
	if err := ctx.Arena.Coordinator().CancelMatching(r.Context(), id); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeOK(w, ctx.Arena.Coordinator().CheckStatus(id))
}

// HandleCheckMatch reports an agent's match status and room
func (ctx *Context) HandleCheckMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := ctx.agentID(w, r)
	if !ok {
		return
	}
	st := ctx.Arena.Coordinator().CheckStatus(id)
	data := struct {
		models.AgentMatchState
		RoomURL string `json:"roomUrl,omitempty"`
	}{AgentMatchState: st}
	if st.RoomID != "" {
		data.RoomURL = ctx.roomURL(st.RoomID)
	}
	writeOK(w, data)
}

// HandleQueue summarizes the matching queue
func (ctx *Context) HandleQueue(w http.ResponseWriter, r *http.Request) {
	info, err := ctx.Arena.Coordinator().QueueInfo(r.Context())
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeOK(w, info)
}
