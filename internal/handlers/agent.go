package handlers

import (
	"net/http"
	"strings"
)

type createAgentRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// HandleListAgents returns the agent directory
func (ctx *Context) HandleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := ctx.Arena.ListAgents(r.Context())
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeOK(w, agents)
}

// HandleCreateAgent registers a new agent
func (ctx *Context) HandleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := decode(w, r, &req); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		ctx.writeError(w, r, errorf("name is required"))
		return
	}
	agent, err := ctx.Arena.CreateAgent(r.Context(), req.Name, req.Avatar)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeOK(w, agent)
}

// HandleInitAgents upserts the demo agents
func (ctx *Context) HandleInitAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := ctx.Arena.SeedAgents(r.Context())
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeOK(w, agents)
}
