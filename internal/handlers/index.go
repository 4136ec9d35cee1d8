// Package handlers exposes the arena over a JSON HTTP API.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aaronzipp/sus-arena/internal/arena"
	"github.com/aaronzipp/sus-arena/internal/logging"
)

// Context holds shared application dependencies
type Context struct {
	Arena     *arena.Service
	PublicURL string
	Logger    *slog.Logger
}

func (ctx *Context) logger() *slog.Logger {
	return logging.OrDefault(ctx.Logger)
}

// Routes registers every endpoint on a new mux
func (ctx *Context) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", ctx.HandleIndex)

	mux.HandleFunc("GET /api/agent/list", ctx.HandleListAgents)
	mux.HandleFunc("POST /api/agent/create", ctx.HandleCreateAgent)
	mux.HandleFunc("POST /api/agent/init", ctx.HandleInitAgents)

	mux.HandleFunc("POST /api/game/startMatch", ctx.HandleStartMatch)
	mux.HandleFunc("POST /api/game/cancelMatch", ctx.HandleCancelMatch)
	mux.HandleFunc("POST /api/game/checkMatch", ctx.HandleCheckMatch)
	mux.HandleFunc("GET /api/game/queue", ctx.HandleQueue)
	mux.HandleFunc("POST /api/game/action", ctx.HandleAction)

	mux.HandleFunc("GET /api/game/room/{roomId}", ctx.HandleRoom)
	mux.HandleFunc("GET /api/game/room/{roomId}/agent/{agentId}", ctx.HandleAgentRoom)
	mux.HandleFunc("GET /api/game/room/{roomId}/qr.png", ctx.HandleRoomQR)
	mux.HandleFunc("GET /api/game/room/{roomId}/events", ctx.HandleRoomEvents)
	return ctx.logRequests(mux)
}

// HandleIndex reports that the service is up
func (ctx *Context) HandleIndex(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]string{"service": "sus-arena"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps event streams working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (ctx *Context) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		ctx.logger().Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
	})
}
