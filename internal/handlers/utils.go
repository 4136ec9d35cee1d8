package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aaronzipp/sus-arena/internal/gameplay"
	"github.com/aaronzipp/sus-arena/internal/matchmaking"
)

// Info is the status block of every response
type Info struct {
	OK   bool   `json:"ok"`
	Msg  string `json:"msg"`
	Code string `json:"code,omitempty"`
}

// Envelope wraps every JSON response
type Envelope struct {
	Info Info `json:"info"`
	Data any  `json:"data"`
}

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Info: Info{OK: true, Msg: "success"}, Data: data})
}

// errorCode maps a domain error to its HTTP status and envelope code
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, matchmaking.ErrAlreadyMatching):
		return http.StatusConflict, "ALREADY_MATCHING"
	case errors.Is(err, matchmaking.ErrNotInQueue):
		return http.StatusConflict, "NOT_IN_QUEUE"
	case errors.Is(err, matchmaking.ErrAgentNotFound):
		return http.StatusNotFound, "AGENT_NOT_FOUND"
	case errors.Is(err, gameplay.ErrRoomNotFound):
		return http.StatusNotFound, "ROOM_NOT_FOUND"
	case errors.Is(err, gameplay.ErrPlayerNotFound), errors.Is(err, gameplay.ErrVoterNotFound):
		return http.StatusForbidden, "PLAYER_NOT_FOUND"
	case errors.Is(err, gameplay.ErrTargetNotFound):
		return http.StatusBadRequest, "TARGET_NOT_FOUND"
	case errors.Is(err, gameplay.ErrEmptyVoteTarget), errors.Is(err, gameplay.ErrUnknownAction):
		return http.StatusBadRequest, "INVALID_ACTION"
	case errors.Is(err, gameplay.ErrAlreadyVoted):
		return http.StatusConflict, "ALREADY_VOTED"
	case errors.Is(err, gameplay.ErrGameFinished):
		return http.StatusConflict, "GAME_FINISHED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func (ctx *Context) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		ctx.logger().Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, Envelope{Info: Info{OK: false, Msg: msg, Code: code}})
}

// decode reads a JSON body into v
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// errorf builds a bad-request error
func errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}
