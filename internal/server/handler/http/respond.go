// Package http provides the JSON HTTP handlers for authentication and the
// owner-scoped record stores.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
	"go.uber.org/zap"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	// Error carries raw failure detail and is populated only outside
	// production.
	Error string `json:"error,omitempty"`
}

// Responder writes enveloped JSON responses and translates service errors
// to status codes.
type Responder struct {
	// Logger records unclassified failures.
	Logger *zap.Logger
	// ExposeErrors includes raw error detail in responses (non-production).
	ExposeErrors bool
}

// OK writes a success envelope with the given status, message, and payload.
func (rp *Responder) OK(w http.ResponseWriter, status int, message string, data any) {
	rp.write(w, status, Response{Success: true, Message: message, Data: data})
}

// Fail translates err into the envelope and status the error taxonomy
// dictates. Unclassified errors become generic 500s carrying fallback as the
// public message.
func (rp *Responder) Fail(w http.ResponseWriter, err error, fallback string) {
	if se := serr.From(err); se != nil {
		resp := Response{Success: false, Message: se.Msg, Errors: se.Errors}
		if rp.ExposeErrors && se.Err != nil {
			resp.Error = se.Err.Error()
		}
		rp.write(w, se.StatusCode, resp)
		return
	}

	rp.Logger.Error("unhandled error", zap.Error(err))
	resp := Response{Success: false, Message: fallback}
	if rp.ExposeErrors {
		resp.Error = err.Error()
	}
	rp.write(w, http.StatusInternalServerError, resp)
}

// Reject writes a 401 envelope; wired into the auth middleware.
func (rp *Responder) Reject(w http.ResponseWriter, message string) {
	rp.write(w, http.StatusUnauthorized, Response{Success: false, Message: message})
}

// BadRequest writes a 400 envelope with the given message.
func (rp *Responder) BadRequest(w http.ResponseWriter, message string) {
	rp.write(w, http.StatusBadRequest, Response{Success: false, Message: message})
}

func (rp *Responder) write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		rp.Logger.Error("write response", zap.Error(err))
	}
}
