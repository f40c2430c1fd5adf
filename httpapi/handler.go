// Package httpapi is a thin HTTP adapter over the intake flow. It
// carries no session logic of its own.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"

	"github.com/claimdesk/claimflow/session"
	"github.com/claimdesk/claimflow/store"
)

type Handler struct {
	flow   *session.Flow
	claims store.Store
}

func NewHandler(flow *session.Flow, claims store.Store) *Handler {
	return &Handler{flow: flow, claims: claims}
}

// HandleChat accepts one conversation turn. An absent session_id mints
// a new session; the returned id must be echoed on subsequent turns.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if payload.Message == "" {
		http.Error(w, "missing message", http.StatusBadRequest)
		return
	}

	sessionID, reply := h.flow.HandleMessage(r.Context(), payload.SessionID, payload.Message)

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"reply":      reply,
	})
}

// HandleGetClaim serves a persisted claim by ID.
func (h *Handler) HandleGetClaim(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "claimID")
	c, err := h.claims.FindByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "claim not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(v)
}
