package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/pubsub"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// errorResponse is the body of every JSON error reply.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps store and validation errors to a status code.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, club.ErrInvalidPlayer), errors.Is(err, club.ErrInvalidMatch):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, club.ErrPlayerNotFound), errors.Is(err, club.ErrMatchNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		log.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		log.Warn("Invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

// publishMatchChanged announces a match change. A failed publish is logged
// and does not fail the request; POST /process repairs the counters.
func publishMatchChanged(ctx context.Context, client pubsub.PubSubClient, matchID string, action pubsub.MatchAction) {
	event := pubsub.MatchChangedEvent{
		MatchID:    matchID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
	if err := client.SendMessage(ctx, pubsub.EventMatchChanged, event); err != nil {
		log.Error("Failed to publish match change", "error", err, "matchID", matchID, "action", action)
	}
}
