package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-score/internal/processor"
	"github.com/mauv0809/court-score/internal/pubsub"
)

// PushEnvelope is the body Pub/Sub push subscriptions deliver.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data      string `json:"data"` // base64-encoded message payload
		MessageID string `json:"messageId"`
	} `json:"message"`
}

// MatchChangedHandler consumes match-changed push deliveries.
func MatchChangedHandler(processor *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match changed message", "body", string(bodyBytes))

		var pubsubMsg PushEnvelope
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event pubsub.MatchChangedEvent
		if err := pubsubClient.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		isDryRun := IsDryRunFromContext(r)
		if err := processor.HandleMatchChanged(event, isDryRun); err != nil {
			log.Error("Failed to handle match change", "error", err, "matchID", event.MatchID)
			http.Error(w, "Failed to handle match change", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// ProcessHandler forces a full counter recompute. With announce=true the
// resulting standings are also posted to the channel.
func ProcessHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting counter recompute...")
		isDryRun := IsDryRunFromContext(r)

		counters, err := processor.RecomputeCounters(isDryRun)
		if err != nil {
			http.Error(w, "Failed to recompute counters", http.StatusInternalServerError)
			return
		}

		if r.URL.Query().Get("announce") == "true" {
			if err := processor.AnnounceLeaderboard(isDryRun); err != nil {
				http.Error(w, "Failed to announce leaderboard", http.StatusInternalServerError)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Recomputed counters for %d players.\n", len(counters))
		log.Info("Counter recompute finished.")
	}
}
