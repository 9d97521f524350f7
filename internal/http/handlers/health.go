package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/pubsub"
)

func HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func ClearStoreHandler(store club.ClubStore, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := IsDryRunFromContext(r)
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			if isDryRun {
				if _, err := store.GetMatch(matchID); err != nil {
					writeError(w, err)
					return
				}
				log.Info("[Dry Run] Would have cleared match from store", "matchID", matchID)
				fmt.Fprintf(w, "[Dry Run] Would have cleared match %s from store.", matchID)
				return
			}
			if err := store.DeleteMatch(matchID); err != nil {
				writeError(w, err)
				return
			}
			publishMatchChanged(r.Context(), pubsubClient, matchID, pubsub.MatchDeleted)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
			log.Info("Successfully cleared match from store", "matchID", matchID)
		} else {
			log.Info("Received request to clear entire store")
			if isDryRun {
				log.Info("[Dry Run] Would have cleared the store")
				fmt.Fprint(w, "[Dry Run] Would have cleared the store.")
				return
			}
			if err := store.Clear(); err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}
