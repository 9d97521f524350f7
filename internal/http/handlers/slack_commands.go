package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/metrics"
	"github.com/mauv0809/court-score/internal/notifier"
	"github.com/mauv0809/court-score/internal/stats"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(slackMsg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

func LeaderboardCommandHandler(store club.ClubStore, notifier notifier.Notifier, metrics metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		standings := stats.ComputeRankings(players)
		metrics.IncRankingsComputed()

		msg, err := notifier.FormatLeaderboardResponse(standings)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// PlayerStatsCommandHandler answers "/player-stats <name>" with the best
// ranked player whose name contains the query.
func PlayerStatsCommandHandler(store club.ClubStore, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		query := strings.TrimSpace(r.FormValue("text"))
		if query == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		log.Info("Received player stats command", "player", query)

		players, err := store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		matched, err := store.SearchPlayers(query)
		if err != nil {
			http.Error(w, "Failed to search players", http.StatusInternalServerError)
			log.Error("Failed to search players", "error", err)
			return
		}
		wanted := make(map[string]bool, len(matched))
		for _, p := range matched {
			wanted[p.ID] = true
		}

		var msg any
		found := false
		for _, stat := range stats.ComputeRankings(players) {
			if wanted[stat.Player.ID] {
				msg, err = notifier.FormatPlayerStatsResponse(stat, query)
				found = true
				break
			}
		}
		if !found {
			log.Warn("Could not find player stats", "player", query)
			msg, err = notifier.FormatPlayerNotFoundResponse(query)
		}
		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
