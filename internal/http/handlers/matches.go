package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/metrics"
	"github.com/mauv0809/court-score/internal/pubsub"
	"github.com/mauv0809/court-score/internal/scoring"
)

// TeamRequest names the players of one side by id.
type TeamRequest struct {
	PlayerIDs []string `json:"playerIds"`
	Score     int      `json:"score"`
}

// MatchRequest is the body of match create and update calls. A missing
// date means now. With dry_run, writes are validated and answered with 200
// but neither stored nor published.
type MatchRequest struct {
	Date  *time.Time  `json:"date,omitempty"`
	Team1 TeamRequest `json:"team1"`
	Team2 TeamRequest `json:"team2"`
}

// MatchView is a stored match with its result worked out for display.
type MatchView struct {
	club.Match
	Winner   scoring.Winner `json:"winner"`
	Complete bool           `json:"complete"`
}

func newMatchView(m club.Match) MatchView {
	return MatchView{
		Match:    m,
		Winner:   scoring.DetermineWinner(m.Team1.Score, m.Team2.Score),
		Complete: scoring.IsCompleteGame(m.Team1.Score, m.Team2.Score),
	}
}

func ListMatchesHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := store.GetAllMatches()
		if err != nil {
			writeError(w, err)
			return
		}
		views := make([]MatchView, 0, len(matches))
		for _, m := range matches {
			views = append(views, newMatchView(m))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func GetMatchHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := store.GetMatch(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newMatchView(*match))
	}
}

func CreateMatchHandler(store club.ClubStore, metrics metrics.Metrics, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MatchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		match := req.toMatch()
		if err := validateMatch(store, metrics, match); err != nil {
			writeError(w, err)
			return
		}

		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have recorded match", "team1", match.Team1.PlayerIDs(), "team2", match.Team2.PlayerIDs())
			writeJSON(w, http.StatusOK, newMatchView(match))
			return
		}
		created, err := store.CreateMatch(match)
		if err != nil {
			writeError(w, err)
			return
		}
		metrics.IncMatchesRecorded()
		publishMatchChanged(r.Context(), pubsubClient, created.ID, pubsub.MatchCreated)

		stored, err := store.GetMatch(created.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newMatchView(*stored))
	}
}

func UpdateMatchHandler(store club.ClubStore, metrics metrics.Metrics, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MatchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		existing, err := store.GetMatch(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		match := req.toMatch()
		match.ID = existing.ID
		match.CreatedAt = existing.CreatedAt
		if req.Date == nil {
			match.Date = existing.Date
		}
		if err := validateMatch(store, metrics, match); err != nil {
			writeError(w, err)
			return
		}

		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have updated match", "matchID", match.ID)
			writeJSON(w, http.StatusOK, newMatchView(match))
			return
		}
		updated, err := store.UpdateMatch(match)
		if err != nil {
			writeError(w, err)
			return
		}
		metrics.IncMatchesRecorded()
		publishMatchChanged(r.Context(), pubsubClient, updated.ID, pubsub.MatchUpdated)
		writeJSON(w, http.StatusOK, newMatchView(updated))
	}
}

func DeleteMatchHandler(store club.ClubStore, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if IsDryRunFromContext(r) {
			if _, err := store.GetMatch(id); err != nil {
				writeError(w, err)
				return
			}
			log.Info("[Dry Run] Would have deleted match", "matchID", id)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := store.DeleteMatch(id); err != nil {
			writeError(w, err)
			return
		}
		publishMatchChanged(r.Context(), pubsubClient, id, pubsub.MatchDeleted)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (req MatchRequest) toMatch() club.Match {
	toTeam := func(t TeamRequest) club.Team {
		players := make([]club.Player, 0, len(t.PlayerIDs))
		for _, id := range t.PlayerIDs {
			players = append(players, club.Player{ID: id})
		}
		return club.Team{Players: players, Score: t.Score}
	}
	match := club.Match{
		Date:  time.Now().UTC(),
		Team1: toTeam(req.Team1),
		Team2: toTeam(req.Team2),
	}
	if req.Date != nil {
		match.Date = *req.Date
	}
	return match
}

// validateMatch runs the record checks and then makes sure every player
// exists.
func validateMatch(store club.ClubStore, metrics metrics.Metrics, match club.Match) error {
	if !scoring.IsValidScore(match.Team1.Score, match.Team2.Score) {
		metrics.IncScoresRejected()
	}
	if err := club.ValidateMatch(match); err != nil {
		return err
	}
	for _, team := range []club.Team{match.Team1, match.Team2} {
		for _, id := range team.PlayerIDs() {
			if _, err := store.GetPlayer(id); err != nil {
				if errors.Is(err, club.ErrPlayerNotFound) {
					return fmt.Errorf("%w: unknown player %s", club.ErrInvalidMatch, id)
				}
				return err
			}
		}
	}
	return nil
}
