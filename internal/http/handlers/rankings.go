package handlers

import (
	"net/http"
	"strconv"

	"github.com/mauv0809/court-score/internal/avatar"
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/metrics"
	"github.com/mauv0809/court-score/internal/scoring"
	"github.com/mauv0809/court-score/internal/stats"
)

// maxAvatarOptions caps the avatars endpoint.
const maxAvatarOptions = 100

// TotalMatchesHeader carries the number of counted matches behind a
// rankings reply.
const TotalMatchesHeader = "X-Total-Matches"

// RankingRow is one line of the standings table.
type RankingRow struct {
	Rank          int         `json:"rank"`
	Medal         stats.Medal `json:"medal"`
	MedalClass    string      `json:"medalClass,omitempty"`
	Player        PlayerView  `json:"player"`
	WinPercentage string      `json:"winPercentage"`
}

// ScoreCheck is the reply of the score validation endpoint.
type ScoreCheck struct {
	Valid    bool           `json:"valid"`
	Complete bool           `json:"complete"`
	Winner   scoring.Winner `json:"winner"`
	Message  string         `json:"message,omitempty"`
}

func RankingsHandler(store club.ClubStore, metrics metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.GetAllPlayers()
		if err != nil {
			writeError(w, err)
			return
		}
		ranked := stats.ComputeRankings(players)
		metrics.IncRankingsComputed()

		rows := make([]RankingRow, 0, len(ranked))
		for _, s := range ranked {
			medal := stats.MedalForRank(s.Rank)
			rows = append(rows, RankingRow{
				Rank:          s.Rank,
				Medal:         medal,
				MedalClass:    medal.Class(),
				Player:        newPlayerView(s.Player),
				WinPercentage: stats.FormatWinPercentage(s.Player.Wins, s.Player.Matches),
			})
		}
		w.Header().Set(TotalMatchesHeader, strconv.Itoa(stats.TotalMatches(players)))
		writeJSON(w, http.StatusOK, rows)
	}
}

func ValidateScoreHandler(metrics metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		score1, err1 := strconv.Atoi(r.URL.Query().Get("score1"))
		score2, err2 := strconv.Atoi(r.URL.Query().Get("score2"))
		if err1 != nil || err2 != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "score1 and score2 must be integers"})
			return
		}

		check := ScoreCheck{
			Valid:    scoring.IsValidScore(score1, score2),
			Complete: scoring.IsCompleteGame(score1, score2),
			Winner:   scoring.DetermineWinner(score1, score2),
		}
		if !check.Valid {
			check.Message = scoring.ValidationMessage
			metrics.IncScoresRejected()
		}
		writeJSON(w, http.StatusOK, check)
	}
}

func AvatarsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := avatar.DefaultCount
		if raw := r.URL.Query().Get("count"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "count must be a positive integer"})
				return
			}
			count = min(n, maxAvatarOptions)
		}
		writeJSON(w, http.StatusOK, avatar.Options(count))
	}
}
