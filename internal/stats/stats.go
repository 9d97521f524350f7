// Package stats turns raw player counters into ranked standings.
package stats

import (
	"sort"
	"strconv"

	"github.com/mauv0809/court-score/internal/club"
)

// PlayerStats is a player's position in the standings. It is derived on
// every ranking computation and never persisted.
type PlayerStats struct {
	Player        club.Player `json:"player"`
	Rank          int         `json:"rank"`
	WinPercentage float64     `json:"winPercentage"`
}

// WinRatio returns wins/matches, or 0 when no matches were played.
func WinRatio(wins, matches int) float64 {
	if matches <= 0 {
		return 0
	}
	return float64(wins) / float64(matches)
}

// ComputeRankings orders players by win ratio, then by raw wins, keeping
// input order for anything still tied. Every entry gets a distinct rank
// 1..n, even when tied on both keys.
func ComputeRankings(players []club.Player) []PlayerStats {
	ranked := make([]PlayerStats, len(players))
	for i, p := range players {
		ranked[i] = PlayerStats{
			Player:        p,
			WinPercentage: WinRatio(p.Wins, p.Matches),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].WinPercentage != ranked[j].WinPercentage {
			return ranked[i].WinPercentage > ranked[j].WinPercentage
		}
		return ranked[i].Player.Wins > ranked[j].Player.Wins
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// FormatWinPercentage renders wins/matches as a percentage with exactly five
// decimals, e.g. "83.33333". Rounding is strconv's: half-to-even on the
// float64 value.
func FormatWinPercentage(wins, matches int) string {
	if matches == 0 {
		return "0.00000"
	}
	return strconv.FormatFloat(float64(wins)/float64(matches)*100, 'f', 5, 64)
}

// TotalMatches is the matches-played figure shown with the standings: the
// per-player match sum halved. It is exact for singles; a doubles match adds
// four player-matches and so counts twice.
func TotalMatches(players []club.Player) int {
	sum := 0
	for _, p := range players {
		sum += p.Matches
	}
	return sum / 2
}
