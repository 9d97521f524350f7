package notifier

import (
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For counted match results
	SendResultNotification(match club.Match, standings []stats.PlayerStats, dryRun bool) error
	// For posting the standings to the channel
	SendLeaderboard(standings []stats.PlayerStats, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(standings []stats.PlayerStats) (any, error)
	FormatPlayerStatsResponse(stat stats.PlayerStats, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
