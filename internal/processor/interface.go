package processor

import (
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetAllPlayers() ([]club.Player, error)
	GetAllMatches() ([]club.Match, error)
	GetMatch(matchID string) (*club.Match, error)
	SetPlayerCounters(counters map[string]club.Counters) error
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
