package notifier

import (
	"sync"

	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/stats"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendResultNotificationCalls []ResultNotificationCall
	SendLeaderboardCalls        [][]stats.PlayerStats

	// Spies
	SendResultNotificationFunc       func(match club.Match, standings []stats.PlayerStats, dryRun bool) error
	SendLeaderboardFunc              func(standings []stats.PlayerStats, dryRun bool) error
	FormatLeaderboardResponseFunc    func(standings []stats.PlayerStats) (any, error)
	FormatPlayerStatsResponseFunc    func(stat stats.PlayerStats, query string) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Last values handed to the format functions
	LastLeaderboardResponse    []stats.PlayerStats
	LastPlayerStatsResponse    *stats.PlayerStats
	LastPlayerNotFoundResponse string
}

// ResultNotificationCall holds the arguments for a call to SendResultNotification.
type ResultNotificationCall struct {
	Match     club.Match
	Standings []stats.PlayerStats
	DryRun    bool
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendLeaderboardCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastPlayerStatsResponse = nil
	m.LastPlayerNotFoundResponse = ""
}

func (m *Mock) SendResultNotification(match club.Match, standings []stats.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, ResultNotificationCall{Match: match, Standings: standings, DryRun: dryRun})
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(match, standings, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(standings []stats.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, standings)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(standings, dryRun)
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(standings []stats.PlayerStats) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastLeaderboardResponse = standings
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(standings)
	}
	return nil, nil
}

func (m *Mock) FormatPlayerStatsResponse(stat stats.PlayerStats, query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPlayerStatsResponse = &stat
	if m.FormatPlayerStatsResponseFunc != nil {
		return m.FormatPlayerStatsResponseFunc(stat, query)
	}
	return nil, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPlayerNotFoundResponse = query
	if m.FormatPlayerNotFoundResponseFunc != nil {
		return m.FormatPlayerNotFoundResponseFunc(query)
	}
	return nil, nil
}
