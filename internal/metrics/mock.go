package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	rankingsComputed   int
	matchesRecorded    int
	scoresRejected     int
	counterRecomputes  int
	recomputeDurations []float64
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		recomputeDurations: make([]float64, 0),
	}
}

func (m *Mock) IncRankingsComputed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankingsComputed++
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncScoresRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoresRejected++
}

func (m *Mock) IncCounterRecomputes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counterRecomputes++
}

func (m *Mock) ObserveRecomputeDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeDurations = append(m.recomputeDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RankingsComputed returns the number of times IncRankingsComputed was called.
func (m *Mock) RankingsComputed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rankingsComputed
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// ScoresRejected returns the number of times IncScoresRejected was called.
func (m *Mock) ScoresRejected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoresRejected
}

// CounterRecomputes returns the number of times IncCounterRecomputes was called.
func (m *Mock) CounterRecomputes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counterRecomputes
}

// RecomputeDurations returns every observed recompute duration.
func (m *Mock) RecomputeDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.recomputeDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
