package club

import (
	"sync"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreatePlayerFunc      func(player Player) (Player, error)
	GetPlayerFunc         func(playerID string) (*Player, error)
	GetAllPlayersFunc     func() ([]Player, error)
	SearchPlayersFunc     func(query string) ([]Player, error)
	UpdatePlayerFunc      func(player Player) (Player, error)
	DeletePlayerFunc      func(playerID string) error
	SetPlayerCountersFunc func(counters map[string]Counters) error
	CreateMatchFunc       func(match Match) (Match, error)
	GetMatchFunc          func(matchID string) (*Match, error)
	GetAllMatchesFunc     func() ([]Match, error)
	UpdateMatchFunc       func(match Match) (Match, error)
	DeleteMatchFunc       func(matchID string) error
	ClearFunc             func() error

	// Call records
	CreatePlayerCalls      []Player
	UpdatePlayerCalls      []Player
	DeletePlayerCalls      []string
	SetPlayerCountersCalls []map[string]Counters
	CreateMatchCalls       []Match
	UpdateMatchCalls       []Match
	DeleteMatchCalls       []string
	ClearCalls             int
}

var _ ClubStore = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatePlayerCalls = nil
	m.UpdatePlayerCalls = nil
	m.DeletePlayerCalls = nil
	m.SetPlayerCountersCalls = nil
	m.CreateMatchCalls = nil
	m.UpdateMatchCalls = nil
	m.DeleteMatchCalls = nil
	m.ClearCalls = 0
}

func (m *MockStore) CreatePlayer(player Player) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatePlayerCalls = append(m.CreatePlayerCalls, player)
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(player)
	}
	return player, nil
}

func (m *MockStore) GetPlayer(playerID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) GetAllPlayers() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) SearchPlayers(query string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SearchPlayersFunc != nil {
		return m.SearchPlayersFunc(query)
	}
	return nil, nil
}

func (m *MockStore) UpdatePlayer(player Player) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerCalls = append(m.UpdatePlayerCalls, player)
	if m.UpdatePlayerFunc != nil {
		return m.UpdatePlayerFunc(player)
	}
	return player, nil
}

func (m *MockStore) DeletePlayer(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, playerID)
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(playerID)
	}
	return nil
}

func (m *MockStore) SetPlayerCounters(counters map[string]Counters) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetPlayerCountersCalls = append(m.SetPlayerCountersCalls, counters)
	if m.SetPlayerCountersFunc != nil {
		return m.SetPlayerCountersFunc(counters)
	}
	return nil
}

func (m *MockStore) CreateMatch(match Match) (Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, match)
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(match)
	}
	return match, nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrMatchNotFound
}

func (m *MockStore) GetAllMatches() ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdateMatch(match Match) (Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateMatchCalls = append(m.UpdateMatchCalls, match)
	if m.UpdateMatchFunc != nil {
		return m.UpdateMatchFunc(match)
	}
	return match, nil
}

func (m *MockStore) DeleteMatch(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, matchID)
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(matchID)
	}
	return nil
}

func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	return nil
}
