package club

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrInvalidPlayer  = errors.New("invalid player")
	ErrInvalidMatch   = errors.New("invalid match")
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Player is a club member with cumulative match counters.
// Matches always equals Wins + Losses.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Matches   int       `json:"matches"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	CreatedAt time.Time `json:"createdAt"`
}

// Team is one side of a match: one or two players and the side's score.
type Team struct {
	Players []Player `json:"players"`
	Score   int      `json:"score"`
}

// PlayerIDs returns the ids of the team's players in order.
func (t Team) PlayerIDs() []string {
	ids := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// Match is a single game between two teams.
type Match struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Team1     Team      `json:"team1"`
	Team2     Team      `json:"team2"`
	CreatedAt time.Time `json:"createdAt"`
}

// Counters holds the derived win/loss counters of a player.
type Counters struct {
	Matches int
	Wins    int
	Losses  int
}

// storedTeam is the msgpack shape of a team inside the matches table.
type storedTeam struct {
	PlayerIDs []string `msgpack:"player_ids"`
	Score     int      `msgpack:"score"`
}
