package club

// ClubStore defines the interface for interacting with the club's data.
// Updates overwrite whole records; there is no concurrency token, so the
// last write wins.
type ClubStore interface {
	CreatePlayer(player Player) (Player, error)
	GetPlayer(playerID string) (*Player, error)
	GetAllPlayers() ([]Player, error)
	SearchPlayers(query string) ([]Player, error)
	UpdatePlayer(player Player) (Player, error)
	DeletePlayer(playerID string) error
	SetPlayerCounters(counters map[string]Counters) error

	CreateMatch(match Match) (Match, error)
	GetMatch(matchID string) (*Match, error)
	GetAllMatches() ([]Match, error)
	UpdateMatch(match Match) (Match, error)
	DeleteMatch(matchID string) error

	Clear() error
}
