package club

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mauv0809/court-score/internal/scoring"
)

const (
	MinNameLength  = 2
	MaxNameLength  = 50
	MaxTeamPlayers = 2
)

// NewID returns a new time-ordered unique record id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ValidatePlayer checks a player record: the name length and the counter
// invariant (non-negative, Matches == Wins + Losses). Name is expected to be
// trimmed already.
func ValidatePlayer(p Player) error {
	n := utf8.RuneCountInString(p.Name)
	switch {
	case n == 0:
		return fmt.Errorf("%w: player name is required", ErrInvalidPlayer)
	case n < MinNameLength:
		return fmt.Errorf("%w: player name must be at least %d characters", ErrInvalidPlayer, MinNameLength)
	case n > MaxNameLength:
		return fmt.Errorf("%w: player name must be at most %d characters", ErrInvalidPlayer, MaxNameLength)
	}
	if p.Matches < 0 || p.Wins < 0 || p.Losses < 0 {
		return fmt.Errorf("%w: counters must not be negative", ErrInvalidPlayer)
	}
	if p.Matches != p.Wins+p.Losses {
		return fmt.Errorf("%w: matches must equal wins plus losses", ErrInvalidPlayer)
	}
	return nil
}

// NormalizeName trims surrounding whitespace from a display name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateMatch checks team sizes, player uniqueness across both teams and
// the score pair.
func ValidateMatch(m Match) error {
	var problems []string

	for i, team := range []Team{m.Team1, m.Team2} {
		switch {
		case len(team.Players) == 0:
			problems = append(problems, fmt.Sprintf("team %d must have at least one player", i+1))
		case len(team.Players) > MaxTeamPlayers:
			problems = append(problems, fmt.Sprintf("team %d can have at most %d players", i+1, MaxTeamPlayers))
		}
	}

	seen := make(map[string]bool)
	var missingID, duplicate bool
	for _, team := range []Team{m.Team1, m.Team2} {
		for _, p := range team.Players {
			switch {
			case p.ID == "":
				missingID = true
			case seen[p.ID]:
				duplicate = true
			default:
				seen[p.ID] = true
			}
		}
	}
	if missingID {
		problems = append(problems, "player id is required")
	}
	if duplicate {
		problems = append(problems, "a player cannot appear twice in a match")
	}

	if !scoring.IsValidScore(m.Team1.Score, m.Team2.Score) {
		problems = append(problems, scoring.ValidationMessage)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidMatch, strings.Join(problems, "; "))
	}
	return nil
}
