// Package scoring implements single-game badminton score rules.
package scoring

const (
	// GamePoint is the score a game is normally won at.
	GamePoint = 21
	// MaxScore is the hard cap: from 29-29 the next point wins.
	MaxScore = 30
)

// ValidationMessage is the rule summary shown when a score is rejected.
const ValidationMessage = "Invalid badminton score. Scores must follow badminton rules (21 points to win, must win by 2, max 30)"

// Winner identifies the leading side of a score.
type Winner int

const (
	None Winner = iota
	Team1
	Team2
)

func (w Winner) String() string {
	switch w {
	case Team1:
		return "team1"
	case Team2:
		return "team2"
	default:
		return "none"
	}
}

func (w Winner) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// IsValidScore reports whether a score pair can occur in a single game,
// either still in progress (both under 21) or finished.
// 21-20 and 29-29 are rejected: neither is a reachable final score.
func IsValidScore(score1, score2 int) bool {
	if score1 < 0 || score2 < 0 {
		return false
	}
	if score1 > MaxScore || score2 > MaxScore {
		return false
	}

	hi, lo := max(score1, score2), min(score1, score2)

	switch {
	case hi < GamePoint:
		return true
	case hi == GamePoint && lo <= GamePoint-2:
		return true
	case hi > GamePoint && hi-lo == 2:
		return true
	case hi == MaxScore && lo == MaxScore-1:
		return true
	}
	return false
}

// IsCompleteGame reports whether the score is a valid finished game.
func IsCompleteGame(score1, score2 int) bool {
	return IsValidScore(score1, score2) && max(score1, score2) >= GamePoint
}

// DetermineWinner compares the scores without checking them against the
// rules. Call IsValidScore first when a strict result is needed.
func DetermineWinner(score1, score2 int) Winner {
	switch {
	case score1 > score2:
		return Team1
	case score1 < score2:
		return Team2
	default:
		return None
	}
}
