package stats

// Medal is the podium marker for the top three ranks.
type Medal int

const (
	MedalNone Medal = iota
	MedalGold
	MedalSilver
	MedalBronze
)

// MedalForRank maps rank 1, 2 and 3 to gold, silver and bronze.
func MedalForRank(rank int) Medal {
	switch rank {
	case 1:
		return MedalGold
	case 2:
		return MedalSilver
	case 3:
		return MedalBronze
	default:
		return MedalNone
	}
}

func (m Medal) String() string {
	switch m {
	case MedalGold:
		return "gold"
	case MedalSilver:
		return "silver"
	case MedalBronze:
		return "bronze"
	default:
		return "none"
	}
}

// Class is the CSS class the ranking table uses for the medal badge.
func (m Medal) Class() string {
	if m == MedalNone {
		return ""
	}
	return "medal-" + m.String()
}

// Emoji is the chat rendering of the medal.
func (m Medal) Emoji() string {
	switch m {
	case MedalGold:
		return "🥇"
	case MedalSilver:
		return "🥈"
	case MedalBronze:
		return "🥉"
	default:
		return ""
	}
}

func (m Medal) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
