package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/metrics"
	"github.com/mauv0809/court-score/internal/pubsub"
	"github.com/mauv0809/court-score/internal/scoring"
	"github.com/mauv0809/court-score/internal/stats"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics) *Processor {
	return &Processor{
		store:     store,
		notifier:  notifier,
		metrics:   metrics,
		now:       time.Now,
		announced: make(map[string]time.Time),
	}
}

// Counts reports whether a match contributes to player counters: it must be
// a finished game with a winner.
func Counts(m club.Match) bool {
	return scoring.IsCompleteGame(m.Team1.Score, m.Team2.Score) &&
		scoring.DetermineWinner(m.Team1.Score, m.Team2.Score) != scoring.None
}

// TallyCounters derives matches, wins and losses per player id from the
// given matches. Matches that do not count are skipped.
func TallyCounters(matches []club.Match) map[string]club.Counters {
	counters := make(map[string]club.Counters)
	for _, m := range matches {
		if !Counts(m) {
			continue
		}
		winners, losers := m.Team1, m.Team2
		if scoring.DetermineWinner(m.Team1.Score, m.Team2.Score) == scoring.Team2 {
			winners, losers = m.Team2, m.Team1
		}
		for _, p := range winners.Players {
			c := counters[p.ID]
			c.Matches++
			c.Wins++
			counters[p.ID] = c
		}
		for _, p := range losers.Players {
			c := counters[p.ID]
			c.Matches++
			c.Losses++
			counters[p.ID] = c
		}
	}
	return counters
}

// RecomputeCounters rebuilds every player's counters from the full match
// list. Players without counted matches are reset to zero. The result is
// keyed by player id and covers existing players only.
func (p *Processor) RecomputeCounters(dryRun bool) (map[string]club.Counters, error) {
	startTime := time.Now()
	log.Info("Recomputing player counters")

	players, err := p.store.GetAllPlayers()
	if err != nil {
		log.Error("Failed to get players for recompute", "error", err)
		return nil, err
	}
	matches, err := p.store.GetAllMatches()
	if err != nil {
		log.Error("Failed to get matches for recompute", "error", err)
		return nil, err
	}

	tally := TallyCounters(matches)
	counters := make(map[string]club.Counters, len(players))
	for _, pl := range players {
		counters[pl.ID] = tally[pl.ID]
	}

	if dryRun {
		log.Info("[Dry Run] Would have updated player counters", "players", len(counters), "matches", len(matches))
	} else if err := p.store.SetPlayerCounters(counters); err != nil {
		log.Error("Failed to store player counters", "error", err)
		return nil, err
	}

	p.metrics.IncCounterRecomputes()
	p.metrics.ObserveRecomputeDuration(time.Since(startTime).Seconds())
	log.Info("Player counters recomputed", "players", len(counters), "matches", len(matches))
	return counters, nil
}

// HandleMatchChanged recomputes counters and, for a new or edited match
// that counts, announces the result with the updated standings.
func (p *Processor) HandleMatchChanged(event pubsub.MatchChangedEvent, dryRun bool) error {
	log.Info("Handling match change", "matchID", event.MatchID, "action", event.Action)

	counters, err := p.RecomputeCounters(dryRun)
	if err != nil {
		return err
	}

	if event.Action != pubsub.MatchCreated && event.Action != pubsub.MatchUpdated {
		return nil
	}

	match, err := p.store.GetMatch(event.MatchID)
	if err != nil {
		if errors.Is(err, club.ErrMatchNotFound) {
			log.Warn("Changed match no longer exists", "matchID", event.MatchID)
			return nil
		}
		return err
	}
	if !Counts(*match) {
		log.Debug("Match does not count towards standings. Skipping result notification.", "matchID", match.ID)
		return nil
	}
	if p.now().Sub(match.Date) > resultNotificationWindow {
		log.Info("Match is too old to announce. Skipping result notification.", "matchID", match.ID, "date", match.Date)
		return nil
	}

	key := announcementKey(event)
	if !dryRun && p.alreadyAnnounced(key) {
		log.Info("Result already announced. Skipping redelivered event.", "matchID", match.ID, "occurredAt", event.OccurredAt)
		return nil
	}

	standings, err := p.standings(counters)
	if err != nil {
		return err
	}
	if err := p.notifier.SendResultNotification(*match, standings, dryRun); err != nil {
		log.Error("Failed to send result notification", "error", err, "matchID", match.ID)
		return nil
	}
	if !dryRun {
		p.markAnnounced(key)
	}
	return nil
}

// AnnounceLeaderboard posts the current standings to the channel.
func (p *Processor) AnnounceLeaderboard(dryRun bool) error {
	players, err := p.store.GetAllPlayers()
	if err != nil {
		log.Error("Failed to get players for leaderboard", "error", err)
		return err
	}
	standings := stats.ComputeRankings(players)
	p.metrics.IncRankingsComputed()
	if err := p.notifier.SendLeaderboard(standings, dryRun); err != nil {
		log.Error("Failed to send leaderboard", "error", err)
		return err
	}
	return nil
}

// announcementKey identifies one publication of a match change. A
// redelivery carries the same key, a later edit of the match does not.
func announcementKey(event pubsub.MatchChangedEvent) string {
	return fmt.Sprintf("%s@%d", event.MatchID, event.OccurredAt.UnixNano())
}

func (p *Processor) alreadyAnnounced(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.announced[key]
	return ok
}

// markAnnounced records key and forgets entries older than the
// notification window; such matches are never announced again anyway.
func (p *Processor) markAnnounced(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	for k, at := range p.announced {
		if now.Sub(at) > resultNotificationWindow {
			delete(p.announced, k)
		}
	}
	p.announced[key] = now
}

// HandleMessage decodes a raw published message and dispatches it. It is the
// handler behind the in-process publisher. Dry-run requests never publish,
// so messages are always handled for real.
func (p *Processor) HandleMessage(topic pubsub.EventType, data []byte) error {
	switch topic {
	case pubsub.EventMatchChanged:
		var event pubsub.MatchChangedEvent
		if err := pubsub.Decode(data, &event); err != nil {
			return err
		}
		return p.HandleMatchChanged(event, false)
	default:
		log.Warn("Ignoring message for unknown topic", "topic", topic)
		return fmt.Errorf("unknown topic %q", topic)
	}
}

// standings ranks the current players with the given counters applied, so a
// dry run reports what would have been stored.
func (p *Processor) standings(counters map[string]club.Counters) ([]stats.PlayerStats, error) {
	players, err := p.store.GetAllPlayers()
	if err != nil {
		log.Error("Failed to get players for standings", "error", err)
		return nil, err
	}
	for i, pl := range players {
		if c, ok := counters[pl.ID]; ok {
			players[i].Matches, players[i].Wins, players[i].Losses = c.Matches, c.Wins, c.Losses
		}
	}
	return stats.ComputeRankings(players), nil
}
