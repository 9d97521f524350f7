package main

import (
	"flag"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/config"
	"github.com/mauv0809/court-score/internal/database"
	"github.com/mauv0809/court-score/internal/metrics"
	"github.com/mauv0809/court-score/internal/notifier"
	"github.com/mauv0809/court-score/internal/processor"
)

type seedPlayer struct {
	name      string
	avatar    string
	createdAt time.Time
}

type seedMatch struct {
	date   time.Time
	team1  []int
	score1 int
	team2  []int
	score2 int
}

var demoPlayers = []seedPlayer{
	{"Alex Chen", "https://api.dicebear.com/6.x/adventurer/svg?seed=alex-chen&backgroundColor=b6e3f4", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	{"Sarah Johnson", "https://api.dicebear.com/6.x/avataaars/svg?seed=sarah-johnson&backgroundColor=c0aede", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
	{"Mike Rodriguez", "https://api.dicebear.com/6.x/lorelei/svg?seed=mike-rodriguez&backgroundColor=d1d4f9", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	{"Emma Wilson", "https://api.dicebear.com/6.x/micah/svg?seed=emma-wilson&backgroundColor=ffd5dc", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
	{"David Kim", "https://api.dicebear.com/6.x/pixel-art/svg?seed=david-kim&backgroundColor=ffdfbf", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
}

// Indexes into demoPlayers.
var demoMatches = []seedMatch{
	{date: time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC), team1: []int{0, 1}, score1: 21, team2: []int{2, 3}, score2: 18},
	{date: time.Date(2024, 3, 2, 16, 30, 0, 0, time.UTC), team1: []int{0}, score1: 21, team2: []int{2}, score2: 19},
}

func main() {
	reset := flag.Bool("reset", false, "clear the store before seeding")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := config.Load()
	log.SetLevel(cfg.Level())

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := club.New(db)
	if *reset {
		log.Warn("Clearing store before seeding")
		if err := store.Clear(); err != nil {
			log.Fatalf("Failed to clear store: %s", err)
		}
	}

	players := make([]club.Player, 0, len(demoPlayers))
	for _, p := range demoPlayers {
		created, err := store.CreatePlayer(club.Player{Name: p.name, Avatar: p.avatar, CreatedAt: p.createdAt})
		if err != nil {
			log.Fatalf("Failed to insert player %s: %s", p.name, err)
		}
		players = append(players, created)
	}
	log.Info("Inserted demo players", "count", len(players))

	team := func(indexes []int, score int) club.Team {
		t := club.Team{Score: score}
		for _, i := range indexes {
			t.Players = append(t.Players, club.Player{ID: players[i].ID})
		}
		return t
	}
	for _, m := range demoMatches {
		match := club.Match{Date: m.date, Team1: team(m.team1, m.score1), Team2: team(m.team2, m.score2)}
		if err := club.ValidateMatch(match); err != nil {
			log.Fatalf("Demo match is invalid: %s", err)
		}
		if _, err := store.CreateMatch(match); err != nil {
			log.Fatalf("Failed to insert match: %s", err)
		}
	}
	log.Info("Inserted demo matches", "count", len(demoMatches))

	// Seeded matches are historical, so nothing is announced.
	proc := processor.New(store, notifier.NewMock(), metrics.NewMock())
	counters, err := proc.RecomputeCounters(false)
	if err != nil {
		log.Fatalf("Failed to recompute counters: %s", err)
	}
	log.Info("Seeding finished", "players", len(counters))
}
