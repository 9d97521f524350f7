package club

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/cases"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

const playerColumns = "id, name, avatar, matches, wins, losses, created_at"

// CreatePlayer inserts a new player with zeroed counters. An id and creation
// time are assigned when missing.
func (s *store) CreatePlayer(player Player) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player.ID == "" {
		player.ID = NewID()
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	player.Matches, player.Wins, player.Losses = 0, 0, 0

	_, err := s.db.Exec(
		"INSERT INTO players ("+playerColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		player.ID, player.Name, player.Avatar, player.Matches, player.Wins, player.Losses, formatTime(player.CreatedAt),
	)
	if err != nil {
		log.Error("Failed to create player", "error", err, "playerID", player.ID)
		return Player{}, err
	}
	log.Info("Created player", "playerID", player.ID, "name", player.Name)
	return player, nil
}

func (s *store) GetPlayer(playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPlayer(playerID)
}

func (s *store) getPlayer(playerID string) (*Player, error) {
	row := s.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE id = ?", playerID)
	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
		log.Error("Failed to query player", "error", err, "playerID", playerID)
		return nil, err
	}
	return &p, nil
}

// GetAllPlayers returns every player in creation order.
func (s *store) GetAllPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryPlayers("SELECT " + playerColumns + " FROM players ORDER BY created_at, id")
}

// SearchPlayers returns the players whose name contains query, ignoring case.
// An empty query returns everyone.
func (s *store) SearchPlayers(query string) ([]Player, error) {
	players, err := s.GetAllPlayers()
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return players, nil
	}

	fold := cases.Fold()
	needle := fold.String(query)
	matched := make([]Player, 0, len(players))
	for _, p := range players {
		if strings.Contains(fold.String(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	log.Debug("Searched players", "query", query, "matches", len(matched))
	return matched, nil
}

// UpdatePlayer overwrites name, avatar and counters of an existing player.
func (s *store) UpdatePlayer(player Player) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"UPDATE players SET name = ?, avatar = ?, matches = ?, wins = ?, losses = ? WHERE id = ?",
		player.Name, player.Avatar, player.Matches, player.Wins, player.Losses, player.ID,
	)
	if err != nil {
		log.Error("Failed to update player", "error", err, "playerID", player.ID)
		return Player{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, player.ID)
	}

	updated, err := s.getPlayer(player.ID)
	if err != nil {
		return Player{}, err
	}
	log.Info("Updated player", "playerID", player.ID, "name", player.Name)
	return *updated, nil
}

// DeletePlayer removes a player. Matches that reference the player are kept.
func (s *store) DeletePlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM players WHERE id = ?", playerID)
	if err != nil {
		log.Error("Failed to delete player", "error", err, "playerID", playerID)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	log.Info("Deleted player", "playerID", playerID)
	return nil
}

// SetPlayerCounters overwrites the counters of the given players in a single
// transaction. Unknown ids are ignored.
func (s *store) SetPlayerCounters(counters map[string]Counters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("UPDATE players SET matches = ?, wins = ?, losses = ? WHERE id = ?")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for playerID, c := range counters {
		if _, err := stmt.Exec(c.Matches, c.Wins, c.Losses, playerID); err != nil {
			log.Error("Failed to set player counters", "error", err, "playerID", playerID)
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit player counters", "error", err)
		return err
	}
	log.Debug("Player counters updated", "players", len(counters))
	return nil
}

// CreateMatch stores a new match. An id and creation time are assigned when
// missing.
func (s *store) CreateMatch(match Match) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if match.ID == "" {
		match.ID = NewID()
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	teamsBlob, err := encodeTeams(match)
	if err != nil {
		return Match{}, err
	}

	_, err = s.db.Exec(
		"INSERT INTO matches (id, date, teams_blob, created_at) VALUES (?, ?, ?, ?)",
		match.ID, formatTime(match.Date), teamsBlob, formatTime(match.CreatedAt),
	)
	if err != nil {
		log.Error("Failed to create match", "error", err, "matchID", match.ID)
		return Match{}, err
	}
	log.Info("Created match", "matchID", match.ID, "score", fmt.Sprintf("%d-%d", match.Team1.Score, match.Team2.Score))
	return match, nil
}

func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMatch(matchID)
}

func (s *store) getMatch(matchID string) (*Match, error) {
	row := s.db.QueryRow("SELECT id, date, teams_blob, created_at FROM matches WHERE id = ?", matchID)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		log.Error("Failed to query match", "error", err, "matchID", matchID)
		return nil, err
	}
	matches := []Match{m}
	if err := s.hydrateTeams(matches); err != nil {
		return nil, err
	}
	return &matches[0], nil
}

// GetAllMatches returns every match, most recent date first.
func (s *store) GetAllMatches() ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, date, teams_blob, created_at FROM matches ORDER BY date DESC, id")
	if err != nil {
		log.Error("Failed to query all matches", "error", err)
		return nil, err
	}

	matches := make([]Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	err = rows.Err()
	// release the connection before hydrating; in-memory databases have only one
	rows.Close()
	if err != nil {
		return nil, err
	}
	if err := s.hydrateTeams(matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// UpdateMatch overwrites the date and both teams of an existing match.
func (s *store) UpdateMatch(match Match) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teamsBlob, err := encodeTeams(match)
	if err != nil {
		return Match{}, err
	}
	res, err := s.db.Exec("UPDATE matches SET date = ?, teams_blob = ? WHERE id = ?", formatTime(match.Date), teamsBlob, match.ID)
	if err != nil {
		log.Error("Failed to update match", "error", err, "matchID", match.ID)
		return Match{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, match.ID)
	}

	updated, err := s.getMatch(match.ID)
	if err != nil {
		return Match{}, err
	}
	log.Info("Updated match", "matchID", match.ID)
	return *updated, nil
}

func (s *store) DeleteMatch(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID)
	if err != nil {
		log.Error("Failed to delete match", "error", err, "matchID", matchID)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	log.Info("Deleted match", "matchID", matchID)
	return nil
}

func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM matches"); err != nil {
		log.Error("Failed to clear matches table", "error", err)
		return err
	}
	if _, err := tx.Exec("DELETE FROM players"); err != nil {
		log.Error("Failed to clear players table", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
		return err
	}
	return nil
}

func (s *store) queryPlayers(query string, args ...any) ([]Player, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, err
	}
	defer rows.Close()

	players := make([]Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// hydrateTeams replaces the id-only team members with the stored players.
// Players that no longer exist stay as id-only references.
func (s *store) hydrateTeams(matches []Match) error {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range matches {
		for _, team := range []Team{m.Team1, m.Team2} {
			for _, p := range team.Players {
				if !seen[p.ID] {
					seen[p.ID] = true
					ids = append(ids, p.ID)
				}
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	players, err := s.queryPlayers("SELECT "+playerColumns+" FROM players WHERE id IN ("+placeholders+")", ToAnySlice(ids)...)
	if err != nil {
		return err
	}
	byID := make(map[string]Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	for i := range matches {
		for _, team := range []*Team{&matches[i].Team1, &matches[i].Team2} {
			for j, p := range team.Players {
				if stored, ok := byID[p.ID]; ok {
					team.Players[j] = stored
				}
			}
		}
	}
	return nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (Player, error) {
	var p Player
	var createdAt string
	if err := scanner.Scan(&p.ID, &p.Name, &p.Avatar, &p.Matches, &p.Wins, &p.Losses, &createdAt); err != nil {
		return Player{}, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		log.Warn("Invalid player created_at", "playerID", p.ID, "value", createdAt)
	}
	p.CreatedAt = t
	return p, nil
}

func scanMatch(scanner interface{ Scan(...any) error }) (Match, error) {
	var m Match
	var date, createdAt string
	var teamsBlob []byte
	if err := scanner.Scan(&m.ID, &date, &teamsBlob, &createdAt); err != nil {
		return Match{}, err
	}

	var err error
	if m.Date, err = parseTime(date); err != nil {
		return Match{}, fmt.Errorf("match %s has invalid date %q: %w", m.ID, date, err)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		log.Warn("Invalid match created_at", "matchID", m.ID, "value", createdAt)
	}

	var teams []storedTeam
	if err := msgpack.Unmarshal(teamsBlob, &teams); err != nil {
		return Match{}, fmt.Errorf("match %s has unreadable teams: %w", m.ID, err)
	}
	if len(teams) != 2 {
		return Match{}, fmt.Errorf("match %s has %d teams", m.ID, len(teams))
	}
	m.Team1 = teams[0].toTeam()
	m.Team2 = teams[1].toTeam()
	return m, nil
}

func encodeTeams(match Match) ([]byte, error) {
	teams := []storedTeam{
		{PlayerIDs: match.Team1.PlayerIDs(), Score: match.Team1.Score},
		{PlayerIDs: match.Team2.PlayerIDs(), Score: match.Team2.Score},
	}
	blob, err := msgpack.Marshal(teams)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err, "matchID", match.ID)
		return nil, err
	}
	return blob, nil
}

func (t storedTeam) toTeam() Team {
	players := make([]Player, 0, len(t.PlayerIDs))
	for _, id := range t.PlayerIDs {
		players = append(players, Player{ID: id})
	}
	return Team{Players: players, Score: t.Score}
}

// timeLayout is ISO-8601 with a fixed-width fraction so stored values sort
// chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
