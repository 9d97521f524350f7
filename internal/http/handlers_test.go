package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/court-score/internal/avatar"
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/config"
	"github.com/mauv0809/court-score/internal/database"
	"github.com/mauv0809/court-score/internal/http/handlers"
	"github.com/mauv0809/court-score/internal/metrics"
	"github.com/mauv0809/court-score/internal/notifier"
	"github.com/mauv0809/court-score/internal/processor"
	"github.com/mauv0809/court-score/internal/pubsub"
	"github.com/mauv0809/court-score/internal/scoring"
	"github.com/mauv0809/court-score/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSlackSigningSecret = "test-signing-secret"

type testServer struct {
	*Server
	metrics  *metrics.Mock
	notifier *notifier.Mock
}

// setupTestServer initializes a new server with an in-memory database, an
// in-process publisher and mock metrics and notifier.
func setupTestServer(t *testing.T, slackSigningSecret string) (*testServer, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	clubStore := club.New(db)
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: slackSigningSecret}}

	metricsMock := metrics.NewMock()
	metricsHandler := metrics.NewMetricsHandler(prometheus.NewRegistry())
	notif := notifier.NewMock()
	proc := processor.New(clubStore, notif, metricsMock)
	local := pubsub.NewLocal(proc.HandleMessage)

	server := NewServer(clubStore, metricsMock, metricsHandler, cfg, notif, proc, local)
	return &testServer{Server: server, metrics: metricsMock, notifier: notif}, teardown
}

func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) createPlayer(t *testing.T, name string) club.Player {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/players", handlers.PlayerRequest{Name: name})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var p club.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func (s *testServer) createMatch(t *testing.T, team1 []string, score1 int, team2 []string, score2 int) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, http.MethodPost, "/matches", handlers.MatchRequest{
		Team1: handlers.TeamRequest{PlayerIDs: team1, Score: score1},
		Team2: handlers.TeamRequest{PlayerIDs: team2, Score: score2},
	})
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req := httptest.NewRequest(http.MethodPost, targetURL, bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	rr := server.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestPlayerHandlers(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	alex := server.createPlayer(t, "  Alex Chen ")
	assert.Equal(t, "Alex Chen", alex.Name, "names are trimmed")
	assert.NotEmpty(t, alex.Avatar, "a default avatar is assigned")
	server.createPlayer(t, "Sarah Johnson")

	t.Run("serves a fallback avatar", func(t *testing.T) {
		rr := server.do(t, http.MethodGet, "/players/"+alex.ID, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var view handlers.PlayerView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		assert.Equal(t, alex.ID, view.ID)
		assert.Equal(t, avatar.Fallback(alex.ID), view.FallbackAvatar)
	})

	t.Run("rejects invalid name", func(t *testing.T) {
		rr := server.do(t, http.MethodPost, "/players", handlers.PlayerRequest{Name: "A"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "at least 2 characters")
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		rr := server.do(t, http.MethodPost, "/players", map[string]any{"name": "Mike", "wins": 10})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("lists and searches", func(t *testing.T) {
		rr := server.do(t, http.MethodGet, "/players", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var all []club.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
		assert.Len(t, all, 2)

		rr = server.do(t, http.MethodGet, "/players?q=sarah", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var found []club.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
		require.Len(t, found, 1)
		assert.Equal(t, "Sarah Johnson", found[0].Name)
	})

	t.Run("updates name and avatar", func(t *testing.T) {
		rr := server.do(t, http.MethodPut, "/players/"+alex.ID, handlers.PlayerRequest{Name: "Alex C.", Avatar: "🏸"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var updated club.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, "Alex C.", updated.Name)
		assert.Equal(t, "🏸", updated.Avatar)
	})

	t.Run("missing player is 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, server.do(t, http.MethodGet, "/players/missing", nil).Code)
		assert.Equal(t, http.StatusNotFound, server.do(t, http.MethodPut, "/players/missing", handlers.PlayerRequest{Name: "Nobody"}).Code)
	})

	t.Run("deletes", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, server.do(t, http.MethodDelete, "/players/"+alex.ID, nil).Code)
		assert.Equal(t, http.StatusNotFound, server.do(t, http.MethodDelete, "/players/"+alex.ID, nil).Code)
	})
}

func TestMatchHandlersUpdateCountersAndRankings(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	a := server.createPlayer(t, "Alex Chen")
	b := server.createPlayer(t, "Sarah Johnson")
	c := server.createPlayer(t, "Mike Rodriguez")
	d := server.createPlayer(t, "Emma Wilson")

	rr := server.createMatch(t, []string{a.ID, b.ID}, 21, []string{c.ID, d.ID}, 18)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Alex Chen", created.Team1.Players[0].Name)
	assert.Equal(t, 1, server.metrics.MatchesRecorded())

	require.Len(t, server.notifier.SendResultNotificationCalls, 1, "a counted result is announced")

	rr = server.createMatch(t, []string{a.ID}, 21, []string{c.ID}, 20)
	require.Equal(t, http.StatusBadRequest, rr.Code, "21-20 is not a reachable score")
	assert.Contains(t, rr.Body.String(), scoring.ValidationMessage)
	assert.Equal(t, 1, server.metrics.ScoresRejected())

	rr = server.createMatch(t, []string{a.ID}, 21, []string{c.ID}, 10)
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("rankings", func(t *testing.T) {
		rr := server.do(t, http.MethodGet, "/rankings", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var rows []struct {
			Rank          int         `json:"rank"`
			Medal         string      `json:"medal"`
			MedalClass    string      `json:"medalClass"`
			Player        club.Player `json:"player"`
			WinPercentage string      `json:"winPercentage"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
		require.Len(t, rows, 4)

		assert.Equal(t, a.ID, rows[0].Player.ID, "2/2 with most wins ranks first")
		assert.Equal(t, "gold", rows[0].Medal)
		assert.Equal(t, "medal-gold", rows[0].MedalClass)
		assert.Equal(t, "100.00000", rows[0].WinPercentage)
		assert.Equal(t, b.ID, rows[1].Player.ID)
		assert.Equal(t, "silver", rows[1].Medal)
		assert.Equal(t, c.ID, rows[2].Player.ID, "ties on ratio and wins keep creation order")
		assert.Equal(t, "0.00000", rows[2].WinPercentage)
		assert.Equal(t, 2, rows[2].Player.Losses)
		assert.Equal(t, d.ID, rows[3].Player.ID)
		assert.Equal(t, "none", rows[3].Medal)
		assert.Empty(t, rows[3].MedalClass)
		assert.Equal(t, 1, server.metrics.RankingsComputed())
	})

	t.Run("list shows winners newest first", func(t *testing.T) {
		rr := server.do(t, http.MethodGet, "/matches", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var views []struct {
			ID       string `json:"id"`
			Winner   string `json:"winner"`
			Complete bool   `json:"complete"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
		require.Len(t, views, 2)
		for _, v := range views {
			assert.Equal(t, "team1", v.Winner)
			assert.True(t, v.Complete)
		}
	})

	t.Run("update flips the result", func(t *testing.T) {
		rr := server.do(t, http.MethodPut, "/matches/"+created.ID, handlers.MatchRequest{
			Team1: handlers.TeamRequest{PlayerIDs: []string{a.ID, b.ID}, Score: 19},
			Team2: handlers.TeamRequest{PlayerIDs: []string{c.ID, d.ID}, Score: 21},
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		player, err := server.Store.GetPlayer(d.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, player.Wins)
		assert.Equal(t, 0, player.Losses)
		assert.True(t, created.Date.Equal(mustMatch(t, server, created.ID).Date), "date is kept when omitted")
	})

	t.Run("delete recomputes counters", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, server.do(t, http.MethodDelete, "/matches/"+created.ID, nil).Code)

		player, err := server.Store.GetPlayer(d.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, player.Matches)
		assert.Equal(t, http.StatusNotFound, server.do(t, http.MethodGet, "/matches/"+created.ID, nil).Code)
	})
}

func mustMatch(t *testing.T, server *testServer, id string) club.Match {
	t.Helper()
	m, err := server.Store.GetMatch(id)
	require.NoError(t, err)
	return *m
}

func TestCreateMatchValidation(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	a := server.createPlayer(t, "Alex Chen")
	b := server.createPlayer(t, "Sarah Johnson")

	testCases := []struct {
		name    string
		team1   []string
		team2   []string
		wantErr string
	}{
		{name: "unknown player", team1: []string{a.ID}, team2: []string{"ghost"}, wantErr: "unknown player ghost"},
		{name: "same player on both sides", team1: []string{a.ID}, team2: []string{a.ID}, wantErr: "cannot appear twice"},
		{name: "empty team", team1: []string{a.ID, b.ID}, team2: nil, wantErr: "team 2 must have at least one player"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := server.createMatch(t, tc.team1, 21, tc.team2, 10)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantErr)
		})
	}

	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestValidateScoreHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	testCases := []struct {
		query    string
		code     int
		valid    bool
		complete bool
		winner   string
	}{
		{query: "score1=21&score2=19", code: http.StatusOK, valid: true, complete: true, winner: "team1"},
		{query: "score1=15&score2=15", code: http.StatusOK, valid: true, complete: false, winner: "none"},
		{query: "score1=29&score2=29", code: http.StatusOK, valid: false, complete: false, winner: "none"},
		{query: "score1=28&score2=30", code: http.StatusOK, valid: true, complete: true, winner: "team2"},
		{query: "score1=abc&score2=1", code: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			rr := server.do(t, http.MethodGet, "/scores/validate?"+tc.query, nil)
			require.Equal(t, tc.code, rr.Code)
			if tc.code != http.StatusOK {
				return
			}
			var check struct {
				Valid    bool   `json:"valid"`
				Complete bool   `json:"complete"`
				Winner   string `json:"winner"`
				Message  string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &check))
			assert.Equal(t, tc.valid, check.Valid)
			assert.Equal(t, tc.complete, check.Complete)
			assert.Equal(t, tc.winner, check.Winner)
			if !tc.valid {
				assert.Equal(t, scoring.ValidationMessage, check.Message)
			}
		})
	}
	assert.Equal(t, 1, server.metrics.ScoresRejected())
}

func TestAvatarsHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	rr := server.do(t, http.MethodGet, "/avatars?count=5", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var options []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &options))
	assert.Len(t, options, 5)

	assert.Equal(t, http.StatusBadRequest, server.do(t, http.MethodGet, "/avatars?count=zero", nil).Code)
}

func TestClearStoreHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	a := server.createPlayer(t, "Alex Chen")
	b := server.createPlayer(t, "Sarah Johnson")
	rr := server.createMatch(t, []string{a.ID}, 21, []string{b.ID}, 5)
	require.Equal(t, http.StatusCreated, rr.Code)
	var m club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))

	rr = server.do(t, http.MethodPost, "/clear?matchID="+m.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	player, err := server.Store.GetPlayer(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, player.Wins, "clearing a match recomputes counters")

	rr = server.do(t, http.MethodPost, "/clear", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	players, err := server.Store.GetAllPlayers()
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestProcessHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	a := server.createPlayer(t, "Alex Chen")
	b := server.createPlayer(t, "Sarah Johnson")
	_, err := server.Store.CreateMatch(club.Match{
		Date:  time.Now(),
		Team1: club.Team{Players: []club.Player{{ID: a.ID}}, Score: 21},
		Team2: club.Team{Players: []club.Player{{ID: b.ID}}, Score: 12},
	})
	require.NoError(t, err)

	rr := server.do(t, http.MethodPost, "/process?dry_run=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	player, err := server.Store.GetPlayer(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, player.Wins, "dry run must not store counters")

	rr = server.do(t, http.MethodPost, "/process", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "2 players")
	player, err = server.Store.GetPlayer(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, player.Wins)
	assert.Empty(t, server.notifier.SendLeaderboardCalls, "standings are only posted on request")

	rr = server.do(t, http.MethodGet, "/rankings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", rr.Header().Get(handlers.TotalMatchesHeader))

	t.Run("announce posts the leaderboard", func(t *testing.T) {
		rr := server.do(t, http.MethodPost, "/process?announce=true&dry_run=true", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		require.Len(t, server.notifier.SendLeaderboardCalls, 1)
		standings := server.notifier.SendLeaderboardCalls[0]
		require.Len(t, standings, 2)
		assert.Equal(t, a.ID, standings[0].Player.ID)
	})

	t.Run("announce failure is reported", func(t *testing.T) {
		server.notifier.SendLeaderboardFunc = func([]stats.PlayerStats, bool) error { return fmt.Errorf("slack down") }
		defer func() { server.notifier.SendLeaderboardFunc = nil }()

		rr := server.do(t, http.MethodPost, "/process?announce=true", nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestMatchChangedPushHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	a := server.createPlayer(t, "Alex Chen")
	b := server.createPlayer(t, "Sarah Johnson")
	stored, err := server.Store.CreateMatch(club.Match{
		Date:  time.Now(),
		Team1: club.Team{Players: []club.Player{{ID: a.ID}}, Score: 12},
		Team2: club.Team{Players: []club.Player{{ID: b.ID}}, Score: 21},
	})
	require.NoError(t, err)

	data, err := pubsub.Encode(pubsub.MatchChangedEvent{MatchID: stored.ID, Action: pubsub.MatchCreated})
	require.NoError(t, err)
	envelope := map[string]any{
		"subscription": "projects/court/subscriptions/match-changed",
		"message":      map[string]string{"data": base64.StdEncoding.EncodeToString(data), "messageId": "1"},
	}

	rr := server.do(t, http.MethodPost, "/events/match-changed", envelope)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "OK", rr.Body.String())

	player, err := server.Store.GetPlayer(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, player.Wins)
	require.Len(t, server.notifier.SendResultNotificationCalls, 1)
	assert.Equal(t, stored.ID, server.notifier.SendResultNotificationCalls[0].Match.ID)

	t.Run("rejects bad base64", func(t *testing.T) {
		rr := server.do(t, http.MethodPost, "/events/match-changed", map[string]any{"message": map[string]string{"data": "%%%"}})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/events/match-changed", strings.NewReader("{"))
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLeaderboardCommandHandler(t *testing.T) {
	server, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()
	server.notifier.FormatLeaderboardResponseFunc = func(standings []stats.PlayerStats) (any, error) {
		return slack.NewBlockMessage(), nil
	}

	server.createPlayer(t, "Alex Chen")
	server.createPlayer(t, "Sarah Johnson")

	t.Run("responds with formatted leaderboard", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Len(t, server.notifier.LastLeaderboardResponse, 2)
	})

	t.Run("rejects request with invalid signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)
		req.Header.Set("X-Slack-Signature", "v0=invalid-signature")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with missing signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)
		req.Header.Del("X-Slack-Signature")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with outdated timestamp", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)
		req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Add(-6*time.Minute).Unix(), 10))

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects a non slack formatter result", func(t *testing.T) {
		server.notifier.FormatLeaderboardResponseFunc = func(standings []stats.PlayerStats) (any, error) {
			return "plain text", nil
		}
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	server, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()
	server.notifier.FormatPlayerStatsResponseFunc = func(stat stats.PlayerStats, query string) (any, error) {
		return slack.NewBlockMessage(), nil
	}
	server.notifier.FormatPlayerNotFoundResponseFunc = func(query string) (any, error) {
		return slack.NewBlockMessage(), nil
	}

	server.createPlayer(t, "Alex Chen")
	sarah := server.createPlayer(t, "Sarah Johnson")

	t.Run("handles found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "sarah")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret))

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, server.notifier.LastPlayerStatsResponse)
		assert.Equal(t, sarah.ID, server.notifier.LastPlayerStatsResponse.Player.ID)
		assert.Equal(t, 2, server.notifier.LastPlayerStatsResponse.Rank)
	})

	t.Run("handles not found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Unknown")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Unknown", server.notifier.LastPlayerNotFoundResponse)
	})

	t.Run("handles missing player name", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/player-stats", url.Values{}, testSlackSigningSecret))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDryRunWrites(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	alice := server.createPlayer(t, "Alice Park")
	bob := server.createPlayer(t, "Bob Stone")

	t.Run("create player", func(t *testing.T) {
		rr := server.do(t, http.MethodPost, "/players?dry_run=true", handlers.PlayerRequest{Name: "Carol King"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), "Carol King")

		players, err := server.Store.GetAllPlayers()
		require.NoError(t, err)
		assert.Len(t, players, 2)
	})

	t.Run("invalid player is still rejected", func(t *testing.T) {
		rr := server.do(t, http.MethodPost, "/players?dry_run=true", handlers.PlayerRequest{Name: "C"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("create match", func(t *testing.T) {
		rr := server.do(t, http.MethodPost, "/matches?dry_run=true", handlers.MatchRequest{
			Team1: handlers.TeamRequest{PlayerIDs: []string{alice.ID}, Score: 21},
			Team2: handlers.TeamRequest{PlayerIDs: []string{bob.ID}, Score: 10},
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		matches, err := server.Store.GetAllMatches()
		require.NoError(t, err)
		assert.Empty(t, matches)
		player, err := server.Store.GetPlayer(alice.ID)
		require.NoError(t, err)
		assert.Zero(t, player.Wins)
		assert.Empty(t, server.notifier.SendResultNotificationCalls)
		assert.Zero(t, server.metrics.MatchesRecorded())
	})

	rr := server.createMatch(t, []string{alice.ID}, 21, []string{bob.ID}, 10)
	require.Equal(t, http.StatusCreated, rr.Code)
	var stored club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stored))
	server.notifier.Reset()

	t.Run("update match", func(t *testing.T) {
		rr := server.do(t, http.MethodPut, "/matches/"+stored.ID+"?dry_run=true", handlers.MatchRequest{
			Team1: handlers.TeamRequest{PlayerIDs: []string{alice.ID}, Score: 10},
			Team2: handlers.TeamRequest{PlayerIDs: []string{bob.ID}, Score: 21},
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		m := mustMatch(t, server, stored.ID)
		assert.Equal(t, 21, m.Team1.Score)
		player, err := server.Store.GetPlayer(alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, player.Wins)
		assert.Empty(t, server.notifier.SendResultNotificationCalls)
	})

	t.Run("delete match", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, server.do(t, http.MethodDelete, "/matches/"+stored.ID+"?dry_run=true", nil).Code)
		mustMatch(t, server, stored.ID)
		assert.Equal(t, http.StatusNotFound, server.do(t, http.MethodDelete, "/matches/missing?dry_run=true", nil).Code)
	})

	t.Run("update and delete player", func(t *testing.T) {
		rr := server.do(t, http.MethodPut, "/players/"+bob.ID+"?dry_run=true", handlers.PlayerRequest{Name: "Robert Stone"})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, http.StatusNoContent, server.do(t, http.MethodDelete, "/players/"+bob.ID+"?dry_run=true", nil).Code)

		player, err := server.Store.GetPlayer(bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob Stone", player.Name)
	})

	t.Run("clear", func(t *testing.T) {
		require.Equal(t, http.StatusOK, server.do(t, http.MethodPost, "/clear?matchID="+stored.ID+"&dry_run=true", nil).Code)
		require.Equal(t, http.StatusOK, server.do(t, http.MethodPost, "/clear?dry_run=true", nil).Code)

		mustMatch(t, server, stored.ID)
		players, err := server.Store.GetAllPlayers()
		require.NoError(t, err)
		assert.Len(t, players, 2)
	})
}
