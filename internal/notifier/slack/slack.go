package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/metrics"
	"github.com/mauv0809/court-score/internal/notifier"
	"github.com/mauv0809/court-score/internal/scoring"
	"github.com/mauv0809/court-score/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// podiumSize is how many standings the result notification repeats.
const podiumSize = 3

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. With an empty token the notifier
// still formats slash command responses but skips every channel post.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	var api slackClient
	if token != "" {
		api = slack.New(token)
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}
	if s.api == nil || s.channelID == "" {
		log.Warn("Slack client or channel ID is not configured. Skipping notification.")
		return "", "", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendResultNotification(match club.Match, standings []stats.PlayerStats, dryRun bool) error {
	msg := s.formatResultNotification(match, standings)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(standings []stats.PlayerStats, dryRun bool) error {
	msg := s.formatLeaderboard(standings)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(standings []stats.PlayerStats) (any, error) {
	return s.formatLeaderboard(standings), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(stat stats.PlayerStats, query string) (any, error) {
	return s.formatPlayerStats(stat, query), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

// formatResultNotification creates the Slack message for a counted match using Block Kit.
func (s *Notifier) formatResultNotification(match club.Match, standings []stats.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏸 Match finished! 🏸", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := match.Date.UTC().Format("Monday 02 Jan, 15:04")
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	team1, team2 := teamNames(match.Team1), teamNames(match.Team2)
	var resultText string
	switch scoring.DetermineWinner(match.Team1.Score, match.Team2.Score) {
	case scoring.Team1:
		resultText = fmt.Sprintf("Result: %s won %d-%d! 🏆", team1, match.Team1.Score, match.Team2.Score)
	case scoring.Team2:
		resultText = fmt.Sprintf("Result: %s won %d-%d! 🏆", team2, match.Team2.Score, match.Team1.Score)
	default:
		resultText = fmt.Sprintf("Result: %d-%d", match.Team1.Score, match.Team2.Score)
	}
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("• %s: %d", team1, match.Team1.Score), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("• %s: %d", team2, match.Team2.Score), true, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), fields, nil))

	var podium []string
	for _, stat := range standings {
		if stat.Rank > podiumSize {
			break
		}
		podium = append(podium, fmt.Sprintf("%s %s %s%%",
			stats.MedalForRank(stat.Rank).Emoji(),
			playerName(stat.Player),
			stats.FormatWinPercentage(stat.Player.Wins, stat.Player.Matches),
		))
	}
	if len(podium) > 0 {
		element := slack.NewTextBlockObject("plain_text", strings.Join(podium, "  "), true, false)
		blocks = append(blocks, slack.NewContextBlock("", element))
	}

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatLeaderboard(standings []stats.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🏆 Player Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(standings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet. Add some players and record a match!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	// Player Ranks
	for _, stat := range standings {
		prefix := fmt.Sprintf("%d.", stat.Rank)
		if medal := stats.MedalForRank(stat.Rank).Emoji(); medal != "" {
			prefix += " " + medal
		}
		playerText := fmt.Sprintf("%s %s\n> Win %%: %s%% (%d/%d) | Wins: %d | Losses: %d",
			prefix,
			playerName(stat.Player),
			stats.FormatWinPercentage(stat.Player.Wins, stat.Player.Matches),
			stat.Player.Wins,
			stat.Player.Matches,
			stat.Player.Wins,
			stat.Player.Losses,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	players := make([]club.Player, 0, len(standings))
	for _, stat := range standings {
		players = append(players, stat.Player)
	}
	footer := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏸 %d matches played", stats.TotalMatches(players)), true, false)
	blocks = append(blocks, slack.NewContextBlock("", footer))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatPlayerStats(stat stats.PlayerStats, query string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🏆 Stats for %s 🏆", playerName(stat.Player))
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	rank := fmt.Sprintf("%d", stat.Rank)
	if medal := stats.MedalForRank(stat.Rank).Emoji(); medal != "" {
		rank += " " + medal
	}
	playerText := fmt.Sprintf("> *Rank*: %s\n> *Win %%*: %s%% (%d/%d)\n> *Wins*: %d\n> *Losses*: %d",
		rank,
		stats.FormatWinPercentage(stat.Player.Wins, stat.Player.Matches),
		stat.Player.Wins,
		stat.Player.Matches,
		stat.Player.Wins,
		stat.Player.Losses,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

func teamNames(team club.Team) string {
	names := make([]string, 0, len(team.Players))
	for _, p := range team.Players {
		names = append(names, playerName(p))
	}
	return strings.Join(names, " & ")
}

func playerName(p club.Player) string {
	if p.Name == "" {
		return "Unknown player"
	}
	return p.Name
}
