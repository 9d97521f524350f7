package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(addPlayerCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(recordMatchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(metricsCmd)

	playersCmd.Flags().String("search", "", "Only list players whose name contains this text")
	recordMatchCmd.Flags().StringSlice("team1", nil, "Player ids of team 1")
	recordMatchCmd.Flags().StringSlice("team2", nil, "Player ids of team 2")
	recordMatchCmd.Flags().Int("score1", 0, "Score of team 1")
	recordMatchCmd.Flags().Int("score2", 0, "Score of team 2")
	recomputeCmd.Flags().Bool("announce", false, "Post the resulting standings to the Slack channel")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the current standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/rankings", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in the club store",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		endpoint := "/players"
		if search != "" {
			endpoint += "?q=" + url.QueryEscape(search)
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player <name> [avatar]",
	Short: "Add a player to the club",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"name": args[0]}
		if len(args) == 2 {
			body["avatar"] = args[1]
		}
		return performRequest(http.MethodPost, "/players", body)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recorded matches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches", nil)
	},
}

var recordMatchCmd = &cobra.Command{
	Use:   "record-match",
	Short: "Record a finished match",
	RunE: func(cmd *cobra.Command, args []string) error {
		team1, _ := cmd.Flags().GetStringSlice("team1")
		team2, _ := cmd.Flags().GetStringSlice("team2")
		score1, _ := cmd.Flags().GetInt("score1")
		score2, _ := cmd.Flags().GetInt("score2")
		body := map[string]any{
			"team1": map[string]any{"playerIds": team1, "score": score1},
			"team2": map[string]any{"playerIds": team2, "score": score2},
		}
		return performRequest(http.MethodPost, "/matches", body)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <score1> <score2>",
	Short: "Check a score against the badminton rules",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range args {
			if _, err := strconv.Atoi(a); err != nil {
				return fmt.Errorf("score %q is not a number", a)
			}
		}
		query := url.Values{"score1": {args[0]}, "score2": {args[1]}}
		return performRequest(http.MethodGet, "/scores/validate?"+query.Encode(), nil)
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild every player's counters from the match history",
	RunE: func(cmd *cobra.Command, args []string) error {
		announce, _ := cmd.Flags().GetBool("announce")
		endpoint := "/process"
		if announce {
			endpoint += "?announce=true"
		}
		return performRequest(http.MethodPost, endpoint, nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

func performRequest(method, endpoint string, payload any) error {
	target, err := url.Parse(host + endpoint)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if dryRun {
		q := target.Query()
		q.Set("dry_run", "true")
		target.RawQuery = q.Encode()
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
