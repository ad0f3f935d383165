package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/crazyroad-go/internal/model"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status struct {
				Status     string `json:"status"`
				Players    int    `json:"players"`
				Difficulty int    `json:"difficulty"`
			}
			body, err := client.Get("/healthz", &status)
			if err != nil {
				return err
			}
			if jsonOutput {
				fmt.Println(string(body))
				return nil
			}
			fmt.Printf("status: %s\nplayers: %d\ndifficulty: %d\n",
				status.Status, status.Players, status.Difficulty)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the persistent best-time leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []model.RankingRecord
			body, err := client.Get("/api/leaderboard", &entries)
			if err != nil {
				return err
			}
			if jsonOutput {
				fmt.Println(string(body))
				return nil
			}
			if len(entries) == 0 {
				fmt.Println("no wins recorded yet")
				return nil
			}
			for i, e := range entries {
				best := time.Duration(e.BestTimeMs) * time.Millisecond
				fmt.Printf("%2d. %-16s %10s  wins=%d\n", i+1, e.Name, best, e.Wins)
			}
			return nil
		},
	}
}

func newScoreboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scoreboard",
		Short: "Show the live score board",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []model.ScoreEntry
			body, err := client.Get("/api/scoreboard", &entries)
			if err != nil {
				return err
			}
			if jsonOutput {
				fmt.Println(string(body))
				return nil
			}
			if len(entries) == 0 {
				fmt.Println("no players connected")
				return nil
			}
			for i, e := range entries {
				fmt.Printf("%2d. %-16s score=%.2f level=%d\n", i+1, e.Name, e.Score, e.Level)
			}
			return nil
		},
	}
}
