package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/database"
	"github.com/postminer/postminer/internal/output"
)

var statsRun string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show discovery statistics",
	Long: `Stats summarizes what the local database holds: run, post, and
search counts, relevance aggregates, and a per-subreddit breakdown.

Examples:
  postminer stats               # Across all runs
  postminer stats --run=<id>    # Scoped to one run
  postminer stats -o json       # Output as JSON`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsRun, "run", "", "Scope statistics to one run ID")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	stats, err := db.GetStats(ctx, statsRun)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	return output.Output(outputFmt, stats)
}
