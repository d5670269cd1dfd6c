package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/database"
	"github.com/postminer/postminer/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ranked posts from past runs",
	Long: `List posts recorded by previous discovery runs, with optional
filters. Without --run it shows the latest run.

Examples:
  postminer list                           # Latest run
  postminer list --all                     # Every recorded post
  postminer list --subreddit=Austria       # Only posts from r/Austria
  postminer list --min-relevance=60        # Only strong matches
  postminer list -o json                   # Output as JSON`,
	RunE: runList,
}

var (
	listRun          string
	listAll          bool
	listSubreddit    string
	listMinRelevance float64
	listLimit        int
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listRun, "run", "", "Run ID to list (default: latest run)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "List posts across all runs")
	listCmd.Flags().StringVar(&listSubreddit, "subreddit", "", "Filter by subreddit")
	listCmd.Flags().Float64Var(&listMinRelevance, "min-relevance", 0, "Minimum relevance score")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of results")
}

func runList(cmd *cobra.Command, args []string) error {
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

	opts := database.ListOptions{
		Subreddit: listSubreddit,
		Limit:     listLimit,
	}
	if listMinRelevance > 0 {
		opts.MinRelevance = &listMinRelevance
	}

	switch {
	case listRun != "":
		opts.RunID = listRun
	case !listAll:
		run, err := db.LatestRun(ctx)
		if err != nil {
			return fmt.Errorf("failed to find latest run: %w", err)
		}
		if run == nil {
			fmt.Println("No runs recorded yet. Run 'postminer discover' first.")
			return nil
		}
		opts.RunID = run.ID
	}

	posts, err := db.ListPosts(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	return output.Output(outputFmt, posts)
}
