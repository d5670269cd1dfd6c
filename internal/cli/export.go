package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/database"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ranked posts to CSV or JSON",
	Long: `Export recorded posts to stdout.

Supported formats:
  - csv: Comma-separated values (spreadsheet-compatible)
  - json: JSON array of post objects

Examples:
  postminer export --format=csv > posts.csv
  postminer export --format=json --run=<id> > run.json`,
	RunE: runExport,
}

var (
	exportFormat string
	exportRun    string
	exportAll    bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json)")
	exportCmd.Flags().StringVar(&exportRun, "run", "", "Run ID to export (default: latest run)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export posts across all runs")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	opts := database.ListOptions{}
	switch {
	case exportRun != "":
		opts.RunID = exportRun
	case !exportAll:
		run, err := db.LatestRun(ctx)
		if err != nil {
			return fmt.Errorf("failed to find latest run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("no runs recorded yet")
		}
		opts.RunID = run.ID
	}

	posts, err := db.ListPosts(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	switch exportFormat {
	case "csv":
		return exportCSV(posts)
	case "json":
		return exportJSON(posts)
	default:
		return fmt.Errorf("unknown format: %s (use csv or json)", exportFormat)
	}
}

func exportCSV(posts []database.Post) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{
		"position", "relevance", "reddit_id", "title", "subreddit",
		"permalink", "score", "num_comments", "reason", "created_at",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range posts {
		record := []string{
			fmt.Sprintf("%d", p.Position),
			fmt.Sprintf("%.0f", p.Relevance),
			p.RedditID,
			p.Title,
			p.Subreddit,
			p.Permalink,
			fmt.Sprintf("%d", p.Score),
			fmt.Sprintf("%d", p.NumComments),
			p.Reason,
			p.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func exportJSON(posts []database.Post) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(posts); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
