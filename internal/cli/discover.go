package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/database"
	"github.com/postminer/postminer/internal/ingest"
	"github.com/postminer/postminer/internal/output"
	"github.com/postminer/postminer/internal/post"
	"github.com/postminer/postminer/internal/rank"
	"github.com/postminer/postminer/internal/reddit"
)

var (
	discoverLabel  string
	discoverInputs []string
	discoverOut    string
	discoverNoSave bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Search Reddit and rank the results",
	Long: `Discover runs every configured query against every configured
subreddit, merges and deduplicates the results, scores each post, and
keeps the top posts by relevance.

The ranked posts and the search log are written to a results file and
recorded in the local database.

Examples:
  postminer discover                        # search with the configured queries
  postminer discover --label="week 48"      # tag the run
  postminer discover --input=capture.json   # merge a captured results file
  postminer discover --no-save              # skip the database, print only`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().StringVar(&discoverLabel, "label", "", "Label for this discovery run")
	discoverCmd.Flags().StringSliceVar(&discoverInputs, "input", nil, "Extra result files to merge before ranking")
	discoverCmd.Flags().StringVar(&discoverOut, "out", "discovery_results.json", "Path for the results file")
	discoverCmd.Flags().BoolVar(&discoverNoSave, "no-save", false, "Do not record the run in the database")
}

// searchLogEntry is one line of the search log in the results file.
type searchLogEntry struct {
	Query     string `json:"query"`
	Subreddit string `json:"subreddit"`
	Results   int    `json:"results"`
}

// discoveryResults is the shape of the results file.
type discoveryResults struct {
	Posts     []rank.Entry     `json:"posts"`
	SearchLog []searchLogEntry `json:"search_log"`
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	var db *database.DB
	var run *database.Run
	if !discoverNoSave {
		db, err = database.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		run = &database.Run{Label: discoverLabel}
		if err := db.CreateRun(ctx, run); err != nil {
			return fmt.Errorf("failed to create run: %w", err)
		}
	}

	client := reddit.New(cfg.Reddit)
	terminal := NewTerminal()

	queries := cfg.Discovery.Queries
	subreddits := cfg.Discovery.Subreddits
	total := len(queries) * len(subreddits)

	fmt.Printf("Searching %d queries across %d subreddits...\n", len(queries), len(subreddits))

	var all []post.Post
	var searchLog []searchLogEntry
	var warnings []error
	done := 0

	for _, subreddit := range subreddits {
		for _, query := range queries {
			done++
			terminal.ClearLine()
			msg := fmt.Sprintf("%s r/%s: %q (%d/%d)", terminal.Spinner(), subreddit, query, done, total)
			if terminal.IsTerminal {
				fmt.Print(terminal.Color(ColorCyan, msg))
			} else {
				fmt.Println(msg)
			}

			posts, err := client.Search(ctx, query, subreddit, cfg.Reddit.SearchLimit)
			if err != nil {
				warnings = append(warnings, fmt.Errorf("r/%s %q: %w", subreddit, query, err))
				continue
			}

			all = append(all, posts...)
			searchLog = append(searchLog, searchLogEntry{
				Query:     query,
				Subreddit: subreddit,
				Results:   len(posts),
			})
		}
	}
	terminal.ClearLine()

	// Merge previously captured result files, if any.
	if len(discoverInputs) > 0 {
		extra, err := ingest.LoadFiles(discoverInputs)
		if err != nil {
			return err
		}
		fmt.Printf("Merged %d posts from %d input file(s)\n", len(extra), len(discoverInputs))
		all = append(all, extra...)
	}

	unique := rank.Deduplicate(all)
	engine := rank.NewEngine(cfg)
	ranked, dist := engine.Rank(unique)

	fmt.Printf("Found %d posts (%d unique), kept top %d\n", len(all), len(unique), len(ranked))
	fmt.Println()
	if err := output.Table(dist); err != nil {
		return err
	}

	results := discoveryResults{
		Posts:     rank.Entries(ranked),
		SearchLog: searchLog,
	}
	if err := writeResults(discoverOut, results); err != nil {
		return err
	}
	fmt.Printf("\nWrote %s\n", discoverOut)

	if db != nil {
		if err := saveRun(ctx, db, run.ID, len(unique), ranked, searchLog); err != nil {
			return err
		}
		fmt.Printf("Recorded run %s\n", run.ID)
	}

	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("Warnings: %d\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("  - %v\n", w)
		}
	}

	return nil
}

func writeResults(path string, results discoveryResults) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	return output.JSONTo(f, results)
}

func saveRun(ctx context.Context, db *database.DB, runID string, found int, ranked []rank.ScoredPost, searchLog []searchLogEntry) error {
	posts := make([]database.Post, 0, len(ranked))
	for _, sp := range ranked {
		posts = append(posts, database.Post{
			RedditID:    sp.Post.ID,
			Title:       sp.Post.Title,
			Subreddit:   sp.Post.Subreddit,
			Permalink:   sp.Post.Permalink,
			Score:       sp.Post.Score,
			NumComments: sp.Post.NumComments,
			Relevance:   sp.Score,
			Rationale:   sp.Rationale(),
			Reason:      sp.Reason,
		})
	}
	if err := db.SavePosts(ctx, runID, posts); err != nil {
		return fmt.Errorf("failed to save posts: %w", err)
	}

	searches := make([]database.Search, 0, len(searchLog))
	for _, s := range searchLog {
		searches = append(searches, database.Search{
			Query:     s.Query,
			Subreddit: s.Subreddit,
			Results:   s.Results,
		})
	}
	if err := db.SaveSearches(ctx, runID, searches); err != nil {
		return fmt.Errorf("failed to save search log: %w", err)
	}

	return db.CompleteRun(ctx, runID, found, len(posts))
}
