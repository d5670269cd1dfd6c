package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/ingest"
	"github.com/postminer/postminer/internal/output"
	"github.com/postminer/postminer/internal/post"
	"github.com/postminer/postminer/internal/rank"
)

var (
	rankTop      int
	rankTaxonomy string
	rankScores   bool
)

var rankCmd = &cobra.Command{
	Use:   "rank <file|dir>...",
	Short: "Rank previously captured result files offline",
	Long: `Rank loads posts from captured result files (or directories of
them), deduplicates, scores, and prints the top posts. Nothing is
fetched and nothing is stored.

Examples:
  postminer rank discovery_results.json
  postminer rank captures/                   # every .json/.txt file in the directory
  postminer rank --top=10 a.json b.json
  postminer rank --scores results.json       # include scores and rationales`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().IntVar(&rankTop, "top", 0, "Number of posts to keep (default: configured top_n)")
	rankCmd.Flags().StringVar(&rankTaxonomy, "taxonomy", "", "YAML taxonomy override file")
	rankCmd.Flags().BoolVar(&rankScores, "scores", false, "Include numeric scores and rationales in JSON output")
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if rankTaxonomy != "" {
		tax, err := config.LoadTaxonomy(rankTaxonomy, cfg.Taxonomy)
		if err != nil {
			return err
		}
		cfg.Taxonomy = tax
	}
	if rankTop > 0 {
		cfg.Ranking.TopN = rankTop
	}

	var posts []post.Post
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", arg, err)
		}
		if info.IsDir() {
			loaded, err := ingest.LoadDir(arg)
			if err != nil {
				return err
			}
			posts = append(posts, loaded...)
		} else {
			loaded, err := ingest.LoadFile(arg)
			if err != nil {
				return err
			}
			posts = append(posts, loaded...)
		}
	}

	unique := rank.Deduplicate(posts)
	engine := rank.NewEngine(cfg)
	ranked, dist := engine.Rank(unique)

	if outputFmt == "json" {
		if rankScores {
			return output.JSON(ranked)
		}
		return output.JSON(rank.Entries(ranked))
	}

	fmt.Printf("Loaded %d posts (%d unique), kept top %d\n", len(posts), len(unique), len(ranked))
	fmt.Println()
	if err := output.Table(ranked); err != nil {
		return err
	}
	fmt.Println()
	return output.Table(dist)
}
