package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/postminer/postminer/internal/database"
	"github.com/postminer/postminer/internal/rank"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []rank.ScoredPost:
		return rankedTable(w, v)
	case []rank.Entry:
		return entriesTable(w, v)
	case []database.Post:
		return storedPostsTable(w, v)
	case []database.Run:
		return runsTable(w, v)
	case *database.Stats:
		return statsTable(w, v)
	case rank.Distribution:
		return distributionTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func rankedTable(w io.Writer, scored []rank.ScoredPost) error {
	if len(scored) == 0 {
		fmt.Fprintln(w, "No posts found.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("#", "SCORE", "SUBREDDIT", "TITLE", "COMMENTS")
	for i, sp := range scored {
		if err := table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.0f", sp.Score),
			"r/"+sp.Post.Subreddit,
			truncate(sp.Post.Title, 60),
			fmt.Sprintf("%d", sp.Post.NumComments),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func entriesTable(w io.Writer, entries []rank.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No posts found.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("#", "SUBREDDIT", "TITLE", "COMMENTS", "REASON")
	for i, e := range entries {
		if err := table.Append(
			fmt.Sprintf("%d", i+1),
			"r/"+e.Subreddit,
			truncate(e.Title, 50),
			fmt.Sprintf("%d", e.NumComments),
			truncate(e.Reason, 60),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func storedPostsTable(w io.Writer, posts []database.Post) error {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts found.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("POS", "RELEVANCE", "SUBREDDIT", "TITLE", "COMMENTS")
	for _, p := range posts {
		if err := table.Append(
			fmt.Sprintf("%d", p.Position),
			fmt.Sprintf("%.0f", p.Relevance),
			"r/"+p.Subreddit,
			truncate(p.Title, 60),
			fmt.Sprintf("%d", p.NumComments),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func runsTable(w io.Writer, runs []database.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("ID", "LABEL", "FOUND", "RANKED", "STARTED")
	for _, r := range runs {
		if err := table.Append(
			shortID(r.ID),
			truncate(r.Label, 30),
			fmt.Sprintf("%d", r.PostsFound),
			fmt.Sprintf("%d", r.PostsRanked),
			r.StartedAt.Format("Jan 02 15:04"),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func statsTable(w io.Writer, s *database.Stats) error {
	fmt.Fprintln(w, "Discovery Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Runs:            %d\n", s.Runs)
	fmt.Fprintf(w, "Posts:           %d\n", s.Posts)
	fmt.Fprintf(w, "Searches:        %d\n", s.Searches)

	if s.Posts > 0 {
		fmt.Fprintf(w, "Avg relevance:   %.1f\n", s.AvgRelevance)
		fmt.Fprintf(w, "Top relevance:   %.1f\n", s.TopRelevance)
	}

	if len(s.BySubreddit) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "By subreddit:")
		for _, sc := range s.BySubreddit {
			fmt.Fprintf(w, "  r/%-20s %d\n", sc.Subreddit, sc.Count)
		}
	}

	return nil
}

func distributionTable(w io.Writer, d rank.Distribution) error {
	fmt.Fprintf(w, "Score distribution (%d posts):\n", d.Total)
	for _, b := range d.Buckets {
		fmt.Fprintf(w, "  >= %3.0f: %d\n", b.Threshold, b.Count)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
