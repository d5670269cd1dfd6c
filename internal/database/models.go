package database

import "time"

// Run records one discovery invocation.
type Run struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	PostsFound  int        `json:"posts_found"`
	PostsRanked int        `json:"posts_ranked"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Post is a ranked post as stored for a run. Position is the 1-based rank
// within the run.
type Post struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	RedditID    string    `json:"reddit_id"`
	Title       string    `json:"title"`
	Subreddit   string    `json:"subreddit"`
	Permalink   string    `json:"permalink"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`
	Relevance   float64   `json:"relevance"`
	Rationale   string    `json:"rationale"`
	Reason      string    `json:"reason"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// Search records one executed query/subreddit pair and how many posts it
// returned.
type Search struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Query     string    `json:"query"`
	Subreddit string    `json:"subreddit"`
	Results   int       `json:"results"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOptions contains filters for listing stored posts.
type ListOptions struct {
	RunID        string
	Subreddit    string
	MinRelevance *float64
	Limit        int
}

// SubredditCount is one row of the per-subreddit breakdown.
type SubredditCount struct {
	Subreddit string `json:"subreddit"`
	Count     int    `json:"count"`
}

// Stats aggregates what the store holds.
type Stats struct {
	Runs         int              `json:"runs"`
	Posts        int              `json:"posts"`
	Searches     int              `json:"searches"`
	AvgRelevance float64          `json:"avg_relevance"`
	TopRelevance float64          `json:"top_relevance"`
	BySubreddit  []SubredditCount `json:"by_subreddit"`
}
