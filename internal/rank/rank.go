// Package rank implements the core relevance pipeline: deduplication,
// keyword signal extraction, weighted scoring with rationales, prose
// justification, and top-N selection. It is pure in-memory transformation;
// fetching and persistence live elsewhere.
package rank

import (
	"sort"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/post"
)

// Entry is the public projection of a ranked post. Numeric score and
// rationale stay internal; consumers get the justification.
type Entry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Permalink   string `json:"permalink"`
	Subreddit   string `json:"subreddit"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
	Reason      string `json:"reason"`
}

// Bucket is one distribution row: how many scored posts reached the
// threshold.
type Bucket struct {
	Threshold float64 `json:"threshold"`
	Count     int     `json:"count"`
}

// Distribution summarizes the score spread over the full scored set. It
// is report-only and never affects selection.
type Distribution struct {
	Total   int      `json:"total"`
	Buckets []Bucket `json:"buckets"`
}

// Engine composes the scorer and justifier into the ranking pipeline.
type Engine struct {
	scorer     *Scorer
	justifier  *Justifier
	topN       int
	thresholds []float64
}

// NewEngine builds an Engine from configuration.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		scorer:     NewScorer(cfg.Taxonomy, cfg.Weights),
		justifier:  NewJustifier(cfg.Taxonomy),
		topN:       cfg.Ranking.TopN,
		thresholds: cfg.Ranking.DistributionThresholds,
	}
}

// ScoreAll scores and justifies every post, preserving input order.
func (e *Engine) ScoreAll(posts []post.Post) []ScoredPost {
	scored := make([]ScoredPost, 0, len(posts))
	for _, p := range posts {
		sp := e.scorer.Score(p)
		sp.Reason = e.justifier.Explain(p)
		scored = append(scored, sp)
	}
	return scored
}

// Rank scores the posts, sorts by score descending (stable, so equal
// scores keep their input order), truncates to the configured top-N, and
// reports the distribution over the full scored set. Empty input yields
// an empty selection and zero counts.
func (e *Engine) Rank(posts []post.Post) ([]ScoredPost, Distribution) {
	scored := e.ScoreAll(posts)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	dist := e.distribution(scored)

	if len(scored) > e.topN {
		scored = scored[:e.topN]
	}
	return scored, dist
}

func (e *Engine) distribution(scored []ScoredPost) Distribution {
	dist := Distribution{Total: len(scored)}
	for _, threshold := range e.thresholds {
		count := 0
		for _, sp := range scored {
			if sp.Score >= threshold {
				count++
			}
		}
		dist.Buckets = append(dist.Buckets, Bucket{Threshold: threshold, Count: count})
	}
	return dist
}

// Entries projects ranked posts to their public shape.
func Entries(scored []ScoredPost) []Entry {
	entries := make([]Entry, 0, len(scored))
	for _, sp := range scored {
		entries = append(entries, sp.Entry())
	}
	return entries
}

// Entry projects a scored post to its public shape.
func (sp ScoredPost) Entry() Entry {
	return Entry{
		ID:          sp.Post.ID,
		Title:       sp.Post.Title,
		Permalink:   sp.Post.Permalink,
		Subreddit:   sp.Post.Subreddit,
		Score:       sp.Post.Score,
		NumComments: sp.Post.NumComments,
		Reason:      sp.Reason,
	}
}
