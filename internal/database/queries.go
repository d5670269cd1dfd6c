package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// CreateRun inserts a new run in the started state.
func (db *DB) CreateRun(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	r.CreatedAt = time.Now()

	query, args, err := builder.
		Insert("runs").
		Columns("id", "label", "posts_found", "posts_ranked", "started_at", "created_at").
		Values(r.ID, r.Label, r.PostsFound, r.PostsRanked, r.StartedAt, r.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, query, args...)
	return err
}

// CompleteRun marks a run finished and records its counters.
func (db *DB) CompleteRun(ctx context.Context, id string, found, ranked int) error {
	now := time.Now()
	query, args, err := builder.
		Update("runs").
		Set("posts_found", found).
		Set("posts_ranked", ranked).
		Set("completed_at", now).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// LatestRun returns the most recently started run, or nil when the store
// is empty.
func (db *DB) LatestRun(ctx context.Context) (*Run, error) {
	query, args, err := builder.
		Select("id", "label", "posts_found", "posts_ranked", "started_at", "completed_at", "created_at").
		From("runs").
		OrderBy("started_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	r := &Run{}
	var completed sql.NullTime
	err = db.QueryRowContext(ctx, query, args...).Scan(
		&r.ID, &r.Label, &r.PostsFound, &r.PostsRanked,
		&r.StartedAt, &completed, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if completed.Valid {
		r.CompletedAt = &completed.Time
	}
	return r, nil
}

// SavePosts stores the ranked posts of a run in one transaction.
// Position follows slice order, starting at 1.
func (db *DB) SavePosts(ctx context.Context, runID string, posts []Post) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		now := time.Now()
		for i := range posts {
			p := &posts[i]
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			p.RunID = runID
			p.Position = i + 1
			p.CreatedAt = now

			query, args, err := builder.
				Insert("posts").
				Columns("id", "run_id", "reddit_id", "title", "subreddit", "permalink",
					"score", "num_comments", "relevance", "rationale", "reason",
					"position", "created_at").
				Values(p.ID, p.RunID, p.RedditID, p.Title, p.Subreddit, p.Permalink,
					p.Score, p.NumComments, p.Relevance, p.Rationale, p.Reason,
					p.Position, p.CreatedAt).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert post %s: %w", p.RedditID, err)
			}
		}
		return nil
	})
}

// SaveSearches stores the search log of a run.
func (db *DB) SaveSearches(ctx context.Context, runID string, searches []Search) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		now := time.Now()
		for i := range searches {
			s := &searches[i]
			if s.ID == "" {
				s.ID = uuid.New().String()
			}
			s.RunID = runID
			s.CreatedAt = now

			query, args, err := builder.
				Insert("searches").
				Columns("id", "run_id", "query", "subreddit", "results", "created_at").
				Values(s.ID, s.RunID, s.Query, s.Subreddit, s.Results, s.CreatedAt).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListPosts retrieves stored posts with optional filters, ordered by run
// position.
func (db *DB) ListPosts(ctx context.Context, opts ListOptions) ([]Post, error) {
	q := builder.
		Select("id", "run_id", "reddit_id", "title", "subreddit", "permalink",
			"score", "num_comments", "relevance", "rationale", "reason",
			"position", "created_at").
		From("posts").
		OrderBy("position ASC")

	if opts.RunID != "" {
		q = q.Where(sq.Eq{"run_id": opts.RunID})
	}
	if opts.Subreddit != "" {
		q = q.Where("LOWER(subreddit) = LOWER(?)", opts.Subreddit)
	}
	if opts.MinRelevance != nil {
		q = q.Where(sq.GtOrEq{"relevance": *opts.MinRelevance})
	}
	if opts.Limit > 0 {
		q = q.Limit(uint64(opts.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(
			&p.ID, &p.RunID, &p.RedditID, &p.Title, &p.Subreddit, &p.Permalink,
			&p.Score, &p.NumComments, &p.Relevance, &p.Rationale, &p.Reason,
			&p.Position, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListSearches retrieves the search log of a run in insertion order.
func (db *DB) ListSearches(ctx context.Context, runID string) ([]Search, error) {
	query, args, err := builder.
		Select("id", "run_id", "query", "subreddit", "results", "created_at").
		From("searches").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("rowid ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []Search
	for rows.Next() {
		var s Search
		if err := rows.Scan(&s.ID, &s.RunID, &s.Query, &s.Subreddit, &s.Results, &s.CreatedAt); err != nil {
			return nil, err
		}
		searches = append(searches, s)
	}
	return searches, rows.Err()
}

// GetStats aggregates store-wide statistics, optionally scoped to a run.
func (db *DB) GetStats(ctx context.Context, runID string) (*Stats, error) {
	stats := &Stats{}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&stats.Runs); err != nil {
		return nil, err
	}

	postsQ := builder.
		Select("COUNT(*)", "COALESCE(AVG(relevance), 0)", "COALESCE(MAX(relevance), 0)").
		From("posts")
	searchesQ := builder.Select("COUNT(*)").From("searches")
	byQ := builder.
		Select("subreddit", "COUNT(*) AS cnt").
		From("posts").
		GroupBy("subreddit").
		OrderBy("cnt DESC", "subreddit ASC")

	if runID != "" {
		postsQ = postsQ.Where(sq.Eq{"run_id": runID})
		searchesQ = searchesQ.Where(sq.Eq{"run_id": runID})
		byQ = byQ.Where(sq.Eq{"run_id": runID})
	}

	query, args, err := postsQ.ToSql()
	if err != nil {
		return nil, err
	}
	if err := db.QueryRowContext(ctx, query, args...).Scan(
		&stats.Posts, &stats.AvgRelevance, &stats.TopRelevance,
	); err != nil {
		return nil, err
	}

	query, args, err = searchesQ.ToSql()
	if err != nil {
		return nil, err
	}
	if err := db.QueryRowContext(ctx, query, args...).Scan(&stats.Searches); err != nil {
		return nil, err
	}

	query, args, err = byQ.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sc SubredditCount
		if err := rows.Scan(&sc.Subreddit, &sc.Count); err != nil {
			return nil, err
		}
		stats.BySubreddit = append(stats.BySubreddit, sc)
	}
	return stats, rows.Err()
}

// DistributionCounts reports, for each threshold, how many stored posts of
// the run scored at or above it.
func (db *DB) DistributionCounts(ctx context.Context, runID string, thresholds []float64) (map[float64]int, error) {
	counts := make(map[float64]int, len(thresholds))
	for _, threshold := range thresholds {
		q := builder.
			Select("COUNT(*)").
			From("posts").
			Where(sq.GtOrEq{"relevance": threshold})
		if runID != "" {
			q = q.Where(sq.Eq{"run_id": runID})
		}

		query, args, err := q.ToSql()
		if err != nil {
			return nil, err
		}

		var count int
		if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
			return nil, err
		}
		counts[threshold] = count
	}
	return counts, nil
}
