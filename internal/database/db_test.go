package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "postminer-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func TestOpen(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if db == nil {
		t.Fatal("expected non-nil database")
	}

	// Verify tables exist
	for _, table := range []string{"runs", "posts", "searches"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to query tables: %v", err)
		}
		if count != 1 {
			t.Errorf("expected %s table to exist", table)
		}
	}
}

func TestRunLifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	run := &Run{Label: "first run"}
	if err := db.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if run.ID == "" {
		t.Error("expected ID to be set after create")
	}

	latest, err := db.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if latest == nil || latest.ID != run.ID {
		t.Fatalf("LatestRun = %+v, want run %s", latest, run.ID)
	}
	if latest.CompletedAt != nil {
		t.Error("expected a fresh run to be incomplete")
	}

	if err := db.CompleteRun(ctx, run.ID, 120, 60); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}

	latest, err = db.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if latest.PostsFound != 120 || latest.PostsRanked != 60 {
		t.Errorf("counters = %d/%d, want 120/60", latest.PostsFound, latest.PostsRanked)
	}
	if latest.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
}

func TestCompleteRun_Missing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.CompleteRun(context.Background(), "no-such-run", 1, 1); err == nil {
		t.Error("expected error for unknown run, got nil")
	}
}

func TestLatestRun_Empty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	run, err := db.LatestRun(context.Background())
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if run != nil {
		t.Errorf("LatestRun = %+v, want nil for empty store", run)
	}
}

func TestSaveAndListPosts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	run := &Run{Label: "posts"}
	if err := db.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	posts := []Post{
		{RedditID: "aaa", Title: "strongest", Subreddit: "Innsbruck", Relevance: 88, NumComments: 52, Reason: "r1"},
		{RedditID: "bbb", Title: "middle", Subreddit: "skiing", Relevance: 31, NumComments: 20, Reason: "r2"},
		{RedditID: "ccc", Title: "weakest", Subreddit: "travel", Relevance: -25, Reason: "r3"},
	}
	if err := db.SavePosts(ctx, run.ID, posts); err != nil {
		t.Fatalf("SavePosts failed: %v", err)
	}

	listed, err := db.ListPosts(ctx, ListOptions{RunID: run.ID})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("got %d posts, want 3", len(listed))
	}
	// Position follows save order, 1-based.
	for i, p := range listed {
		if p.Position != i+1 {
			t.Errorf("listed[%d].Position = %d, want %d", i, p.Position, i+1)
		}
	}
	if listed[0].RedditID != "aaa" {
		t.Errorf("listed[0].RedditID = %q, want aaa", listed[0].RedditID)
	}

	// Subreddit filter is case-insensitive.
	bySub, err := db.ListPosts(ctx, ListOptions{RunID: run.ID, Subreddit: "innsbruck"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(bySub) != 1 || bySub[0].RedditID != "aaa" {
		t.Errorf("subreddit filter returned %v, want only aaa", bySub)
	}

	// Relevance floor.
	floor := 30.0
	strong, err := db.ListPosts(ctx, ListOptions{RunID: run.ID, MinRelevance: &floor})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(strong) != 2 {
		t.Errorf("min-relevance filter returned %d posts, want 2", len(strong))
	}

	// Limit.
	limited, err := db.ListPosts(ctx, ListOptions{RunID: run.ID, Limit: 1})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit filter returned %d posts, want 1", len(limited))
	}
}

func TestSaveAndListSearches(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	run := &Run{Label: "searches"}
	if err := db.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	searches := []Search{
		{Query: "christmas market skiing", Subreddit: "travel", Results: 25},
		{Query: "ski trip Austria December", Subreddit: "Austria", Results: 12},
	}
	if err := db.SaveSearches(ctx, run.ID, searches); err != nil {
		t.Fatalf("SaveSearches failed: %v", err)
	}

	listed, err := db.ListSearches(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListSearches failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d searches, want 2", len(listed))
	}
	if listed[0].Query != "christmas market skiing" || listed[1].Results != 12 {
		t.Errorf("searches = %+v, want insertion order preserved", listed)
	}
}

func TestGetStats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	run := &Run{Label: "stats"}
	if err := db.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	posts := []Post{
		{RedditID: "a", Title: "t1", Subreddit: "Austria", Relevance: 80},
		{RedditID: "b", Title: "t2", Subreddit: "Austria", Relevance: 40},
		{RedditID: "c", Title: "t3", Subreddit: "travel", Relevance: 30},
	}
	if err := db.SavePosts(ctx, run.ID, posts); err != nil {
		t.Fatalf("SavePosts failed: %v", err)
	}
	if err := db.SaveSearches(ctx, run.ID, []Search{{Query: "q", Subreddit: "travel", Results: 3}}); err != nil {
		t.Fatalf("SaveSearches failed: %v", err)
	}

	stats, err := db.GetStats(ctx, "")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.Runs != 1 || stats.Posts != 3 || stats.Searches != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/3/1", stats.Runs, stats.Posts, stats.Searches)
	}
	if stats.AvgRelevance != 50 {
		t.Errorf("AvgRelevance = %v, want 50", stats.AvgRelevance)
	}
	if stats.TopRelevance != 80 {
		t.Errorf("TopRelevance = %v, want 80", stats.TopRelevance)
	}
	if len(stats.BySubreddit) != 2 || stats.BySubreddit[0].Subreddit != "Austria" || stats.BySubreddit[0].Count != 2 {
		t.Errorf("BySubreddit = %+v, want Austria first with 2 posts", stats.BySubreddit)
	}
}

func TestDistributionCounts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	run := &Run{Label: "dist"}
	if err := db.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	posts := []Post{
		{RedditID: "a", Title: "t", Subreddit: "s", Relevance: 105},
		{RedditID: "b", Title: "t", Subreddit: "s", Relevance: 55},
		{RedditID: "c", Title: "t", Subreddit: "s", Relevance: -10},
	}
	if err := db.SavePosts(ctx, run.ID, posts); err != nil {
		t.Fatalf("SavePosts failed: %v", err)
	}

	counts, err := db.DistributionCounts(ctx, run.ID, []float64{100, 40, 0})
	if err != nil {
		t.Fatalf("DistributionCounts failed: %v", err)
	}

	want := map[float64]int{100: 1, 40: 2, 0: 2}
	for threshold, n := range want {
		if counts[threshold] != n {
			t.Errorf("counts[%v] = %d, want %d", threshold, counts[threshold], n)
		}
	}
}
