package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Reddit.TimeoutSeconds = 0 },
			wantErr: "timeout_seconds",
		},
		{
			name:    "search limit too high",
			mutate:  func(c *Config) { c.Reddit.SearchLimit = 500 },
			wantErr: "search_limit",
		},
		{
			name:    "client id without secret",
			mutate:  func(c *Config) { c.Reddit.ClientID = "abc" },
			wantErr: "client_id",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "empty skiing taxonomy",
			mutate:  func(c *Config) { c.Taxonomy.Skiing = nil },
			wantErr: "taxonomy.skiing",
		},
		{
			name:    "zero top_n",
			mutate:  func(c *Config) { c.Ranking.TopN = 0 },
			wantErr: "top_n",
		},
		{
			name:    "no thresholds",
			mutate:  func(c *Config) { c.Ranking.DistributionThresholds = nil },
			wantErr: "distribution_thresholds",
		},
		{
			name: "unordered comment tiers",
			mutate: func(c *Config) {
				c.Weights.CommentTiers = []Tier{
					{Min: 5, Bonus: 3},
					{Min: 100, Bonus: 15},
				}
			},
			wantErr: "comment_tiers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRedditConfig_Timeout(t *testing.T) {
	cfg := RedditConfig{TimeoutSeconds: 30}
	if got := cfg.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", got)
	}
}

func TestWeights_SubredditBonus(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		subreddit string
		want      float64
	}{
		{"innsbruck", 15},
		{"Innsbruck", 15},
		{"INNSBRUCK", 15},
		{"Europetravel", 5},
		{"skithealps", 15},
		{"unknownsub", 0},
	}

	for _, tt := range tests {
		if got := w.SubredditBonus(tt.subreddit); got != tt.want {
			t.Errorf("SubredditBonus(%q) = %v, want %v", tt.subreddit, got, tt.want)
		}
	}
}

func TestDefaultTaxonomy_LocationsOrdered(t *testing.T) {
	tax := DefaultTaxonomy()

	if len(tax.Locations) == 0 {
		t.Fatal("default taxonomy has no locations")
	}
	// The table starts with the strongest destinations; the first entry is
	// load-bearing for justification ordering.
	if tax.Locations[0].Match != "innsbruck" || tax.Locations[0].Name != "Innsbruck" {
		t.Errorf("Locations[0] = %+v, want innsbruck/Innsbruck", tax.Locations[0])
	}

	// Spelling variants map to one display name.
	names := make(map[string]int)
	for _, loc := range tax.Locations {
		names[loc.Name]++
	}
	if names["Kitzbühel"] != 2 {
		t.Errorf("Kitzbühel variants = %d, want 2", names["Kitzbühel"])
	}
}
