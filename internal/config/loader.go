package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file. A missing file yields the
// defaults, so the tool works without any setup.
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.expandPaths(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// expandPath expands ~ to the home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields.
func (c *Config) expandPaths() error {
	var err error
	c.Database.Path, err = expandPath(c.Database.Path)
	return err
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Reddit.TimeoutSeconds < 1 {
		errs = append(errs, errors.New("reddit.timeout_seconds must be at least 1"))
	}
	if c.Reddit.SearchLimit < 1 || c.Reddit.SearchLimit > 100 {
		errs = append(errs, errors.New("reddit.search_limit must be between 1 and 100"))
	}
	if (c.Reddit.ClientID == "") != (c.Reddit.ClientSecret == "") {
		errs = append(errs, errors.New("reddit.client_id and reddit.client_secret must be set together"))
	}

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	if len(c.Taxonomy.ChristmasMarket) == 0 {
		errs = append(errs, errors.New("taxonomy.christmas_market must not be empty"))
	}
	if len(c.Taxonomy.Skiing) == 0 {
		errs = append(errs, errors.New("taxonomy.skiing must not be empty"))
	}
	if len(c.Taxonomy.AlpineRegion) == 0 {
		errs = append(errs, errors.New("taxonomy.alpine_region must not be empty"))
	}

	if c.Ranking.TopN < 1 {
		errs = append(errs, errors.New("ranking.top_n must be at least 1"))
	}
	if len(c.Ranking.DistributionThresholds) == 0 {
		errs = append(errs, errors.New("ranking.distribution_thresholds must not be empty"))
	}

	for i := 1; i < len(c.Weights.CommentTiers); i++ {
		if c.Weights.CommentTiers[i].Min >= c.Weights.CommentTiers[i-1].Min {
			errs = append(errs, errors.New("weights.comment_tiers must be ordered by descending min"))
			break
		}
	}
	for i := 1; i < len(c.Weights.ScoreTiers); i++ {
		if c.Weights.ScoreTiers[i].Min >= c.Weights.ScoreTiers[i-1].Min {
			errs = append(errs, errors.New("weights.score_tiers must be ordered by descending min"))
			break
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates the directories the database lives in.
func (c *Config) EnsureDirectories() error {
	dir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
