package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTaxonomy reads a YAML taxonomy override file. Only the sets present
// in the file replace their defaults; omitted sets keep the configured
// values, so a retune can swap a single keyword list.
func LoadTaxonomy(path string, base Taxonomy) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var override Taxonomy
	if err := yaml.Unmarshal(data, &override); err != nil {
		return base, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}

	merged := base
	if len(override.ChristmasMarket) > 0 {
		merged.ChristmasMarket = override.ChristmasMarket
	}
	if len(override.Christmas) > 0 {
		merged.Christmas = override.Christmas
	}
	if len(override.Skiing) > 0 {
		merged.Skiing = override.Skiing
	}
	if len(override.AlpineRegion) > 0 {
		merged.AlpineRegion = override.AlpineRegion
	}
	if len(override.PerfectTowns) > 0 {
		merged.PerfectTowns = override.PerfectTowns
	}
	if len(override.OffTopic) > 0 {
		merged.OffTopic = override.OffTopic
	}
	if len(override.Season) > 0 {
		merged.Season = override.Season
	}
	if len(override.Recommendation) > 0 {
		merged.Recommendation = override.Recommendation
	}
	if len(override.Logistics) > 0 {
		merged.Logistics = override.Logistics
	}
	if len(override.Locations) > 0 {
		merged.Locations = override.Locations
	}

	return merged, nil
}
