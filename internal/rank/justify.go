package rank

import (
	"fmt"
	"strings"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/post"
)

// Justifier thresholds for the discussion-volume clause. These mirror the
// comment tiers used by the scorer but the prose is independent of the
// numeric rules.
const (
	volumeHigh     = 40
	volumeModerate = 15
	volumeSome     = 5
)

// maxListedLocations bounds the place-name clause.
const maxListedLocations = 5

// Justifier produces the prose explanation attached to each ranked post.
// It reads the same taxonomy as the scorer but never looks at the numeric
// score, so a justification can be regenerated without rescoring.
type Justifier struct {
	tax config.Taxonomy
}

// NewJustifier creates a Justifier over the given taxonomy.
func NewJustifier(tax config.Taxonomy) *Justifier {
	return &Justifier{tax: tax}
}

// Explain builds the justification: a lead sentence chosen by topical
// precedence, a clause listing matched place names in taxonomy table
// order, and a clause describing discussion volume.
func (j *Justifier) Explain(p post.Post) string {
	combined := strings.ToLower(p.Title + " " + p.Selftext)

	hasMarket := anyHit(combined, j.tax.ChristmasMarket)
	hasChristmas := hasMarket || strings.Contains(combined, "christmas")
	hasSkiing := anyHit(combined, j.tax.Skiing)
	hasAlpine := anyHit(combined, j.tax.AlpineRegion)

	var parts []string

	switch {
	case hasMarket && hasSkiing:
		parts = append(parts, "Directly discusses combining Christmas markets with skiing in the Alps")
	case hasChristmas && hasSkiing:
		parts = append(parts, "Discusses skiing during the Christmas/holiday season")
	case hasMarket:
		parts = append(parts, "Focuses on Christmas markets in Alpine region")
	case hasChristmas:
		parts = append(parts, "Discusses Christmas/holiday season travel in Alpine area")
	case hasSkiing && hasAlpine:
		parts = append(parts, "Discusses Alpine skiing with potential Christmas-season context")
	case hasSkiing:
		parts = append(parts, "Discusses skiing that may include Alpine resort recommendations")
	case hasAlpine:
		parts = append(parts, "Discusses travel in German-speaking Alpine region")
	}

	if locations := j.matchedLocations(combined); len(locations) > 0 {
		parts = append(parts, "mentions "+strings.Join(locations, ", "))
	}

	switch n := p.NumComments; {
	case n >= volumeHigh:
		parts = append(parts, fmt.Sprintf("with %d comments likely containing specific resort and town recommendations", n))
	case n >= volumeModerate:
		parts = append(parts, fmt.Sprintf("with %d comments likely containing useful destination details", n))
	case n >= volumeSome:
		parts = append(parts, fmt.Sprintf("with %d comments that may contain relevant suggestions", n))
	}

	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("Post in r/%s that may contain tangentially relevant discussion", p.Subreddit))
	}

	return strings.Join(parts, ". ") + "."
}

// matchedLocations lists display names for matched places, in the fixed
// order of the location table (not match order, not alphabetical), with
// duplicate names collapsed and the list truncated.
func (j *Justifier) matchedLocations(combined string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, loc := range j.tax.Locations {
		if !strings.Contains(combined, loc.Match) || seen[loc.Name] {
			continue
		}
		seen[loc.Name] = true
		names = append(names, loc.Name)
	}

	if len(names) > maxListedLocations {
		names = names[:maxListedLocations]
	}
	return names
}
