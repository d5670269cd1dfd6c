package rank

import (
	"strings"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/post"
)

// Signals captures which keyword categories a post matched and where.
// Counts are distinct phrases matched, not occurrences: a phrase repeated
// ten times in the body still counts once.
type Signals struct {
	TitleMarket    bool
	TitleChristmas bool
	TitleSkiing    bool
	TitleRegion    bool
	TitleTowns     int

	BodyMarket    int
	BodyChristmas bool
	BodySkiing    int
	BodyRegion    int
	BodyTowns     int

	SeasonRef      bool
	Recommendation bool
	OffTopic       int
	Logistics      bool

	Subreddit   string
	NumComments int
	PostScore   int
}

// HasChristmas reports a christmas signal anywhere in the post.
func (s Signals) HasChristmas() bool {
	return s.TitleChristmas || s.BodyChristmas || s.BodyMarket > 0
}

// HasSkiing reports a skiing signal anywhere in the post.
func (s Signals) HasSkiing() bool {
	return s.TitleSkiing || s.BodySkiing > 0
}

// ExtractSignals lowercases the title and body independently and computes
// the per-category hit flags and counts. An absent body simply yields zero
// body hits.
func ExtractSignals(p post.Post, tax config.Taxonomy) Signals {
	title := strings.ToLower(p.Title)
	body := strings.ToLower(p.Selftext)
	combined := title + " " + body

	s := Signals{
		Subreddit:   strings.ToLower(p.Subreddit),
		NumComments: p.NumComments,
		PostScore:   p.Score,
	}

	s.TitleMarket = anyHit(title, tax.ChristmasMarket)
	s.TitleChristmas = s.TitleMarket || anyHit(title, tax.Christmas)
	s.TitleSkiing = anyHit(title, tax.Skiing)
	s.TitleRegion = anyHit(title, tax.AlpineRegion)
	s.TitleTowns = countHits(title, tax.PerfectTowns)

	s.BodyMarket = countHits(body, tax.ChristmasMarket)
	s.BodyChristmas = s.BodyMarket > 0 || anyHit(body, tax.Christmas)
	s.BodySkiing = countHits(body, tax.Skiing)
	s.BodyRegion = countHits(body, tax.AlpineRegion)
	s.BodyTowns = countHits(body, tax.PerfectTowns)

	s.SeasonRef = anyHit(combined, tax.Season)
	s.Recommendation = anyHit(combined, tax.Recommendation)
	s.OffTopic = countHits(combined, tax.OffTopic)
	s.Logistics = anyHit(combined, tax.Logistics)

	return s
}

// countHits returns how many distinct phrases appear in text.
func countHits(text string, phrases []string) int {
	n := 0
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			n++
		}
	}
	return n
}

// anyHit reports whether any phrase appears in text.
func anyHit(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
