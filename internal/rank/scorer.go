package rank

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/post"
)

// Contribution is one fired scoring rule: a description and its signed
// point value.
type Contribution struct {
	Text   string  `json:"text"`
	Points float64 `json:"points"`
}

// String renders the contribution the way it appears in a rationale,
// e.g. "title mentions skiing (+10)".
func (c Contribution) String() string {
	abs := strconv.FormatFloat(math.Abs(c.Points), 'f', -1, 64)
	if c.Points < 0 {
		return fmt.Sprintf("%s (-%s)", c.Text, abs)
	}
	return fmt.Sprintf("%s (+%s)", c.Text, abs)
}

// ScoredPost is a post with its relevance score, the contributions that
// produced it, and (once the engine has run) a prose justification.
type ScoredPost struct {
	Post          post.Post
	Score         float64
	Contributions []Contribution
	Reason        string
}

// Rationale joins the fired contributions in evaluation order. The signed
// values always sum back to Score.
func (sp ScoredPost) Rationale() string {
	parts := make([]string, len(sp.Contributions))
	for i, c := range sp.Contributions {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}

// scoreRule evaluates one rule against the extracted signals. It returns
// the signed points, the rationale text, and whether the rule fired.
// Rules run unconditionally in list order; exclusions between rules are
// expressed through the signals each rule inspects, which keeps the
// precedence auditable in one place.
type scoreRule func(s Signals, w config.Weights) (float64, string, bool)

// scoreRules is the rule list in evaluation (and rationale) order.
var scoreRules = []scoreRule{
	titleComboRule,
	titleChristmasRule,
	titleSkiingRule,
	titleRegionRule,
	titleTownsRule,
	bodyMarketRule,
	seasonRule,
	bodySkiingRule,
	crossComboRule,
	bodyRegionRule,
	bodyTownsRule,
	subredditRule,
	commentTierRule,
	recommendationRule,
	offTopicRule,
	logisticsRule,
	noSignalRule,
	postScoreRule,
}

// Scorer turns a post into a deterministic (score, rationale) pair.
type Scorer struct {
	tax     config.Taxonomy
	weights config.Weights
}

// NewScorer creates a Scorer for the given taxonomy and weights.
func NewScorer(tax config.Taxonomy, weights config.Weights) *Scorer {
	return &Scorer{tax: tax, weights: weights}
}

// Score evaluates every rule against the post. It is a pure function: the
// same post always yields the same score and contributions.
func (sc *Scorer) Score(p post.Post) ScoredPost {
	s := ExtractSignals(p, sc.tax)

	sp := ScoredPost{Post: p}
	for _, rule := range scoreRules {
		points, text, fired := rule(s, sc.weights)
		if !fired {
			continue
		}
		sp.Score += points
		sp.Contributions = append(sp.Contributions, Contribution{Text: text, Points: points})
	}

	return sp
}

// capped returns count*each bounded by cap.
func capped(count int, each, cap float64) float64 {
	bonus := float64(count) * each
	if bonus > cap {
		return cap
	}
	return bonus
}

// Titles carrying both topics are the strongest possible signal and
// replace the two individual title bonuses.
func titleComboRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.TitleChristmas && s.TitleSkiing {
		return w.TitleCombo, "title combines christmas + skiing", true
	}
	return 0, "", false
}

func titleChristmasRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.TitleChristmas && !s.TitleSkiing {
		return w.TitleChristmas, "title mentions christmas", true
	}
	return 0, "", false
}

func titleSkiingRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.TitleSkiing && !s.TitleChristmas {
		return w.TitleSkiing, "title mentions skiing", true
	}
	return 0, "", false
}

func titleRegionRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.TitleRegion {
		return w.TitleRegion, "title mentions Alpine region", true
	}
	return 0, "", false
}

func titleTownsRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.TitleTowns > 0 {
		bonus := capped(s.TitleTowns, w.TitleTownEach, w.TitleTownCap)
		return bonus, fmt.Sprintf("title mentions %d specific Alpine town(s)", s.TitleTowns), true
	}
	return 0, "", false
}

// Market phrases in the body earn the capped per-hit bonus; a body that
// only has a generic christmas reference falls back to the flat bonus.
func bodyMarketRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.BodyMarket > 0 {
		bonus := capped(s.BodyMarket, w.BodyMarketEach, w.BodyMarketCap)
		return bonus, "body christmas-market mentions", true
	}
	if s.BodyChristmas {
		return w.BodyChristmas, "body christmas reference", true
	}
	return 0, "", false
}

func seasonRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.SeasonRef {
		return w.SeasonRef, "december/advent reference", true
	}
	return 0, "", false
}

func bodySkiingRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.BodySkiing > 0 {
		bonus := capped(s.BodySkiing, w.BodySkiingEach, w.BodySkiingCap)
		return bonus, "body skiing mentions", true
	}
	return 0, "", false
}

// Both topics present anywhere, unless the title combo already paid.
func crossComboRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.HasChristmas() && s.HasSkiing() && !(s.TitleChristmas && s.TitleSkiing) {
		return w.CrossCombo, "body-level christmas + skiing combo", true
	}
	return 0, "", false
}

func bodyRegionRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.BodyRegion > 0 {
		bonus := capped(s.BodyRegion, w.BodyRegionEach, w.BodyRegionCap)
		return bonus, "body Alpine references", true
	}
	return 0, "", false
}

func bodyTownsRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.BodyTowns > 0 {
		bonus := capped(s.BodyTowns, w.BodyTownEach, w.BodyTownCap)
		return bonus, fmt.Sprintf("body mentions %d specific town(s)", s.BodyTowns), true
	}
	return 0, "", false
}

func subredditRule(s Signals, w config.Weights) (float64, string, bool) {
	if bonus := w.SubredditBonus(s.Subreddit); bonus != 0 {
		return bonus, fmt.Sprintf("relevant subreddit r/%s", s.Subreddit), true
	}
	return 0, "", false
}

// Tiers are mutually exclusive: the highest tier reached wins, and posts
// with almost no discussion are penalized instead.
func commentTierRule(s Signals, w config.Weights) (float64, string, bool) {
	for _, tier := range w.CommentTiers {
		if s.NumComments >= tier.Min {
			return tier.Bonus, fmt.Sprintf("%s %d", tier.Label, s.NumComments), true
		}
	}
	if s.NumComments <= w.LowCommentMax {
		return -w.LowCommentPenalty, fmt.Sprintf("very few comments %d", s.NumComments), true
	}
	return 0, "", false
}

func recommendationRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.Recommendation {
		return w.Recommendation, "recommendation/discussion pattern", true
	}
	return 0, "", false
}

func offTopicRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.OffTopic > 0 {
		penalty := capped(s.OffTopic, w.OffTopicEach, w.OffTopicCap)
		return -penalty, "off-topic location mentions", true
	}
	return 0, "", false
}

func logisticsRule(s Signals, w config.Weights) (float64, string, bool) {
	if s.Logistics {
		return -w.Logistics, "logistics-only post", true
	}
	return 0, "", false
}

func noSignalRule(s Signals, w config.Weights) (float64, string, bool) {
	if !s.HasChristmas() && !s.HasSkiing() && !s.TitleRegion && s.BodyRegion == 0 {
		return -w.NoSignal, "no relevant topic signals", true
	}
	return 0, "", false
}

func postScoreRule(s Signals, w config.Weights) (float64, string, bool) {
	for _, tier := range w.ScoreTiers {
		if s.PostScore >= tier.Min {
			return tier.Bonus, fmt.Sprintf("%s %d", tier.Label, s.PostScore), true
		}
	}
	return 0, "", false
}
