package config

import (
	"strings"
	"time"
)

// Config represents the application configuration.
type Config struct {
	Reddit    RedditConfig    `toml:"reddit"`
	Database  DatabaseConfig  `toml:"database"`
	Discovery DiscoveryConfig `toml:"discovery"`
	Taxonomy  Taxonomy        `toml:"taxonomy"`
	Weights   Weights         `toml:"weights"`
	Ranking   RankingConfig   `toml:"ranking"`
}

// RedditConfig contains settings for the Reddit search client.
type RedditConfig struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	SearchLimit    int    `toml:"search_limit"`
	// Optional OAuth app credentials. When set, requests go through
	// oauth.reddit.com instead of the public JSON endpoints.
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Timeout returns the HTTP timeout as a duration.
func (r RedditConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// DiscoveryConfig defines what the discover command searches for.
// Every query runs against every subreddit.
type DiscoveryConfig struct {
	Queries    []string `toml:"queries"`
	Subreddits []string `toml:"subreddits"`
}

// Location pairs a lowercase match phrase with the display name used in
// justifications. The slice order is the order names are listed in, so it
// is part of observable behavior.
type Location struct {
	Match string `toml:"match" yaml:"match"`
	Name  string `toml:"name" yaml:"name"`
}

// Taxonomy holds the categorized keyword sets the scorer matches against.
// All phrases are lowercase; matching is case-insensitive substring
// containment.
type Taxonomy struct {
	ChristmasMarket []string `toml:"christmas_market" yaml:"christmas_market"`
	Christmas       []string `toml:"christmas" yaml:"christmas"`
	Skiing          []string `toml:"skiing" yaml:"skiing"`
	AlpineRegion    []string `toml:"alpine_region" yaml:"alpine_region"`
	PerfectTowns    []string `toml:"perfect_towns" yaml:"perfect_towns"`
	OffTopic        []string `toml:"off_topic" yaml:"off_topic"`
	Season          []string `toml:"season" yaml:"season"`
	Recommendation  []string `toml:"recommendation" yaml:"recommendation"`
	Logistics       []string `toml:"logistics" yaml:"logistics"`

	Locations []Location `toml:"locations" yaml:"locations"`
}

// Tier is one count tier: tiers are checked top-down and the first tier
// whose Min the count reaches wins.
type Tier struct {
	Min   int     `toml:"min"`
	Bonus float64 `toml:"bonus"`
	Label string  `toml:"label"`
}

// Weights holds every scoring constant. Defaults reproduce the tuning the
// taxonomy was calibrated with; retuning happens here, not in code.
type Weights struct {
	TitleCombo     float64 `toml:"title_combo"`
	TitleChristmas float64 `toml:"title_christmas"`
	TitleSkiing    float64 `toml:"title_skiing"`
	TitleRegion    float64 `toml:"title_region"`
	TitleTownEach  float64 `toml:"title_town_each"`
	TitleTownCap   float64 `toml:"title_town_cap"`

	BodyMarketEach float64 `toml:"body_market_each"`
	BodyMarketCap  float64 `toml:"body_market_cap"`
	BodyChristmas  float64 `toml:"body_christmas"`
	SeasonRef      float64 `toml:"season_ref"`
	BodySkiingEach float64 `toml:"body_skiing_each"`
	BodySkiingCap  float64 `toml:"body_skiing_cap"`
	CrossCombo     float64 `toml:"cross_combo"`
	BodyRegionEach float64 `toml:"body_region_each"`
	BodyRegionCap  float64 `toml:"body_region_cap"`
	BodyTownEach   float64 `toml:"body_town_each"`
	BodyTownCap    float64 `toml:"body_town_cap"`

	// Subreddits maps lowercase subreddit names to a flat bonus.
	Subreddits map[string]float64 `toml:"subreddits"`

	CommentTiers      []Tier  `toml:"comment_tiers"`
	LowCommentMax     int     `toml:"low_comment_max"`
	LowCommentPenalty float64 `toml:"low_comment_penalty"`

	Recommendation float64 `toml:"recommendation"`
	OffTopicEach   float64 `toml:"off_topic_each"`
	OffTopicCap    float64 `toml:"off_topic_cap"`
	Logistics      float64 `toml:"logistics"`
	NoSignal       float64 `toml:"no_signal"`

	ScoreTiers []Tier `toml:"score_tiers"`
}

// SubredditBonus looks up the bonus for a subreddit, case-insensitively.
// Unknown subreddits contribute 0.
func (w Weights) SubredditBonus(name string) float64 {
	return w.Subreddits[strings.ToLower(name)]
}

// RankingConfig controls selection and reporting.
type RankingConfig struct {
	TopN                   int       `toml:"top_n"`
	DistributionThresholds []float64 `toml:"distribution_thresholds"`
}

// Default returns a Config with the calibrated defaults.
func Default() *Config {
	return &Config{
		Reddit: RedditConfig{
			UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
			TimeoutSeconds: 30,
			SearchLimit:    25,
		},
		Database: DatabaseConfig{
			Path: "~/.local/share/postminer/postminer.db",
		},
		Discovery: DiscoveryConfig{
			Queries: []string{
				"christmas market skiing",
				"christmas market near ski resort alps",
				"ski trip Austria December",
				"advent market alpine town",
				"Innsbruck christmas market",
				"Salzburg christmas market skiing",
			},
			Subreddits: []string{
				"Europetravel", "travel", "solotravel", "skiing",
				"FATTravel", "chubbytravel", "skithealps", "germany",
				"Austria", "Innsbruck",
			},
		},
		Taxonomy: DefaultTaxonomy(),
		Weights:  DefaultWeights(),
		Ranking: RankingConfig{
			TopN:                   60,
			DistributionThresholds: []float64{100, 80, 60, 40, 20, 0},
		},
	}
}

// DefaultTaxonomy returns the keyword sets for the Alpine
// christmas-market-plus-skiing query.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		ChristmasMarket: []string{
			"christmas market", "xmas market", "weihnachtsmarkt",
			"christkindlmarkt", "christkindlesmarkt", "advent market",
			"adventmarkt", "christmas village", "holiday market",
			"festive market", "winter market", "gluehwein", "mulled wine",
			"seasonal festivit", "christmas bazaar",
		},
		Christmas: []string{"christmas", "xmas", "weihnacht"},
		Skiing: []string{
			"ski", "skiing", "ski resort", "ski trip", "ski holiday",
			"ski vacation", "slopes", "piste", "apres-ski", "apres ski",
			"snowboard", "lift pass", "ski pass", "cross country ski",
			"cross-country ski",
		},
		AlpineRegion: []string{
			"austria", "austrian", "tirol", "tyrol", "innsbruck", "salzburg",
			"kitzbühel", "kitzbuhel", "kitzbuehel", "zell am see",
			"st. anton", "st anton", "lech", "mayrhofen", "ischgl",
			"bad gastein", "saalbach", "hinterglemm", "stubai",
			"bavaria", "bavarian", "garmisch", "partenkirchen", "zugspitze",
			"munich", "berchtesgaden", "oberstdorf",
			"south tyrol", "alto adige", "bolzano", "merano", "meran",
			"bressanone", "brixen", "vipiteno", "sterzing", "dolomites",
			"switzerland", "swiss", "davos", "st. moritz", "st moritz",
			"grindelwald", "zermatt", "verbier", "jungfrau", "engadin",
			"alps", "alpine",
		},
		PerfectTowns: []string{
			"innsbruck", "salzburg", "kitzbühel", "kitzbuhel", "garmisch",
			"bolzano", "merano", "berchtesgaden", "hall in tirol",
			"bressanone", "brixen", "vipiteno", "sterzing", "seefeld",
			"kufstein", "bad reichenhall", "zell am see",
		},
		OffTopic: []string{
			"colorado", "utah", "vermont", "montana", "wyoming", "tahoe",
			"whistler", "japan", "niseko", "jackson hole", "aspen", "vail",
			"park city", "mammoth", "big sky", "steamboat", "telluride",
			"breckenridge", "keystone",
		},
		Season: []string{"december", "dezember", "advent"},
		Recommendation: []string{
			"recommend", "suggestion", "itinerary", "trip report", "advice",
			"help plan", "where to", "best place", "which resort",
			"looking for", "any tips", "ideas for", "options for",
			"what to do",
		},
		Logistics: []string{"apple pay", "what to wear", "what to buy"},
		Locations: []Location{
			{Match: "innsbruck", Name: "Innsbruck"},
			{Match: "salzburg", Name: "Salzburg"},
			{Match: "kitzbühel", Name: "Kitzbühel"},
			{Match: "kitzbuhel", Name: "Kitzbühel"},
			{Match: "garmisch", Name: "Garmisch"},
			{Match: "austria", Name: "Austria"},
			{Match: "tirol", Name: "Tyrol"},
			{Match: "tyrol", Name: "Tyrol"},
			{Match: "bolzano", Name: "Bolzano"},
			{Match: "merano", Name: "Merano"},
			{Match: "bavaria", Name: "Bavaria"},
			{Match: "munich", Name: "Munich"},
			{Match: "ischgl", Name: "Ischgl"},
			{Match: "st. anton", Name: "St. Anton"},
			{Match: "st anton", Name: "St. Anton"},
			{Match: "lech", Name: "Lech"},
			{Match: "stubai", Name: "Stubai"},
			{Match: "dolomites", Name: "Dolomites"},
			{Match: "south tyrol", Name: "South Tyrol"},
			{Match: "zell am see", Name: "Zell am See"},
			{Match: "saalbach", Name: "Saalbach"},
			{Match: "davos", Name: "Davos"},
			{Match: "st. moritz", Name: "St. Moritz"},
			{Match: "st moritz", Name: "St. Moritz"},
			{Match: "switzerland", Name: "Switzerland"},
		},
	}
}

// DefaultWeights returns the calibrated scoring constants.
func DefaultWeights() Weights {
	return Weights{
		TitleCombo:     45,
		TitleChristmas: 12,
		TitleSkiing:    10,
		TitleRegion:    10,
		TitleTownEach:  8,
		TitleTownCap:   20,

		BodyMarketEach: 5,
		BodyMarketCap:  15,
		BodyChristmas:  4,
		SeasonRef:      3,
		BodySkiingEach: 4,
		BodySkiingCap:  12,
		CrossCombo:     20,
		BodyRegionEach: 3,
		BodyRegionCap:  15,
		BodyTownEach:   4,
		BodyTownCap:    15,

		Subreddits: map[string]float64{
			"skithealps": 15, "austria": 12, "innsbruck": 15,
			"europetravel": 5, "germany": 8, "fattravel": 4,
			"chubbytravel": 4, "travel": 2, "solotravel": 2, "skiing": 5,
		},

		CommentTiers: []Tier{
			{Min: 100, Bonus: 15, Label: "high comment count"},
			{Min: 40, Bonus: 10, Label: "good comment count"},
			{Min: 15, Bonus: 6, Label: "moderate comments"},
			{Min: 5, Bonus: 3, Label: "some comments"},
		},
		LowCommentMax:     1,
		LowCommentPenalty: 5,

		Recommendation: 5,
		OffTopicEach:   10,
		OffTopicCap:    40,
		Logistics:      20,
		NoSignal:       20,

		ScoreTiers: []Tier{
			{Min: 100, Bonus: 5, Label: "high reddit score"},
			{Min: 20, Bonus: 2, Label: "decent reddit score"},
		},
	}
}
