package rank

import (
	"testing"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/post"
)

func newTestScorer() *Scorer {
	return NewScorer(config.DefaultTaxonomy(), config.DefaultWeights())
}

func TestScorer_TitleComboSupersedesIndividualBonuses(t *testing.T) {
	sc := newTestScorer()

	sp := sc.Score(post.Post{
		ID:    "a",
		Title: "Christmas market and skiing in one trip",
	})

	var combo, individual bool
	for _, c := range sp.Contributions {
		switch c.Text {
		case "title combines christmas + skiing":
			combo = true
		case "title mentions christmas", "title mentions skiing":
			individual = true
		}
	}
	if !combo {
		t.Error("expected title combo contribution")
	}
	if individual {
		t.Error("individual title bonuses must not fire alongside the combo")
	}
}

func TestScorer_StrongMatch(t *testing.T) {
	sc := newTestScorer()

	sp := sc.Score(post.Post{
		ID:          "strong",
		Title:       "Christmas market and skiing trip to Innsbruck",
		Subreddit:   "Innsbruck",
		NumComments: 52,
		Score:       15,
	})

	if sp.Score != 88 {
		t.Errorf("Score = %v, want 88", sp.Score)
	}

	want := []Contribution{
		{Text: "title combines christmas + skiing", Points: 45},
		{Text: "title mentions Alpine region", Points: 10},
		{Text: "title mentions 1 specific Alpine town(s)", Points: 8},
		{Text: "relevant subreddit r/innsbruck", Points: 15},
		{Text: "good comment count 52", Points: 10},
	}
	if len(sp.Contributions) != len(want) {
		t.Fatalf("got %d contributions, want %d: %v", len(sp.Contributions), len(want), sp.Contributions)
	}
	for i, c := range sp.Contributions {
		if c != want[i] {
			t.Errorf("contribution[%d] = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestScorer_CrossCombo(t *testing.T) {
	sc := newTestScorer()

	sp := sc.Score(post.Post{
		ID:        "cross",
		Title:     "Christmas in Austria",
		Selftext:  "We want to ski and visit a weihnachtsmarkt",
		Subreddit: "Europetravel",
	})

	// 12 title christmas + 10 title region + 5 body market + 4 body skiing
	// + 20 cross combo + 5 subreddit - 5 very few comments
	if sp.Score != 51 {
		t.Errorf("Score = %v, want 51\nrationale: %s", sp.Score, sp.Rationale())
	}

	found := false
	for _, c := range sp.Contributions {
		if c.Text == "body-level christmas + skiing combo" && c.Points == 20 {
			found = true
		}
	}
	if !found {
		t.Error("expected cross combo contribution")
	}
}

func TestScorer_OffTopicAndNoSignal(t *testing.T) {
	sc := newTestScorer()

	sp := sc.Score(post.Post{
		ID:        "offtopic",
		Title:     "Aspen or Vail this winter",
		Selftext:  "Thinking colorado or utah, maybe tahoe",
		Subreddit: "skiing",
	})

	// 5 subreddit - 5 very few comments - 40 off-topic (capped) - 20 no signal
	if sp.Score != -60 {
		t.Errorf("Score = %v, want -60\nrationale: %s", sp.Score, sp.Rationale())
	}
}

func TestScorer_LogisticsPenalty(t *testing.T) {
	sc := newTestScorer()

	sp := sc.Score(post.Post{
		ID:          "logistics",
		Title:       "What to wear at christmas markets",
		Subreddit:   "travel",
		NumComments: 10,
	})

	// 12 title christmas + 2 subreddit + 3 some comments - 20 logistics
	if sp.Score != -3 {
		t.Errorf("Score = %v, want -3\nrationale: %s", sp.Score, sp.Rationale())
	}
}

func TestScorer_BodyMarketFallback(t *testing.T) {
	w := config.DefaultWeights()

	tests := []struct {
		name       string
		signals    Signals
		wantPoints float64
		wantText   string
		wantFired  bool
	}{
		{
			name:       "market phrases win",
			signals:    Signals{BodyMarket: 2, BodyChristmas: true},
			wantPoints: 10,
			wantText:   "body christmas-market mentions",
			wantFired:  true,
		},
		{
			name:       "market phrases capped",
			signals:    Signals{BodyMarket: 5, BodyChristmas: true},
			wantPoints: 15,
			wantText:   "body christmas-market mentions",
			wantFired:  true,
		},
		{
			name:       "generic christmas fallback",
			signals:    Signals{BodyChristmas: true},
			wantPoints: 4,
			wantText:   "body christmas reference",
			wantFired:  true,
		},
		{
			name:      "no christmas signal",
			signals:   Signals{},
			wantFired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, text, fired := bodyMarketRule(tt.signals, w)
			if fired != tt.wantFired {
				t.Fatalf("fired = %v, want %v", fired, tt.wantFired)
			}
			if !fired {
				return
			}
			if points != tt.wantPoints {
				t.Errorf("points = %v, want %v", points, tt.wantPoints)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestScorer_Caps(t *testing.T) {
	w := config.DefaultWeights()

	tests := []struct {
		name string
		rule scoreRule
		s    Signals
		want float64
	}{
		{"title towns capped", titleTownsRule, Signals{TitleTowns: 4}, 20},
		{"body skiing capped", bodySkiingRule, Signals{BodySkiing: 4}, 12},
		{"body region capped", bodyRegionRule, Signals{BodyRegion: 6}, 15},
		{"body towns capped", bodyTownsRule, Signals{BodyTowns: 5}, 15},
		{"off-topic capped", offTopicRule, Signals{OffTopic: 6}, -40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, _, fired := tt.rule(tt.s, w)
			if !fired {
				t.Fatal("rule did not fire")
			}
			if points != tt.want {
				t.Errorf("points = %v, want %v", points, tt.want)
			}
		})
	}
}

func TestScorer_CommentTiers(t *testing.T) {
	w := config.DefaultWeights()

	tests := []struct {
		comments   int
		wantPoints float64
		wantFired  bool
	}{
		{150, 15, true},
		{100, 15, true},
		{50, 10, true},
		{20, 6, true},
		{7, 3, true},
		{5, 3, true},
		{3, 0, false},
		{2, 0, false},
		{1, -5, true},
		{0, -5, true},
	}

	for _, tt := range tests {
		points, _, fired := commentTierRule(Signals{NumComments: tt.comments}, w)
		if fired != tt.wantFired {
			t.Errorf("comments=%d: fired = %v, want %v", tt.comments, fired, tt.wantFired)
			continue
		}
		if fired && points != tt.wantPoints {
			t.Errorf("comments=%d: points = %v, want %v", tt.comments, points, tt.wantPoints)
		}
	}
}

func TestScorer_RationaleSumsToScore(t *testing.T) {
	sc := newTestScorer()

	posts := []post.Post{
		{ID: "a", Title: "Christmas market and skiing trip to Innsbruck", Subreddit: "Innsbruck", NumComments: 52, Score: 15},
		{ID: "b", Title: "Christmas in Austria", Selftext: "We want to ski and visit a weihnachtsmarkt", Subreddit: "Europetravel"},
		{ID: "c", Title: "Aspen or Vail this winter", Selftext: "Thinking colorado or utah", Subreddit: "skiing"},
		{ID: "d", Title: "hello world", Subreddit: "nowhere"},
		{ID: "e", Title: "Advent market in Salzburg this december", Selftext: "Any tips for the slopes near Salzburg? Looking for gluehwein too.", Subreddit: "Austria", NumComments: 120, Score: 300},
	}

	for _, p := range posts {
		sp := sc.Score(p)
		var sum float64
		for _, c := range sp.Contributions {
			sum += c.Points
		}
		if sum != sp.Score {
			t.Errorf("post %s: contributions sum to %v, score is %v (%s)", p.ID, sum, sp.Score, sp.Rationale())
		}
	}
}

func TestScorer_Deterministic(t *testing.T) {
	sc := newTestScorer()
	p := post.Post{
		ID:          "det",
		Title:       "Christmas market and skiing trip to Innsbruck",
		Selftext:    "december advent gluehwein",
		Subreddit:   "Innsbruck",
		NumComments: 52,
	}

	first := sc.Score(p)
	second := sc.Score(p)

	if first.Score != second.Score {
		t.Errorf("scores differ: %v vs %v", first.Score, second.Score)
	}
	if first.Rationale() != second.Rationale() {
		t.Errorf("rationales differ:\n%s\n%s", first.Rationale(), second.Rationale())
	}
}

func TestScorer_AddingSignalRaisesScore(t *testing.T) {
	sc := newTestScorer()

	base := post.Post{ID: "m", Title: "planning a trip for the family", Subreddit: "travel", NumComments: 10}
	withChristmas := base
	withChristmas.Title = base.Title + " at christmas"

	before := sc.Score(base)
	after := sc.Score(withChristmas)

	if after.Score <= before.Score {
		t.Errorf("adding a christmas keyword did not raise the score: %v -> %v", before.Score, after.Score)
	}
}

func TestContribution_String(t *testing.T) {
	tests := []struct {
		c    Contribution
		want string
	}{
		{Contribution{Text: "title combines christmas + skiing", Points: 45}, "title combines christmas + skiing (+45)"},
		{Contribution{Text: "very few comments 0", Points: -5}, "very few comments 0 (-5)"},
		{Contribution{Text: "off-topic location mentions", Points: -40}, "off-topic location mentions (-40)"},
	}

	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
