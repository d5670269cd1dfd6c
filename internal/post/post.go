package post

import "encoding/json"

// Post represents a single Reddit post record as returned by the search
// API or read back from persisted result files. Fields the struct does not
// know about are kept in Extra so a record survives a decode/encode
// round-trip without losing data.
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Domain      string  `json:"domain,omitempty"`
	Permalink   string  `json:"permalink"`
	Selftext    string  `json:"selftext,omitempty"`
	URL         string  `json:"url,omitempty"`
	Author      string  `json:"author,omitempty"`
	Subreddit   string  `json:"subreddit"`
	NSFW        bool    `json:"over_18,omitempty"`
	Created     float64 `json:"created_utc,omitempty"`

	// Extra holds fields outside the known schema, preserved opaquely.
	Extra map[string]json.RawMessage `json:"-"`

	// fieldCount is the number of top-level keys seen at decode time.
	fieldCount int
}

// knownKeys are the JSON keys mapped onto named struct fields.
var knownKeys = map[string]bool{
	"id": true, "title": true, "score": true, "num_comments": true,
	"domain": true, "permalink": true, "selftext": true, "url": true,
	"author": true, "subreddit": true, "over_18": true, "created_utc": true,
}

// postAlias avoids recursing into UnmarshalJSON/MarshalJSON.
type postAlias Post

// UnmarshalJSON decodes the known fields and stashes any unknown keys in
// Extra. The total key count is recorded for richness comparisons.
func (p *Post) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var a postAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Post(a)
	p.fieldCount = len(raw)

	for k, v := range raw {
		if knownKeys[k] {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = v
	}

	return nil
}

// MarshalJSON emits the known fields merged with any preserved extras.
// Known fields win on key collisions.
func (p Post) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(postAlias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Richness measures how much information a record carries: the number of
// populated fields plus the body length. Duplicate records keep the richer
// copy; an absent body counts as empty.
func (p *Post) Richness() int {
	n := p.fieldCount
	if n == 0 {
		n = p.populatedFields()
	}
	return n + len(p.Selftext)
}

// populatedFields counts non-zero fields for posts built in code rather
// than decoded from JSON.
func (p *Post) populatedFields() int {
	n := len(p.Extra)
	if p.ID != "" {
		n++
	}
	if p.Title != "" {
		n++
	}
	if p.Score != 0 {
		n++
	}
	if p.NumComments != 0 {
		n++
	}
	if p.Domain != "" {
		n++
	}
	if p.Permalink != "" {
		n++
	}
	if p.Selftext != "" {
		n++
	}
	if p.URL != "" {
		n++
	}
	if p.Author != "" {
		n++
	}
	if p.Subreddit != "" {
		n++
	}
	if p.NSFW {
		n++
	}
	if p.Created != 0 {
		n++
	}
	return n
}
