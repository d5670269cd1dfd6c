package rank

import "github.com/postminer/postminer/internal/post"

// Deduplicate collapses records sharing an id into one. The first
// occurrence claims the slot; a later occurrence replaces it only when it
// is strictly richer, so ties keep the first-seen record. Output order is
// first-encounter order, which keeps downstream ranking deterministic.
func Deduplicate(posts []post.Post) []post.Post {
	index := make(map[string]int, len(posts))
	out := make([]post.Post, 0, len(posts))

	for _, p := range posts {
		if i, ok := index[p.ID]; ok {
			if p.Richness() > out[i].Richness() {
				out[i] = p
			}
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}

	return out
}
