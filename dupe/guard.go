package dupe

import (
	"strings"
)

// Guard suppresses re-publication of recently used titles. It is seeded from
// the platform's recent history at run start and extended after every
// successful publish, which closes the race a platform-side check alone
// would miss during a batch: the platform's own index lags behind uploads.
//
// Mutated only by the sequential orchestration loop, so no locking.
type Guard struct {
	titles map[string]bool
}

// NewGuard returns an empty guard.
func NewGuard() *Guard {
	return &Guard{titles: make(map[string]bool)}
}

// Normalize reduces a title to its comparison form: lowercase, whitespace
// runs collapsed to single spaces, trimmed.
func Normalize(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// Seed adds a batch of titles, normalizing each.
func (g *Guard) Seed(titles []string) {
	for _, t := range titles {
		g.Record(t)
	}
}

// IsDuplicate reports whether title has already been seen.
func (g *Guard) IsDuplicate(title string) bool {
	return g.titles[Normalize(title)]
}

// Record marks a title as used for the rest of the run.
func (g *Guard) Record(title string) {
	g.titles[Normalize(title)] = true
}

// Len returns the number of distinct recorded titles.
func (g *Guard) Len() int {
	return len(g.titles)
}
