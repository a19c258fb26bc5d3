package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/joseph-ayodele/orders-intake/internal/core/normalize"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// Hit is one search result, best first.
type Hit struct {
	Entry entity.CatalogEntry
	Score int
}

type searchSource []string

func (s searchSource) String(i int) string { return s[i] }
func (s searchSource) Len() int            { return len(s) }

// Search ranks catalog entries whose folded "code name" fuzzily contains query.
// limit <= 0 returns every hit.
func Search(c entity.Catalog, query string, limit int) []Hit {
	q := strings.TrimSpace(normalize.Fold(query))
	if q == "" {
		return nil
	}
	src := make(searchSource, len(c))
	for i, e := range c {
		src[i] = normalize.Fold(e.Code + " " + e.Name)
	}
	matches := fuzzy.FindFrom(q, src)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, Hit{Entry: c[m.Index], Score: m.Score})
	}
	return hits
}
