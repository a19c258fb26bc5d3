package resolver

import (
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/core/normalize"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// Options holds the acceptance floors for the text tiers.
type Options struct {
	SynonymThreshold float64 // default constants.SynonymMatchThreshold
	FuzzyFloor       float64 // default constants.FuzzyMatchFloor
}

// StructuredOptions is the floor set used while parsing tagged or classified lines.
func StructuredOptions() Options {
	return Options{SynonymThreshold: constants.SynonymMatchThreshold, FuzzyFloor: constants.FuzzyMatchFloor}
}

// AIOptions is the stricter floor set used to re-resolve completion-service guesses.
func AIOptions() Options {
	return Options{SynonymThreshold: constants.AISynonymMatchThreshold, FuzzyFloor: constants.AIFuzzyMatchFloor}
}

// Query is a product reference: an explicit code, free text, or both.
type Query struct {
	Code string
	Text string
}

// Match is a resolved catalog entry and the tier that found it.
type Match struct {
	Entry entity.CatalogEntry
	Kind  constants.MatchKind
	Score float64
}

type indexed struct {
	entry entity.CatalogEntry
	name  string   // folded
	words []string // folded name words
}

// Resolver matches product references against one catalog snapshot.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	opts    Options
	catalog entity.Catalog
	entries []indexed
}

func New(catalog entity.Catalog, opts Options) *Resolver {
	if opts.SynonymThreshold <= 0 {
		opts.SynonymThreshold = constants.SynonymMatchThreshold
	}
	if opts.FuzzyFloor <= 0 {
		opts.FuzzyFloor = constants.FuzzyMatchFloor
	}
	entries := make([]indexed, 0, len(catalog))
	for _, e := range catalog {
		entries = append(entries, indexed{
			entry: e,
			name:  normalize.Fold(e.Name),
			words: normalize.Words(e.Name),
		})
	}
	return &Resolver{opts: opts, catalog: catalog, entries: entries}
}

// Resolve runs exact code, synonym, fuzzy and partial matching in that order.
// The first tier with a hit wins; ok is false when none clears its floor.
func (r *Resolver) Resolve(q Query) (Match, bool) {
	if e, ok := r.catalog.ByCode(q.Code); ok {
		return Match{Entry: e, Kind: constants.MatchCode, Score: 1}, true
	}

	text := strings.TrimSpace(q.Text)
	if text == "" {
		text = strings.TrimSpace(q.Code)
	}
	if q.Code == "" && !strings.ContainsAny(text, " \t") {
		if e, ok := r.catalog.ByCode(text); ok {
			return Match{Entry: e, Kind: constants.MatchCode, Score: 1}, true
		}
	}
	words := normalize.Words(text)
	if len(words) == 0 || len(r.entries) == 0 {
		return Match{}, false
	}
	if m, ok := r.bySynonym(words); ok {
		return m, true
	}
	if m, ok := r.byFuzzy(words); ok {
		return m, true
	}
	return r.byPartial(words)
}

func (r *Resolver) bySynonym(words []string) (Match, bool) {
	significant := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) > constants.SignificantWordMinLen {
			significant = append(significant, w)
		}
	}
	if len(significant) == 0 {
		return Match{}, false
	}

	best, bestScore := -1, 0.0
	for i, ix := range r.entries {
		hits := 0
		for _, w := range significant {
			if wordInName(w, ix) {
				hits++
			}
		}
		score := float64(hits) / float64(len(significant))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < r.opts.SynonymThreshold {
		return Match{}, false
	}
	return Match{Entry: r.entries[best].entry, Kind: constants.MatchSynonym, Score: bestScore}, true
}

// wordInName: w appears verbatim in the name, or w belongs to a product
// family one of whose spellings is a word of the name.
func wordInName(w string, ix indexed) bool {
	if strings.Contains(ix.name, w) {
		return true
	}
	family, ok := constants.ProductFamily(w)
	if !ok {
		return false
	}
	for _, spelling := range constants.FamilySpellings(family) {
		for _, nw := range ix.words {
			if nw == spelling {
				return true
			}
		}
	}
	return false
}

func (r *Resolver) byFuzzy(words []string) (Match, bool) {
	best, bestScore := -1, 0.0
	for i, ix := range r.entries {
		if len(ix.words) == 0 {
			continue
		}
		total := 0.0
		for _, w := range words {
			top := 0.0
			for _, nw := range ix.words {
				if s := Similarity(w, nw); s > top {
					top = s
				}
			}
			total += top
		}
		score := total / float64(len(words))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore <= r.opts.FuzzyFloor {
		return Match{}, false
	}
	return Match{Entry: r.entries[best].entry, Kind: constants.MatchFuzzy, Score: bestScore}, true
}

func (r *Resolver) byPartial(words []string) (Match, bool) {
	for _, w := range words {
		if utf8.RuneCountInString(w) <= constants.PartialMatchMinWordLen {
			continue
		}
		for _, ix := range r.entries {
			if strings.Contains(ix.name, w) {
				return Match{Entry: ix.entry, Kind: constants.MatchPartial}, true
			}
		}
	}
	return Match{}, false
}

// Similarity is 1 - levenshtein(a, b) / max(len(a), len(b)), counted in runes.
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	d := levenshtein.Distance(a, b, nil)
	return 1 - float64(d)/float64(longest)
}
