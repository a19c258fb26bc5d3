package resolver

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

func entry(code, name string, price int64) entity.CatalogEntry {
	return entity.CatalogEntry{
		Code:       code,
		Name:       name,
		UnitPrice:  decimal.NewFromInt(price),
		TaxRatePct: decimal.NewFromInt(19),
	}
}

func testCatalog() entity.Catalog {
	return entity.Catalog{
		entry("SH001", "Shampoo Herbal", 10000),
		entry("KV001", "Kit Viajero Herbal", 45000),
		entry("SU010", "Suero Capilar Frutal", 32000),
		entry("AC020", "Aceite de Argán", 28000),
		entry("TP030", "Termoprotector Spray", 25000),
	}
}

func TestResolve_ExactCodeAnyCase(t *testing.T) {
	cat := testCatalog()
	r := New(cat, StructuredOptions())
	for _, e := range cat {
		for _, code := range []string{e.Code, strings.ToLower(e.Code), " " + strings.ToUpper(e.Code) + " "} {
			m, ok := r.Resolve(Query{Code: code})
			require.True(t, ok, code)
			assert.Equal(t, e, m.Entry)
			assert.Equal(t, constants.MatchCode, m.Kind)
		}
	}
}

func TestResolve_Tiers(t *testing.T) {
	r := New(testCatalog(), StructuredOptions())
	tests := []struct {
		name     string
		q        Query
		wantCode string
		wantKind constants.MatchKind
	}{
		{"synonym family kit", Query{Text: "Kit viajero"}, "KV001", constants.MatchSynonym},
		{"misspelled family", Query{Text: "champu herbal"}, "SH001", constants.MatchSynonym},
		{"english alias", Query{Text: "serum capilar"}, "SU010", constants.MatchSynonym},
		{"accents folded", Query{Text: "aceite argan"}, "AC020", constants.MatchSynonym},
		{"unknown code falls back to text", Query{Code: "XX1", Text: "termoprotector"}, "TP030", constants.MatchSynonym},
		{"fuzzy typo", Query{Text: "shampu herval"}, "SH001", constants.MatchFuzzy},
		{"partial containment", Query{Text: "qqqq wwww argan"}, "AC020", constants.MatchPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := r.Resolve(tt.q)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, m.Entry.Code)
			assert.Equal(t, tt.wantKind, m.Kind)
		})
	}
}

func TestResolve_NoMatch(t *testing.T) {
	r := New(testCatalog(), StructuredOptions())
	for _, q := range []Query{{}, {Code: "ZZZ999"}, {Text: "   "}, {Text: "xyz"}} {
		_, ok := r.Resolve(q)
		assert.False(t, ok, "%+v", q)
	}

	empty := New(nil, StructuredOptions())
	_, ok := empty.Resolve(Query{Text: "shampoo"})
	assert.False(t, ok)
}

func TestResolve_TieGoesToFirstListed(t *testing.T) {
	cat := entity.Catalog{
		entry("A1", "Gel Fijador", 1000),
		entry("A2", "Gel Fijador Extra", 2000),
	}
	m, ok := New(cat, StructuredOptions()).Resolve(Query{Text: "gel fijador"})
	require.True(t, ok)
	assert.Equal(t, "A1", m.Entry.Code)
}

func TestResolve_AIOptionsAreStricter(t *testing.T) {
	// 2 of 3 significant words hit: 0.67 clears the structured floor only.
	q := Query{Text: "shampoo herbal grande"}
	m, ok := New(testCatalog(), StructuredOptions()).Resolve(q)
	require.True(t, ok)
	assert.Equal(t, constants.MatchSynonym, m.Kind)

	m, ok = New(testCatalog(), AIOptions()).Resolve(q)
	require.True(t, ok)
	assert.NotEqual(t, constants.MatchSynonym, m.Kind)
	assert.Equal(t, "SH001", m.Entry.Code)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("kit", "kit"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.InDelta(t, 0.75, Similarity("gels", "gel"), 1e-9)
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}
