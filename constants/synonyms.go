package constants

// productFamilies maps a canonical product-family keyword to the spellings
// customers use for it. All entries are lower-case and accent-folded.
var productFamilies = map[string][]string{
	"kit":            {"kit", "kits", "combo", "paquete", "set", "estuche"},
	"shampoo":        {"shampoo", "champu", "champoo", "shampo", "champo"},
	"tratamiento":    {"tratamiento", "mascarilla", "mask", "acondicionador"},
	"suero":          {"suero", "serum"},
	"tonico":         {"tonico", "locion"},
	"exfoliante":     {"exfoliante", "scrub", "peeling", "exfoliacion"},
	"crema":          {"crema", "cream", "styling"},
	"aceite":         {"aceite", "oil", "oleo"},
	"gel":            {"gel"},
	"mousse":         {"mousse", "espuma"},
	"spray":          {"spray", "atomizador", "aerosol"},
	"termoprotector": {"termoprotector", "termo", "protector"},
	"cannabis":       {"cannabis", "hemp", "canabis", "canamo"},
	"cafe":           {"cafe", "coffee"},
	"herbal":         {"herbal", "hierbas", "natural"},
	"frutal":         {"frutal", "frutas", "frutales"},
}

var familyIndex = func() map[string]string {
	idx := make(map[string]string)
	for family, words := range productFamilies {
		idx[family] = family
		for _, w := range words {
			idx[w] = family
		}
	}
	return idx
}()

// ProductFamily returns the canonical family keyword for a folded word.
func ProductFamily(word string) (string, bool) {
	f, ok := familyIndex[word]
	return f, ok
}

// FamilySpellings returns every accepted spelling of a family, keyword first.
func FamilySpellings(family string) []string {
	words := productFamilies[family]
	out := make([]string, 0, len(words)+1)
	out = append(out, family)
	for _, w := range words {
		if w != family {
			out = append(out, w)
		}
	}
	return out
}
