package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/orders-intake/constants"
)

// Bullet is the canonical list marker every bullet variant is rewritten to.
const Bullet = "- "

var (
	reCRLF   = regexp.MustCompile(`\r\n?`)
	reHSpace = regexp.MustCompile(`[\t\f\v\p{Zs}]+`)
	reTag    = regexp.MustCompile(`^\[\s*([^\]]+?)\s*\]\s*(.*)$`)

	// "*" needs trailing space so chat emphasis like "*Juan*" is not a bullet.
	reBullet   = regexp.MustCompile(`^(?:[•·–—\-]+\s*|\*+\s+|\d{1,2}[.)](?:\s+|$))`)
	reEmphasis = regexp.MustCompile(`(^|\s)\*+([^*\s](?:[^*]*[^*\s])?)\*+($|\s|[.,;:!?])`)
)

// Normalize canonicalizes whitespace, section tags and bullet markers.
// Line breaks are kept; runs of blank lines collapse into one.
func Normalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	s = reCRLF.ReplaceAllString(s, "\n")

	var out []string
	blank := false
	emit := func(line string) {
		if line == "" {
			if len(out) > 0 && !blank {
				out = append(out, "")
			}
			blank = true
			return
		}
		out = append(out, line)
		blank = false
	}

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(reHSpace.ReplaceAllString(line, " "))
		line = stripEmphasis(line)
		if m := reTag.FindStringSubmatch(line); m != nil {
			if sec, ok := constants.CanonicalSection(m[1]); ok {
				emit("[" + string(sec) + "]")
				if rest := strings.TrimSpace(m[2]); rest != "" {
					emit(bullet(rest))
				}
				continue
			}
		}
		emit(bullet(line))
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// stripEmphasis unwraps "*bold*" words. Two passes cover adjacent spans that
// share a separating space.
func stripEmphasis(line string) string {
	for i := 0; i < 2; i++ {
		line = reEmphasis.ReplaceAllString(line, "${1}${2}${3}")
	}
	return line
}

func bullet(line string) string {
	loc := reBullet.FindStringIndex(line)
	if loc == nil {
		return line
	}
	rest := strings.TrimSpace(line[loc[1]:])
	if rest == "" {
		return ""
	}
	return Bullet + rest
}

// Fold lower-cases s and strips diacritics ("Champú" -> "champu").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Words folds s and splits it on anything that is not a letter or digit.
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
