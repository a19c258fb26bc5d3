package llm

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON means the completion text carried no JSON object.
var ErrNoJSON = errors.New("no json object in completion")

var reFenced = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// ExtractJSON returns the JSON object inside a fenced code block, or else the
// first balanced top-level {...} span of text.
func ExtractJSON(text string) ([]byte, error) {
	if m := reFenced.FindStringSubmatch(text); m != nil {
		if obj, ok := firstObject(m[1]); ok {
			return []byte(obj), nil
		}
	}
	if obj, ok := firstObject(text); ok {
		return []byte(obj), nil
	}
	return nil, ErrNoJSON
}

// firstObject scans for the first balanced object, ignoring braces inside strings.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
