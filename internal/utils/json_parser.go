package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSONObject is returned when no decodable object is found in a reply
var ErrNoJSONObject = errors.New("no JSON object found")

var (
	fencedBlockRe   = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)(\s*:)`)
	controlCharsRe  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseJSONObject extracts the first JSON object from completion output.
// Replies may be pure JSON, fenced in markdown, surrounded by prose, or
// carry the usual model mistakes (trailing commas, bare keys, single quotes).
func ParseJSONObject(input string) (map[string]any, error) {
	input = strings.TrimSpace(strings.TrimPrefix(input, "\ufeff"))
	if input == "" {
		return nil, fmt.Errorf("empty completion: %w", ErrNoJSONObject)
	}

	for _, candidate := range candidates(input) {
		if obj, ok := decodeObject(candidate); ok {
			return obj, nil
		}
		if obj, ok := decodeObject(repair(candidate)); ok {
			return obj, nil
		}
	}

	return nil, fmt.Errorf("%w in %q", ErrNoJSONObject, truncate(input, 80))
}

// candidates lists the substrings worth decoding, most specific first
func candidates(input string) []string {
	out := []string{input}
	if m := fencedBlockRe.FindStringSubmatch(input); len(m) > 1 {
		out = append(out, m[1])
	}
	if start := strings.IndexByte(input, '{'); start >= 0 {
		if obj := balancedObject(input[start:]); obj != "" {
			out = append(out, obj)
		}
	}
	return out
}

func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// balancedObject returns the prefix of s up to the brace closing s[0]
func balancedObject(s string) string {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

func repair(s string) string {
	s = controlCharsRe.ReplaceAllString(s, "")
	s = singleToDoubleQuotes(s)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	return bareKeyRe.ReplaceAllString(s, `$1"$2"$3`)
}

// singleToDoubleQuotes rewrites 'quoted' tokens that open after a JSON
// delimiter. Apostrophes inside words are left alone.
func singleToDoubleQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inDouble := false
	inSingle := false
	var prev byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"' && prev != '\\' && !inSingle:
			inDouble = !inDouble
		case ch == '\'' && !inDouble:
			if inSingle {
				inSingle = false
				ch = '"'
			} else if opensValue(s[:i]) {
				inSingle = true
				ch = '"'
			}
		}
		b.WriteByte(ch)
		prev = s[i]
	}
	return b.String()
}

func opensValue(before string) bool {
	t := strings.TrimRight(before, " \t\r\n")
	if t == "" {
		return true
	}
	switch t[len(t)-1] {
	case '{', '[', ',', ':':
		return true
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
