package search

import "strings"

// BuildMatchExpression converts a free-text query into a safe FTS5 MATCH
// expression. A token is a maximal run of ASCII letters, digits, or
// underscores; every other rune is a separator. Each token gets prefix-match
// treatment ("token"*) and tokens are OR-joined so partial and multi-word
// queries work naturally.
func BuildMatchExpression(query string) string {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return `""`
	}
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = `"` + tok + `"*`
	}
	return strings.Join(parts, " OR ")
}

// Tokenize splits a query on non-alphanumeric boundaries, discarding empty
// tokens.
func Tokenize(query string) []string {
	return strings.FieldsFunc(query, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == '_':
			return false
		}
		return true
	})
}
