package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/datumhub/datumhub/pkg/observability"
)

// Suggestion bounds: cutoff on the 0-1 similarity scale, result count
// clamped to [1, 20].
const (
	suggestCutoff     = 0.4
	suggestDefaultMax = 5
	suggestMaxResults = 20
)

// IdentifierSource yields the set of currently-published package identifiers.
// *registry.Store satisfies it.
type IdentifierSource interface {
	DistinctIdentifiers(ctx context.Context) ([]string, error)
}

// SuggestResponse holds approximate matches for a partial identifier.
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// Suggester ranks live package identifiers by similarity to a partial query.
type Suggester struct {
	source  IdentifierSource
	metrics *observability.Metrics
}

// NewSuggester creates a suggestion engine. metrics may be nil.
func NewSuggester(source IdentifierSource, metrics *observability.Metrics) *Suggester {
	return &Suggester{source: source, metrics: metrics}
}

// Suggest returns up to max identifiers scoring at or above the similarity
// cutoff against query, best first, ties broken lexically. An empty registry
// or no match above the cutoff yields an empty list, not an error.
func (s *Suggester) Suggest(ctx context.Context, query string, max int) (*SuggestResponse, error) {
	if max < 1 {
		max = suggestDefaultMax
	}
	if max > suggestMaxResults {
		max = suggestMaxResults
	}

	ids, err := s.source.DistinctIdentifiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load identifiers: %w", err)
	}

	type scored struct {
		id    string
		score float64
	}
	matches := make([]scored, 0, len(ids))
	for _, id := range ids {
		if score := Similarity(query, id); score >= suggestCutoff {
			matches = append(matches, scored{id: id, score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].id < matches[j].id
	})
	if len(matches) > max {
		matches = matches[:max]
	}

	suggestions := make([]string, len(matches))
	for i, m := range matches {
		suggestions[i] = m.id
	}

	if s.metrics != nil {
		s.metrics.SuggestionsTotal.Inc()
	}
	return &SuggestResponse{Query: query, Suggestions: suggestions}, nil
}

// Similarity is a normalized string-similarity score on [0, 1]: twice the
// length of the longest common subsequence over the total length of both
// strings. Identical strings score 1, disjoint strings 0.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 2 * float64(lcsLength(a, b)) / float64(len(a)+len(b))
}

// lcsLength computes the longest-common-subsequence length with a rolling
// single-row DP table.
func lcsLength(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
