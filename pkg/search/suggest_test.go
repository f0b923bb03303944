package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticIdentifiers struct {
	ids []string
	err error
}

func (s staticIdentifiers) DistinctIdentifiers(ctx context.Context) ([]string, error) {
	return s.ids, s.err
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("abc", "abc"))
	assert.Equal(t, 0.0, Similarity("abc", ""))
	assert.Equal(t, 0.0, Similarity("", "abc"))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))

	// "ab" vs "abc": LCS 2, score 2*2/5.
	assert.InDelta(t, 0.8, Similarity("ab", "abc"), 1e-9)

	// Symmetric.
	assert.Equal(t, Similarity("weather", "wether"), Similarity("wether", "weather"))

	// A one-letter typo still scores high.
	assert.Greater(t, Similarity("acme/weather/precip", "acme/wether/precip"), 0.9)
}

func TestSuggestRanking(t *testing.T) {
	suggester := NewSuggester(staticIdentifiers{ids: []string{
		"acme/weather/precip-daily",
		"acme/weather/precip-hourly",
		"acme/ocean/salinity",
		"zzz/zzz/zzz",
	}}, nil)

	resp, err := suggester.Suggest(context.Background(), "acme/weather/precip", 5)
	require.NoError(t, err)
	assert.Equal(t, "acme/weather/precip", resp.Query)
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, "acme/weather/precip-daily", resp.Suggestions[0])
	assert.NotContains(t, resp.Suggestions, "zzz/zzz/zzz")
}

func TestSuggestLexicalTieBreak(t *testing.T) {
	suggester := NewSuggester(staticIdentifiers{ids: []string{
		"pub/data/bbb",
		"pub/data/aaa",
	}}, nil)

	// Equal scores sort lexically.
	resp, err := suggester.Suggest(context.Background(), "pub/data/xxx", 5)
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, []string{"pub/data/aaa", "pub/data/bbb"}, resp.Suggestions)
}

func TestSuggestMaxClamping(t *testing.T) {
	ids := make([]string, 30)
	for i := range ids {
		ids[i] = "pub/data/set" + string(rune('a'+i))
	}
	suggester := NewSuggester(staticIdentifiers{ids: ids}, nil)
	ctx := context.Background()

	resp, err := suggester.Suggest(ctx, "pub/data/set", 100)
	require.NoError(t, err)
	assert.Len(t, resp.Suggestions, 20)

	// Non-positive max selects the default of five.
	resp, err = suggester.Suggest(ctx, "pub/data/set", 0)
	require.NoError(t, err)
	assert.Len(t, resp.Suggestions, 5)
}

func TestSuggestEmptyRegistry(t *testing.T) {
	suggester := NewSuggester(staticIdentifiers{}, nil)
	resp, err := suggester.Suggest(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, resp.Suggestions)
}

func TestSuggestSourceError(t *testing.T) {
	suggester := NewSuggester(staticIdentifiers{err: errors.New("database is locked")}, nil)
	_, err := suggester.Suggest(context.Background(), "anything", 5)
	require.Error(t, err)
}
