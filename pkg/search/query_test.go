package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"climate", []string{"climate"}},
		{"climate data", []string{"climate", "data"}},
		{"acme/weather/precip-daily", []string{"acme", "weather", "precip", "daily"}},
		{"snake_case stays", []string{"snake_case", "stays"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"'); DROP TABLE packages; --", []string{"DROP", "TABLE", "packages"}},
		{"", nil},
		{"!!!", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.query), "query %q", tt.query)
	}
}

func TestBuildMatchExpression(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"climate", `"climate"*`},
		{"climate data", `"climate"* OR "data"*`},
		{"precip-daily", `"precip"* OR "daily"*`},
		{"", `""`},
		{"?!", `""`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildMatchExpression(tt.query), "query %q", tt.query)
	}
}
