package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{
		"acme/weather/precip-daily",
		"norge.no/population/census",
		"a/b/c",
		"pub-1/ns-2/ds-3",
	}
	for _, id := range valid {
		assert.NoError(t, ValidateIdentifier(id), "id %q", id)
	}

	invalid := []string{
		"",
		"acme",
		"acme/weather",
		"acme/weather/precip/extra",
		"Acme/weather/precip",
		"acme/weather/precip_daily",
		"-acme/weather/precip",
		"acme/weather/precip-",
		"acme/.hidden/precip",
		"acme/weather/",
	}
	for _, id := range invalid {
		err := ValidateIdentifier(id)
		require.Error(t, err, "id %q", id)
		assert.True(t, errors.Is(err, ErrValidation), "id %q should fail validation", id)
	}
}

func TestPublisherSegment(t *testing.T) {
	assert.Equal(t, "acme", PublisherSegment("acme/weather/precip"))
	assert.Equal(t, "norge.no", PublisherSegment("norge.no/population/census"))
	assert.Equal(t, "solo", PublisherSegment("solo"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("bob_2"))
	assert.NoError(t, ValidateUsername("a1"))

	for _, name := range []string{"", "a", "Alice", "-alice", "alice.example", strings.Repeat("a", 31)} {
		err := ValidateUsername(name)
		require.Error(t, err, "username %q", name)
		assert.True(t, errors.Is(err, ErrValidation))
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("longenough"))
	err := ValidatePassword("short")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestValidatePackage(t *testing.T) {
	base := func() *Package {
		return &Package{
			ID:        "acme/weather/precip",
			Version:   "1.0.0",
			Title:     "Precipitation",
			Publisher: Publisher{Name: "Acme"},
			Sources:   []Source{{URL: "https://example.com/data.csv", Format: "csv"}},
		}
	}

	assert.NoError(t, ValidatePackage(base()))

	tests := []struct {
		name   string
		mutate func(*Package)
	}{
		{"bad id", func(p *Package) { p.ID = "not-an-id" }},
		{"missing version", func(p *Package) { p.Version = "" }},
		{"missing title", func(p *Package) { p.Title = "" }},
		{"missing publisher name", func(p *Package) { p.Publisher.Name = "" }},
		{"no sources", func(p *Package) { p.Sources = nil }},
		{"source missing url", func(p *Package) { p.Sources[0].URL = "" }},
		{"source missing format", func(p *Package) { p.Sources[0].Format = "" }},
		{"bad checksum", func(p *Package) { p.Sources[0].Checksum = "sha256-nothex" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := base()
			tt.mutate(pkg)
			err := ValidatePackage(pkg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}

	// A well-formed checksum is accepted.
	pkg := base()
	pkg.Sources[0].Checksum = "sha256:deadbeef"
	assert.NoError(t, ValidatePackage(pkg))
}
