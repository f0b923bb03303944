package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"alice"}`))
	var dest struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(r, &dest))
	assert.Equal(t, "alice", dest.Name)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))
	assert.Error(t, ParseJSON(r, &dest))
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=25", nil)
	v, err := ParseQueryInt(r, "limit", 10)
	require.NoError(t, err)
	assert.Equal(t, 25, v)

	v, err = ParseQueryInt(r, "offset", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	r = httptest.NewRequest("GET", "/?limit=lots", nil)
	_, err = ParseQueryInt(r, "limit", 10)
	assert.Error(t, err)
}

func TestParseQueryString(t *testing.T) {
	r := httptest.NewRequest("GET", "/?q=climate", nil)
	assert.Equal(t, "climate", ParseQueryString(r, "q", ""))
	assert.Equal(t, "fallback", ParseQueryString(r, "missing", "fallback"))
}

func TestParseQueryBool(t *testing.T) {
	r := httptest.NewRequest("GET", "/?force=true", nil)
	v, err := ParseQueryBool(r, "force", false)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = ParseQueryBool(r, "missing", false)
	require.NoError(t, err)
	assert.False(t, v)

	r = httptest.NewRequest("GET", "/?force=maybe", nil)
	_, err = ParseQueryBool(r, "force", false)
	assert.Error(t, err)
}
