// Package crawl_test tests URL normalization.
package crawl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/practicescout/internal/crawl"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"LowercasesSchemeAndHost", "HTTPS://Example.COM/About", "https://example.com/About"},
		{"StripsDefaultHTTPSPort", "https://example.com:443/services", "https://example.com/services"},
		{"StripsDefaultHTTPPort", "http://example.com:80/", "http://example.com"},
		{"KeepsCustomPort", "http://example.com:8080/x", "http://example.com:8080/x"},
		{"DropsFragment", "https://example.com/services#top", "https://example.com/services"},
		{"TrimsTrailingSlash", "https://example.com/services/", "https://example.com/services"},
		{"TrimsRootSlash", "https://example.com/", "https://example.com"},
		{"SortsQueryParams", "https://example.com/p?b=2&a=1", "https://example.com/p?a=1&b=2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := crawl.NormalizeURL(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	once, err := crawl.NormalizeURL("HTTP://Example.com:80/a/b/?z=1&y=2#frag")
	require.NoError(t, err)
	twice, err := crawl.NormalizeURL(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizeURLRejectsGarbage(t *testing.T) {
	_, err := crawl.NormalizeURL("://nope")
	assert.Error(t, err)
}
