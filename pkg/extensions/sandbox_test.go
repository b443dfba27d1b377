package extensions

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUrlMatchesPattern(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		pattern string
		want    bool
	}{
		{"exact match", "https://api.example.com/endpoint", "https://api.example.com/endpoint", true},
		{"wildcard path", "https://api.example.com/data/123", "https://api.example.com/*", true},
		{"wildcard subdomain matches subdomain", "https://v2.example.com/x", "https://*.example.com/*", true},
		{"wildcard subdomain rejects apex", "https://example.com/x", "https://*.example.com/*", false},
		{"domain only matches all paths", "https://example.com/anything", "https://example.com", true},
		{"scheme mismatch rejected", "http://api.example.com/x", "https://api.example.com/*", false},
		{"host mismatch rejected", "https://evil.com/x", "https://api.ok.com/*", false},
		{"exact path ignores one trailing slash", "https://api.example.com/endpoint/", "https://api.example.com/endpoint", true},
		{"exact path rejects different path", "https://api.example.com/other", "https://api.example.com/endpoint", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, urlMatchesPattern(tt.target, tt.pattern))
		})
	}
}

func TestMatchAllowList_NoPermissions(t *testing.T) {
	allowed, reason := matchAllowList(nil, "https://api.ok.com/x", "GET")
	assert.False(t, allowed)
	assert.Equal(t, "No network permissions defined in manifest", reason)
}

func TestMatchAllowList_DeniedURL(t *testing.T) {
	perms := []NetworkPermission{{URL: "https://api.ok.com/*"}}
	allowed, reason := matchAllowList(perms, "https://evil.com/x", "GET")
	assert.False(t, allowed)
	assert.Equal(t, "URL not in whitelist: https://evil.com/x", reason)
}

func TestMatchAllowList_MethodRestriction(t *testing.T) {
	perms := []NetworkPermission{{URL: "https://api.ok.com/*", Methods: []string{"GET"}}}
	allowed, _ := matchAllowList(perms, "https://api.ok.com/x", "POST")
	assert.False(t, allowed)

	allowed, _ = matchAllowList(perms, "https://api.ok.com/x", "GET")
	assert.True(t, allowed)
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{
		"Authorization": []string{"Bearer secret"},
		"X-Custom":      []string{"value"},
	}
	out := redactHeaders(h, deniedRequestHeaders)
	assert.Equal(t, redactedMarker, out["Authorization"])
	assert.Equal(t, "value", out["X-Custom"])
}

func TestHashBody_Truncated(t *testing.T) {
	h := hashBody([]byte(`{"a":1}`))
	assert.Len(t, h, 16)
}
