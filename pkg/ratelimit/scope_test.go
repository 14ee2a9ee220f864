package ratelimit_test

import (
	"testing"

	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
)

func headerGetter(headers map[string]string) func(string) string {
	return func(key string) string { return headers[key] }
}

func TestResolveIP_HeaderPreferenceOrder(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name: "x-real-ip wins over all others",
			headers: map[string]string{
				"X-Real-IP":        "203.0.113.1",
				"X-Forwarded-For":  "203.0.113.2",
				"True-Client-IP":   "203.0.113.3",
				"CF-Connecting-IP": "203.0.113.4",
			},
			remoteAddr: "10.0.0.1",
			expected:   "203.0.113.1",
		},
		{
			name: "x-forwarded-for when no x-real-ip",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.2",
				"True-Client-IP":  "203.0.113.3",
			},
			remoteAddr: "10.0.0.1",
			expected:   "203.0.113.2",
		},
		{
			name:       "cf-connecting-ip as last header",
			headers:    map[string]string{"CF-Connecting-IP": "203.0.113.4"},
			remoteAddr: "10.0.0.1",
			expected:   "203.0.113.4",
		},
		{
			name:       "remote addr when no headers",
			headers:    map[string]string{},
			remoteAddr: "10.0.0.1",
			expected:   "10.0.0.1",
		},
		{
			name:       "unknown when nothing resolves",
			headers:    map[string]string{},
			remoteAddr: "",
			expected:   ratelimit.UnknownIP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := ratelimit.ResolveIP(headerGetter(tt.headers), tt.remoteAddr)
			assert.Equal(t, tt.expected, ip)
		})
	}
}

func TestScopeIdentifier(t *testing.T) {
	assert.Equal(t, "ip:203.0.113.1", ratelimit.ScopeIdentifier(ratelimit.ScopeIP, "203.0.113.1"))
	assert.Equal(t, "user:alice", ratelimit.ScopeIdentifier(ratelimit.ScopeUser, "alice"))
	assert.Equal(t, "company:acme", ratelimit.ScopeIdentifier(ratelimit.ScopeCompany, "acme"))
}
