package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatcher(t *testing.T) {
	m := DefaultMatcher()

	assert.True(t, m.Matches("/"))
	assert.True(t, m.Matches("/dashboard/invoices"))
	assert.True(t, m.Matches("/login"))
	assert.False(t, m.Matches("/api/auth/session"))
	assert.False(t, m.Matches("/_next/static/chunk.js"))
	assert.False(t, m.Matches("/hero-desktop.png"))
}

func TestNewMatcher_Empty(t *testing.T) {
	assert.True(t, NewMatcher(nil, nil).Matches("/anything.png"))
}

func TestUnderPath(t *testing.T) {
	assert.True(t, underPath("/dashboard", "/dashboard"))
	assert.True(t, underPath("/dashboard/customers", "/dashboard"))
	assert.False(t, underPath("/dashboards", "/dashboard"))
}

func TestDefaultMatcher_ExcludedPrefixBoundaries(t *testing.T) {
	m := DefaultMatcher()

	assert.False(t, m.Matches("/healthz"))
	assert.False(t, m.Matches("/healthz/ready"))
	assert.False(t, m.Matches("/metrics"))
	assert.True(t, m.Matches("/metricsx"))
	assert.True(t, m.Matches("/healthzfoo"))
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":                       "/",
		"/DASHBOARD/Invoices":    "/dashboard/invoices",
		"//dashboard//invoices/": "/dashboard/invoices",
		"/login/../dashboard":    "/dashboard",
		"dashboard":              "/dashboard",
		"/Metrics":               "/metrics",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizePath(in), in)
	}
}
