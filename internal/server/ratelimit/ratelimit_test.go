package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoints ...EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: endpoints,
	}
}

func TestAllow_BurstThenDeny(t *testing.T) {
	l := NewLimiter(testConfig(EndpointConfig{
		Path: "/generate-resume", Method: "POST", Limit: 30, Window: time.Minute, Burst: 3,
	}))
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/generate-resume", "POST")
		require.True(t, allowed, "request %d should be allowed", i)
	}

	allowed, info := l.Allow("1.2.3.4", "/generate-resume", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 30, info.Limit)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig(EndpointConfig{
		Path: "/save", Method: "POST", Limit: 10, Window: time.Minute, Burst: 1,
	}))
	defer l.Stop()

	allowed, _ := l.Allow("1.1.1.1", "/save", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("1.1.1.1", "/save", "POST")
	assert.False(t, allowed)

	allowed, _ = l.Allow("2.2.2.2", "/save", "POST")
	assert.True(t, allowed)
}

func TestAllow_DisabledAllowsEverything(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 1000; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/save", "POST")
		require.True(t, allowed)
	}
}

func TestAllow_Whitelist(t *testing.T) {
	cfg := testConfig(EndpointConfig{Path: "/save", Method: "POST", Limit: 1, Window: time.Minute, Burst: 1})
	cfg.Whitelist["9.9.9.9"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("9.9.9.9", "/save", "POST")
		require.True(t, allowed)
	}
}

func TestAllow_Blacklist(t *testing.T) {
	cfg := testConfig()
	cfg.Blacklist["6.6.6.6"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	allowed, _ := l.Allow("6.6.6.6", "/save", "POST")
	assert.False(t, allowed)
}

func TestAllow_HealthIsUnlimited(t *testing.T) {
	l := NewLimiter(testConfig(DefaultEndpointConfigs()...))
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestAllow_RefillRestoresTokens(t *testing.T) {
	l := NewLimiter(testConfig(EndpointConfig{
		Path: "/save", Method: "POST", Limit: 600, Window: time.Minute, Burst: 1,
	}))
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4", "/save", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/save", "POST")
	require.False(t, allowed)

	// 600 per minute refills 10 per second.
	time.Sleep(150 * time.Millisecond)
	allowed, _ = l.Allow("1.2.3.4", "/save", "POST")
	assert.True(t, allowed)
}

func TestMatchEndpoint_ExactMatch(t *testing.T) {
	configs := DefaultEndpointConfigs()

	cfg := MatchEndpoint("/generate-resume/pdf", "POST", configs)
	require.NotNil(t, cfg)
	assert.Equal(t, 10, cfg.Limit)

	cfg = MatchEndpoint("/generate-resume", "POST", configs)
	require.NotNil(t, cfg)
	assert.Equal(t, 30, cfg.Limit)
}

func TestMatchEndpoint_PrefixMatch(t *testing.T) {
	configs := DefaultEndpointConfigs()

	cfg := MatchEndpoint("/session/abc-123", "DELETE", configs)
	require.NotNil(t, cfg)
	assert.Equal(t, 60, cfg.Limit)
}

func TestMatchEndpoint_NoMatch(t *testing.T) {
	configs := DefaultEndpointConfigs()

	assert.Nil(t, MatchEndpoint("/get-user-data", "GET", configs))
	assert.Nil(t, MatchEndpoint("/save", "GET", configs))
}
