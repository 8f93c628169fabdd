package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketBurstThenDeny(t *testing.T) {
	b := newBucket(5, 1.0)

	for i := 0; i < 5; i++ {
		assert.True(t, b.take(), "request %d should be allowed", i+1)
	}
	assert.False(t, b.take(), "request past burst should be denied")
}

func TestBucketRefill(t *testing.T) {
	b := newBucket(2, 10.0) // 10 tokens/sec

	assert.True(t, b.take())
	assert.True(t, b.take())
	assert.False(t, b.take())

	time.Sleep(150 * time.Millisecond)
	assert.True(t, b.take(), "should refill after waiting")
}

func TestBucketStatus(t *testing.T) {
	b := newBucket(10, 1.0)

	for i := 0; i < 4; i++ {
		b.take()
	}

	remaining, resetTime := b.status()
	assert.Equal(t, 6, remaining)
	assert.True(t, resetTime.After(time.Now()), "reset time should be in the future")
}

func TestLimiterDefaultLimit(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/negotiations/abc", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/negotiations/abc", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiterEndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/negotiations", Method: "POST", Limit: 3, Window: time.Hour, Burst: 3},
			{Path: "/interviews/", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("10.0.0.1", "/negotiations", "POST")
		require.True(t, allowed)
		assert.Equal(t, 3, info.Limit)
	}
	allowed, _ := limiter.Allow("10.0.0.1", "/negotiations", "POST")
	assert.False(t, allowed, "start endpoint should be exhausted")

	// Prefix match applies to answer submission paths.
	allowed, info := limiter.Allow("10.0.0.1", "/interviews/xyz/answers", "POST")
	require.True(t, allowed)
	assert.Equal(t, 5, info.Limit)

	// Unrelated endpoints fall back to the default.
	allowed, info = limiter.Allow("10.0.0.1", "/negotiations", "GET")
	require.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiterHealthUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1,
		DefaultWindow:   time.Hour,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiterWhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"1.1.1.1": true},
		Blacklist:     map[string]bool{"2.2.2.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("1.1.1.1", "/negotiations", "GET")
		require.True(t, allowed, "whitelisted client should never be limited")
	}

	allowed, _ := limiter.Allow("2.2.2.2", "/negotiations", "GET")
	assert.False(t, allowed, "blacklisted client should always be denied")
}

func TestLimiterDisabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/negotiations", "POST")
		require.True(t, allowed)
	}
}

func TestLimiterConcurrent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/interviews", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount)
}

func TestLimiterSeparateClients(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		clientID := fmt.Sprintf("10.0.0.%d", i+1)
		allowed, _ := limiter.Allow(clientID, "/negotiations", "GET")
		require.True(t, allowed, "each client gets its own bucket")
	}
}

func TestNewLimiterNilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/negotiations", "GET")
	require.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/negotiations", Method: "POST", Limit: 20},
		{Path: "/interviews/", Method: "POST", Limit: 120},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{"exact match", "/negotiations", "POST", 20, false},
		{"prefix match", "/interviews/abc/answers", "POST", 120, false},
		{"method mismatch", "/negotiations", "GET", 0, true},
		{"no match", "/unknown", "POST", 0, true},
		{"health is unlimited", "/health", "GET", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}
