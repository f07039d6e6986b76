package server

import (
	"testing"
	"time"

	"fitcheck/internal/config"
)

func TestLimiterAllowsWithinBurst(t *testing.T) {
	lm := NewLimiterManager(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		Burst:             3,
	})
	defer lm.Close()

	for i := 0; i < 3; i++ {
		if !lm.Allow("client-a") {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
	if lm.Allow("client-a") {
		t.Error("request beyond burst should be rejected")
	}
	if !lm.Allow("client-b") {
		t.Error("separate client should have its own bucket")
	}
}

func TestLimiterDisabled(t *testing.T) {
	lm := NewLimiterManager(config.RateLimitConfig{Enabled: false})
	defer lm.Close()

	for i := 0; i < 100; i++ {
		if !lm.Allow("anyone") {
			t.Fatal("disabled limiter must allow everything")
		}
	}
	if lm.Size() != 0 {
		t.Errorf("disabled limiter should track nothing, got %d", lm.Size())
	}
}

func TestLimiterCleanup(t *testing.T) {
	lm := NewLimiterManager(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		Burst:             1,
	})
	defer lm.Close()

	lm.Allow("stale-client")
	if lm.Size() != 1 {
		t.Fatalf("size = %d, want 1", lm.Size())
	}

	time.Sleep(10 * time.Millisecond)
	lm.cleanup(time.Millisecond)
	if lm.Size() != 0 {
		t.Errorf("stale client not evicted, size = %d", lm.Size())
	}
}
