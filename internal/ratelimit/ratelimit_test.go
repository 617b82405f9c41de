package ratelimit

import (
	"errors"
	"testing"
	"time"
)

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 0})
	for i := 0; i < 1000; i++ {
		if err := l.Allow("client"); err != nil {
			t.Fatalf("unlimited limiter rejected request %d: %v", i, err)
		}
	}
}

func TestLimiter_BurstExhaustion(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 60, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if err := l.Allow("client"); err != nil {
			t.Fatalf("request %d rejected within burst: %v", i, err)
		}
	}
	if err := l.Allow("client"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestLimiter_BurstDefaultsToRate(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 5})

	for i := 0; i < 5; i++ {
		if err := l.Allow("client"); err != nil {
			t.Fatalf("request %d rejected: %v", i, err)
		}
	}
	if err := l.Allow("client"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestLimiter_ClientsIsolated(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 60, BurstSize: 1})

	if err := l.Allow("a"); err != nil {
		t.Fatalf("first a: %v", err)
	}
	if err := l.Allow("a"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("second a = %v, want ErrRateLimited", err)
	}
	// b has its own bucket.
	if err := l.Allow("b"); err != nil {
		t.Errorf("first b rejected: %v", err)
	}
}

func TestLimiter_Refill(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 60, BurstSize: 1})

	if err := l.Allow("c"); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := l.Allow("c"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("second = %v, want ErrRateLimited", err)
	}

	// Backdate the bucket instead of sleeping: two seconds at 1 token/s
	// refills past one token.
	l.mu.Lock()
	l.clients["c"].lastFill = l.clients["c"].lastFill.Add(-2 * time.Second)
	l.mu.Unlock()

	if err := l.Allow("c"); err != nil {
		t.Errorf("after refill = %v, want nil", err)
	}
}
