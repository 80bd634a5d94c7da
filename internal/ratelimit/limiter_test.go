package ratelimit

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestHitWithinLimit(t *testing.T) {
	l := New()
	key := Key{AdminID: "1", Action: "recharge_balance"}
	for i := 0; i < 5; i++ {
		if err := l.Hit(key, 5, time.Minute); err != nil {
			t.Fatalf("hit %d should pass, got %v", i+1, err)
		}
	}
	err := l.Hit(key, 5, time.Minute)
	var limitErr *LimitExceededError
	if !errors.As(err, &limitErr) {
		t.Fatalf("sixth hit should be rejected, got %v", err)
	}
	if limitErr.Limit != 5 {
		t.Fatalf("expected limit 5 in error, got %d", limitErr.Limit)
	}
}

func TestWindowSlides(t *testing.T) {
	l := New()
	base := time.Now()
	current := base
	l.now = func() time.Time { return current }

	key := Key{AdminID: "7", Action: "block_user"}
	if err := l.Hit(key, 2, 10*time.Second); err != nil {
		t.Fatalf("first hit: %v", err)
	}
	current = base.Add(4 * time.Second)
	if err := l.Hit(key, 2, 10*time.Second); err != nil {
		t.Fatalf("second hit: %v", err)
	}
	current = base.Add(8 * time.Second)
	if err := l.Hit(key, 2, 10*time.Second); err == nil {
		t.Fatalf("third hit inside the window should be rejected")
	}
	// First hit ages out at base+10s; capacity frees up.
	current = base.Add(11 * time.Second)
	if err := l.Hit(key, 2, 10*time.Second); err != nil {
		t.Fatalf("hit after window slide: %v", err)
	}
}

func TestZeroLimitOrWindowDisables(t *testing.T) {
	l := New()
	key := Key{AdminID: "2", Action: "sync_access"}
	for i := 0; i < 100; i++ {
		if err := l.Hit(key, 0, time.Minute); err != nil {
			t.Fatalf("zero limit must disable limiting: %v", err)
		}
		if err := l.Hit(key, 3, 0); err != nil {
			t.Fatalf("zero window must disable limiting: %v", err)
		}
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()
	a := Key{AdminID: "1", Action: "extend_subscription"}
	b := Key{AdminID: "1", Action: "recharge_balance"}
	if err := l.Hit(a, 1, time.Minute); err != nil {
		t.Fatalf("key a: %v", err)
	}
	if err := l.Hit(b, 1, time.Minute); err != nil {
		t.Fatalf("key b must have its own bucket: %v", err)
	}
}

func TestConcurrentHitsAdmitExactlyLimit(t *testing.T) {
	const limit = 25
	l := New()
	key := Key{AdminID: "9", Action: "recharge_balance"}

	var admitted, rejected atomic.Int64
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2*limit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if err := l.Hit(key, limit, time.Minute); err != nil {
				rejected.Add(1)
			} else {
				admitted.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if admitted.Load() != limit {
		t.Fatalf("expected exactly %d admitted, got %d", limit, admitted.Load())
	}
	if rejected.Load() != limit {
		t.Fatalf("expected exactly %d rejected, got %d", limit, rejected.Load())
	}
}
