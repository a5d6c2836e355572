package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCatalogPolicy(t *testing.T) {
	p := CatalogPolicy()
	if p.Mode != BackoffFixed {
		t.Fatalf("expected fixed mode, got %s", p.Mode)
	}
	if p.MaxRetries != 2 {
		t.Fatalf("expected 2 retries (3 total attempts), got %d", p.MaxRetries)
	}
	if p.Delay(1) != 10*time.Second || p.Delay(5) != 10*time.Second {
		t.Fatalf("fixed policy must not grow: %v / %v", p.Delay(1), p.Delay(5))
	}
}

func TestDelayModes(t *testing.T) {
	lin := Policy{Mode: BackoffLinear, Initial: time.Second, Max: 3 * time.Second, MaxRetries: 5}
	if lin.Delay(2) != 2*time.Second {
		t.Errorf("linear delay(2) = %v", lin.Delay(2))
	}
	if lin.Delay(10) != 3*time.Second {
		t.Errorf("linear delay must cap at max, got %v", lin.Delay(10))
	}
	exp := Policy{Mode: BackoffExponential, Initial: time.Second, Max: 8 * time.Second, MaxRetries: 5}
	if exp.Delay(3) != 4*time.Second {
		t.Errorf("exponential delay(3) = %v", exp.Delay(3))
	}
	if exp.Delay(0) != 0 {
		t.Errorf("delay(0) must be zero")
	}
}

func TestNewPolicyFallbacks(t *testing.T) {
	p := NewPolicy("bogus", 0, 0, -1)
	def := CatalogPolicy()
	if p != def {
		t.Fatalf("invalid inputs should fall back to defaults: %+v", p)
	}
}

func TestDoStopsAfterExhaustion(t *testing.T) {
	p := Policy{Mode: BackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 2}
	calls := 0
	errBoom := errors.New("boom")
	err := p.Do(context.Background(), func() error {
		calls++
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 total attempts, got %d", calls)
	}
}

func TestDoSucceedsMidway(t *testing.T) {
	p := Policy{Mode: BackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 2}
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}
