package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold, halfOpenMax int, openTimeout time.Duration) (*CircuitBreaker, *time.Time) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMax,
	})
	clock := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	breaker.now = func() time.Time { return clock }

	return breaker, &clock
}

func TestCircuitBreaker_TripsOnConsecutiveFailures(t *testing.T) {
	breaker, _ := newTestBreaker(3, 1, 15*time.Second)

	for i := 0; i < 2; i++ {
		if err := breaker.Allow(); err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		breaker.RecordFailure()
	}
	if breaker.State() != CircuitStateClosed {
		t.Fatalf("expected closed below threshold, got %s", breaker.State())
	}

	breaker.RecordFailure()
	if breaker.State() != CircuitStateOpen {
		t.Fatalf("expected open at threshold, got %s", breaker.State())
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureStreak(t *testing.T) {
	breaker, _ := newTestBreaker(2, 1, 15*time.Second)

	breaker.RecordFailure()
	breaker.RecordSuccess()
	breaker.RecordFailure()

	if breaker.State() != CircuitStateClosed {
		t.Fatal("expected an interleaved success to reset the streak")
	}
}

func TestCircuitBreaker_HalfOpenProbeAndRecovery(t *testing.T) {
	breaker, clock := newTestBreaker(1, 2, 10*time.Second)

	breaker.RecordFailure()
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}

	*clock = clock.Add(11 * time.Second)

	// Probe slots are limited while half-open.
	if err := breaker.Allow(); err != nil {
		t.Fatalf("probe 1: %v", err)
	}
	if err := breaker.Allow(); err != nil {
		t.Fatalf("probe 2: %v", err)
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected probe budget exhausted, got %v", err)
	}

	breaker.RecordSuccess()
	breaker.RecordSuccess()

	if breaker.State() != CircuitStateClosed {
		t.Fatalf("expected closed after successful probes, got %s", breaker.State())
	}
	if err := breaker.Allow(); err != nil {
		t.Fatalf("allow after recovery: %v", err)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	breaker, clock := newTestBreaker(1, 1, 10*time.Second)

	breaker.RecordFailure()
	*clock = clock.Add(11 * time.Second)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("probe: %v", err)
	}
	breaker.RecordFailure()

	if breaker.State() != CircuitStateOpen {
		t.Fatalf("expected reopened circuit, got %s", breaker.State())
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after failed probe, got %v", err)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	want := DefaultCircuitBreakerConfig()

	if got.FailureThreshold != want.FailureThreshold {
		t.Fatalf("expected default threshold %d, got %d", want.FailureThreshold, got.FailureThreshold)
	}
	if got.OpenTimeout != want.OpenTimeout {
		t.Fatalf("expected default open timeout %v, got %v", want.OpenTimeout, got.OpenTimeout)
	}
	if got.HalfOpenMaxReq != want.HalfOpenMaxReq {
		t.Fatalf("expected default half-open budget %d, got %d", want.HalfOpenMaxReq, got.HalfOpenMaxReq)
	}

	kept := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{
		Enabled: true, FailureThreshold: 9, OpenTimeout: time.Minute, HalfOpenMaxReq: 3,
	})
	if kept.FailureThreshold != 9 || kept.OpenTimeout != time.Minute || kept.HalfOpenMaxReq != 3 {
		t.Fatalf("expected explicit values preserved, got %+v", kept)
	}
}
