package session

import (
	"math"
	"testing"
	"time"
)

func TestSampleRate(t *testing.T) {
	start := time.Now()
	e := NewRateEstimator(start)

	rate := e.Sample(1048576, start.Add(2*time.Second))
	if math.Abs(rate-524288) > 1 {
		t.Fatalf("expected ~524288 B/s, got %f", rate)
	}
}

func TestSampleZeroElapsed(t *testing.T) {
	start := time.Now()
	e := NewRateEstimator(start)

	rate := e.Sample(1000, start)
	if math.IsInf(rate, 1) || math.IsNaN(rate) {
		t.Fatalf("rate must stay finite at zero elapsed, got %f", rate)
	}
	if rate < 0 {
		t.Fatalf("rate must not be negative, got %f", rate)
	}
}
