package session

import "time"

// minElapsed guards the rate division when the first progress message
// arrives effectively at session start.
const minElapsed = time.Millisecond

// RateEstimator derives an instantaneous transfer rate from the bytes the
// server reports and the time elapsed since the session started. The rate
// is advisory, for display only.
type RateEstimator struct {
	start time.Time
}

// NewRateEstimator creates an estimator anchored at the given session start time.
func NewRateEstimator(start time.Time) *RateEstimator {
	return &RateEstimator{start: start}
}

// Sample returns the estimated rate in bytes per second for the given byte
// count at time now.
func (e *RateEstimator) Sample(bytesReceived int64, now time.Time) float64 {
	elapsed := now.Sub(e.start)
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	return float64(bytesReceived) / elapsed.Seconds()
}
