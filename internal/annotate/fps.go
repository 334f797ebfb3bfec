package annotate

import "time"

// FPSMeter tracks the instantaneous frame rate of a processing loop from
// the interval between Tick calls.
type FPSMeter struct {
	last time.Time
	now  func() time.Time
}

// NewFPSMeter creates a meter using the wall clock.
func NewFPSMeter() *FPSMeter {
	return &FPSMeter{now: time.Now}
}

// Tick records a processed frame and returns the current frames per
// second. The first tick returns 0 because no interval exists yet.
func (m *FPSMeter) Tick() float64 {
	now := m.now()
	if m.last.IsZero() {
		m.last = now
		return 0
	}

	elapsed := now.Sub(m.last)
	m.last = now
	if elapsed <= 0 {
		return 0
	}
	return float64(time.Second) / float64(elapsed)
}
