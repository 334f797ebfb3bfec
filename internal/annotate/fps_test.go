package annotate

import (
	"math"
	"testing"
	"time"
)

func TestFPSMeter_Tick(t *testing.T) {
	clock := time.Unix(0, 0)
	meter := &FPSMeter{now: func() time.Time { return clock }}

	if fps := meter.Tick(); fps != 0 {
		t.Errorf("first tick should report 0, got %f", fps)
	}

	// 50ms between frames is 20 fps.
	clock = clock.Add(50 * time.Millisecond)
	if fps := meter.Tick(); math.Abs(fps-20) > 1e-9 {
		t.Errorf("expected 20 fps, got %f", fps)
	}

	// 1s between frames is 1 fps.
	clock = clock.Add(time.Second)
	if fps := meter.Tick(); math.Abs(fps-1) > 1e-9 {
		t.Errorf("expected 1 fps, got %f", fps)
	}
}

func TestFPSMeter_ZeroElapsed(t *testing.T) {
	clock := time.Unix(10, 0)
	meter := &FPSMeter{now: func() time.Time { return clock }}

	meter.Tick()
	if fps := meter.Tick(); fps != 0 {
		t.Errorf("zero elapsed time should report 0, got %f", fps)
	}
}
