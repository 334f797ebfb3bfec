package capture

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewSceneGate(t *testing.T) {
	g := NewSceneGate(1.0)
	if g == nil {
		t.Fatal("NewSceneGate returned nil")
	}
	defer g.Close()

	if g.threshold != 1.0 {
		t.Errorf("threshold = %f, want 1.0", g.threshold)
	}
	if g.initialized {
		t.Error("gate should not be initialized before the first frame")
	}
}

func TestSceneGate_StaticScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewSceneGate(1.0)
	defer g.Close()

	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	// First frame only establishes the baseline.
	changed, percent := g.Changed(&frame1)
	if changed {
		t.Error("baseline frame should not report change")
	}
	if percent != 0 {
		t.Errorf("baseline changePercent = %f, want 0", percent)
	}

	// An identical frame is a static scene.
	changed, percent = g.Changed(&frame2)
	if changed {
		t.Errorf("identical frame reported change (%.2f%%)", percent)
	}
}

func TestSceneGate_ChangedScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewSceneGate(1.0)
	defer g.Close()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()

	bright := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer bright.Close()
	gocv.Rectangle(&bright, image.Rect(0, 0, 640, 480), color.RGBA{R: 255, G: 255, B: 255, A: 0}, -1)

	g.Changed(&black)

	changed, percent := g.Changed(&bright)
	if !changed {
		t.Errorf("black-to-white transition not detected (%.2f%%)", percent)
	}
	if percent < 50 {
		t.Errorf("expected most pixels changed, got %.2f%%", percent)
	}
}

func TestSceneGate_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewSceneGate(1.0)
	defer g.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	g.Changed(&frame)
	g.Reset()

	// After reset the next frame is a baseline again.
	changed, _ := g.Changed(&frame)
	if changed {
		t.Error("first frame after reset should not report change")
	}
}

func TestSceneGate_SetThreshold(t *testing.T) {
	g := NewSceneGate(1.0)
	defer g.Close()

	g.SetThreshold(5.0)
	if g.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0", g.threshold)
	}

	g.SetThreshold(0)
	if g.threshold != 5.0 {
		t.Errorf("zero threshold should be ignored, got %f", g.threshold)
	}
}
