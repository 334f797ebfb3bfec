package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Scene-change detection constants.
const (
	// blurKernel is the Gaussian blur kernel size used for noise
	// reduction before differencing (21x21).
	blurKernel = 21
	// diffThreshold is the binary threshold applied to the per-pixel
	// difference.
	diffThreshold = 25
)

// SceneGate detects whether anything in the scene changed between
// consecutive frames, using blurred frame differencing. The tracking
// pipeline uses it to drop to an idle frame rate when the scene is static.
type SceneGate struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewSceneGate creates a SceneGate. The threshold is the percentage of
// pixels that must change for the scene to count as active; 1.0 means 1%.
func NewSceneGate(threshold float64) *SceneGate {
	return &SceneGate{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Changed reports whether the frame differs from the previous one beyond
// the configured threshold, along with the percentage of changed pixels.
// The first frame establishes the baseline and always reports false.
func (g *SceneGate) Changed(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, diffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()

	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&g.prevGray)

	return changePercent > g.threshold, changePercent
}

// Reset clears the baseline so the next frame starts a fresh comparison.
func (g *SceneGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
}

// Close releases resources held by the gate.
func (g *SceneGate) Close() {
	g.Reset()
}

// SetThreshold updates the change threshold. Values <= 0 are ignored.
func (g *SceneGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.threshold = threshold
}
