// Package annotate draws landmark sets, skeleton connections, and angle
// measurements onto video frames. Everything here is presentation only;
// drawing is skipped by callers when the underlying computation failed.
package annotate

import (
	"image"
	"image/color"
	"strconv"

	"github.com/iHakawaTi/CV-Modules/internal/landmark"
	"gocv.io/x/gocv"
)

// Drawing style shared by the pipelines.
var (
	rayColor      = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	markerColor   = color.RGBA{R: 255, A: 0}
	landmarkColor = color.RGBA{B: 255, A: 0}
	skeletonColor = color.RGBA{G: 255, A: 0}
	fpsColor      = color.RGBA{G: 255, A: 0}
)

const (
	rayThickness      = 3
	markerRadius      = 10
	markerRingRadius  = 15
	markerRingWeight  = 2
	landmarkRadius    = 5
	skeletonThickness = 2
)

// DrawLandmarks paints a filled circle at every landmark in the set.
func DrawLandmarks(img *gocv.Mat, set landmark.Set) {
	for _, lm := range set.All() {
		gocv.Circle(img, image.Pt(lm.X, lm.Y), landmarkRadius, landmarkColor, -1)
	}
}

// DrawConnections paints line segments between the landmark pairs of a
// skeleton connection table. Pairs referencing absent ids are skipped.
func DrawConnections(img *gocv.Mat, set landmark.Set, connections [][2]int) {
	for _, pair := range connections {
		a, err := set.Get(pair[0])
		if err != nil {
			continue
		}
		b, err := set.Get(pair[1])
		if err != nil {
			continue
		}
		gocv.Line(img, image.Pt(a.X, a.Y), image.Pt(b.X, b.Y), skeletonColor, skeletonThickness)
	}
}

// DrawAngle paints an angle measurement: the two rays from the vertex, a
// filled and an outlined marker circle at each of the three points, and the
// integer-truncated angle value next to the vertex. The caller resolves the
// points and computes the angle first; a failed computation means nothing
// is drawn.
func DrawAngle(img *gocv.Mat, p1, p2, p3 landmark.Landmark, angle float64) {
	gocv.Line(img, image.Pt(p1.X, p1.Y), image.Pt(p2.X, p2.Y), rayColor, rayThickness)
	gocv.Line(img, image.Pt(p3.X, p3.Y), image.Pt(p2.X, p2.Y), rayColor, rayThickness)

	for _, p := range []landmark.Landmark{p1, p2, p3} {
		gocv.Circle(img, image.Pt(p.X, p.Y), markerRadius, markerColor, -1)
		gocv.Circle(img, image.Pt(p.X, p.Y), markerRingRadius, markerColor, markerRingWeight)
	}

	// Truncation toward zero is display-only; the float value is what
	// flows through the rest of the pipeline.
	gocv.PutText(img, strconv.Itoa(int(angle)), image.Pt(p2.X-50, p2.Y+50),
		gocv.FontHersheyPlain, 2, markerColor, 2)
}

// DrawFPS paints a frame rate readout in the top-left corner.
func DrawFPS(img *gocv.Mat, fps float64) {
	gocv.PutText(img, "FPS: "+strconv.Itoa(int(fps)), image.Pt(20, 70),
		gocv.FontHersheyPlain, 3, fpsColor, 3)
}
