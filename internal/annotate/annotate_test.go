package annotate

import (
	"testing"

	"github.com/iHakawaTi/CV-Modules/internal/detector"
	"github.com/iHakawaTi/CV-Modules/internal/landmark"
	"gocv.io/x/gocv"
)

func nonZeroPixels(img *gocv.Mat) int {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(*img, &gray, gocv.ColorBGRToGray)
	return gocv.CountNonZero(gray)
}

func TestDrawAngle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	p1 := landmark.Landmark{ID: 11, X: 200, Y: 100}
	p2 := landmark.Landmark{ID: 13, X: 200, Y: 250}
	p3 := landmark.Landmark{ID: 15, X: 350, Y: 250}

	DrawAngle(&img, p1, p2, p3, 90.7)

	if nonZeroPixels(&img) == 0 {
		t.Error("DrawAngle left the frame untouched")
	}
}

func TestDrawLandmarks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	set := detector.OpenPalmHand().Landmarks(640, 480)
	DrawLandmarks(&img, set)

	if nonZeroPixels(&img) == 0 {
		t.Error("DrawLandmarks left the frame untouched")
	}
}

func TestDrawConnections(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	set := detector.RaisedArmPose().Landmarks(640, 480)
	DrawConnections(&img, set, detector.PoseConnections)

	if nonZeroPixels(&img) == 0 {
		t.Error("DrawConnections left the frame untouched")
	}
}

func TestDrawConnections_SkipsAbsentIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	// A sparse set with only two landmarks; every pair referencing a
	// missing id must be skipped without drawing or panicking.
	set := landmark.NewSet([]landmark.Landmark{
		{ID: 0, X: 10, Y: 10},
		{ID: 1, X: 20, Y: 20},
	})
	DrawConnections(&img, set, detector.PoseConnections)
}
