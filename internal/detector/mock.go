package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	entities []Entity
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetEntities sets the entities that will be returned by Detect.
func (m *MockDetector) SetEntities(entities []Entity) {
	m.entities = entities
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured entities or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Entity, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entities, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmHand returns a preset hand entity with all fingers extended,
// in normalized coordinates.
func OpenPalmHand() Entity {
	points := make([]Point, HandNumLandmarks)

	points[Wrist] = Point{X: 0.50, Y: 0.80}

	// Thumb extended to the side
	points[ThumbCMC] = Point{X: 0.55, Y: 0.75, Z: 0.02}
	points[ThumbMCP] = Point{X: 0.62, Y: 0.70, Z: 0.03}
	points[ThumbIP] = Point{X: 0.68, Y: 0.65, Z: 0.03}
	points[ThumbTip] = Point{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	points[IndexMCP] = Point{X: 0.55, Y: 0.68}
	points[IndexPIP] = Point{X: 0.57, Y: 0.55}
	points[IndexDIP] = Point{X: 0.58, Y: 0.45}
	points[IndexTip] = Point{X: 0.58, Y: 0.35}

	// Middle finger extended upward (slightly longer)
	points[MiddleMCP] = Point{X: 0.50, Y: 0.66}
	points[MiddlePIP] = Point{X: 0.50, Y: 0.52}
	points[MiddleDIP] = Point{X: 0.50, Y: 0.40}
	points[MiddleTip] = Point{X: 0.50, Y: 0.28}

	// Ring finger extended upward
	points[RingMCP] = Point{X: 0.45, Y: 0.68}
	points[RingPIP] = Point{X: 0.43, Y: 0.55}
	points[RingDIP] = Point{X: 0.42, Y: 0.45}
	points[RingTip] = Point{X: 0.42, Y: 0.35}

	// Pinky finger extended upward
	points[PinkyMCP] = Point{X: 0.40, Y: 0.70}
	points[PinkyPIP] = Point{X: 0.37, Y: 0.60}
	points[PinkyDIP] = Point{X: 0.35, Y: 0.50}
	points[PinkyTip] = Point{X: 0.34, Y: 0.42}

	return Entity{Points: points, Label: "Right", Score: 0.95}
}

// RaisedArmPose returns a preset body entity with the left arm bent roughly
// ninety degrees at the elbow, in normalized coordinates.
func RaisedArmPose() Entity {
	points := make([]Point, PoseNumLandmarks)

	// Head cluster around the nose
	points[Nose] = Point{X: 0.50, Y: 0.15}
	for id := LeftEyeInner; id <= RightEar; id++ {
		points[id] = Point{X: 0.50 + 0.01*float64(id), Y: 0.14}
	}
	points[MouthLeft] = Point{X: 0.52, Y: 0.18}
	points[MouthRight] = Point{X: 0.48, Y: 0.18}

	// Torso
	points[LeftShoulder] = Point{X: 0.60, Y: 0.30}
	points[RightShoulder] = Point{X: 0.40, Y: 0.30}
	points[LeftHip] = Point{X: 0.57, Y: 0.55}
	points[RightHip] = Point{X: 0.43, Y: 0.55}

	// Left arm bent at the elbow: upper arm down, forearm forward
	points[LeftElbow] = Point{X: 0.60, Y: 0.42}
	points[LeftWrist] = Point{X: 0.72, Y: 0.42}
	points[LeftPinky] = Point{X: 0.75, Y: 0.42}
	points[LeftIndex] = Point{X: 0.76, Y: 0.41}
	points[LeftThumb] = Point{X: 0.74, Y: 0.40}

	// Right arm hanging straight
	points[RightElbow] = Point{X: 0.40, Y: 0.42}
	points[RightWrist] = Point{X: 0.40, Y: 0.54}
	points[RightPinky] = Point{X: 0.40, Y: 0.57}
	points[RightIndex] = Point{X: 0.41, Y: 0.57}
	points[RightThumb] = Point{X: 0.39, Y: 0.56}

	// Legs straight down
	points[LeftKnee] = Point{X: 0.57, Y: 0.72}
	points[RightKnee] = Point{X: 0.43, Y: 0.72}
	points[LeftAnkle] = Point{X: 0.57, Y: 0.88}
	points[RightAnkle] = Point{X: 0.43, Y: 0.88}
	points[LeftHeel] = Point{X: 0.57, Y: 0.91}
	points[RightHeel] = Point{X: 0.43, Y: 0.91}
	points[LeftFootIndex] = Point{X: 0.60, Y: 0.92}
	points[RightFootIndex] = Point{X: 0.40, Y: 0.92}

	return Entity{Points: points, Score: 0.92}
}

// NeutralFace returns a synthetic face entity with the full mesh landmark
// count, laid out on concentric ellipses. Only the count and ordering
// matter to consumers; individual positions are arbitrary but stable.
func NeutralFace() Entity {
	points := make([]Point, FaceMeshNumLandmarks)
	for i := range points {
		ring := 0.05 + 0.15*float64(i%3)
		theta := 2 * math.Pi * float64(i) / FaceMeshNumLandmarks
		points[i] = Point{
			X: 0.5 + ring*math.Cos(theta),
			Y: 0.45 + 1.3*ring*math.Sin(theta),
		}
	}
	return Entity{Points: points, Score: 0.90}
}
