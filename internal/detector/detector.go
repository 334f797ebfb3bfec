// Package detector provides landmark detection interfaces and types for the
// face mesh, hand, and pose tracking pipelines. The detection models
// themselves run in an external MediaPipe sidecar; this package configures
// them, feeds them frames, and reshapes their output into pixel-space
// landmark sets.
package detector

import (
	"github.com/iHakawaTi/CV-Modules/internal/landmark"
	"gocv.io/x/gocv"
)

// Solution identifies which MediaPipe solution a detector runs.
type Solution string

const (
	// FaceMesh detects up to 468 facial landmarks per face.
	FaceMesh Solution = "face_mesh"
	// Hands detects 21 landmarks per hand.
	Hands Solution = "hands"
	// Pose detects 33 body landmarks for a single person.
	Pose Solution = "pose"
)

// Point is a normalized landmark as emitted by the model, with x and y in
// [0, 1] relative to the frame and z as the model's relative depth.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Entity is one detected face, hand, or body in a frame. Points are in
// model output order, so the slice index is the landmark id.
type Entity struct {
	Points []Point `json:"points"`
	// Label carries solution-specific metadata: handedness ("Left" or
	// "Right") for hands, empty otherwise.
	Label string  `json:"label,omitempty"`
	Score float64 `json:"score"`
}

// Landmarks projects the entity's normalized points into pixel space for a
// frame of the given size, truncating toward zero. The returned set is a
// standalone value; it stays valid after the next detection.
func (e Entity) Landmarks(width, height int) landmark.Set {
	points := make([]landmark.Landmark, len(e.Points))
	for i, p := range e.Points {
		points[i] = landmark.Landmark{
			ID: i,
			X:  int(p.X * float64(width)),
			Y:  int(p.Y * float64(height)),
		}
	}
	return landmark.NewSet(points)
}

// Detector defines the interface for landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected entities.
	// Returns an empty slice if nothing is detected.
	Detect(frame *gocv.Mat) ([]Entity, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for a detection solution, mirroring
// the MediaPipe solution constructors.
type Config struct {
	// Solution selects the model to run.
	Solution Solution

	// StaticMode treats every frame as an unrelated still image instead
	// of a video stream, disabling the model's internal tracking.
	StaticMode bool

	// MaxEntities is the maximum number of faces or hands to detect.
	// Ignored by the pose solution, which tracks a single person.
	MaxEntities int

	// ModelComplexity selects the landmark model variant (0-2).
	// Used by the hands and pose solutions.
	ModelComplexity int

	// RefineLandmarks enables the face mesh attention model for refined
	// eye and lip landmarks. Face mesh only.
	RefineLandmarks bool

	// MinDetectionConfidence is the minimum confidence for the initial
	// detection to be considered successful (0.0-1.0).
	MinDetectionConfidence float64

	// MinTrackingConfidence is the minimum confidence for the tracked
	// landmarks to be considered valid (0.0-1.0).
	MinTrackingConfidence float64
}

// DefaultConfig returns the stock configuration for a solution.
func DefaultConfig(solution Solution) Config {
	cfg := Config{
		Solution:               solution,
		MaxEntities:            2,
		ModelComplexity:        1,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.5,
	}
	if solution == Pose {
		cfg.MaxEntities = 1
	}
	return cfg
}
