package app

import (
	"path/filepath"
	"testing"

	"github.com/iHakawaTi/CV-Modules/internal/detector"
	"github.com/iHakawaTi/CV-Modules/internal/landmark"
	"github.com/iHakawaTi/CV-Modules/internal/store"
	"github.com/iHakawaTi/CV-Modules/internal/trigger"
	"gocv.io/x/gocv"
)

func elbowWatch() trigger.Watch {
	return trigger.Watch{
		ID:       "left-elbow",
		Name:     "Left Elbow",
		Query:    landmark.Query{P1: detector.LeftShoulder, P2: detector.LeftElbow, P3: detector.LeftWrist},
		Low:      60,
		High:     150,
		Interior: true,
	}
}

func TestNew_Defaults(t *testing.T) {
	a := New(Config{})
	defer a.Stop()

	if a.Solution() != detector.Pose {
		t.Errorf("default solution = %s, want pose", a.Solution())
	}
	if !a.IsEnabled() {
		t.Error("app should start enabled")
	}
	if a.Detector() == nil {
		t.Error("app should always have a detector")
	}
}

func TestApp_SetEnabled(t *testing.T) {
	a := New(Config{})
	defer a.Stop()

	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("expected disabled")
	}
	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("expected enabled")
	}
}

func TestApp_ProcessFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a := New(Config{
		Solution: detector.Pose,
		Watches:  []trigger.Watch{elbowWatch()},
	})
	defer a.Stop()

	mock := detector.NewMockDetector()
	mock.SetEntities([]detector.Entity{detector.RaisedArmPose()})
	a.SetDetector(mock)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	a.processFrame(&frame, nil, 0)

	result, ok := a.Snapshot()
	if !ok {
		t.Fatal("expected a snapshot after processing a frame")
	}
	if len(result.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(result.Entities))
	}
	if len(result.Entities[0].Landmarks) != detector.PoseNumLandmarks {
		t.Errorf("expected %d landmarks, got %d",
			detector.PoseNumLandmarks, len(result.Entities[0].Landmarks))
	}

	if len(result.Readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(result.Readings))
	}
	r := result.Readings[0]
	if r.Err != nil {
		t.Fatalf("unexpected reading error: %v", r.Err)
	}
	if r.Value < 60 || r.Value > 120 {
		t.Errorf("elbow angle = %f, expected roughly a right angle", r.Value)
	}

	if _, ok := a.EncodeFrame(); !ok {
		t.Error("expected an annotated frame after processing")
	}
}

func TestApp_ProcessFrame_RecordsSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a := New(Config{
		Store:        s,
		Solution:     detector.Pose,
		Watches:      []trigger.Watch{elbowWatch()},
		Record:       true,
		RecordFrames: true,
	})
	defer a.Stop()

	mock := detector.NewMockDetector()
	mock.SetEntities([]detector.Entity{detector.RaisedArmPose()})
	a.SetDetector(mock)

	session := &store.Session{Solution: string(detector.Pose)}
	if err := s.Sessions().Create(session); err != nil {
		t.Fatalf("Create session returned error: %v", err)
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	a.processFrame(&frame, session, 0)
	a.processFrame(&frame, session, 1)

	measurements, err := s.Measurements().BySession(session.ID)
	if err != nil {
		t.Fatalf("BySession returned error: %v", err)
	}
	if len(measurements) != 2 {
		t.Fatalf("expected 2 measurements, got %d", len(measurements))
	}
	if measurements[0].P2 != detector.LeftElbow {
		t.Errorf("measurement vertex = %d, want %d", measurements[0].P2, detector.LeftElbow)
	}

	frames, err := s.Measurements().FramesBySession(session.ID)
	if err != nil {
		t.Fatalf("FramesBySession returned error: %v", err)
	}
	if len(frames) != 2 {
		t.Errorf("expected 2 recorded frames, got %d", len(frames))
	}
}

func TestApp_ProcessFrame_DetectorError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a := New(Config{Solution: detector.Hands})
	defer a.Stop()

	mock := detector.NewMockDetector()
	mock.SetError(capErr{})
	a.SetDetector(mock)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	a.processFrame(&frame, nil, 0)

	if _, ok := a.Snapshot(); ok {
		t.Error("failed detection should not publish a snapshot")
	}
}

type capErr struct{}

func (capErr) Error() string { return "detector offline" }

func TestApp_ProcessFrame_MissingWatchLandmarks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// A hand entity observed by a pose watch: the watch ids don't all
	// resolve, the reading carries the error, nothing is drawn for it.
	a := New(Config{
		Solution: detector.Hands,
		Watches: []trigger.Watch{{
			ID:    "left-knee",
			Query: landmark.Query{P1: detector.LeftHip, P2: detector.LeftKnee, P3: detector.LeftAnkle},
			Low:   90, High: 160, Interior: true,
		}},
	})
	defer a.Stop()

	mock := detector.NewMockDetector()
	mock.SetEntities([]detector.Entity{OpenPalmTruncated()})
	a.SetDetector(mock)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	a.processFrame(&frame, nil, 0)

	result, ok := a.Snapshot()
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if len(result.Readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(result.Readings))
	}
	if result.Readings[0].Err == nil {
		t.Error("expected the reading to carry a resolution error")
	}
}

// OpenPalmTruncated is an open palm with only the first few landmarks, so
// pose-topology ids are guaranteed absent.
func OpenPalmTruncated() detector.Entity {
	hand := detector.OpenPalmHand()
	hand.Points = hand.Points[:5]
	return hand
}
