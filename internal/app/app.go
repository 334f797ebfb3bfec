// Package app wires the capture, detection, geometry, and persistence
// layers into the tracking application.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/iHakawaTi/CV-Modules/internal/annotate"
	"github.com/iHakawaTi/CV-Modules/internal/capture"
	"github.com/iHakawaTi/CV-Modules/internal/detector"
	"github.com/iHakawaTi/CV-Modules/internal/landmark"
	"github.com/iHakawaTi/CV-Modules/internal/store"
	"github.com/iHakawaTi/CV-Modules/internal/trigger"
	"gocv.io/x/gocv"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while the scene is static.
	IdleFPS = 5
	// ActiveFPS is the frame rate while tracking.
	ActiveFPS = 15
	// IdleTimeoutMs is how long a static scene persists before the
	// pipeline drops back to the idle rate.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	CameraID       int
	Solution       detector.Solution
	DetectorConfig detector.Config
	Watches        []trigger.Watch
	MotionThresh   float64
	// Record persists a session with measurements (and landmark frames
	// when RecordFrames is also set) while the pipeline runs.
	Record       bool
	RecordFrames bool
}

// EntityResult is one detected entity with its pixel-space landmarks.
type EntityResult struct {
	Label     string              `json:"label,omitempty"`
	Score     float64             `json:"score"`
	Landmarks []landmark.Landmark `json:"landmarks"`
}

// FrameResult is the outcome of processing one frame.
type FrameResult struct {
	Entities  []EntityResult    `json:"entities"`
	Readings  []trigger.Reading `json:"readings,omitempty"`
	FPS       float64           `json:"fps"`
	Timestamp int64             `json:"timestamp"`
}

// App orchestrates the tracking pipeline.
type App struct {
	config   Config
	camera   capture.Camera
	gate     *capture.SceneGate
	detector detector.Detector
	watcher  *trigger.Watcher
	meter    *annotate.FPSMeter

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// latest frame result and annotated frame, for the HTTP surface
	latest    *FrameResult
	annotated gocv.Mat
	hasFrame  bool
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}
	if config.Solution == "" {
		config.Solution = detector.Pose
	}
	if config.DetectorConfig.Solution == "" {
		config.DetectorConfig = detector.DefaultConfig(config.Solution)
	}

	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID),
		gate:      capture.NewSceneGate(motionThreshold),
		watcher:   trigger.NewWatcher(),
		meter:     annotate.NewFPSMeter(),
		enabled:   true,
		annotated: gocv.NewMat(),
	}

	for _, w := range config.Watches {
		a.watcher.Add(w)
	}

	// Try MediaPipe first, fall back to the mock detector.
	if mp, err := detector.NewMediaPipeDetector(config.DetectorConfig); err == nil {
		a.detector = mp
		log.Printf("Using MediaPipe %s detection", config.Solution)
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the frame source to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start opens the camera and begins the tracking pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go a.runPipeline(a.stopCh)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	a.mu.Unlock()

	a.wg.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.gate.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	if !a.annotated.Empty() {
		a.annotated.Close()
		a.annotated = gocv.NewMat()
	}
	a.hasFrame = false

	log.Println("Tracking pipeline stopped")
}

// Snapshot returns the most recent frame result, or false when no frame
// has been processed yet. The result is a copy and stays valid.
func (a *App) Snapshot() (FrameResult, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.latest == nil {
		return FrameResult{}, false
	}
	return *a.latest, true
}

// EncodeFrame returns the latest annotated frame as JPEG bytes, or false
// when no frame is available.
func (a *App) EncodeFrame() ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.hasFrame || a.annotated.Empty() {
		return nil, false
	}

	buf, err := gocv.IMEncode(".jpg", a.annotated)
	if err != nil {
		return nil, false
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, true
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// SceneGate returns the scene-change gate.
func (a *App) SceneGate() *capture.SceneGate {
	return a.gate
}

// Watcher returns the angle watcher.
func (a *App) Watcher() *trigger.Watcher {
	return a.watcher
}

// Detector returns the landmark detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Solution returns the configured detection solution.
func (a *App) Solution() detector.Solution {
	return a.config.Solution
}
