package app

import (
	"log"
	"time"

	"github.com/iHakawaTi/CV-Modules/internal/annotate"
	"github.com/iHakawaTi/CV-Modules/internal/detector"
	"github.com/iHakawaTi/CV-Modules/internal/store"
	"gocv.io/x/gocv"
)

// runPipeline is the main loop: read a frame, gate on scene change, run
// detection, project landmarks to pixel space, evaluate angle watches,
// annotate, and record.
//
// The loop idles at IdleFPS while the scene is static and switches to
// ActiveFPS on change; after IdleTimeoutMs without change it drops back.
// Landmark sets are values built fresh from each frame and handed to the
// consumers; nothing landmark-shaped survives the frame that produced it
// except the published snapshot copy.
func (a *App) runPipeline(stopCh chan struct{}) {
	defer a.wg.Done()

	var session *store.Session
	frameCount := 0

	if a.config.Record && a.config.Store != nil {
		session = &store.Session{Solution: string(a.config.Solution)}
		if err := a.config.Store.Sessions().Create(session); err != nil {
			log.Printf("Failed to create session: %v", err)
			session = nil
		}
	}
	defer func() {
		if session != nil {
			if err := a.config.Store.Sessions().End(session.ID, frameCount); err != nil {
				log.Printf("Failed to end session: %v", err)
			}
		}
	}()

	activeMode := false
	lastChange := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			changed, _ := a.gate.Changed(frame)

			if changed {
				lastChange = time.Now()
				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastChange) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode {
				frame.Close()
				continue
			}

			a.processFrame(frame, session, frameCount)
			frameCount++
			frame.Close()
		}
	}
}

// processFrame runs detection and geometry on one frame and publishes the
// result. The frame is still owned by the caller.
func (a *App) processFrame(frame *gocv.Mat, session *store.Session, frameIndex int) {
	det := a.Detector()
	if det == nil {
		return
	}

	entities, err := det.Detect(frame)
	if err != nil {
		log.Printf("Error detecting landmarks: %v", err)
		return
	}

	width := frame.Cols()
	height := frame.Rows()

	result := FrameResult{
		FPS:       a.meter.Tick(),
		Timestamp: time.Now().UnixMilli(),
	}

	annotated := frame.Clone()
	connections := detector.Connections(a.config.Solution)

	for i, e := range entities {
		set := e.Landmarks(width, height)
		result.Entities = append(result.Entities, EntityResult{
			Label:     e.Label,
			Score:     e.Score,
			Landmarks: set.All(),
		})

		annotate.DrawLandmarks(&annotated, set)
		annotate.DrawConnections(&annotated, set, connections)

		// Angle watches track the primary entity only.
		if i != 0 {
			continue
		}

		readings := a.watcher.Observe(set)
		result.Readings = readings

		for _, r := range readings {
			if r.Err != nil {
				// Stale or missing landmark: skip drawing and
				// recording for this frame, keep the loop going.
				continue
			}

			q := r.Query
			p1, err1 := set.Get(q.P1)
			p2, err2 := set.Get(q.P2)
			p3, err3 := set.Get(q.P3)
			if err1 == nil && err2 == nil && err3 == nil {
				annotate.DrawAngle(&annotated, p1, p2, p3, r.Angle)
			}

			if session != nil {
				m := &store.Measurement{
					SessionID: session.ID,
					Frame:     frameIndex,
					Entity:    i,
					P1:        q.P1,
					P2:        q.P2,
					P3:        q.P3,
					Angle:     r.Angle,
				}
				if err := a.config.Store.Measurements().Add(m); err != nil {
					log.Printf("Failed to record measurement: %v", err)
				}
			}
		}

		if session != nil && a.config.RecordFrames {
			if err := a.config.Store.Measurements().AddFrame(session.ID, frameIndex, i, set); err != nil {
				log.Printf("Failed to record landmark frame: %v", err)
			}
		}
	}

	annotate.DrawFPS(&annotated, result.FPS)

	a.mu.Lock()
	if !a.annotated.Empty() {
		a.annotated.Close()
	}
	a.annotated = annotated
	a.hasFrame = true
	a.latest = &result
	a.mu.Unlock()
}
