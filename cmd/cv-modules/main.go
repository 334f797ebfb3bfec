package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/iHakawaTi/CV-Modules/internal/app"
	"github.com/iHakawaTi/CV-Modules/internal/detector"
	"github.com/iHakawaTi/CV-Modules/internal/landmark"
	"github.com/iHakawaTi/CV-Modules/internal/server"
	"github.com/iHakawaTi/CV-Modules/internal/store"
	"github.com/iHakawaTi/CV-Modules/internal/tray"
	"github.com/iHakawaTi/CV-Modules/internal/trigger"
)

// watchFlags collects repeated -watch values of the form
// "p1:p2:p3:low:high", e.g. "11:13:15:60:150" for a left elbow curl.
type watchFlags []trigger.Watch

func (w *watchFlags) String() string {
	parts := make([]string, len(*w))
	for i, watch := range *w {
		parts[i] = fmt.Sprintf("%d:%d:%d:%.0f:%.0f",
			watch.Query.P1, watch.Query.P2, watch.Query.P3, watch.Low, watch.High)
	}
	return strings.Join(parts, ",")
}

func (w *watchFlags) Set(value string) error {
	fields := strings.Split(value, ":")
	if len(fields) != 5 {
		return fmt.Errorf("watch %q: want p1:p2:p3:low:high", value)
	}

	ids := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil || n < 0 {
			return fmt.Errorf("watch %q: bad landmark id %q", value, fields[i])
		}
		ids[i] = n
	}

	low, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return fmt.Errorf("watch %q: bad low threshold %q", value, fields[3])
	}
	high, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return fmt.Errorf("watch %q: bad high threshold %q", value, fields[4])
	}
	if low >= high {
		return fmt.Errorf("watch %q: low must be below high", value)
	}

	name := fmt.Sprintf("%d-%d-%d", ids[0], ids[1], ids[2])
	*w = append(*w, trigger.Watch{
		ID:       name,
		Name:     name,
		Query:    landmark.Query{P1: ids[0], P2: ids[1], P3: ids[2]},
		Low:      low,
		High:     high,
		Interior: true,
	})
	return nil
}

func main() {
	var watches watchFlags

	dbPath := flag.String("db", "", "database path (default ~/.cv-modules/cv-modules.db)")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device id")
	solution := flag.String("solution", "pose", "detection solution: face_mesh, hands, or pose")
	record := flag.Bool("record", false, "record a session with angle measurements")
	recordFrames := flag.Bool("record-frames", false, "also record raw landmark frames (implies -record)")
	useTray := flag.Bool("tray", false, "show a system tray toggle")
	motionThresh := flag.Float64("motion", 1.0, "scene change threshold in percent")
	flag.Var(&watches, "watch", "angle watch as p1:p2:p3:low:high (repeatable)")
	flag.Parse()

	sol := detector.Solution(*solution)
	switch sol {
	case detector.FaceMesh, detector.Hands, detector.Pose:
	default:
		log.Fatalf("Unknown solution %q", *solution)
	}

	fmt.Println("CV Modules - Landmark Angle Tracking")

	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dataDir := filepath.Join(homeDir, ".cv-modules")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dataDir, "cv-modules.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:        st,
		CameraID:     *cameraID,
		Solution:     sol,
		Watches:      watches,
		MotionThresh: *motionThresh,
		Record:       *record || *recordFrames,
		RecordFrames: *recordFrames,
	})

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	srv := server.New(server.Config{
		Store:  st,
		Source: a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *useTray {
		runTray(a)
		return
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println("Shutting down")
}

// runTray blocks in the systray loop, mirroring the latest reading into
// the menu and wiring the toggle to the pipeline.
func runTray(a *app.App) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)

	done := make(chan struct{})
	t.OnQuit(func() { close(done) })

	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				result, ok := a.Snapshot()
				if !ok {
					continue
				}
				for _, r := range result.Readings {
					if r.Err == nil {
						t.SetReading(r.Name, r.Value)
						break
					}
				}
			}
		}
	}()

	t.Run()
}
