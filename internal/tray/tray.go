// Package tray provides a system tray interface for toggling the tracking
// pipeline and glancing at the latest angle measurement.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	menuToggle  *systray.MenuItem
	menuReading *systray.MenuItem
}

// New creates a new Tray instance with tracking enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback invoked when tracking is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("CV Modules")
	systray.SetTooltip("Landmark angle tracking")

	t.menuToggle = systray.AddMenuItem("● Tracking", "Toggle landmark tracking")
	systray.AddSeparator()

	t.menuReading = systray.AddMenuItem("Angle: --", "Latest angle measurement")
	t.menuReading.Disable()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit CV Modules")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle flips the tracking state and notifies the callback.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks.
	if callback != nil {
		callback(enabled)
	}
}

// handleQuit notifies the callback and tears down the tray.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetReading updates the latest measurement display in the menu.
func (t *Tray) SetReading(name string, angle float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuReading == nil {
		return
	}
	if name == "" {
		t.menuReading.SetTitle("Angle: --")
		return
	}
	t.menuReading.SetTitle(fmt.Sprintf("%s: %d°", name, int(angle)))
}

// IsEnabled returns the current tracking state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
