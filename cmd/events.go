package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/lenses/internal/app"
	"github.com/irfansharif/lenses/internal/geom"
)

const repeatInterval = 125 * time.Millisecond // time between successive regenerations when pressed down

// EventHandlers manages all event handling for the application.
type EventHandlers struct {
	application *app.App
	window      *glfw.Window

	// Space, or shift+space triggers regenerating the shown figure (with the
	// shift allowing to go back). If held down, we do so continuously.
	spaceHeld, shiftHeld bool
	lastRegenTime        time.Time
}

// NewEventHandlers creates a new event handlers manager.
func NewEventHandlers(application *app.App, window *glfw.Window) *EventHandlers {
	eh := &EventHandlers{
		application:   application,
		window:        window,
		lastRegenTime: time.Now(),
	}
	eh.SetupCallbacks(window)
	return eh
}

// SetupCallbacks configures all GLFW event callbacks.
func (eh *EventHandlers) SetupCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(wnd *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleKey(key, action, mods) // for various actions
	})
	window.SetMouseButtonCallback(func(wnd *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleMouseButton(button, action) // for dragging
	})
	window.SetCursorPosCallback(func(wnd *glfw.Window, xpos, ypos float64) {
		eh.application.PointerMove(eh.framebufferPos(xpos, ypos))
	})
	window.SetFramebufferSizeCallback(func(wnd *glfw.Window, newW, newH int) {
		eh.application.View.SetViewport(newW, newH) // for window resize
	})
}

// framebufferPos converts a cursor position in window coordinates to
// framebuffer pixels.
func (eh *EventHandlers) framebufferPos(xpos, ypos float64) geom.Point {
	scaleX, scaleY := eh.window.GetContentScale()
	return geom.MakePoint(xpos*float64(scaleX), ypos*float64(scaleY))
}

// handleKey handles keyboard input events.
func (eh *EventHandlers) handleKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	if key >= glfw.Key1 && key <= glfw.Key9 {
		if action == glfw.Press {
			eh.handleShowKey(int(key - glfw.Key1))
		}
		return
	}

	switch key {
	case glfw.KeySpace:
		eh.handleRegenerationKeys(action, mods)
	case glfw.KeyTab:
		if action == glfw.Press {
			next := true
			if (mods & glfw.ModShift) != 0 {
				next = false
			}
			eh.application.Iter(next)
		}
	case glfw.KeyS:
		if action == glfw.Press {
			eh.handleSnapshotKey()
		}
	case glfw.KeyEscape:
		if action == glfw.Press {
			eh.window.SetShouldClose(true)
		}
	}
}

// handleShowKey handles number key presses, switching to the figure with the
// given ID.
func (eh *EventHandlers) handleShowKey(id int) {
	if id >= len(eh.application.Figures.Entries()) {
		return // nothing to do
	}
	if err := eh.application.Show(id); err != nil {
		log.Fatalf("Failed to show figure %d: %v", id, err)
	}
}

// handleRegenerationKeys handles space and shift+space presses/releases
// (regenerate the shown figure).
func (eh *EventHandlers) handleRegenerationKeys(action glfw.Action, mods glfw.ModifierKey) {
	shiftHeld := (mods & glfw.ModShift) != 0

	switch action {
	case glfw.Press:
		if shiftHeld {
			eh.shiftHeld = true
			eh.spaceHeld = false
		} else {
			eh.spaceHeld = true
			eh.shiftHeld = false
		}
		eh.regenerate(!shiftHeld)
		eh.lastRegenTime = time.Now()

	case glfw.Release:
		eh.spaceHeld = false
		eh.shiftHeld = false

	case glfw.Repeat:
		// Ignore repeat events - we handle continuous regeneration ourselves to
		// ensure consistent timing.
	}
}

func (eh *EventHandlers) regenerate(increment bool) {
	if err := eh.application.Regenerate(increment); err != nil {
		log.Fatalf("Failed to regenerate: %v", err)
	}
}

// handleContinuousRegeneration handles continuous regeneration while space is held.
func (eh *EventHandlers) handleContinuousRegeneration() {
	if !(eh.spaceHeld || eh.shiftHeld) {
		return // nothing to do
	}

	now := time.Now()
	if now.Sub(eh.lastRegenTime) < repeatInterval {
		return // not enough time has passed since the last regeneration
	}

	eh.regenerate(eh.spaceHeld /* increment */)
	eh.lastRegenTime = now
}

// handleSnapshotKey handles S key presses, writing the shown figure as SVG
// into the working directory.
func (eh *EventHandlers) handleSnapshotKey() {
	e := eh.application.Current()
	path := fmt.Sprintf("%s-%d.svg", e.Config.Name, e.Seed)

	f, err := os.Create(path)
	if err != nil {
		log.Printf("Failed to create snapshot: %v", err)
		return
	}
	defer f.Close()
	if err := eh.application.WriteSVG(f); err != nil {
		log.Printf("Failed to write snapshot: %v", err)
		return
	}
	runtimeLogger.Printf("wrote %s", path)
}

// handleMouseButton handles mouse button events for dragging objects.
func (eh *EventHandlers) handleMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return // nothing to do
	}

	switch action {
	case glfw.Press:
		eh.application.PointerDown(eh.framebufferPos(eh.window.GetCursorPos()))
	case glfw.Release:
		eh.application.PointerUp()
	}
}
