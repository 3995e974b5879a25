// Package input simulates the pointer and keyboard actions that advance the
// viewed document. All automated input passes through the failsafe check:
// parking the pointer in the top-left screen corner aborts automation
// immediately, which is the user's out-of-band kill switch for a runaway loop.
package input

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"

	"bookcap/src/screenshot"
)

// ErrFailsafe is returned when the pointer sits inside the failsafe corner.
var ErrFailsafe = errors.New("failsafe triggered: pointer in screen corner")

// failsafeMargin is the size in pixels of the abort corner at (0,0).
const failsafeMargin = 5

// Automator issues simulated input. Implementations must be safe to call from
// a single worker goroutine; they are not required to be concurrency-safe.
type Automator interface {
	// Location returns the current pointer position.
	Location() screenshot.Point
	// Click moves the pointer to pt and clicks, twice when double is set.
	Click(pt screenshot.Point, double bool) error
	// ClickAt clicks at pt without the failsafe-exempt settle move used by
	// Click; used for the initial focus click inside the capture region.
	ClickAt(pt screenshot.Point) error
	// PressKey taps a named key (e.g. "right").
	PressKey(name string) error
	// Jiggle nudges the pointer one pixel down and back up to keep the
	// OS input event stream active.
	Jiggle()
}

// Robot is the robotgo-backed Automator.
type Robot struct {
	// MoveDelay is the settle pause between moving onto the advance point
	// and clicking it.
	MoveDelay time.Duration

	// locate samples the pointer position; stubbed in tests.
	locate func() (x, y int)
}

func NewRobot() *Robot {
	return &Robot{MoveDelay: 50 * time.Millisecond, locate: robotgo.Location}
}

func (r *Robot) Location() screenshot.Point {
	x, y := r.locate()
	return screenshot.Point{X: x, Y: y}
}

func (r *Robot) checkFailsafe() error {
	pt := r.Location()
	if pt.X <= failsafeMargin && pt.Y <= failsafeMargin {
		return ErrFailsafe
	}
	return nil
}

func (r *Robot) Click(pt screenshot.Point, double bool) error {
	if err := r.checkFailsafe(); err != nil {
		return err
	}
	robotgo.MoveSmooth(pt.X, pt.Y)
	time.Sleep(r.MoveDelay)
	robotgo.Click("left", false)
	if double {
		time.Sleep(r.MoveDelay)
		robotgo.Click("left", false)
	}
	return nil
}

func (r *Robot) ClickAt(pt screenshot.Point) error {
	if err := r.checkFailsafe(); err != nil {
		return err
	}
	robotgo.Move(pt.X, pt.Y)
	robotgo.Click("left", false)
	return nil
}

func (r *Robot) PressKey(name string) error {
	if err := r.checkFailsafe(); err != nil {
		return err
	}
	if err := robotgo.KeyTap(name); err != nil {
		return fmt.Errorf("key tap %q: %w", name, err)
	}
	return nil
}

func (r *Robot) Jiggle() {
	robotgo.MoveRelative(0, 1)
	robotgo.MoveRelative(0, -1)
}
