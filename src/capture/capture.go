// Package capture drives the screenshot → save → advance cycle for one
// session and owns its termination policy. The loop is written against
// injected collaborators so the interactive binary, and tests, share the
// same state machine.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"bookcap/src/imgcmp"
	"bookcap/src/keepawake"
	"bookcap/src/screenshot"
)

// ErrNotConfigured is returned when a session is started without a recorded
// advance point or a usable region.
var ErrNotConfigured = errors.New("capture not configured: advance point and region required")

// StopReason says why the loop ended.
type StopReason int

const (
	StopNone StopReason = iota
	// StopFixed: the configured page target was reached.
	StopFixed
	// StopDuplicate: the last captured frame matched the one before it.
	StopDuplicate
	// StopError: a capture, save, or advance action failed.
	StopError
)

func (r StopReason) String() string {
	switch r {
	case StopFixed:
		return "fixed page count reached"
	case StopDuplicate:
		return "duplicate page detected"
	case StopError:
		return "error"
	default:
		return "none"
	}
}

// Options are the per-session knobs chosen by the user.
type Options struct {
	// Delay is the pause after each advance action before the next capture.
	Delay time.Duration
	// DoubleClick advances with two clicks instead of one.
	DoubleClick bool
	// UseKeyboard advances by tapping AdvanceKey instead of clicking.
	UseKeyboard bool
	AdvanceKey  string
	// FixedPages stops after this many pages; 0 means unlimited.
	FixedPages int
	// DuplicateStop ends the run when a page repeats byte-for-byte.
	DuplicateStop bool
	// FocusEvery reasserts application focus every N pages.
	FocusEvery int
}

// Session is one capture run. It is immutable once built; the loop, recorder
// and assembler all receive it by value.
type Session struct {
	StartedAt    time.Time
	AdvancePoint screenshot.Point
	Region       screenshot.Region
	// FrontApp is the viewer application name recorded when the advance
	// point was captured; used for focus reassertion.
	FrontApp string
	Options  Options
}

// Automator is the slice of input automation the loop needs.
type Automator interface {
	Click(pt screenshot.Point, double bool) error
	ClickAt(pt screenshot.Point) error
	PressKey(name string) error
	Jiggle()
}

// FrameStore persists captured frames.
type FrameStore interface {
	Dir() string
	SaveFrame(page int, img image.Image) (string, error)
	RemoveFrame(page int) error
}

// Pulse is the periodic liveness signal started for the run's duration.
type Pulse interface {
	Start()
	Stop()
}

// Notifier receives user-facing status lines.
type Notifier interface {
	Notify(format string, args ...any)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(format string, args ...any)

func (f NotifierFunc) Notify(format string, args ...any) { f(format, args...) }

// Deps are the collaborators a run needs. Capture and Store are mandatory;
// the rest default to working no-ops so tests only fake what they assert on.
type Deps struct {
	// Capture takes a screenshot of the session region.
	Capture func(screenshot.Region) (*image.RGBA, error)
	Store   FrameStore
	Input   Automator
	// KeepAwake is acquired once at loop start and released exactly once
	// during finalization, whatever the outcome.
	KeepAwake keepawake.Service
	Pulser    Pulse
	// Activate brings the viewer application back to the front.
	Activate func(name string) error
	Notify   Notifier
	// sleep is ctx-aware; replaceable in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// Result reports the outcome of a run.
type Result struct {
	Reason StopReason
	// Pages is the number of surviving frames on disk.
	Pages int
	Dir   string
	Err   error
}

// Run executes the capture loop until a stop condition is reached. Cleanup is
// unconditional: the keep-awake hold is released and the pulser stopped on
// every exit path, including mid-loop failures.
func Run(ctx context.Context, sess Session, deps Deps) Result {
	if err := validate(sess, deps); err != nil {
		return Result{Reason: StopNone, Err: err}
	}

	r := &runner{sess: sess, deps: fillDefaults(deps)}
	return r.run(ctx)
}

func validate(sess Session, deps Deps) error {
	if deps.Capture == nil || deps.Store == nil {
		return errors.New("capture: Capture and Store are required")
	}
	if sess.Region.Width < 1 || sess.Region.Height < 1 {
		return ErrNotConfigured
	}
	if !sess.Options.UseKeyboard && sess.AdvancePoint == (screenshot.Point{}) {
		return ErrNotConfigured
	}
	return nil
}

func fillDefaults(deps Deps) Deps {
	if deps.KeepAwake == nil {
		deps.KeepAwake = keepawake.Noop{}
	}
	if deps.Pulser == nil {
		deps.Pulser = nopPulse{}
	}
	if deps.Activate == nil {
		deps.Activate = func(string) error { return nil }
	}
	if deps.Input == nil {
		deps.Input = nopAutomator{}
	}
	if deps.Notify == nil {
		deps.Notify = NotifierFunc(func(string, ...any) {})
	}
	if deps.sleep == nil {
		deps.sleep = sleepCtx
	}
	return deps
}

type runner struct {
	sess Session
	deps Deps
}

func (r *runner) run(ctx context.Context) (res Result) {
	opts := r.sess.Options
	res.Dir = r.deps.Store.Dir()

	if err := r.deps.KeepAwake.Acquire("book capture"); err != nil {
		// The run is still useful without sleep prevention; the paired
		// Release below stays a no-op in that case.
		log.Printf("Keep-awake acquire failed: %v", err)
		r.deps.Notify.Notify("Warning: keep-awake unavailable: %v", err)
	}
	r.deps.Pulser.Start()

	defer func() {
		r.deps.Pulser.Stop()
		if err := r.deps.KeepAwake.Release(); err != nil {
			// Never escalate a cleanup failure over the loop's own outcome.
			log.Printf("Keep-awake release failed: %v", err)
		}
		log.Printf("Capture finalized: reason=%v pages=%d err=%v", res.Reason, res.Pages, res.Err)
	}()

	r.refocus()

	// Focus once inside the region, away from the failsafe corner.
	focus := screenshot.Point{X: r.sess.Region.X + 10, Y: r.sess.Region.Y + 10}
	if err := r.deps.Input.ClickAt(focus); err != nil {
		return Result{Reason: StopError, Pages: 0, Dir: res.Dir, Err: fmt.Errorf("focus click: %w", err)}
	}
	_ = r.deps.sleep(ctx, 150*time.Millisecond)

	var prev *image.RGBA
	page := 0

	for {
		if err := ctx.Err(); err != nil {
			return Result{Reason: StopError, Pages: page, Dir: res.Dir, Err: err}
		}

		page++
		r.deps.Input.Jiggle()

		img, err := r.deps.Capture(r.sess.Region)
		if err != nil {
			return Result{Reason: StopError, Pages: page - 1, Dir: res.Dir, Err: fmt.Errorf("capturing page %d: %w", page, err)}
		}

		path, err := r.deps.Store.SaveFrame(page, img)
		if err != nil {
			return Result{Reason: StopError, Pages: page - 1, Dir: res.Dir, Err: fmt.Errorf("saving page %d: %w", page, err)}
		}
		log.Printf("Captured %s", path)
		r.deps.Notify.Notify("[Capture] %s", path)

		if opts.DuplicateStop && prev != nil && imgcmp.Equal(prev, img) {
			// The viewer stopped advancing; this frame repeats the last
			// real page and must not survive into the document.
			if err := r.deps.Store.RemoveFrame(page); err != nil {
				log.Printf("Failed to remove duplicate frame %d: %v", page, err)
			} else {
				r.deps.Notify.Notify("[Auto-Stop] Duplicate detected, removed %s", path)
			}
			return Result{Reason: StopDuplicate, Pages: page - 1, Dir: res.Dir}
		}
		prev = img

		if opts.FixedPages > 0 && page >= opts.FixedPages {
			return Result{Reason: StopFixed, Pages: page, Dir: res.Dir}
		}

		if opts.FocusEvery > 0 && page%opts.FocusEvery == 0 {
			r.refocus()
			_ = r.deps.sleep(ctx, 100*time.Millisecond)
		}

		if err := r.advance(); err != nil {
			return Result{Reason: StopError, Pages: page, Dir: res.Dir, Err: fmt.Errorf("advancing after page %d: %w", page, err)}
		}

		if err := r.deps.sleep(ctx, opts.Delay); err != nil {
			return Result{Reason: StopError, Pages: page, Dir: res.Dir, Err: err}
		}
	}
}

// refocus reactivates the viewer application. Failure is logged and the loop
// continues; the recorded coordinates still land on the right screen spot.
func (r *runner) refocus() {
	if err := r.deps.Activate(r.sess.FrontApp); err != nil {
		log.Printf("Focus reassertion failed: %v", err)
	}
}

func (r *runner) advance() error {
	if r.sess.Options.UseKeyboard {
		key := r.sess.Options.AdvanceKey
		if key == "" {
			key = "right"
		}
		return r.deps.Input.PressKey(key)
	}
	return r.deps.Input.Click(r.sess.AdvancePoint, r.sess.Options.DoubleClick)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopPulse struct{}

func (nopPulse) Start() {}
func (nopPulse) Stop()  {}

type nopAutomator struct{}

func (nopAutomator) Click(screenshot.Point, bool) error { return nil }
func (nopAutomator) ClickAt(screenshot.Point) error     { return nil }
func (nopAutomator) PressKey(string) error              { return nil }
func (nopAutomator) Jiggle()                            {}
