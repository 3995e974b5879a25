// Package trigger turns global key presses into pointer-position samples.
// A caller arms a named key and blocks until that key transitions from up to
// down; the pointer location at that instant is the recorded point.
package trigger

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/go-vgo/robotgo"
	gohook "github.com/robotn/gohook"

	"bookcap/src/screenshot"
)

// Source blocks until a designated trigger fires, then returns the pointer
// position sampled at that moment. An indefinite wait is a valid state; the
// caller bounds it through ctx if it wants a timeout.
type Source interface {
	AwaitTrigger(ctx context.Context, key string) (screenshot.Point, error)
}

// Keyboard is a Source backed by a global keyboard hook. Multiple waiters may
// be armed at once for different keys without cross-talk; each waiter only
// reacts to its own key. Key repeats while held do not re-fire (edge
// detection on the up→down transition).
type Keyboard struct {
	startOnce sync.Once

	mu      sync.Mutex
	pressed map[uint16]bool
	waiters map[uint16][]*waiter

	// position returns the current pointer location. Overridable in tests.
	position func() (int, int)
}

type waiter struct {
	ch       chan screenshot.Point
	rawcodes []uint16
}

func NewKeyboard() *Keyboard {
	return &Keyboard{
		pressed:  make(map[uint16]bool),
		waiters:  make(map[uint16][]*waiter),
		position: robotgo.Location,
	}
}

// AwaitTrigger blocks until the named key is pressed or ctx is done.
func (k *Keyboard) AwaitTrigger(ctx context.Context, key string) (screenshot.Point, error) {
	rawcodes := KeyRawcodes(key)
	if len(rawcodes) == 0 {
		return screenshot.Point{}, fmt.Errorf("unknown trigger key %q", key)
	}

	k.startOnce.Do(k.startHook)

	w := &waiter{ch: make(chan screenshot.Point, 1), rawcodes: rawcodes}
	k.mu.Lock()
	for _, rc := range rawcodes {
		k.waiters[rc] = append(k.waiters[rc], w)
	}
	k.mu.Unlock()

	select {
	case pt := <-w.ch:
		return pt, nil
	case <-ctx.Done():
		k.mu.Lock()
		k.removeWaiter(w)
		k.mu.Unlock()
		return screenshot.Point{}, ctx.Err()
	}
}

func (k *Keyboard) startHook() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in trigger hook goroutine: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}
		log.Printf("Trigger hook started")

		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				k.handleKeyDown(ev.Rawcode)
			case gohook.KeyUp:
				k.mu.Lock()
				delete(k.pressed, ev.Rawcode)
				k.mu.Unlock()
			}
		}
		log.Printf("Trigger hook channel closed")
	}()
}

func (k *Keyboard) handleKeyDown(rawcode uint16) {
	k.mu.Lock()
	if k.pressed[rawcode] {
		k.mu.Unlock()
		return
	}
	k.pressed[rawcode] = true
	fired := k.waiters[rawcode]
	for _, w := range fired {
		k.removeWaiter(w)
	}
	k.mu.Unlock()

	if len(fired) == 0 {
		return
	}

	x, y := k.position()
	pt := screenshot.Point{X: x, Y: y}
	log.Printf("Trigger fired: rawcode=%d at (%d,%d)", rawcode, pt.X, pt.Y)
	for _, w := range fired {
		w.ch <- pt
	}
}

// removeWaiter unregisters w from every rawcode it is armed on.
// Caller holds k.mu.
func (k *Keyboard) removeWaiter(w *waiter) {
	for _, rc := range w.rawcodes {
		list := k.waiters[rc]
		for i, cand := range list {
			if cand == w {
				k.waiters[rc] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(k.waiters[rc]) == 0 {
			delete(k.waiters, rc)
		}
	}
}
