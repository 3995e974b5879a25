// Package keepawake prevents system and display sleep for the duration of a
// capture run. Acquire and Release must be paired exactly once per run; the
// capture loop guarantees Release on every exit path.
package keepawake

import (
	"log"
	"sync"
	"time"
)

// Service holds the system awake between Acquire and Release.
type Service interface {
	Acquire(reason string) error
	Release() error
}

// New returns the keep-awake implementation for the current platform.
func New() Service {
	return newPlatformService()
}

// Noop is a Service that only logs. Used on platforms without a native
// keep-awake hook and as a test double.
type Noop struct{}

func (Noop) Acquire(reason string) error {
	log.Printf("Keep-awake: no platform support, continuing without (%s)", reason)
	return nil
}

func (Noop) Release() error { return nil }

// Pulser emits a periodic "user is active" signal to defeat idle timers that
// plain sleep prevention does not cover. Stop only signals termination; the
// pulse goroutine is not joined, but a stopped Pulser never pulses again.
type Pulser struct {
	Interval time.Duration
	PulseFn  func()

	stopOnce sync.Once
	stop     chan struct{}
}

func NewPulser() *Pulser {
	return &Pulser{
		Interval: 30 * time.Second,
		PulseFn:  platformPulse,
		stop:     make(chan struct{}),
	}
}

func (p *Pulser) Start() {
	go func() {
		for {
			select {
			case <-p.stop:
				return
			default:
			}
			if p.PulseFn != nil {
				p.PulseFn()
			}
			select {
			case <-p.stop:
				return
			case <-time.After(p.Interval):
			}
		}
	}()
}

// Stop signals the pulse goroutine to exit. Safe to call more than once.
func (p *Pulser) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}
