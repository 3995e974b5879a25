package keepawake

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPulserPulsesUntilStopped(t *testing.T) {
	var pulses int64
	p := &Pulser{
		Interval: 5 * time.Millisecond,
		PulseFn:  func() { atomic.AddInt64(&pulses, 1) },
		stop:     make(chan struct{}),
	}

	p.Start()
	time.Sleep(40 * time.Millisecond)
	p.Stop()

	seen := atomic.LoadInt64(&pulses)
	if seen < 2 {
		t.Errorf("expected repeated pulses, got %d", seen)
	}

	time.Sleep(20 * time.Millisecond)
	if after := atomic.LoadInt64(&pulses); after > seen+1 {
		t.Errorf("pulser kept running after Stop: %d -> %d", seen, after)
	}
}

func TestPulserStopIdempotent(t *testing.T) {
	p := NewPulser()
	p.Start()
	p.Stop()
	p.Stop() // must not panic on double close
}

func TestNoopServicePairs(t *testing.T) {
	var svc Service = Noop{}
	if err := svc.Acquire("test"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := svc.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}
