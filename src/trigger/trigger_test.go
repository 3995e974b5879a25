package trigger

import (
	"context"
	"testing"
	"time"

	"bookcap/src/screenshot"
)

// testKeyboard returns a Keyboard whose hook is already "started" (a no-op)
// and whose pointer position is fixed, so tests can drive key events directly.
func testKeyboard(x, y int) *Keyboard {
	k := NewKeyboard()
	k.startOnce.Do(func() {})
	k.position = func() (int, int) { return x, y }
	return k
}

func await(t *testing.T, k *Keyboard, key string) chan screenshot.Point {
	t.Helper()
	out := make(chan screenshot.Point, 1)
	go func() {
		pt, err := k.AwaitTrigger(context.Background(), key)
		if err != nil {
			t.Errorf("AwaitTrigger(%q) failed: %v", key, err)
			return
		}
		out <- pt
	}()
	// Give the goroutine time to register its waiter.
	for i := 0; i < 100; i++ {
		k.mu.Lock()
		n := len(k.waiters)
		k.mu.Unlock()
		if n > 0 {
			return out
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("waiter never registered")
	return out
}

func TestAwaitTriggerSamplesPointer(t *testing.T) {
	k := testKeyboard(640, 480)
	out := await(t, k, "f8")

	k.handleKeyDown(119) // f8

	select {
	case pt := <-out:
		if pt.X != 640 || pt.Y != 480 {
			t.Errorf("got point (%d,%d), want (640,480)", pt.X, pt.Y)
		}
	case <-time.After(time.Second):
		t.Fatal("trigger never delivered")
	}
}

func TestAwaitTriggerIgnoresOtherKeys(t *testing.T) {
	k := testKeyboard(1, 2)
	out := await(t, k, "f6")

	k.handleKeyDown(119) // f8 must not satisfy an f6 waiter
	select {
	case <-out:
		t.Fatal("f6 waiter fired on f8")
	case <-time.After(50 * time.Millisecond):
	}

	k.handleKeyDown(117) // f6
	select {
	case <-out:
	case <-time.After(time.Second):
		t.Fatal("f6 waiter never fired")
	}
}

func TestKeyRepeatDoesNotRefire(t *testing.T) {
	k := testKeyboard(0, 0)
	out := await(t, k, "f7")

	k.handleKeyDown(118)
	<-out

	// Key held down: repeated KeyDown events arrive, but no waiter exists and
	// the pressed state suppresses edge re-detection.
	k.handleKeyDown(118)

	out2 := await(t, k, "f7")
	select {
	case <-out2:
		t.Fatal("waiter fired without an up→down transition")
	case <-time.After(50 * time.Millisecond):
	}

	// Release, then press again: fires.
	k.mu.Lock()
	delete(k.pressed, 118)
	k.mu.Unlock()
	k.handleKeyDown(118)
	select {
	case <-out2:
	case <-time.After(time.Second):
		t.Fatal("waiter never fired after release and re-press")
	}
}

func TestAwaitTriggerCancellation(t *testing.T) {
	k := testKeyboard(0, 0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := k.AwaitTrigger(ctx, "f8")
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("AwaitTrigger did not return on cancellation")
	}

	k.mu.Lock()
	remaining := len(k.waiters)
	k.mu.Unlock()
	if remaining != 0 {
		t.Errorf("cancelled waiter left %d registrations behind", remaining)
	}
}

func TestAwaitTriggerUnknownKey(t *testing.T) {
	k := testKeyboard(0, 0)
	if _, err := k.AwaitTrigger(context.Background(), "bogus"); err == nil {
		t.Error("expected error for unknown key name")
	}
}
