package worker

import (
	"context"
	"image"
	"testing"
	"time"

	"bookcap/src/capture"
	"bookcap/src/pagestore"
	"bookcap/src/screenshot"
)

func sessionDeps(t *testing.T, block chan struct{}) capture.Deps {
	t.Helper()
	n := 0
	return capture.Deps{
		Capture: func(region screenshot.Region) (*image.RGBA, error) {
			if block != nil {
				<-block
			}
			n++
			img := image.NewRGBA(image.Rect(0, 0, 2, 2))
			img.Pix[0] = byte(n)
			return img, nil
		},
		Store: pagestore.At(t.TempDir()),
	}
}

func testSession() capture.Session {
	return capture.Session{
		AdvancePoint: screenshot.Point{X: 10, Y: 10},
		Region:       screenshot.Region{Width: 2, Height: 2},
		Options:      capture.Options{FixedPages: 2},
	}
}

func TestRunnerDeliversResult(t *testing.T) {
	r := New()
	defer r.Close()

	results := make(chan capture.Result, 1)
	ok := r.Submit(context.Background(), testSession(), sessionDeps(t, nil), func(res capture.Result) {
		results <- res
	})
	if !ok {
		t.Fatal("Submit rejected an idle runner")
	}

	select {
	case res := <-results:
		if res.Reason != capture.StopFixed || res.Pages != 2 {
			t.Errorf("got reason=%v pages=%d, want StopFixed pages=2", res.Reason, res.Pages)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
	}
}

func TestRunnerRejectsConcurrentSessions(t *testing.T) {
	r := New()

	block := make(chan struct{})
	started := make(chan struct{})
	results := make(chan capture.Result, 2)
	cb := func(res capture.Result) { results <- res }

	first := capture.Deps{
		Capture: func(region screenshot.Region) (*image.RGBA, error) {
			select {
			case <-started:
			default:
				close(started)
			}
			<-block
			return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
		},
		Store: pagestore.At(t.TempDir()),
	}

	if !r.Submit(context.Background(), testSession(), first, cb) {
		t.Fatal("first Submit rejected")
	}
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first session never started")
	}
	// First session occupies the worker (blocked in its capture call);
	// second fills the 1-slot queue; third must report busy.
	if !r.Submit(context.Background(), testSession(), sessionDeps(t, nil), cb) {
		t.Fatal("queued Submit rejected")
	}
	if r.Submit(context.Background(), testSession(), sessionDeps(t, nil), cb) {
		t.Error("third Submit accepted; expected busy rejection")
	}

	close(block)
	for i := 0; i < 2; i++ {
		select {
		case <-results:
		case <-time.After(5 * time.Second):
			t.Fatal("sessions did not finish")
		}
	}
	r.Close()
}

func TestRunnerCloseDrains(t *testing.T) {
	r := New()
	done := make(chan capture.Result, 1)
	r.Submit(context.Background(), testSession(), sessionDeps(t, nil), func(res capture.Result) {
		done <- res
	})
	r.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close returned before the queued session ran")
	}
}
