// Package worker runs capture sessions on a dedicated goroutine so the
// foreground input-handling path never blocks for the duration of a run.
package worker

import (
	"context"
	"log"
	"sync"

	"bookcap/src/capture"
)

// ResultCallback is invoked on session completion (from the worker goroutine).
type ResultCallback func(capture.Result)

// Runner executes capture sessions one at a time with a 1-slot input queue
// (strict back-pressure). Sessions never run concurrently: at most one is
// active and one more waits in the queue slot; further submits report busy.
type Runner struct {
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx  context.Context
	sess capture.Session
	deps capture.Deps
	cb   ResultCallback
}

func New() *Runner {
	r := &Runner{jobs: make(chan job, 1)}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for j := range r.jobs {
			log.Printf("Worker: starting capture session (region %dx%d)",
				j.sess.Region.Width, j.sess.Region.Height)
			res := capture.Run(j.ctx, j.sess, j.deps)
			log.Printf("Worker: capture finished: reason=%v pages=%d err=%v",
				res.Reason, res.Pages, res.Err)
			if j.cb != nil {
				j.cb(res)
			}
		}
	}()
	return r
}

// Submit enqueues a session if the single-slot queue is free. Returns false
// when the slot is taken, which happens once a session is both running and
// one more is queued behind it.
func (r *Runner) Submit(ctx context.Context, sess capture.Session, deps capture.Deps, cb ResultCallback) bool {
	select {
	case r.jobs <- job{ctx: ctx, sess: sess, deps: deps, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the runner after draining current work.
func (r *Runner) Close() {
	close(r.jobs)
	r.wg.Wait()
}
