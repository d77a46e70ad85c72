package chat

import (
	"context"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Responder answers a single turn. *Orchestrator implements it.
type Responder interface {
	Respond(ctx context.Context, req *Request) (*Reply, error)
}

// Result pairs a reply with the error of the turn that produced it.
type Result struct {
	Reply *Reply
	Err   error
}

// Runner answers independent turns concurrently on a bounded worker pool.
// Turns share no state, so ordering between them is not guaranteed; results
// are returned in request order.
type Runner struct {
	responder Responder
	pool      *ants.Pool
}

// NewRunner creates a runner with size workers.
// A size below 1 uses runtime.NumCPU() / 2, with a minimum of 1.
func NewRunner(responder Responder, size int) (*Runner, error) {
	if responder == nil {
		return nil, ErrResponderRequired
	}
	if size < 1 {
		size = runtime.NumCPU() / 2
		if size < 1 {
			size = 1
		}
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &Runner{responder: responder, pool: pool}, nil
}

// RunAll answers every request and waits for all of them.
func (r *Runner) RunAll(ctx context.Context, reqs []*Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			reply, err := r.responder.Respond(ctx, req)
			results[i] = Result{Reply: reply, Err: err}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()
	return results, nil
}

// Release stops the worker pool.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
