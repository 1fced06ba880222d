package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chazu/tpc/vm"
)

// evalRequest represents a unit of work to be executed on the worker goroutine.
type evalRequest struct {
	fn   func(vm.Options) any
	done chan evalResult
}

// evalResult holds the return value from an evaluation.
type evalResult struct {
	value any
	err   error
}

// Worker serializes all evaluations through a single goroutine.
// LSP handlers may run concurrently; each line is still compiled and run
// to completion before the next one starts.
type Worker struct {
	opts     vm.Options
	requests chan evalRequest
	quit     chan struct{}
	stop     sync.Once
}

var errWorkerStopped = errors.New("server: worker stopped")

// NewWorker creates a Worker that runs with opts and starts the processing goroutine.
func NewWorker(opts vm.Options) *Worker {
	w := &Worker{
		opts:     opts,
		requests: make(chan evalRequest),
		quit:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// loop processes requests sequentially on a dedicated goroutine.
func (w *Worker) loop() {
	for {
		select {
		case req := <-w.requests:
			req.done <- w.execute(req.fn)
		case <-w.quit:
			return
		}
	}
}

// execute runs fn, recovering from panics.
func (w *Worker) execute(fn func(vm.Options) any) evalResult {
	var result evalResult
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.err = fmt.Errorf("%v", r)
			}
		}()
		result.value = fn(w.opts)
	}()
	return result
}

// Do submits fn for execution on the worker goroutine and blocks until it
// completes. Returns the result and any error (including panics), or
// errWorkerStopped once Stop has been called.
func (w *Worker) Do(fn func(vm.Options) any) (any, error) {
	req := evalRequest{
		fn:   fn,
		done: make(chan evalResult, 1),
	}
	select {
	case <-w.quit:
		return nil, errWorkerStopped
	default:
	}
	select {
	case w.requests <- req:
	case <-w.quit:
		return nil, errWorkerStopped
	}
	result := <-req.done
	return result.value, result.err
}

// Stop shuts down the worker goroutine. It is safe to call more than once.
func (w *Worker) Stop() {
	w.stop.Do(func() { close(w.quit) })
}

// Options returns the VM options evaluations run with.
func (w *Worker) Options() vm.Options {
	return w.opts
}
