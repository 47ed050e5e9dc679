// Package workpool runs independent tasks on a fixed set of goroutines and
// hands results back through futures.
package workpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MinWorkers is the floor applied to the default pool size.
const MinWorkers = 4

var (
	// ErrClosed is returned for tasks submitted after Close.
	ErrClosed = errors.New("workpool: pool is closed")
	// ErrTaskPanic wraps a panic recovered from a task.
	ErrTaskPanic = errors.New("workpool: task panicked")
)

// DefaultSize returns the number of workers used when none is configured.
func DefaultSize() int {
	return max(runtime.NumCPU(), MinWorkers)
}

// Pool is a bounded set of worker goroutines consuming a task queue.
type Pool struct {
	tasks chan func()
	group errgroup.Group
	size  int

	mu     sync.RWMutex
	closed bool
}

// New starts a pool with size workers. A size of zero or less uses
// DefaultSize.
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize()
	}

	p := &Pool{
		tasks: make(chan func(), size),
		size:  size,
	}
	for range size {
		p.group.Go(func() error {
			for task := range p.tasks {
				task()
			}
			return nil
		})
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Close stops accepting tasks and waits for queued ones to finish. It is
// safe to call more than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	return p.group.Wait()
}

// Future is the pending result of a submitted task.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Await blocks until the task has run and returns its result.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// Submit queues fn on the pool. It blocks while the queue is full.
func Submit[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	task := func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
			}
		}()
		f.value, f.err = fn()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		f.err = ErrClosed
		close(f.done)
		return f
	}
	p.tasks <- task
	return f
}

// AwaitAll waits for every future and returns the values in submission
// order. The first error encountered is returned after all futures settle.
func AwaitAll[T any](futures []*Future[T]) ([]T, error) {
	values := make([]T, len(futures))
	var firstErr error
	for i, f := range futures {
		v, err := f.Await()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		values[i] = v
	}
	return values, firstErr
}
