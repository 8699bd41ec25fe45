// Package pool implements the worker pool: a fixed-size set of workers
// dispatched round-robin, one outstanding task per worker at a time, each
// submission returning its own future.
package pool

import (
	"sync"
	"sync/atomic"

	rendererrors "github.com/five82/animrender/internal/errors"
	"github.com/five82/animrender/internal/frame"
	"github.com/five82/animrender/internal/model"
)

// Task is the payload posted to a worker, matching the worker message
// protocol's {type:"processFrame", frameIndex, width, height, bitmap,
// operations}.
type Task struct {
	FrameIndex int
	Width      int
	Height     int
	Bitmap     []byte
	Operations []model.Operation
}

// Result is a worker's reply, matching {type:"processedFrame", frameIndex,
// png}. Err is set instead of PNG when the worker task itself failed.
type Result struct {
	FrameIndex int
	PNG        []byte
	Err        error
}

type job struct {
	task  Task
	reply chan Result
}

// Pool is a fixed-size set of workers, dispatched round-robin by a
// monotonically incrementing index modulo pool size.
type Pool struct {
	workers []chan job
	stop    chan struct{}
	closed  atomic.Bool
	wg      sync.WaitGroup

	mu   sync.Mutex
	next int
}

// New creates a pool of the given size, defaulting to 1 if size < 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		workers: make([]chan job, size),
		stop:    make(chan struct{}),
	}
	for i := range p.workers {
		ch := make(chan job)
		p.workers[i] = ch
		p.wg.Add(1)
		go p.run(ch)
	}
	return p
}

func (p *Pool) run(ch chan job) {
	defer p.wg.Done()
	for {
		select {
		case j, ok := <-ch:
			if !ok {
				return
			}
			png, err := frame.Process(j.task.Width, j.task.Height, j.task.Bitmap, j.task.Operations)
			j.reply <- Result{FrameIndex: j.task.FrameIndex, PNG: png, Err: err}
		case <-p.stop:
			return
		}
	}
}

// Submit posts task to the next worker round-robin and returns a
// one-shot channel the caller awaits for the reply. Because every
// submission gets its own private reply channel, a worker's answer can
// never be matched to the wrong submission — correlation by FrameIndex is
// structural rather than advisory, strengthening the FIFO-per-worker
// guarantee a shared reply channel would only imply.
func (p *Pool) Submit(task Task) (<-chan Result, error) {
	if p.closed.Load() {
		return nil, rendererrors.NewPoolShutdownError()
	}

	p.mu.Lock()
	ch := p.workers[p.next]
	p.next = (p.next + 1) % len(p.workers)
	p.mu.Unlock()

	reply := make(chan Result, 1)
	select {
	case ch <- job{task: task, reply: reply}:
		return reply, nil
	case <-p.stop:
		return nil, rendererrors.NewPoolShutdownError()
	}
}

// Shutdown signals every worker to stop and waits for them to exit.
// Submissions already blocked sending to a worker unblock with
// PoolShutdown rather than hang. Safe to call more than once.
func (p *Pool) Shutdown() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.stop)
	p.wg.Wait()
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}
