// Package worker runs CPU intensive jobs, such as path calculations, off the tick goroutine.
package worker

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/pathing/oerror"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

type job struct {
	f       func()
	onPanic func(v any)
}

// Pool is a fixed set of goroutines executing submitted jobs. A job that panics is reported to sentry
// and logged without taking its worker down.
type Pool struct {
	queue  chan job
	log    logrus.FieldLogger
	wg     sync.WaitGroup
	closed atomic.Bool
	mu     deadlock.Mutex
}

// NewPool starts a Pool with the amount of workers passed, or one per CPU if workers is not positive.
func NewPool(workers int, log logrus.FieldLogger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	p := &Pool{queue: make(chan job, workers*4), log: log}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.queue {
		p.run(j)
	}
}

func (p *Pool) run(j job) {
	defer func() {
		if v := recover(); v != nil {
			p.log.Errorf("worker job panicked: %v", v)
			hub := sentry.CurrentHub().Clone()
			hub.Recover(oerror.New("worker job panicked: %v", v))
			hub.Flush(time.Second * 5)
			if j.onPanic != nil {
				j.onPanic(v)
			}
		}
	}()
	j.f()
}

// Submit queues f to be run by a worker. If f panics, onPanic is called with the recovered value, if
// not nil. Submit never blocks: it returns false if the queue is full or the pool was closed.
func (p *Pool) Submit(f func(), onPanic func(v any)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Load() {
		return false
	}
	select {
	case p.queue <- job{f: f, onPanic: onPanic}:
		return true
	default:
		return false
	}
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed.Swap(true) {
		p.mu.Unlock()
		return
	}
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}
