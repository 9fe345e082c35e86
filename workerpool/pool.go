// Package workerpool is a fixed-size pool of goroutines draining one shared
// FIFO job queue, translated from the original engine's ThreadPool/Worker
// design (crossbeam::channel + JoinHandle) into channels and a WaitGroup.
// See §4.4.
package workerpool

import (
	"sync"

	"github.com/kestrelmarkets/stmdb/stmdblog"
)

// Job is a unit of work with no inputs and no return value; inter-job
// communication uses caller-provided channels. Matches the original's
// `Box<dyn FnOnce() + Send + 'static>`.
type Job func()

// Pool is a fixed-size worker pool whose workers all receive from one
// shared, unbuffered FIFO job channel. There is no job queue beyond callers
// waiting in Execute. A Job running on the pool may call Execute on the same
// pool, but that call returns only once another worker is free; on a pool
// of size 1 it never returns.
type Pool struct {
	jobs chan Job
	wg   sync.WaitGroup
	log  stmdblog.Logger
}

// New starts a Pool with size workers, each blocking on receive from the
// shared job channel until Shutdown closes it.
func New(size int, log stmdblog.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = stmdblog.Nop()
	}

	p := &Pool{
		jobs: make(chan Job),
		log:  log,
	}

	p.wg.Add(size)
	for id := 0; id < size; id++ {
		go p.worker(id)
	}

	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		job()
	}
	p.log.Info("workerpool: worker stopped", stmdblog.Int("worker_id", id))
}

// Execute enqueues job for execution by the next free worker. It blocks
// until a worker is ready to receive (the job channel is unbuffered, giving
// strict FIFO ordering across concurrent callers).
func (p *Pool) Execute(job Job) {
	p.jobs <- job
}

// Shutdown closes the job channel, which signals every worker to exit once
// it finishes the job it is running, then waits for all workers to stop.
// Shutdown must be called at most once; an Execute that is blocked during
// Shutdown, or called after it, panics.
func (p *Pool) Shutdown() {
	close(p.jobs)
	p.wg.Wait()
}
