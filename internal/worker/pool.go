package worker

import (
	"context"
	"sync"
)

// Job is a unit of work submitted to the pool.
type Job interface {
	// Execute runs the job. The context is cancelled when the pool
	// shuts down, so long-running jobs should honor it.
	Execute(ctx context.Context) Result
}

// Result is the outcome of a finished job.
type Result interface {
	// GetError returns the job's failure, or nil on success.
	GetError() error
}

// Pool fans jobs out across a fixed number of goroutines. A collector
// goroutine drains results as they complete, so the pool accepts any
// number of submissions without the workers blocking on a full results
// channel.
type Pool struct {
	workers   int
	queue     chan Job
	results   chan Result
	collector *ResultCollector
	drained   chan struct{}
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given number of workers. The parent
// context bounds every job: cancelling it stops the pool.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:   workers,
		queue:     make(chan Job, workers*2),
		results:   make(chan Result, workers*2),
		collector: NewResultCollector(),
		drained:   make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the workers and the result collector.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}

	go func() {
		for result := range p.results {
			p.collector.Add(result)
		}
		close(p.drained)
	}()
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.queue:
			if !ok {
				return
			}
			// The collector keeps draining until the results channel
			// closes, which happens only after every worker has exited.
			p.results <- job.Execute(p.ctx)
		}
	}
}

// Submit queues a job for execution. After Shutdown, or once the parent
// context is cancelled, the job is dropped and Submit returns
// immediately. Submit must not be called after Wait.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.queue <- job:
	}
}

// Wait closes the queue, blocks until every submitted job has finished,
// and returns the collected results in completion order.
func (p *Pool) Wait() []Result {
	close(p.queue)
	p.wg.Wait()
	p.closeResults()
	<-p.drained

	return p.collector.Results()
}

// Shutdown cancels in-flight work and stops the workers. Queued jobs
// that have not started are dropped.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
	<-p.drained
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// ResultCollector accumulates results behind a mutex.
type ResultCollector struct {
	results []Result
	mu      sync.Mutex
}

// NewResultCollector creates an empty collector.
func NewResultCollector() *ResultCollector {
	return &ResultCollector{
		results: make([]Result, 0),
	}
}

// Add appends a result.
func (c *ResultCollector) Add(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns everything collected so far.
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}
