package scheduler

import (
	"runtime"
	"sync"
)

// Executor runs submitted tasks with bounded concurrency.
type Executor interface {
	Submit(task func())
	Join()
}

// Pool runs at most limit tasks at once. Tasks beyond the limit wait in
// submission order until a slot frees.
type Pool struct {
	limit   int
	mutex   sync.Mutex
	queue   []func()
	running int
	wg      sync.WaitGroup
}

// NewPool falls back to the number of CPUs when limit is not positive.
func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return &Pool{limit: limit}
}

func (p *Pool) Limit() int {
	return p.limit
}

// Submit never blocks the caller.
func (p *Pool) Submit(task func()) {
	p.wg.Add(1)
	p.mutex.Lock()
	p.queue = append(p.queue, task)
	spawn := p.running < p.limit
	if spawn {
		p.running++
	}
	p.mutex.Unlock()
	if spawn {
		go p.runner()
	}
}

// runner drains the queue and exits once it is empty.
func (p *Pool) runner() {
	for {
		p.mutex.Lock()
		if len(p.queue) == 0 {
			p.running--
			p.mutex.Unlock()
			return
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mutex.Unlock()

		p.execute(task)
	}
}

func (p *Pool) execute(task func()) {
	defer p.wg.Done()
	task()
}

// Join blocks until every submitted task has returned.
func (p *Pool) Join() {
	p.wg.Wait()
}
