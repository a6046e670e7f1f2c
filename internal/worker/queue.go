// worker/queue.go
package worker

import "sync"

// Queue runs jobs on a single goroutine in submission order. Persistence
// writes go through it so a new write never races the one before it: the
// caller fires and forgets, the queue serializes.
type Queue struct {
	mu     sync.Mutex
	closed bool
	jobs   chan func()
	done   chan struct{}
}

func NewQueue(bufferSize int) *Queue {
	q := &Queue{
		jobs: make(chan func(), bufferSize),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	for job := range q.jobs {
		job()
	}
	close(q.done)
}

// Enqueue submits a job. Blocks only when the buffer is full. A job
// submitted after Close is dropped.
func (q *Queue) Enqueue(job func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.jobs <- job
}

// Close stops accepting jobs and waits until every queued job has run.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	<-q.done
}
