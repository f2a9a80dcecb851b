// Package queue provides the unit-of-work queue feeding the worker pool.
package queue

import (
	"sync"

	"github.com/wheat/techdigest/internal/toc"
)

// Kind discriminates the two unit types.
type Kind string

// Supported unit kinds.
const (
	KindScrape Kind = "scrape"
	KindImage  Kind = "download_image"
)

// ImageTask asks a worker to download one embedded image.
type ImageTask struct {
	DownloadURL string
	OutputPath  string
}

// Unit is one queued task, either a page scrape or an image download.
type Unit struct {
	Kind  Kind
	Entry toc.Entry
	Image ImageTask
}

// Scrape wraps a TOC entry as a unit.
func Scrape(e toc.Entry) Unit {
	return Unit{Kind: KindScrape, Entry: e}
}

// Image wraps an image task as a unit.
func Image(t ImageTask) Unit {
	return Unit{Kind: KindImage, Image: t}
}

// Queue is an unbounded FIFO shared by producers and the worker pool.
// Workers may enqueue while others drain, so emptiness alone does not mean
// the column is done: a unit being processed can still produce more work.
// Pop therefore only reports exhaustion when the queue is empty and no unit
// is in flight, with both checked under one lock.
type Queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []Unit
	inFlight int
}

// New constructs an empty queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a unit.
func (q *Queue) Enqueue(u Unit) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, u)
	q.cond.Signal()
}

// Pop removes the next unit and marks it in flight. It blocks while the
// queue is empty but other units are still processing, and returns ok=false
// once the queue is empty with nothing in flight.
func (q *Queue) Pop() (Unit, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && q.inFlight > 0 {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return Unit{}, false
	}
	u := q.items[0]
	q.items = q.items[1:]
	q.inFlight++
	return u, true
}

// Done marks one in-flight unit finished.
func (q *Queue) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inFlight--
	if len(q.items) == 0 && q.inFlight == 0 {
		q.cond.Broadcast()
	}
}

// Len reports the number of queued (not in-flight) units.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Idle reports whether the queue is empty and no unit is in flight.
func (q *Queue) Idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0 && q.inFlight == 0
}
