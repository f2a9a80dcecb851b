// Package worker implements the crawl unit execution loop.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wheat/techdigest/internal/queue"
	"github.com/wheat/techdigest/internal/toc"
)

// Counters tracks per-column progress. Enqueue operations increment total;
// workers increment completed once per unit regardless of outcome. The
// reporter reads both concurrently, so the fields are atomic.
type Counters struct {
	completed atomic.Int64
	total     atomic.Int64
}

// NewCounters returns zeroed counters for one column crawl.
func NewCounters() *Counters {
	return &Counters{}
}

// AddTotal records n newly enqueued units.
func (c *Counters) AddTotal(n int64) { c.total.Add(n) }

// AddCompleted records n finished units.
func (c *Counters) AddCompleted(n int64) { c.completed.Add(n) }

// Total returns the number of units enqueued so far.
func (c *Counters) Total() int64 { return c.total.Load() }

// Completed returns the number of units finished so far.
func (c *Counters) Completed() int64 { return c.completed.Load() }

// Snapshot returns both counters.
func (c *Counters) Snapshot() (completed, total int64) {
	return c.completed.Load(), c.total.Load()
}

// Scraper processes one page scrape unit.
type Scraper interface {
	Scrape(ctx context.Context, entry toc.Entry) error
}

// Downloader processes one image download unit.
type Downloader interface {
	Download(ctx context.Context, task queue.ImageTask) error
}

// Pool drains the queue with a fixed number of workers. A failing unit is
// logged and counted completed; it never stops the pool or its siblings.
type Pool struct {
	queue      *queue.Queue
	scraper    Scraper
	downloader Downloader
	counters   *Counters
	size       int
	logger     *zap.Logger
}

// NewPool constructs a Pool of size workers.
func NewPool(
	q *queue.Queue,
	scraper Scraper,
	downloader Downloader,
	counters *Counters,
	size int,
	logger *zap.Logger,
) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		queue:      q,
		scraper:    scraper,
		downloader: downloader,
		counters:   counters,
		size:       size,
		logger:     logger,
	}
}

// Run blocks until the queue is drained and every in-flight unit finished.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.work(ctx)
		}()
	}
	wg.Wait()
}

func (p *Pool) work(ctx context.Context) {
	for {
		unit, ok := p.queue.Pop()
		if !ok {
			return
		}
		p.process(ctx, unit)
		p.counters.AddCompleted(1)
		p.queue.Done()
	}
}

func (p *Pool) process(ctx context.Context, unit queue.Unit) {
	switch unit.Kind {
	case queue.KindScrape:
		if err := p.scraper.Scrape(ctx, unit.Entry); err != nil {
			p.logger.Error("scrape failed",
				zap.String("column", unit.Entry.Column),
				zap.String("title", unit.Entry.Title),
				zap.String("href", unit.Entry.Href),
				zap.Error(err),
			)
		}
	case queue.KindImage:
		if err := p.downloader.Download(ctx, unit.Image); err != nil {
			p.logger.Error("image download failed",
				zap.String("url", unit.Image.DownloadURL),
				zap.String("output", unit.Image.OutputPath),
				zap.Error(err),
			)
		}
	default:
		p.logger.Error("unknown unit kind", zap.String("kind", string(unit.Kind)))
	}
}
