package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wheat/techdigest/internal/queue"
	"github.com/wheat/techdigest/internal/toc"
)

type fakeScraper struct {
	mu      sync.Mutex
	scraped []string
	failOn  map[string]error
	// enqueue lets a scrape spawn image units mid-flight.
	enqueue map[string][]queue.ImageTask
	queue   *queue.Queue
	counter *Counters
}

func (f *fakeScraper) Scrape(_ context.Context, entry toc.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scraped = append(f.scraped, entry.Href)
	for _, task := range f.enqueue[entry.Href] {
		f.queue.Enqueue(queue.Image(task))
		f.counter.AddTotal(1)
	}
	if err, ok := f.failOn[entry.Href]; ok {
		return err
	}
	return nil
}

type fakeDownloader struct {
	mu         sync.Mutex
	downloaded []string
}

func (f *fakeDownloader) Download(_ context.Context, task queue.ImageTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloaded = append(f.downloaded, task.DownloadURL)
	return nil
}

func TestPool_FaultIsolation(t *testing.T) {
	t.Parallel()

	q := queue.New()
	counters := NewCounters()
	for _, href := range []string{"/one", "/two", "/three"} {
		q.Enqueue(queue.Scrape(toc.Entry{Href: href}))
		counters.AddTotal(1)
	}

	scraper := &fakeScraper{
		failOn: map[string]error{"/two": errors.New("fetch /two failed, status: 500")},
		queue:  q,
	}
	pool := NewPool(q, scraper, &fakeDownloader{}, counters, 1, zap.NewNop())
	pool.Run(context.Background())

	require.Equal(t, []string{"/one", "/two", "/three"}, scraper.scraped)
	require.Equal(t, int64(3), counters.Completed())
	require.True(t, q.Idle())
}

func TestPool_ScrapeSpawnsImageUnits(t *testing.T) {
	t.Parallel()

	q := queue.New()
	counters := NewCounters()
	q.Enqueue(queue.Scrape(toc.Entry{Href: "/page"}))
	counters.AddTotal(1)

	scraper := &fakeScraper{
		queue:   q,
		counter: counters,
		enqueue: map[string][]queue.ImageTask{
			"/page": {
				{DownloadURL: "/img1", OutputPath: "img1.png"},
				{DownloadURL: "/img2", OutputPath: "img2.png"},
			},
		},
	}
	downloader := &fakeDownloader{}
	pool := NewPool(q, scraper, downloader, counters, 2, zap.NewNop())
	pool.Run(context.Background())

	require.ElementsMatch(t, []string{"/img1", "/img2"}, downloader.downloaded)
	require.Equal(t, int64(3), counters.Completed())
	require.Equal(t, int64(3), counters.Total())
	require.True(t, q.Idle())
}

func TestPool_EmptyQueueReturns(t *testing.T) {
	t.Parallel()

	q := queue.New()
	pool := NewPool(q, &fakeScraper{}, &fakeDownloader{}, NewCounters(), 4, zap.NewNop())

	done := make(chan struct{})
	go func() {
		pool.Run(context.Background())
		close(done)
	}()
	<-done
}

func TestCounters_Snapshot(t *testing.T) {
	t.Parallel()

	c := NewCounters()
	c.AddTotal(5)
	c.AddCompleted(2)

	completed, total := c.Snapshot()
	require.Equal(t, int64(2), completed)
	require.Equal(t, int64(5), total)
}
