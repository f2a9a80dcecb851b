// Package spider orchestrates a crawl run: root TOC discovery, column
// selection, and the per-column queue/pool/reporter lifecycle.
package spider

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wheat/techdigest/internal/content"
	"github.com/wheat/techdigest/internal/progress"
	"github.com/wheat/techdigest/internal/queue"
	"github.com/wheat/techdigest/internal/toc"
	"github.com/wheat/techdigest/internal/worker"
)

// Client is the HTTP surface the spider and its pipeline need.
type Client interface {
	Get(ctx context.Context, path string) (string, error)
	Download(ctx context.Context, url string, outputPath string) error
}

// Config controls a crawl run.
type Config struct {
	OutputRoot     string
	WorkRoot       string
	Workers        int
	ReportInterval time.Duration
	BarWidth       int
}

// Spider drives the whole crawl.
type Spider struct {
	client    Client
	converter content.Converter
	cfg       Config
	out       io.Writer
	logger    *zap.Logger
}

// New constructs a Spider. Progress bars are written to out.
func New(client Client, converter content.Converter, cfg Config, out io.Writer, logger *zap.Logger) *Spider {
	return &Spider{
		client:    client,
		converter: converter,
		cfg:       cfg,
		out:       out,
		logger:    logger,
	}
}

// Run fetches the root TOC, applies the selection, and crawls each selected
// column in order. Each column gets fresh counters and a fresh queue.
func (s *Spider) Run(ctx context.Context, sel Selection) error {
	body, err := s.client.Get(ctx, "/")
	if err != nil {
		return fmt.Errorf("fetch root toc: %w", err)
	}
	root, err := toc.Parse(body)
	if err != nil {
		return err
	}

	columns, err := Select(root, sel)
	if err != nil {
		return err
	}
	titles := make([]string, 0, len(columns))
	for _, c := range columns {
		titles = append(titles, c.Title)
	}
	s.logger.Info("columns selected", zap.Strings("columns", titles))

	for _, column := range columns {
		if err := s.crawlColumn(ctx, column); err != nil {
			return err
		}
	}
	return nil
}

func (s *Spider) crawlColumn(ctx context.Context, column toc.Entry) error {
	s.logger.Info("start scraping", zap.String("column", column.Title))

	counters := worker.NewCounters()
	q := queue.New()

	body, err := s.client.Get(ctx, content.EncodePath(column.Href))
	if err != nil {
		return fmt.Errorf("fetch sub toc %s: %w", column.Title, err)
	}
	entries, err := toc.Parse(body)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		entry.Column = column.Title
		q.Enqueue(queue.Scrape(entry))
		counters.AddTotal(1)
	}

	processor := content.NewProcessor(
		s.client, q, counters, s.converter,
		s.cfg.OutputRoot, s.cfg.WorkRoot, s.logger,
	)
	downloader := content.NewImageDownloader(s.client, s.logger)
	pool := worker.NewPool(q, processor, downloader, counters, s.cfg.Workers, s.logger)
	reporter := progress.NewReporter(
		q, counters, s.cfg.ReportInterval, s.cfg.BarWidth, column.Title, s.out,
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		reporter.Run(ctx)
	}()
	pool.Run(ctx)
	wg.Wait()

	s.logger.Info("column done",
		zap.String("column", column.Title),
		zap.Int64("completed", counters.Completed()),
		zap.Int64("total", counters.Total()),
	)
	return nil
}
