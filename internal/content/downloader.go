package content

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/wheat/techdigest/internal/queue"
)

// FileDownloader is the subset of the HTTP client the image downloader needs.
type FileDownloader interface {
	Download(ctx context.Context, url string, outputPath string) error
}

// ImageDownloader materializes image units on disk. Downloads are idempotent:
// an existing output file is never re-fetched.
type ImageDownloader struct {
	fetcher FileDownloader
	logger  *zap.Logger
}

// NewImageDownloader constructs an ImageDownloader.
func NewImageDownloader(fetcher FileDownloader, logger *zap.Logger) *ImageDownloader {
	return &ImageDownloader{fetcher: fetcher, logger: logger}
}

// Download fetches the image unless its output file already exists.
func (d *ImageDownloader) Download(ctx context.Context, task queue.ImageTask) error {
	if _, err := os.Stat(task.OutputPath); err == nil {
		d.logger.Info("image already exists", zap.String("path", task.OutputPath))
		return nil
	}
	return d.fetcher.Download(ctx, task.DownloadURL, task.OutputPath)
}
