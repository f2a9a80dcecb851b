// Package content implements the per-page scrape pipeline: cache-aware
// acquisition, article extraction, image discovery, and persistence of the
// raw and rendered artifacts.
package content

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/wheat/techdigest/internal/hash/md5name"
	"github.com/wheat/techdigest/internal/queue"
	"github.com/wheat/techdigest/internal/toc"
	"github.com/wheat/techdigest/internal/worker"
)

// Fetcher is the subset of the HTTP client the processor needs.
type Fetcher interface {
	Get(ctx context.Context, path string) (string, error)
}

// Converter turns a raw-cache HTML file into rendered text. The conversion
// machinery itself is external to the pipeline.
type Converter interface {
	Convert(path string) (string, error)
}

// Processor executes the scrape state machine for one column crawl. Image
// units it discovers are enqueued on the shared queue and counted against
// the column's total.
type Processor struct {
	fetcher    Fetcher
	queue      *queue.Queue
	counters   *worker.Counters
	converter  Converter
	outputRoot string
	workRoot   string
	logger     *zap.Logger
}

// NewProcessor constructs a Processor writing under outputRoot and workRoot.
func NewProcessor(
	fetcher Fetcher,
	q *queue.Queue,
	counters *worker.Counters,
	converter Converter,
	outputRoot string,
	workRoot string,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		fetcher:    fetcher,
		queue:      q,
		counters:   counters,
		converter:  converter,
		outputRoot: outputRoot,
		workRoot:   workRoot,
		logger:     logger,
	}
}

// Scrape processes one TOC entry end to end.
func (p *Processor) Scrape(ctx context.Context, entry toc.Entry) error {
	p.logger.Debug("scrape",
		zap.String("column", entry.Column),
		zap.String("title", entry.Title),
	)

	urlPath := EncodePath(entry.Href)
	fileName := path.Base(entry.Href)

	columnDir := filepath.Join(p.outputRoot, entry.Column)
	rawColumnDir := filepath.Join(p.workRoot, entry.Column)
	renderedPath := filepath.Join(columnDir, fileName)
	rawPath := filepath.Join(rawColumnDir, md5name.File(fileName))

	cached := fileExists(rawPath)
	rendered := fileExists(renderedPath)

	var data string
	if cached {
		p.logger.Info("raw cache hit, loading from disk", zap.String("path", rawPath))
		loaded, err := loadCached(rawPath)
		if err != nil {
			return err
		}
		data = loaded
	} else {
		fetched, err := p.fetcher.Get(ctx, urlPath)
		if err != nil {
			return err
		}
		data = fetched
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse page %s: %w", entry.Href, err)
	}

	post := doc.Find(".book-post").First()
	if post.Length() == 0 {
		// The page does not follow the article template. Keep it whole.
		if cached {
			return nil
		}
		if err := os.MkdirAll(columnDir, 0o750); err != nil {
			return fmt.Errorf("create dir %s: %w", columnDir, err)
		}
		if err := os.WriteFile(renderedPath, []byte(data), 0o600); err != nil {
			return fmt.Errorf("write %s: %w", renderedPath, err)
		}
		return nil
	}

	body := post.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ChildrenFiltered("p").Length() > 0
	}).First()
	if body.Length() == 0 {
		return fmt.Errorf("no article body in %s", entry.Href)
	}

	// Runs on cache hits too, so images that failed earlier are re-queued
	// until their files exist.
	p.extractImages(body, urlPath, columnDir)

	if !cached {
		if err := p.persistRaw(body, rawColumnDir, rawPath); err != nil {
			return err
		}
	}
	if !rendered {
		if err := p.persistRendered(rawPath, columnDir, renderedPath); err != nil {
			return err
		}
	}
	return nil
}

// extractImages rewrites extension-less img references in place and enqueues
// one download unit per image under the article body.
func (p *Processor) extractImages(body *goquery.Selection, urlPath, columnDir string) {
	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return
		}

		encodedSrc := EncodePath(src)

		// Extension-less sources are stored as .png; the rewrite lands in
		// the raw cache because serialization happens after this pass.
		if path.Ext(path.Base(src)) == "" {
			src += ".png"
			img.SetAttr("src", src)
		}

		p.queue.Enqueue(queue.Image(queue.ImageTask{
			DownloadURL: path.Dir(urlPath) + "/" + encodedSrc,
			OutputPath:  filepath.Join(columnDir, src),
		}))
		p.counters.AddTotal(1)
	})
}

func (p *Processor) persistRaw(body *goquery.Selection, dir, rawPath string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	var sb strings.Builder
	sb.WriteString("\n")
	var serr error
	body.Children().Each(func(_ int, child *goquery.Selection) {
		markup, err := goquery.OuterHtml(child)
		if err != nil && serr == nil {
			serr = err
			return
		}
		sb.WriteString(markup)
	})
	if serr != nil {
		return fmt.Errorf("serialize article body: %w", serr)
	}
	if err := os.WriteFile(rawPath, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("write raw cache %s: %w", rawPath, err)
	}
	return nil
}

func (p *Processor) persistRendered(rawPath, dir, renderedPath string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	text, err := p.converter.Convert(rawPath)
	if err != nil {
		return fmt.Errorf("convert %s: %w", rawPath, err)
	}
	if err := os.WriteFile(renderedPath, []byte(text), 0o600); err != nil {
		return fmt.Errorf("write rendered %s: %w", renderedPath, err)
	}
	return nil
}

// EncodePath percent-encodes a URL path unless it already is encoded. Hrefs
// arrive inconsistently encoded from the site, so encoding is applied only
// when unescaping the input returns it unchanged, which makes the operation
// idempotent. Path separators are preserved.
func EncodePath(p string) string {
	if unescaped, err := url.PathUnescape(p); err == nil && unescaped != p {
		return p
	}
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// loadCached wraps raw-cache markup in the live-document container shape so
// the extraction path is uniform.
func loadCached(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read raw cache %s: %w", path, err)
	}
	return fmt.Sprintf("<div class='book-post'><div>%s</div></div>", data), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
