package spider

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wheat/techdigest/internal/fetcher"
	"github.com/wheat/techdigest/internal/ratelimit"
)

type testSite struct {
	mu       sync.Mutex
	requests []string
}

func (s *testSite) record(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, path)
}

func (s *testSite) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func tocPage(items map[string]string, order []string) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><div class="book-post"><ul>`)
	for _, title := range order {
		fmt.Fprintf(&sb, `<li><a href="%s">%s</a></li>`, items[title], title)
	}
	sb.WriteString(`</ul></div></body></html>`)
	return sb.String()
}

func articlePage(text string) string {
	return fmt.Sprintf(
		`<html><body><div class="book-post"><div><p>%s</p><img src="assets/fig.png"/></div></div></body></html>`,
		text,
	)
}

func newSiteServer(t *testing.T, site *testSite) *httptest.Server {
	t.Helper()

	pages := map[string]string{}
	pages["/"] = tocPage(map[string]string{"A": "/col-a/", "B": "/col-b/", "C": "/col-c/"}, []string{"A", "B", "C"})
	for _, col := range []string{"a", "b", "c"} {
		prefix := "/col-" + col
		pages[prefix+"/"] = tocPage(map[string]string{"p1": prefix + "/01.md"}, []string{"p1"})
		pages[prefix+"/01.md"] = articlePage("text " + col)
		pages[prefix+"/assets/fig.png"] = "png-bytes-" + col
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.record(r.URL.Path)
		body, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
}

type testConverter struct{}

func (testConverter) Convert(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "MD:" + string(data), nil
}

func newTestSpider(t *testing.T, baseURL string, out *bytes.Buffer) (*Spider, Config) {
	t.Helper()

	client, err := fetcher.New(fetcher.Config{
		BaseURL:   baseURL,
		UserAgent: "digest-spider-test",
	}, ratelimit.New(0), zap.NewNop())
	require.NoError(t, err)

	cfg := Config{
		OutputRoot:     t.TempDir(),
		WorkRoot:       t.TempDir(),
		Workers:        1,
		ReportInterval: time.Millisecond,
		BarWidth:       20,
	}
	return New(client, testConverter{}, cfg, out, zap.NewNop()), cfg
}

func TestRun_RangeSelectsColumnsInOrder(t *testing.T) {
	t.Parallel()

	site := &testSite{}
	srv := newSiteServer(t, site)
	defer srv.Close()

	var out bytes.Buffer
	s, cfg := newTestSpider(t, srv.URL, &out)

	require.NoError(t, s.Run(context.Background(), Selection{Range: "1-2"}))

	// Columns A and B crawled in root order; C untouched.
	requested := site.requested()
	require.Contains(t, requested, "/col-a/")
	require.Contains(t, requested, "/col-b/")
	require.NotContains(t, requested, "/col-c/")
	require.Less(t,
		indexOf(requested, "/col-a/"), indexOf(requested, "/col-b/"),
		"column A must finish before column B starts",
	)

	for _, column := range []string{"A", "B"} {
		rendered, err := os.ReadFile(filepath.Join(cfg.OutputRoot, column, "01.md"))
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(rendered), "MD:"))
		require.FileExists(t, filepath.Join(cfg.OutputRoot, column, "assets", "fig.png"))
	}
	require.NoDirExists(t, filepath.Join(cfg.OutputRoot, "C"))

	// Each column finalizes its bar at 100%.
	require.GreaterOrEqual(t, strings.Count(out.String(), "100.00 %"), 2)
}

func TestRun_KeywordSelection(t *testing.T) {
	t.Parallel()

	site := &testSite{}
	srv := newSiteServer(t, site)
	defer srv.Close()

	var out bytes.Buffer
	s, cfg := newTestSpider(t, srv.URL, &out)

	require.NoError(t, s.Run(context.Background(), Selection{Keyword: "B"}))

	require.NotContains(t, site.requested(), "/col-a/")
	require.FileExists(t, filepath.Join(cfg.OutputRoot, "B", "01.md"))
}

func TestRun_ColumnFetchFailureAborts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			_, _ = w.Write([]byte(tocPage(map[string]string{"A": "/col-a/"}, []string{"A"})))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var out bytes.Buffer
	s, _ := newTestSpider(t, srv.URL, &out)

	err := s.Run(context.Background(), Selection{All: true})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sub toc")
}

func indexOf(haystack []string, needle string) int {
	for i, s := range haystack {
		if s == needle {
			return i
		}
	}
	return -1
}
