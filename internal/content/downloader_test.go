package content

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wheat/techdigest/internal/queue"
)

type fakeFileDownloader struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeFileDownloader) Download(_ context.Context, url string, outputPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	return os.WriteFile(outputPath, []byte("img"), 0o600)
}

func TestDownload_SkipsExistingFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(out, []byte("already here"), 0o600))

	fake := &fakeFileDownloader{}
	d := NewImageDownloader(fake, zap.NewNop())

	require.NoError(t, d.Download(context.Background(), queue.ImageTask{
		DownloadURL: "/assets/pic",
		OutputPath:  out,
	}))
	require.Empty(t, fake.calls)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "already here", string(data))
}

func TestDownload_FetchesMissingFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "pic.png")
	fake := &fakeFileDownloader{}
	d := NewImageDownloader(fake, zap.NewNop())

	require.NoError(t, d.Download(context.Background(), queue.ImageTask{
		DownloadURL: "/assets/pic",
		OutputPath:  out,
	}))
	require.Equal(t, []string{"/assets/pic"}, fake.calls)
	require.FileExists(t, out)
}
