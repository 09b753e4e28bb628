package bootstrap

import (
	"context"
	"fmt"
	"io"
	"moneyprint/internal/providers"
	"moneyprint/internal/structures"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

const maxArchiveSize = 512 << 20

// Assets fetches the background music bundle once, on first start.
type Assets struct {
	url        string
	dir        string
	httpClient *http.Client
	logger     providers.Logger
}

func NewAssets(conf *structures.Config, logger providers.Logger) *Assets {
	return &Assets{
		url: conf.Bootstrap.AssetURL,
		dir: conf.Bootstrap.SongsDir,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		logger: logger,
	}
}

// Ensure downloads and extracts the bundle when the target dir is missing.
// The dir appears only after a complete extraction, so a failed attempt is retried next start.
func (a *Assets) Ensure(ctx context.Context) error {
	if a.dir == "" || a.url == "" {
		return nil
	}
	if _, err := os.Stat(a.dir); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.WithStack(err)
	}

	a.logger.Infof(providers.TypeApp, "Downloading assets from %s", a.url)
	parent := filepath.Dir(a.dir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return errors.WithStack(err)
	}

	archive, err := os.CreateTemp(parent, "assets-*.zip")
	if err != nil {
		return errors.WithStack(err)
	}
	defer os.Remove(archive.Name())
	defer archive.Close()

	size, err := a.download(ctx, archive)
	if err != nil {
		return err
	}

	staging, err := os.MkdirTemp(parent, "assets-*")
	if err != nil {
		return errors.WithStack(err)
	}
	if err := extract(archive, size, staging); err != nil {
		os.RemoveAll(staging)
		return err
	}
	if err := os.Rename(staging, a.dir); err != nil {
		os.RemoveAll(staging)
		return errors.WithStack(err)
	}
	a.logger.Infof(providers.TypeApp, "Assets extracted into %s", a.dir)
	return nil
}

func (a *Assets) download(ctx context.Context, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("asset download returned status: %d", resp.StatusCode)
	}
	n, err := io.Copy(dst, io.LimitReader(resp.Body, maxArchiveSize))
	if err != nil {
		return 0, errors.Wrap(err, "download assets")
	}
	return n, nil
}

func extract(src io.ReaderAt, size int64, dir string) error {
	zr, err := zip.NewReader(src, size)
	if err != nil {
		return errors.Wrap(err, "open asset archive")
	}
	root := filepath.Clean(dir) + string(os.PathSeparator)
	for _, f := range zr.File {
		target := filepath.Join(dir, f.Name)
		if !strings.HasPrefix(target, root) {
			return errors.Errorf("archive entry escapes target dir: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.WithStack(err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.WithStack(err)
	}
	rc, err := f.Open()
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("open %s", f.Name))
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errors.Wrap(err, fmt.Sprintf("extract %s", f.Name))
	}
	return errors.WithStack(out.Close())
}
