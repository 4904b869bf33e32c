// Package fetch streams HTTP resources to local files and unpacks
// downloaded release assets.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Progress describes the state of an in-flight download. BytesTotal and
// Percent are -1 when the server did not declare a content length.
type Progress struct {
	BytesDone  int64
	BytesTotal int64
	Percent    float64
}

// ProgressFunc receives a Progress update for every chunk written.
type ProgressFunc func(Progress)

type httpClient interface {
	Do(*http.Request) (*http.Response, error)
}

var downloadClient httpClient = &http.Client{
	CheckRedirect: func(r *http.Request, via []*http.Request) error {
		r.URL.Opaque = r.URL.Path
		return nil
	},
}

// Download streams the body of a GET request for url into path, reporting
// progress per chunk when onProgress is non-nil. The destination file is
// created only after a 200 response, and is removed again when the
// transfer fails partway. Completion is the body's own end of data; a
// declared content length that does not match the bytes received is an
// error. The parent directory of path must already exist.
func Download(ctx context.Context, url, path string, onProgress ProgressFunc) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	response, err := downloadClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request %s: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s for %s", response.Status, url)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create destination: %w", err)
	}

	counter := &progressWriter{total: response.ContentLength, report: onProgress}
	written, err := io.Copy(io.MultiWriter(file, counter), response.Body)
	if err != nil {
		file.Close()
		removeOnError(path)
		return 0, fmt.Errorf("download %s: %w", url, err)
	}

	if response.ContentLength >= 0 && written != response.ContentLength {
		file.Close()
		removeOnError(path)
		return 0, fmt.Errorf("truncated download of %s: got %d of %d bytes", url, written, response.ContentLength)
	}

	if err := file.Close(); err != nil {
		removeOnError(path)
		return 0, fmt.Errorf("close destination: %w", err)
	}

	return written, nil
}

// progressWriter counts bytes flowing to the destination and reports a
// percentage against the declared content length when one exists.
type progressWriter struct {
	total  int64
	done   int64
	report ProgressFunc
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.done += int64(len(p))
	if w.report != nil {
		update := Progress{BytesDone: w.done, BytesTotal: -1, Percent: -1}
		if w.total >= 0 {
			update.BytesTotal = w.total
			update.Percent = 100
			if w.total > 0 {
				update.Percent = float64(w.done) / float64(w.total) * 100
			}
		}
		w.report(update)
	}
	return len(p), nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	return nil
}

func removeOnError(path string) {
	_ = os.Remove(path)
}
