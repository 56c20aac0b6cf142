package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yndnr/brainscan-go/internal/cli/output"
	"github.com/yndnr/brainscan-go/internal/core/domain"
)

// fresh runs fetch and discards its result when the session changed while
// the request was in flight.
func fresh[T any](rt *Runtime, fetch func() (T, error)) (T, error) {
	gen := rt.Session.Generation()
	v, err := fetch()
	if err != nil {
		return v, err
	}
	if rt.Session.Generation() != gen {
		var zero T
		rt.Log.Debug("discarding stale response", "generation", gen)
		return zero, domain.ErrStaleResponse
	}
	return v, nil
}

// downloadFunc streams a download into w, reporting progress.
type downloadFunc func(ctx context.Context, w io.Writer, progress func(written, total int64)) (int64, error)

// saveDownload writes a download to path with a progress bar. A failed
// download leaves no partial file.
func saveDownload(ctx context.Context, rt *Runtime, path string, download downloadFunc) (int64, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	bar := output.NewProgressBar(rt.Stderr, filepath.Base(path))
	n, err := download(ctx, f, bar.Update)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	bar.Finish()
	return n, nil
}
