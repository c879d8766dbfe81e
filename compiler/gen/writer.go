package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer writes the files of a generator in parallel.
type Writer struct {
	gen *Generator

	mu      sync.Mutex
	metrics WriterMetrics
	written []string
}

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// NewWriter returns a writer for g.
func NewWriter(g *Generator) *Writer {
	return &Writer{gen: g}
}

// Metrics returns the metrics of the last WriteAll call.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteAll renders every type of the generator into the target
// directory and returns the written paths in sorted order.
func (w *Writer) WriteAll(ctx context.Context) ([]string, error) {
	cfg := w.gen.cfg
	if err := os.MkdirAll(cfg.Target, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	w.mu.Lock()
	w.metrics, w.written = WriterMetrics{}, nil
	w.mu.Unlock()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(cfg.Workers, 1))
	for _, t := range w.gen.Types() {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.write(t)
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	slices.Sort(w.written)
	return slices.Clone(w.written), nil
}

func (w *Writer) write(t *Type) error {
	src, err := w.gen.Render(t)
	if err != nil {
		return err
	}
	path := filepath.Join(w.gen.cfg.Target, t.Filename())
	out, err := imports.Process(path, src, nil)
	if err != nil {
		// Keep the unformatted source next to the target for debugging.
		_ = os.WriteFile(path+".error", src, 0o644)
		return NewEntryError(t.Host, t.Def.Attribute(), "format "+t.Filename(), err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(out))
	w.written = append(w.written, path)
	w.mu.Unlock()
	return nil
}
