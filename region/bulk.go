package region

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultFileConcurrency bounds how many files a bulk operation works on
// at once.
const DefaultFileConcurrency = 5

// BulkOptions tune the bulk operations. The zero value is usable.
type BulkOptions struct {
	// MaxConcurrency bounds parallel per-file work; 0 means
	// DefaultFileConcurrency.
	MaxConcurrency int
	// Logger receives per-file progress; nil disables logging.
	Logger *zap.Logger
}

func (o BulkOptions) limit() int {
	if o.MaxConcurrency > 0 {
		return o.MaxConcurrency
	}
	return DefaultFileConcurrency
}

func (o BulkOptions) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// FileResult is the outcome of one file in a bulk operation. Results are
// returned in input order; failed files carry Err and a nil Archive.
type FileResult struct {
	Path    string
	Archive *Archive
	Err     error
}

// LoadMany eagerly loads the given region files with bounded parallelism.
// Failures are per-file: the batch always runs to completion. Bulk
// operations take no cancellation shortcut beyond the passed context.
func LoadMany(ctx context.Context, paths []string, opts BulkOptions) []FileResult {
	log := opts.logger()
	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.limit())
	for i, p := range paths {
		g.Go(func() error {
			a, err := LoadFile(ctx, p)
			if err != nil {
				log.Warn("Unable to load region file", zap.String("file", p), zap.Error(err))
			} else if n := len(a.Diagnostics()); n > 0 {
				log.Warn("Region file loaded with bad chunks", zap.String("file", p), zap.Int("bad", n))
			} else {
				log.Debug("Region file loaded", zap.String("file", p), zap.Int("chunks", a.Count()))
			}
			results[i] = FileResult{Path: p, Archive: a, Err: err}
			return nil
		})
	}
	_ = g.Wait() // workers report through results, never through the group
	return results
}

// SaveItem pairs an archive with its destination path for SaveMany.
type SaveItem struct {
	Path    string
	Archive *Archive
}

// SaveMany writes the given archives with bounded parallelism and returns
// per-file outcomes in input order.
func SaveMany(ctx context.Context, items []SaveItem, opts BulkOptions) []FileResult {
	log := opts.logger()
	results := make([]FileResult, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.limit())
	for i, it := range items {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = it.Archive.SaveFile(it.Path)
			}
			if err != nil {
				log.Warn("Unable to save region file", zap.String("file", it.Path), zap.Error(err))
			} else {
				log.Debug("Region file saved", zap.String("file", it.Path), zap.Int("chunks", it.Archive.Count()))
			}
			results[i] = FileResult{Path: it.Path, Archive: it.Archive, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// FindFiles returns the region files directly under dir in natural order,
// so r.2.10.mca sorts after r.2.9.mca.
func FindFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("region: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".mca") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Sort(natural.StringSlice(out))
	return out, nil
}

// ProcessDirectory loads every region file under dir, applies fn to each
// archive in parallel (bounded) and reports per-file outcomes in natural
// file order. The combined error joins every per-file failure; the batch
// itself never short-circuits.
func ProcessDirectory(ctx context.Context, dir string, fn func(path string, a *Archive) error, opts BulkOptions) ([]FileResult, error) {
	paths, err := FindFiles(dir)
	if err != nil {
		return nil, err
	}
	log := opts.logger()
	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.limit())
	for i, p := range paths {
		g.Go(func() error {
			a, err := LoadFile(ctx, p)
			if err == nil && fn != nil {
				err = fn(p, a)
			}
			if err != nil {
				log.Warn("Unable to process region file", zap.String("file", p), zap.Error(err))
			}
			results[i] = FileResult{Path: p, Archive: a, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	var combined error
	for _, r := range results {
		if r.Err != nil {
			combined = multierr.Append(combined, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return results, combined
}
