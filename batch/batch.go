// Package batch runs a per-file operation over many rsx files with a bounded
// worker pool.
package batch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of processing one file.
type Result[T any] struct {
	Path  string
	Value T
	Err   error
}

// Options tunes ProcessFiles.
type Options struct {
	Logger  *zap.Logger
	Workers int
	// Progress receives a progress bar when not nil.
	Progress    io.Writer
	Description string
}

// Collect expands paths into the list of files to process. Directories are
// walked for files with one of extensions, skipping hidden directories.
// Files named explicitly are kept whatever their extension. The result is
// sorted and free of duplicates.
func Collect(paths []string, extensions []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(path))
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(p, extensions) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func hasExtension(path string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ProcessFiles runs processor on every file with at most opts.Workers calls
// in flight. A failing file does not stop the others; its error is kept in
// its Result. Results follow the order of files. The returned error is only
// set when ctx is cancelled.
func ProcessFiles[T any](
	ctx context.Context,
	files []string,
	opts Options,
	processor func(ctx context.Context, path string) (T, error),
) ([]Result[T], error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil && len(files) > 1 {
		bar = newProgressBar(opts.Progress, len(files), opts.Description)
	}

	results := make([]Result[T], len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			value, err := processor(gctx, path)
			if err != nil {
				logger.Debug("error processing file", zap.String("file", path), zap.Error(err))
			}
			results[i] = Result[T]{Path: path, Value: value, Err: err}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return results, nil
}

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
