package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/rsx"
	"github.com/gnolang/rsx/batch"
	"github.com/gnolang/rsx/formatter"
	"github.com/gnolang/rsx/internal/cache"
	tt "github.com/gnolang/rsx/internal/types"
)

type fmtOptions struct {
	check   bool
	stdin   bool
	noCache bool
}

type fmtResult struct {
	changed bool
	diag    *tt.Diagnostic
	source  string
}

func newFmtCmd(a *app) *cobra.Command {
	var opts fmtOptions
	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format rsx! calls in place",
		Long: `Format every rsx! call found in the files under paths (default: the
current directory). Directories are searched for files with one of the
format.extensions of the config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine(false)
			if err != nil {
				return err
			}
			if opts.stdin {
				return a.formatStdin(cmd, engine)
			}
			if len(args) == 0 {
				args = []string{"."}
			}
			return a.formatPaths(cmd, engine, opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.check, "check", false, "List files that are not formatted instead of rewriting them")
	cmd.Flags().BoolVar(&opts.stdin, "stdin", false, "Format stdin and write the result to stdout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Drop the cache of formatted files and format every file")
	return cmd
}

func (a *app) formatStdin(cmd *cobra.Command, engine *rsx.Engine) error {
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	src := string(data)
	out, err := engine.FormatFile(src)
	if err != nil {
		d := formatter.NewDiagnostic("<stdin>", src, err, engine.Schema())
		fmt.Fprint(cmd.ErrOrStderr(), formatter.GenerateFormattedDiagnostics([]tt.Diagnostic{d}, tt.NewSourceCode(src)))
		return ErrIssuesFound
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func (a *app) formatPaths(cmd *cobra.Command, engine *rsx.Engine, opts fmtOptions, paths []string) error {
	ctx, cancel := a.context(cmd)
	defer cancel()

	files, err := batch.Collect(paths, a.cfg.Format.Extensions)
	if err != nil {
		return err
	}

	c := a.openCache(opts)
	results, err := batch.ProcessFiles(ctx, files, a.batchOptions("fmt"),
		func(_ context.Context, path string) (fmtResult, error) {
			return formatFile(engine, c, path, opts.check)
		})
	if err != nil {
		return err
	}
	if c != nil {
		if err := c.Save(); err != nil {
			a.logger.Warn("failed to save cache", zap.Error(err))
		}
	}

	var (
		diags   []tt.Diagnostic
		sources = make(map[string]string)
		issues  bool
	)
	for _, r := range results {
		switch {
		case r.Err != nil:
			issues = true
			a.logger.Error("error formatting file", zap.String("path", r.Path), zap.Error(r.Err))
		case r.Value.diag != nil:
			issues = true
			diags = append(diags, *r.Value.diag)
			sources[r.Path] = r.Value.source
		case r.Value.changed && opts.check:
			issues = true
			fmt.Fprintln(cmd.OutOrStdout(), r.Path)
		case r.Value.changed:
			a.logger.Debug("formatted", zap.String("path", r.Path))
		}
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), a.logger, diags, sources, false, ""); err != nil {
		return err
	}
	if issues {
		return ErrIssuesFound
	}
	return nil
}

// openCache returns nil when caching is disabled or the cache cannot be
// opened. With noCache every entry is dropped first, so all files are
// formatted again and recorded anew.
func (a *app) openCache(opts fmtOptions) *cache.Cache {
	if a.cfg.Format.CacheDir == "" {
		return nil
	}
	c, err := cache.New(a.cfg.Format.CacheDir, a.dependencyFiles()...)
	if err != nil {
		a.logger.Warn("cache disabled", zap.Error(err))
		return nil
	}
	c.SetMaxAge(a.cfg.Format.CacheMaxAge)
	if opts.noCache {
		if err := c.InvalidateAll(); err != nil {
			a.logger.Warn("cache disabled", zap.Error(err))
			return nil
		}
	}
	a.logger.Debug("opened cache", zap.String("dir", c.CacheDir), zap.Int("entries", c.Len()))
	return c
}

// formatFile formats path, rewriting it unless check is set. c may be nil.
func formatFile(engine *rsx.Engine, c *cache.Cache, path string, check bool) (fmtResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmtResult{}, err
	}
	key, err := filepath.Abs(path)
	if err != nil {
		return fmtResult{}, err
	}
	if c != nil && c.IsFormatted(key, data) {
		return fmtResult{}, nil
	}

	src := string(data)
	out, err := engine.FormatFile(src)
	if err != nil {
		if c != nil {
			c.Forget(key)
		}
		d := formatter.NewDiagnostic(path, src, err, engine.Schema())
		return fmtResult{diag: &d, source: src}, nil
	}

	changed := out != src
	if changed && check {
		return fmtResult{changed: true}, nil
	}
	if changed {
		info, err := os.Stat(path)
		if err != nil {
			return fmtResult{}, err
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return fmtResult{}, err
		}
	}
	if c != nil {
		c.MarkFormatted(key, []byte(out))
	}
	return fmtResult{changed: changed}, nil
}
