package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/rsx"
	"github.com/gnolang/rsx/batch"
	"github.com/gnolang/rsx/formatter"
	"github.com/gnolang/rsx/internal/watch"
	tt "github.com/gnolang/rsx/internal/types"
)

const pageExtension = ".rsx"

func newBuildCmd(a *app) *cobra.Command {
	var (
		outDir  string
		watchOn bool
	)
	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Render every .rsx file to an HTML file",
		Long: `Render every .rsx file under paths (default: the current directory) to
<out-dir>/<path relative to the current directory>.html.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			if outDir == "" {
				outDir = a.cfg.Application.OutDir
			}
			engine, err := a.engine(false)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			files, err := batch.Collect(args, []string{pageExtension})
			if err != nil {
				return err
			}
			buildErr := a.build(ctx, cmd, engine, files, outDir)
			if !watchOn {
				return buildErr
			}

			w, err := watch.New(a.logger, []string{pageExtension})
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.Add(args...); err != nil {
				return err
			}
			a.logger.Info("watching for changes", zap.Strings("paths", args))
			return w.Run(cmd.Context(), func(changed []string) {
				ctx, cancel := a.context(cmd)
				defer cancel()
				if err := a.build(ctx, cmd, engine, changed, outDir); err != nil {
					a.logger.Warn("build failed", zap.Error(err))
				}
			})
		},
	}
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Output directory (default: application.out_dir)")
	cmd.Flags().BoolVarP(&watchOn, "watch", "w", false, "Rebuild files when they change")
	return cmd
}

func (a *app) build(ctx context.Context, cmd *cobra.Command, engine *rsx.Engine, files []string, outDir string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	results, err := batch.ProcessFiles(ctx, files, a.batchOptions("build"),
		func(_ context.Context, path string) (checked, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return checked{}, err
			}
			src := string(data)
			html, err := engine.RenderFile(src)
			if err != nil {
				d := formatter.NewDiagnostic(path, src, err, engine.Schema())
				return checked{diag: &d, source: src}, nil
			}

			out := outputPath(cwd, outDir, path)
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return checked{}, err
			}
			return checked{}, os.WriteFile(out, []byte(html), 0o644)
		})
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			a.logger.Error("error building file", zap.String("path", r.Path), zap.Error(r.Err))
		case r.Value.diag != nil:
			failed++
			src := tt.NewSourceCode(r.Value.source)
			fmt.Fprint(cmd.ErrOrStderr(), formatter.GenerateFormattedDiagnostics([]tt.Diagnostic{*r.Value.diag}, src))
		}
	}
	a.logger.Debug("build done", zap.Int("files", len(results)), zap.Int("failed", failed))
	if failed > 0 {
		return ErrIssuesFound
	}
	return nil
}

// outputPath maps a page to its HTML file under outDir, keeping its path
// relative to cwd. Pages outside cwd keep only their base name.
func outputPath(cwd, outDir, page string) string {
	if !filepath.IsAbs(page) {
		page = filepath.Join(cwd, page)
	}
	rel, err := filepath.Rel(cwd, page)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(page)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".html")
}
