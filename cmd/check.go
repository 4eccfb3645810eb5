package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/rsx"
	"github.com/gnolang/rsx/batch"
	"github.com/gnolang/rsx/formatter"
	tt "github.com/gnolang/rsx/internal/types"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		isJSON  bool
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report syntax errors in rsx files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			engine, err := a.engine(false)
			if err != nil {
				return err
			}
			diags, sources, err := a.check(ctx, engine, args)
			if err != nil {
				return err
			}
			if err := printDiagnostics(cmd.OutOrStdout(), a.logger, diags, sources, isJSON, outPath); err != nil {
				return err
			}
			if len(diags) > 0 {
				return ErrIssuesFound
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&isJSON, "json", false, "Output diagnostics in JSON format")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	return cmd
}

// checked is the outcome of one file: a diagnostic with the source it
// points into, or nothing.
type checked struct {
	diag   *tt.Diagnostic
	source string
}

// check parses every rsx call in the files under paths and returns one
// diagnostic per failing file, with the content of those files.
func (a *app) check(ctx context.Context, engine *rsx.Engine, paths []string) ([]tt.Diagnostic, map[string]string, error) {
	files, err := batch.Collect(paths, a.cfg.Format.Extensions)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("checking files", zap.Int("files", len(files)))

	results, err := batch.ProcessFiles(ctx, files, a.batchOptions("check"),
		func(_ context.Context, path string) (checked, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return checked{}, err
			}
			src := string(data)
			if _, err := engine.FormatFile(src); err != nil {
				d := formatter.NewDiagnostic(path, src, err, engine.Schema())
				return checked{diag: &d, source: src}, nil
			}
			return checked{}, nil
		})
	if err != nil {
		return nil, nil, err
	}

	var diags []tt.Diagnostic
	sources := make(map[string]string)
	for _, r := range results {
		if r.Err != nil {
			a.logger.Error("error processing file", zap.String("path", r.Path), zap.Error(r.Err))
			diags = append(diags, tt.Diagnostic{
				Rule:     "io",
				Filename: r.Path,
				Message:  r.Err.Error(),
			})
			continue
		}
		if r.Value.diag != nil {
			diags = append(diags, *r.Value.diag)
			sources[r.Path] = r.Value.source
		}
	}
	return diags, sources, nil
}

func (a *app) batchOptions(description string) batch.Options {
	opts := batch.Options{
		Logger:      a.logger,
		Workers:     a.cfg.Format.Workers,
		Description: description,
	}
	if !a.quiet && isatty.IsTerminal(os.Stderr.Fd()) {
		opts.Progress = os.Stderr
	}
	return opts
}

func printDiagnostics(w io.Writer, logger *zap.Logger, diags []tt.Diagnostic, sources map[string]string, isJSON bool, jsonOutput string) error {
	diagsByFile := make(map[string][]tt.Diagnostic)
	for _, d := range diags {
		diagsByFile[d.Filename] = append(diagsByFile[d.Filename], d)
	}

	sortedFiles := make([]string, 0, len(diagsByFile))
	for filename := range diagsByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	if !isJSON {
		for _, filename := range sortedFiles {
			src := tt.NewSourceCode(sources[filename])
			fmt.Fprint(w, formatter.GenerateFormattedDiagnostics(diagsByFile[filename], src))
		}
		return nil
	}

	d, err := json.Marshal(diagsByFile)
	if err != nil {
		return fmt.Errorf("error marshalling diagnostics to JSON: %w", err)
	}
	if jsonOutput == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	logger.Debug("wrote diagnostics", zap.String("path", jsonOutput))
	return nil
}
