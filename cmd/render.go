package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/rsx"
	"github.com/gnolang/rsx/formatter"
	"github.com/gnolang/rsx/internal/watch"
	tt "github.com/gnolang/rsx/internal/types"
)

var errNoInput = errors.New("no input: use --source, --file or pipe an rsx! call on stdin")

type renderOptions struct {
	source string
	file   string
	strict bool
	watch  bool
}

func newRenderCmd(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render [output]",
		Short: "Render rsx! markup to HTML",
		Long: `Render rsx! markup to HTML.

The input is taken from --source, from --file (every rsx! call in the file is
rendered) or from stdin when it is not a terminal. The HTML is written to
output when given, to stdout otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var output string
			if len(args) == 1 {
				output = args[0]
			}
			return a.runRender(cmd, opts, output)
		},
	}
	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "rsx! call to render")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "File holding rsx! calls to render")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Reject attributes missing from the schema")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Render again whenever --file changes")
	cmd.MarkFlagsMutuallyExclusive("source", "file")
	return cmd
}

func (a *app) runRender(cmd *cobra.Command, opts renderOptions, output string) error {
	if opts.watch && opts.file == "" {
		return errors.New("--watch needs --file")
	}

	engine, err := a.engine(opts.strict)
	if err != nil {
		return err
	}

	err = a.renderOnce(cmd, engine, opts, output)
	if !opts.watch {
		return err
	}

	w, err := watch.New(a.logger, nil)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(opts.file); err != nil {
		return err
	}

	a.logger.Info("watching for changes", zap.String("file", opts.file))
	// the timeout does not apply to watch mode
	return w.Run(cmd.Context(), func([]string) {
		if err := a.renderOnce(cmd, engine, opts, output); err != nil && !errors.Is(err, ErrIssuesFound) {
			a.logger.Error("render failed", zap.String("file", opts.file), zap.Error(err))
		}
	})
}

// renderOnce reads the input, renders it and writes the result. Syntax
// errors are reported as diagnostics on stderr.
func (a *app) renderOnce(cmd *cobra.Command, engine *rsx.Engine, opts renderOptions, output string) error {
	src, filename, err := a.readInput(opts)
	if err != nil {
		return err
	}

	var html string
	if opts.file != "" {
		html, err = engine.RenderFile(src)
	} else {
		html, err = engine.Render(src)
		html += "\n"
	}
	if err != nil {
		d := formatter.NewDiagnostic(filename, src, err, engine.Schema())
		fmt.Fprint(cmd.ErrOrStderr(), formatter.GenerateFormattedDiagnostics([]tt.Diagnostic{d}, tt.NewSourceCode(src)))
		return ErrIssuesFound
	}

	if output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), html)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(output, []byte(html), 0o644); err != nil {
		return err
	}
	a.logger.Debug("rendered", zap.String("input", filename), zap.String("output", output))
	return nil
}

func (a *app) readInput(opts renderOptions) (src, filename string, err error) {
	switch {
	case opts.source != "":
		return opts.source, "<source>", nil
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", "", err
		}
		return string(data), opts.file, nil
	case !a.stdinTerminal():
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	default:
		return "", "", errNoInput
	}
}
