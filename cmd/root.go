package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnolang/rsx"
	"github.com/gnolang/rsx/internal/config"
	"github.com/gnolang/rsx/schema"
)

const defaultTimeout = 5 * time.Minute

// ErrIssuesFound is returned when a command ran but found problems it
// already reported, such as unformatted files or parse errors.
var ErrIssuesFound = errors.New("issues found")

// app holds what every subcommand shares.
type app struct {
	cfgFile string
	timeout time.Duration
	verbose bool
	quiet   bool

	logger *zap.Logger
	cfg    *config.Config

	stdin         io.Reader
	stdinTerminal func() bool
}

func newApp() *app {
	return &app{
		logger: zap.NewNop(),
		stdin:  os.Stdin,
		stdinTerminal: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

// NewRootCmd builds the rsx command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rsx",
		Short:         "rsx - render and format rsx! markup",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "Config file (default: Rsx.toml or rsx.toml in the current directory)")
	flags.DurationVar(&a.timeout, "timeout", defaultTimeout, "Abort after this duration")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug information")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Disable logging")

	rootCmd.AddCommand(newInitCmd(a))
	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newBuildCmd(a))
	rootCmd.AddCommand(newFmtCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newSchemaCmd(a))
	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrIssuesFound) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), "error:", err)
		}
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command) error {
	logger, err := newLogger(a.verbose, a.quiet)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger

	// init creates the config file, it must not require one
	if cmd.Name() == "init" {
		return nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if cfg.Path != "" {
		a.logger.Debug("loaded config", zap.String("path", cfg.Path))
	}
	return nil
}

func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// loadSchema returns the builtin schema extended with the configured files.
func (a *app) loadSchema() (*schema.Schema, error) {
	s := schema.Default()
	for _, path := range a.cfg.Schema.Extensions {
		ext, err := schema.LoadExtension(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema extension: %w", err)
		}
		s = s.Extend(ext)
		a.logger.Debug("loaded schema extension", zap.String("path", path))
	}
	return s, nil
}

func (a *app) engine(strict bool) (*rsx.Engine, error) {
	s, err := a.loadSchema()
	if err != nil {
		return nil, err
	}
	return rsx.New(
		rsx.WithSchema(s),
		rsx.WithStrictAttributes(strict || a.cfg.Render.Strict),
		rsx.WithXMLNS(a.cfg.Render.XMLNS),
		rsx.WithMaxDepth(a.cfg.Render.MaxDepth),
	), nil
}

// dependencyFiles are the files whose change invalidates cached results.
func (a *app) dependencyFiles() []string {
	var files []string
	if a.cfg.Path != "" {
		files = append(files, a.cfg.Path)
	}
	return append(files, a.cfg.Schema.Extensions...)
}
