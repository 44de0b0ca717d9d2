// Command editorkit renders, fills and previews editor forms and widgets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	editorkit "github.com/goliatone/go-editorkit"
	"github.com/goliatone/go-editorkit/internal/config"
	"github.com/goliatone/go-editorkit/pkg/schema"
	"github.com/goliatone/go-editorkit/pkg/store"
)

var (
	verbose    bool
	configPath string
	operation  string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "editorkit",
	Short:         "Render, fill and preview schema driven editor forms",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Logging.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "editorkit.yaml", "config file (missing file uses defaults)")
	rootCmd.PersistentFlags().StringVar(&operation, "operation", "", "OpenAPI operation id whose request body becomes the form")

	rootCmd.AddCommand(renderCmd, fillCmd, serveCmd, validateCmd)
}

func newLogger(level string, debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		config.Level = zap.NewAtomicLevelAt(parsed)
	}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// loadSchema reads a schema, sample or OpenAPI file from disk.
func loadSchema(ctx context.Context, path string) (schema.Schema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return schema.Schema{}, err
	}
	src, err := editorkit.SourceFromFile(os.DirFS(filepath.Dir(abs)), filepath.Base(abs), operation)
	if err != nil {
		return schema.Schema{}, err
	}
	return editorkit.LoadSchema(ctx, src)
}

func loadState(path string) (store.State, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return store.State{}, err
	}
	return store.LoadStateFile(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "editorkit:", err)
		os.Exit(1)
	}
}
