package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-editorkit/internal/server"
	"github.com/goliatone/go-editorkit/internal/watch"
	"github.com/goliatone/go-editorkit/pkg/schema"
)

var (
	serveFixture string
	serveForms   map[string]string
	serveWatch   bool
	serveAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the widget preview server",
	Long: `Serves the forms, datasource cards, theme selector and tab bar backed by
an in-memory workspace fixture.

Example:
  editorkit serve --fixture workspace.yaml --form contact=contact.schema.yaml --watch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFixture, "fixture", "", "YAML workspace fixture")
	serveCmd.Flags().StringToStringVar(&serveForms, "form", nil, "form id=schema file, repeatable")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload form schemas when their files change")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	fixture, err := server.LoadFixture(serveFixture)
	if err != nil {
		return err
	}

	forms := make(map[string]schema.Schema, len(serveForms))
	// byPath maps absolute schema paths back to form ids for reloads.
	byPath := make(map[string]string, len(serveForms))
	for id, path := range serveForms {
		s, err := loadSchema(ctx, path)
		if err != nil {
			return fmt.Errorf("form %s: %w", id, err)
		}
		forms[id] = s
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		byPath[filepath.Clean(abs)] = id
	}

	// Nothing runs until both are built; reloads start with watcher.Run, after
	// srv is assigned.
	var srv *server.Server
	var watcher *watch.Watcher
	if serveWatch && len(byPath) > 0 {
		watcher, err = newSchemaWatcher(byPath, func(id string, s schema.Schema) error {
			return srv.ReplaceSchema(id, s)
		})
		if err != nil {
			return err
		}
	}

	srv, err = server.New(server.Options{
		Config:  cfg,
		Fixture: fixture,
		Forms:   forms,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	logger.Info("serving preview",
		zap.String("addr", cfg.Server.Addr),
		zap.Strings("forms", srv.FormIDs()),
		zap.Bool("watch", serveWatch),
	)
	return g.Wait()
}

// schemaReloader routes a changed schema file to the form it backs.
func schemaReloader(byPath map[string]string, replace func(id string, s schema.Schema) error) watch.Handler {
	return func(ctx context.Context, path string) error {
		id, ok := byPath[path]
		if !ok {
			return nil
		}
		s, err := loadSchema(ctx, path)
		if err != nil {
			return err
		}
		return replace(id, s)
	}
}

func newSchemaWatcher(byPath map[string]string, replace func(id string, s schema.Schema) error) (*watch.Watcher, error) {
	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return watch.New(paths, schemaReloader(byPath, replace), watch.WithLogger(logger.Named("watch")))
}
