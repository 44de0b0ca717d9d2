package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	editorkit "github.com/goliatone/go-editorkit"
	"github.com/goliatone/go-editorkit/pkg/form"
	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/store"
	"github.com/goliatone/go-editorkit/pkg/widgets/themeselector"
)

var (
	renderOutput  string
	renderValues  string
	renderFixture string
	renderTheme   string
	renderVariant string
)

var renderCmd = &cobra.Command{
	Use:   "render [schema-file]",
	Short: "Render a schema, sample or OpenAPI file as an HTML form",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (stdout if empty)")
	renderCmd.Flags().StringVar(&renderValues, "values", "", "JSON file with initial form values")
	renderCmd.Flags().StringVar(&renderFixture, "fixture", "", "workspace fixture providing themes")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "theme name (defaults to the applied theme of the fixture)")
	renderCmd.Flags().StringVar(&renderVariant, "variant", "", "theme variant")
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := loadSchema(ctx, args[0])
	if err != nil {
		return err
	}

	opts := []editorkit.Option{
		editorkit.WithFormOptions(
			form.WithLogger(logger.Named("form")),
			form.WithRenderMode(cfg.RenderMode()),
			form.WithDisabledWhenInvalid(cfg.Form.DisabledWhenInvalid),
		),
		editorkit.WithMaxAllowedFields(cfg.Form.MaxAllowedFields),
	}
	if renderValues != "" {
		data, err := os.ReadFile(renderValues)
		if err != nil {
			return fmt.Errorf("read values: %w", err)
		}
		var value formvalue.Value
		if err := json.Unmarshal(data, &value); err != nil {
			return fmt.Errorf("parse values: %w", err)
		}
		opts = append(opts, editorkit.WithValue(value))
	}
	if renderFixture != "" {
		state, err := loadState(renderFixture)
		if err != nil {
			return err
		}
		selector := themeselector.NewSelector(store.NewMemory(state),
			themeselector.WithDefaults(cfg.Theme.Default, cfg.Theme.Variant),
			themeselector.WithSelectorLogger(logger.Named("themes")),
		)
		opts = append(opts, editorkit.WithThemeSelector(selector, renderTheme, renderVariant))
	}

	rendered, err := editorkit.RenderSchema(ctx, s, opts...)
	if err != nil {
		return err
	}
	logger.Debug("form rendered",
		zap.Int("fields", s.CountFields()),
		zap.Bool("limitExceeded", rendered.Form.LimitExceeded),
	)

	if renderOutput == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered.HTML)
		return err
	}
	if err := os.WriteFile(renderOutput, []byte(rendered.HTML), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", renderOutput, err)
	}
	logger.Info("form written", zap.String("path", renderOutput))
	return nil
}
