package main

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/form/prompt"
	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/validation"
)

var fillOutput string

var fillCmd = &cobra.Command{
	Use:   "fill [schema-file]",
	Short: "Fill a form interactively and print the value as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runFill,
}

func init() {
	fillCmd.Flags().StringVarP(&fillOutput, "output", "o", "", "output file (stdout if empty)")
}

func runFill(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := loadSchema(ctx, args[0])
	if err != nil {
		return err
	}

	filler := prompt.New(
		prompt.WithDriver(prompt.NewSurveyDriver()),
		prompt.WithLogger(logger.Named("prompt")),
	)
	value, err := filler.Fill(ctx, s, formvalue.Defaults(s))
	if errors.Is(err, prompt.ErrAborted) {
		logger.Info("fill aborted")
		return nil
	}
	if err != nil {
		return err
	}
	if result := validation.Validate(s, value); !result.Valid() {
		logger.Warn("filled value does not validate", zap.Strings("paths", result.Paths()))
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	if fillOutput == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	return os.WriteFile(fillOutput, append(data, '\n'), 0o644)
}
