package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-editorkit/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [schema-file...]",
	Short: "Check schema files for path and key errors and the field ceiling",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		s, err := loadSchema(cmd.Context(), path)
		if err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
			failed++
			continue
		}
		if schema.ExceedsLimit(s, cfg.Form.MaxAllowedFields) {
			fmt.Fprintf(out, "FAIL %s: %d fields exceed the limit of %d\n", path, s.CountFields(), cfg.Form.MaxAllowedFields)
			failed++
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d fields)\n", path, s.CountFields())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d schema files failed", failed, len(args))
	}
	return nil
}
