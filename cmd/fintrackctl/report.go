package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fintrack/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <YYYY-MM>",
		Short: "Render the report of a saved month",
		Long: `Render the financial summary report of a saved month.

PDF reports are written to financial-summary-<month>.pdf unless --output is
given. Text reports go to stdout by default.`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}
	cmd.Flags().String("format", "pdf", "report format (pdf, text)")
	cmd.Flags().StringP("output", "o", "", "destination file, - for stdout")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	key, err := parseMonthArg(args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	renderer, err := report.NewRenderer(format)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	b, err := s.tracker.SavedBundle(key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, b); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if output == "" {
		if _, ok := renderer.(report.TextRenderer); ok {
			output = "-"
		} else {
			output = renderer.Filename(key)
		}
	}
	if output == "-" {
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
	return nil
}
