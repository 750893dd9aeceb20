package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/snapshot"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup of every saved month",
		Long: `Write a backup document containing every saved month.

Without --output the document is written to
financial-tracker-backup-<date>.json in the current directory. Use
--output - for stdout.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}
	cmd.Flags().StringP("output", "o", "", "destination file, - for stdout")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	doc := s.tracker.Export()
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if output == "-" {
		_, err := cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if output == "" {
		output = snapshot.ExportFilename(time.Now())
	}
	if err := os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d saved months to %s\n", len(doc.SavedMonths), output)
	return nil
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Replace every saved month with a backup",
		Long: `Replace every saved month with the contents of a backup document.

The document is validated first; a malformed backup leaves the store
unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.tracker.Import(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d saved months\n", n)
	return nil
}
