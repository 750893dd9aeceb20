package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <YYYY-MM>",
		Short: "Delete a saved month",
		Long: `Delete the saved snapshot of one month. This cannot be undone;
export a backup first if in doubt.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}
	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	key, err := parseMonthArg(args[0])
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.tracker.SavedBundle(key); err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}

	out := cmd.OutOrStdout()
	if !force {
		fmt.Fprintf(out, "Delete the saved data for %s? This cannot be undone. (y/N): ", key.Label())
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			fmt.Fprintln(out, "Operation canceled.")
			return nil
		}
	}

	if err := s.tracker.Delete(cmd.Context(), key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	fmt.Fprintf(out, "Deleted %s\n", key.Label())
	return nil
}
