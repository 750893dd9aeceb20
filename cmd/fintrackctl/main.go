package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fintrackctl",
		Short: "Manage saved months of the financial tracker",
		Long: `fintrackctl works on the same snapshot store as the fintrack server.

It reads the same environment (.env is honoured) to find the data backend,
so saved months can be listed, exported, restored and reported on without
opening the browser.`,
		SilenceUsage: true,
	}

	root.AddCommand(monthsCmd())
	root.AddCommand(showCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(importCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(reportCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
