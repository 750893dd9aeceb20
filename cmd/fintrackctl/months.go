package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

func monthsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List saved months, newest first",
		Args:  cobra.NoArgs,
		RunE:  runMonths,
	}
}

func runMonths(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	months := s.tracker.Archive()
	out := cmd.OutOrStdout()
	if len(months) == 0 {
		fmt.Fprintln(out, "No saved months.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tINCOME\tOUTFLOWS\tNET\tINVESTED\tSAVED\tLAST SAVED")
	for _, m := range months {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.MonthYear,
			core.FormatUSD(m.TotalIncome),
			core.FormatUSD(m.TotalOutflows),
			core.FormatUSD(m.NetCashFlow),
			core.FormatRate(m.InvestmentRate),
			core.FormatRate(m.SavingsRate),
			m.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <YYYY-MM>",
		Short: "Print the summary of one saved month",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	key, err := parseMonthArg(args[0])
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
	return report.TextRenderer{}.Render(cmd.OutOrStdout(), b)
}
