package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"trading-journal/internal/analytics"
	"trading-journal/internal/api"

	"github.com/spf13/cobra"
)

var (
	symbolsLimit int
	dashRange    string
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Realized P&L per exit month, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runMonthly,
}

var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Cumulative realized profit by exit date",
	Args:  cobra.NoArgs,
	RunE:  runGrowth,
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "All-time symbol ranking by total profit",
	Args:  cobra.NoArgs,
	RunE:  runSymbols,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summary, monthly table, growth curve and top symbols",
	Long: `Print the dashboard for a period. --range accepts ALL, 1Y, 6M, 3M or a
calendar month as YYYY-MM; --from/--to override it.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	addFilterFlags(monthlyCmd, true)
	addFilterFlags(growthCmd, true)
	addFilterFlags(symbolsCmd, false)
	addFilterFlags(dashboardCmd, true)

	symbolsCmd.Flags().IntVarP(&symbolsLimit, "limit", "n", -1, "number of symbols, 0 for all (default analytics.top_symbols)")
	dashboardCmd.Flags().IntVarP(&symbolsLimit, "limit", "n", -1, "number of top symbols (default analytics.top_symbols)")
	dashboardCmd.Flags().StringVarP(&dashRange, "range", "r", analytics.RangeAll, "period preset")

	rootCmd.AddCommand(monthlyCmd, growthCmd, symbolsCmd, dashboardCmd)
}

func limit() int {
	if symbolsLimit < 0 {
		return cfg.Analytics.TopSymbols
	}
	return symbolsLimit
}

func runMonthly(cmd *cobra.Command, args []string) error {
	f, err := filterFromFlags()
	if err != nil {
		return err
	}
	src, err := openSource()
	if err != nil {
		return err
	}
	buckets, err := src.MonthlyPerformance(cmd.Context(), f)
	if err != nil {
		return err
	}
	return printMonthly(cmd.OutOrStdout(), buckets)
}

func runGrowth(cmd *cobra.Command, args []string) error {
	f, err := filterFromFlags()
	if err != nil {
		return err
	}
	src, err := openSource()
	if err != nil {
		return err
	}
	points, err := src.CapitalGrowth(cmd.Context(), f)
	if err != nil {
		return err
	}
	return printGrowth(cmd.OutOrStdout(), points)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	memberID, err := analytics.ParseMemberID(memberFlag)
	if err != nil {
		return err
	}
	src, err := openSource()
	if err != nil {
		return err
	}
	ranks, err := src.TopSymbols(cmd.Context(), memberID, limit())
	if err != nil {
		return err
	}
	return printSymbols(cmd.OutOrStdout(), ranks)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	f, err := filterFromFlags()
	if err != nil {
		return err
	}
	src, err := openSource()
	if err != nil {
		return err
	}
	d, err := src.Dashboard(cmd.Context(), f, dashRange, limit())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	period := "all time"
	if d.StartDate != nil || d.EndDate != nil {
		period = fmt.Sprintf("%s .. %s", deref(d.StartDate, "start"), deref(d.EndDate, "today"))
	}
	s := d.Summary
	fmt.Fprintf(out, "Period:          %s\n", period)
	fmt.Fprintf(out, "Trades:          %d (%d wins, %d losses, %.1f%% win rate)\n", s.TotalTrades, s.Wins, s.Losses, s.WinRate)
	fmt.Fprintf(out, "Net P&L:         %.2f on %.2f invested (ROI %.2f%%)\n", s.NetProfit, s.TotalInvestment, s.ROI)
	fmt.Fprintf(out, "Current capital: %.2f\n", s.CurrentCapital)
	fmt.Fprintf(out, "Per trade:       median %.2f, stddev %.2f\n\n", s.MedianProfit, s.ProfitStdDev)

	if err := printMonthly(out, d.Monthly); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := printGrowth(out, d.Growth); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return printSymbols(out, d.TopSymbols)
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func printMonthly(out io.Writer, buckets []api.MonthlyPerformance) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "MONTH\tTRADES\tWINS\tLOSSES\tINVESTED\tNET P&L\tROI %\t")
	for _, b := range buckets {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\t\n",
			b.Month, b.TotalTrades, b.WinningTrades, b.LosingTrades, b.TotalInvestment, b.NetProfit, b.ROI)
	}
	return w.Flush()
}

func printGrowth(out io.Writer, points []api.GrowthPoint) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "DATE\tCAPITAL\t")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.2f\t\n", p.Date, p.Value)
	}
	return w.Flush()
}

func printSymbols(out io.Writer, ranks []api.SymbolRank) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "SYMBOL\tTRADES\tTOTAL P&L\tAVG P&L\t")
	for _, r := range ranks {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t\n", r.Symbol, r.TradeCount, r.TotalProfit, r.AvgProfit)
	}
	return w.Flush()
}
