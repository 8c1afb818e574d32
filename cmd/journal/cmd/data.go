package cmd

import (
	"fmt"
	"os"

	"trading-journal/internal/analytics"
	"trading-journal/internal/csvio"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import trades from a CSV file into the local database",
	Long: `Import trades from CSV. Recognized columns:

  Member,Symbol,Exchange,Entry Date,Entry Price,Quantity,Exit Date,Exit Price,Split,Split Ratio,Notes

Only Symbol, Entry Date, Entry Price and Quantity are required. A blank
Member goes to the default member. Bad rows are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <file.csv|->",
	Short: "Export trades from the local database as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var backupCmd = &cobra.Command{
	Use:   "backup <file.db>",
	Short: "Write a consistent copy of the local database",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file.db>",
	Short: "Replace the local database with a backup",
	Long: `Replace every member, instrument type and trade in the local database with
the contents of a file written by "journal backup" or GET /api/database/export.
The file is checked first and left unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	exportCmd.Flags().StringVarP(&memberFlag, "member", "m", "", "member id (default all members)")
	rootCmd.AddCommand(importCmd, exportCmd, backupCmd, restoreCmd)
}

func localOnly(name string) error {
	if remote() {
		return fmt.Errorf("%s works on the local database only, drop --server", name)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := localOnly("import"); err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	l, err := openLedger()
	if err != nil {
		return err
	}
	res, err := csvio.Import(cmd.Context(), l, f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d trades, %d failed\n", res.Imported, res.Failed)
	for _, e := range res.Errors {
		fmt.Fprintf(out, "  %s\n", e)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := localOnly("export"); err != nil {
		return err
	}
	memberID, err := analytics.ParseMemberID(memberFlag)
	if err != nil {
		return err
	}
	l, err := openLedger()
	if err != nil {
		return err
	}

	if args[0] == "-" {
		return csvio.Export(cmd.Context(), l, cmd.OutOrStdout(), memberID)
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := csvio.Export(cmd.Context(), l, f, memberID); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runBackup(cmd *cobra.Command, args []string) error {
	if err := localOnly("backup"); err != nil {
		return err
	}
	l, err := openLedger()
	if err != nil {
		return err
	}
	if err := l.Backup(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", args[0])
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	if err := localOnly("restore"); err != nil {
		return err
	}
	l, err := openLedger()
	if err != nil {
		return err
	}
	stats, err := l.Restore(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d members and %d trades (%d open, %d closed) from %s\n",
		stats.Members, stats.Trades, stats.OpenTrades, stats.ClosedTrades, args[0])
	return nil
}
