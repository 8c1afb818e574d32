package cmd

import (
	"context"
	"fmt"

	"trading-journal/internal/analytics"
	"trading-journal/internal/config"
	"trading-journal/internal/logger"
	"trading-journal/internal/trace"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X trading-journal/cmd/journal/cmd.version=...".
var version = "dev"

var (
	configDir  string
	serverURL  string
	memberFlag string
	fromFlag   string
	toFlag     string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "Trading journal analytics from the command line",
	Long: `Journal reads the trading journal database, or a running journal
server, and prints monthly performance, the capital growth curve and the
best performing symbols.

Examples:
  journal monthly --member 1 --from 2024-01-01
  journal dashboard --range 6M
  journal symbols --server http://localhost:3000/api
  journal import trades.csv`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configDir, "config", "c", "./configs", "directory holding config.yml")
	pf.StringVar(&serverURL, "server", "", "query a journal server instead of the local database (bare --server uses client.base_url)")
	pf.Lookup("server").NoOptDefVal = "default"
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(configDir)
	if err != nil {
		return err
	}
	cfg = &loaded

	if log, err = logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	// Spans go to stderr so they never mix with printed tables.
	if err := trace.InitWithWriter(cfg.Tracing, version, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if log != nil {
		_ = log.Sync()
	}
	return trace.Shutdown(context.Background())
}

// addFilterFlags registers --member, --from and --to on cmd.
func addFilterFlags(cmd *cobra.Command, withDates bool) {
	cmd.Flags().StringVarP(&memberFlag, "member", "m", "", "member id (default all members)")
	if withDates {
		cmd.Flags().StringVar(&fromFlag, "from", "", "first exit date, YYYY-MM-DD")
		cmd.Flags().StringVar(&toFlag, "to", "", "last exit date, YYYY-MM-DD")
	}
}

func filterFromFlags() (analytics.Filter, error) {
	return analytics.ParseFilter(memberFlag, fromFlag, toFlag)
}

func remote() bool {
	return serverURL != ""
}
