package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trading-journal/internal/api"
	"trading-journal/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintMonthly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMonthly(&buf, []api.MonthlyPerformance{
		{Month: "2024-02", TotalTrades: 1, LosingTrades: 1, TotalInvestment: 1000, NetProfit: -100, ROI: -10},
		{Month: "2024-01", TotalTrades: 2, WinningTrades: 2, TotalInvestment: 2000, NetProfit: 260, ROI: 13},
	}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "MONTH")
	assert.Contains(t, lines[1], "2024-02")
	assert.Contains(t, lines[1], "-100.00")
	assert.Contains(t, lines[2], "260.00")
	assert.Contains(t, lines[2], "13.00")
}

func TestPrintGrowthAndSymbols(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printGrowth(&buf, []api.GrowthPoint{{Date: "2024-01-10", Value: 160}}))
	assert.Contains(t, buf.String(), "2024-01-10")
	assert.Contains(t, buf.String(), "160.00")

	buf.Reset()
	require.NoError(t, printSymbols(&buf, []api.SymbolRank{{Symbol: "INFY", TradeCount: 2, TotalProfit: 201, AvgProfit: 100.5}}))
	assert.Contains(t, buf.String(), "INFY")
	assert.Contains(t, buf.String(), "100.50")
}

func TestPrintEmptyTablesHaveHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSymbols(&buf, nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestConfigInit(t *testing.T) {
	out := filepath.Join(t.TempDir(), "configs", "config.yml")
	t.Cleanup(func() {
		configInitOutput = "configs/config.yml"
		configInitForce = false
	})

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"config", "init", "--output", out})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), out)

	cfg, err := config.LoadConfig(filepath.Dir(out))
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server.Port, cfg.Server.Port)

	t.Run("RefusesToOverwrite", func(t *testing.T) {
		rootCmd.SetArgs([]string{"config", "init", "--output", out})
		assert.Error(t, rootCmd.Execute())
	})

	t.Run("ForceOverwrites", func(t *testing.T) {
		require.NoError(t, os.WriteFile(out, []byte("garbage"), 0o644))
		rootCmd.SetArgs([]string{"config", "init", "--output", out, "--force"})
		require.NoError(t, rootCmd.Execute())
		_, err := config.LoadConfig(filepath.Dir(out))
		assert.NoError(t, err)
	})
}

func TestVersion(t *testing.T) {
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "journal version dev\n", stdout.String())
}

func TestBackupAndRestore(t *testing.T) {
	dir := t.TempDir()
	c := config.Default()
	c.Database.DSN = filepath.Join(dir, "journal.db")
	require.NoError(t, c.SaveToFile(filepath.Join(dir, "config.yml")))

	csvPath := filepath.Join(dir, "trades.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Member,Symbol,Entry Date,Entry Price,Quantity,Notes\n,INFY,2024-01-01,100,10,\n"), 0o644))
	backupPath := filepath.Join(dir, "backup.db")

	run := func(args ...string) string {
		t.Helper()
		var stdout bytes.Buffer
		rootCmd.SetOut(&stdout)
		rootCmd.SetArgs(append([]string{"--config", dir}, args...))
		require.NoError(t, rootCmd.Execute())
		return stdout.String()
	}

	assert.Contains(t, run("import", csvPath), "Imported 1 trades, 0 failed")
	assert.Contains(t, run("backup", backupPath), backupPath)
	assert.Contains(t, run("import", csvPath), "Imported 1 trades")

	out := run("restore", backupPath)
	assert.Contains(t, out, "Restored 1 members and 1 trades (1 open, 0 closed)")

	exported := run("export", "-")
	assert.Equal(t, 1, strings.Count(exported, "INFY"))
}
