package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestLedger_Restore(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTest(t)

	spouse, err := l.CreateMember(ctx, "Spouse")
	require.NoError(t, err)
	require.NoError(t, l.CreateTrade(ctx, closed(newTrade(spouse.ID, "INFY", "2024-01-01", "100", 10), "2024-02-01", "120")))
	require.NoError(t, l.CreateTrade(ctx, newTrade(1, "TCS", "2024-03-01", "3500", 2)))

	backup := filepath.Join(t.TempDir(), "backup.db")
	require.NoError(t, l.Backup(ctx, backup))
	before, err := os.ReadFile(backup)
	require.NoError(t, err)

	// Diverge from the backup, then roll back to it.
	extra := newTrade(1, "WIPRO", "2024-04-01", "450", 5)
	require.NoError(t, l.CreateTrade(ctx, extra))
	trades, err := l.ListTrades(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, l.DeleteTrade(ctx, trades[len(trades)-1].ID))

	stats, err := l.Restore(ctx, backup)
	require.NoError(t, err)
	assert.Equal(t, Stats{Members: 2, Trades: 2, OpenTrades: 1, ClosedTrades: 1}, stats)

	trades, err = l.ListTrades(ctx, nil)
	require.NoError(t, err)
	symbols := []string{}
	for _, tr := range trades {
		symbols = append(symbols, tr.Symbol)
	}
	assert.ElementsMatch(t, []string{"INFY", "TCS"}, symbols)

	m, err := l.MemberByName(ctx, "spouse")
	require.NoError(t, err)
	assert.Equal(t, spouse.ID, m.ID)

	after, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, before, after, "restore must not touch the source file")

	t.Run("NewTradesGetFreshIDs", func(t *testing.T) {
		next := newTrade(1, "ITC", "2024-05-01", "400", 1)
		require.NoError(t, l.CreateTrade(ctx, next))
		for _, tr := range trades {
			assert.NotEqual(t, tr.ID, next.ID)
		}
	})
}

func TestLedger_RestoreRejectsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.db")
	require.NoError(t, os.WriteFile(garbage, []byte("this is not sqlite, just some text padding it out"), 0o644))

	empty := filepath.Join(dir, "empty.db")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	other := filepath.Join(dir, "other.db")
	otherDB, err := gorm.Open(sqlite.Open(other), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, otherDB.Exec("CREATE TABLE notes (body text)").Error)
	sqlDB, err := otherDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	testCases := []struct {
		name string
		path string
	}{
		{name: "Missing file", path: filepath.Join(dir, "nope.db")},
		{name: "Not a database", path: garbage},
		{name: "Empty file", path: empty},
		{name: "Unrelated database", path: other},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, _ := setupTest(t)
			require.NoError(t, l.CreateTrade(ctx, newTrade(1, "INFY", "2024-01-01", "100", 1)))

			_, err := l.Restore(ctx, tc.path)
			assert.ErrorIs(t, err, ErrInvalidBackup)

			stats, err := l.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stats.Trades, "journal must be untouched")
		})
	}
}
