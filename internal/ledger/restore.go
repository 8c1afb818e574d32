package ledger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"trading-journal/internal/database"
	"trading-journal/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// restoreTables is parent-first: rows are deleted in reverse and copied in order.
var restoreTables = []interface{}{&models.InstrumentType{}, &models.Member{}, &models.Trade{}}

// Restore replaces the whole journal with the contents of the SQLite file at
// src, typically one written by Backup. src itself is not modified.
// The copy is checked first and the swap runs in one transaction, so a
// failure leaves the journal untouched.
func (l *Ledger) Restore(ctx context.Context, src string) (Stats, error) {
	dir, err := os.MkdirTemp("", "journal-restore-*")
	if err != nil {
		return Stats{}, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "upload.db")
	if err := copyFile(src, path); err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if err := checkBackup(path, l.db.Logger); err != nil {
		return Stats{}, err
	}

	// ATTACH is per connection, so everything runs on a single one.
	err = l.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("ATTACH DATABASE ? AS upload", path).Error; err != nil {
			return fmt.Errorf("failed to attach %s: %w", path, err)
		}
		defer conn.Exec("DETACH DATABASE upload")

		return conn.Transaction(func(tx *gorm.DB) error {
			for i := len(restoreTables) - 1; i >= 0; i-- {
				table, _, err := tableColumns(tx, restoreTables[i])
				if err != nil {
					return err
				}
				if err := tx.Exec("DELETE FROM main." + table).Error; err != nil {
					return fmt.Errorf("failed to clear %s: %w", table, err)
				}
			}
			for _, model := range restoreTables {
				table, columns, err := tableColumns(tx, model)
				if err != nil {
					return err
				}
				sql := fmt.Sprintf("INSERT INTO main.%s (%s) SELECT %s FROM upload.%s", table, columns, columns, table)
				if err := tx.Exec(sql).Error; err != nil {
					return fmt.Errorf("failed to copy %s: %w", table, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return Stats{}, err
	}

	stats, err := l.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	l.logger.Info("Database restored",
		zap.String("path", src),
		zap.Int64("members", stats.Members),
		zap.Int64("trades", stats.Trades))
	return stats, nil
}

// checkBackup opens the file on its own, requires the journal tables and at
// least one member, and migrates it so every current column exists.
func checkBackup(path string, log gormlogger.Interface) error {
	up, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: log})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	sqlDB, err := up.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := up.Exec("PRAGMA quick_check").Error; err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	for _, model := range []interface{}{&models.Member{}, &models.Trade{}} {
		if !up.Migrator().HasTable(model) {
			return fmt.Errorf("%w: missing table for %T", ErrInvalidBackup, model)
		}
	}
	var members int64
	if err := up.Model(&models.Member{}).Count(&members).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if members == 0 {
		return fmt.Errorf("%w: it has no members", ErrInvalidBackup)
	}
	if err := database.AutoMigrate(up); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return nil
}

func tableColumns(db *gorm.DB, model interface{}) (table, columns string, err error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "", "", fmt.Errorf("failed to parse schema of %T: %w", model, err)
	}
	return stmt.Schema.Table, strings.Join(stmt.Schema.DBNames, ", "), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
