package gormrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ApplyMigrations applies the .sql files under dir in lexical order, skipping
// versions already recorded in schema_migrations. Each file runs together with
// its ledger insert in one transaction, so a failed migration leaves no marker.
func ApplyMigrations(ctx context.Context, db *gorm.DB, dir string) error {
	const ledgerDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	if err := db.WithContext(ctx).Exec(ledgerDDL).Error; err != nil {
		return fmt.Errorf("migrations: create ledger: %w", err)
	}

	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}
	for _, name := range files {
		version := strings.TrimSuffix(name, ".sql")
		done, err := versionApplied(ctx, db, version)
		if err != nil {
			return err
		}
		if done {
			continue
		}
		if err := applyOne(ctx, db, dir, name, version); err != nil {
			return err
		}
	}
	return nil
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func versionApplied(ctx context.Context, db *gorm.DB, version string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Table("schema_migrations").Where("version = ?", version).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("migrations: check %s: %w", version, err)
	}
	return count > 0, nil
}

func applyOne(ctx context.Context, db *gorm.DB, dir, name, version string) error {
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("migrations: read %s: %w", name, err)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("migrations: apply %s: %w", name, err)
		}
		err := tx.Exec(`INSERT INTO schema_migrations(version, applied_at) VALUES (?, ?)`, version, time.Now()).Error
		if err != nil {
			return fmt.Errorf("migrations: record %s: %w", version, err)
		}
		return nil
	})
}
