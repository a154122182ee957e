// database/bootstrap.go
package database

import (
	"fmt"
	"log/slog"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/deryamemmedli/agrimonitor/entities"
)

// MemoryPath opens a private in-memory database; used by tests.
const MemoryPath = ":memory:"

// Open connects, applies pragmas and migrates the schema.
//
// The pool is limited to one connection: SQLite has a single writer, and
// an in-memory database only lives as long as its connection.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	for _, p := range pragmas(path) {
		if err := db.Exec(p).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func pragmas(path string) []string {
	out := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	if path != MemoryPath {
		out = append(out, "PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL")
	}
	return out
}

// Migrate creates or updates every table and repairs accounts that hold
// no role.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.Account{},
		&entities.RoleGrant{},
		&entities.Field{},
		&entities.NDVIReading{},
		&entities.Request{},
		&entities.Treatment{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if err := ensurePrimaryGrants(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// ensurePrimaryGrants gives every account without a role grant a grant for
// its primary role. Accounts inserted outside the auth service (imports,
// older builds that stored a single role column) otherwise could not act
// at all.
func ensurePrimaryGrants(db *gorm.DB) error {
	var orphans int64
	if err := db.Raw(`
SELECT COUNT(*) FROM accounts a
WHERE a.primary_role IN (?, ?)
  AND NOT EXISTS (SELECT 1 FROM role_grants g WHERE g.account_id = a.id)`,
		entities.RoleFarmer, entities.RoleAgronomist,
	).Scan(&orphans).Error; err != nil {
		return fmt.Errorf("count orphan accounts: %w", err)
	}
	if orphans == 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
INSERT INTO role_grants (account_id, role, created_at, updated_at)
SELECT a.id, a.primary_role, a.created_at, a.created_at FROM accounts a
WHERE a.primary_role IN (?, ?)
  AND NOT EXISTS (SELECT 1 FROM role_grants g WHERE g.account_id = a.id)`,
			entities.RoleFarmer, entities.RoleAgronomist,
		)
		if res.Error != nil {
			return fmt.Errorf("backfill role grants: %w", res.Error)
		}
		slog.Info("backfilled role grants", "count", res.RowsAffected)
		return nil
	})
}
