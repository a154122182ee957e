// Package testutil builds in-memory databases and fixtures for package tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/deryamemmedli/agrimonitor/database"
	"github.com/deryamemmedli/agrimonitor/entities"
)

// NewDB returns a migrated private in-memory database closed at test end.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateAccount inserts an account holding roles; the first role is primary.
func CreateAccount(t testing.TB, db *gorm.DB, email string, roles ...entities.Role) *entities.Account {
	t.Helper()
	require.NotEmpty(t, roles, "account needs at least one role")
	a := &entities.Account{
		Email:        email,
		PasswordHash: "x",
		FullName:     email,
		PrimaryRole:  roles[0],
	}
	require.NoError(t, db.Create(a).Error)
	for _, r := range roles {
		require.NoError(t, db.Create(&entities.RoleGrant{AccountID: a.ID, Role: r}).Error)
	}
	return a
}

func CreateField(t testing.TB, db *gorm.DB, ownerID uint, name string) *entities.Field {
	t.Helper()
	f := &entities.Field{
		OwnerID:      ownerID,
		Name:         name,
		Latitude:     13.75,
		Longitude:    100.5,
		AreaHectares: 4.2,
		CropType:     "sugarcane",
	}
	require.NoError(t, db.Create(f).Error)
	return f
}

func AddReading(t testing.TB, db *gorm.DB, fieldID uint, value float64, at time.Time) *entities.NDVIReading {
	t.Helper()
	r := &entities.NDVIReading{
		FieldID:    fieldID,
		Value:      value,
		Source:     entities.SourceSensor,
		ObservedAt: at,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

// Logger discards output.
func Logger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
