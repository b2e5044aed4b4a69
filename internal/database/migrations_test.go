package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uniforum/uniforum/internal/models"
)

func TestAutoMigrateCreatesSchema(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: "file::memory:?_foreign_keys=1"})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))

	for _, model := range []any{
		&models.User{},
		&models.EmailOTP{},
		&models.Question{},
		&models.Answer{},
		&models.Comment{},
		&models.Vote{},
	} {
		require.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
}

func TestAutoMigrateIsIdempotent(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: "file::memory:?_foreign_keys=1"})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, AutoMigrate(db))
}
