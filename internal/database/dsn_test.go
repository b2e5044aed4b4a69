package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "forum",
		Password: "secret",
		Name:     "uniforum",
		Host:     "db.internal",
		Port:     5433,
	})
	require.NoError(t, err)
	require.Equal(t, "host=db.internal port=5433 user=forum dbname=uniforum password=secret sslmode=disable", dsn)
}

func TestBuildPostgresDSNRequiresUserAndName(t *testing.T) {
	_, err := buildPostgresDSN(Config{Host: "localhost"})
	require.Error(t, err)
}

func TestBuildPostgresDSNHonoursOverride(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{DSN: "postgres://u:p@host/db"})
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@host/db", dsn)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User:     "forum",
		Password: "secret",
		Name:     "uniforum",
	})
	require.NoError(t, err)
	require.Equal(t, "forum:secret@tcp(127.0.0.1:3306)/uniforum?charset=utf8mb4&loc=Local&parseTime=True", dsn)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}
