package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteEnablesForeignKeys(t *testing.T) {
	database, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	defer database.Close()

	var enabled int
	require.NoError(t, database.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestOpen_SQLitePragmasOnEveryConnection(t *testing.T) {
	database, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "pool.db"))
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	conns := make([]*sql.Conn, 3)
	for i := range conns {
		conns[i], err = database.Conn(ctx)
		require.NoError(t, err)
		defer conns[i].Close()
	}
	for i, conn := range conns {
		var enabled int
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&enabled))
		assert.Equal(t, 1, enabled, "connection %d", i)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported database driver")
}
