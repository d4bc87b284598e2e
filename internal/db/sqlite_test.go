package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenSQLite_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")

	sqlDB, err := OpenSQLite(path, zap.NewNop())
	require.NoError(t, err)
	defer sqlDB.Close()

	for _, table := range []string{"menu", "users", "settings", "menu_uploads"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestOpenSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	first, err := OpenSQLite(path, zap.NewNop())
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO menu (item, ingredients) VALUES ('Soup', 'Water')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	var n int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM menu`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestConnectPostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool, err := ConnectPostgres(context.Background(), dsn, zap.NewNop())
	require.NoError(t, err)
	pool.Close()
}

func TestConnectPostgres_MissingDSN(t *testing.T) {
	_, err := ConnectPostgres(context.Background(), "", zap.NewNop())
	assert.Error(t, err)
}
