package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	conn, err := OpenSQLite(path)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, 1, conn.Stats().MaxOpenConnections)
}

func TestOpen_InvalidURL(t *testing.T) {
	_, err := Open("postgres://invalid host name:5432/db")
	assert.Error(t, err)
}
