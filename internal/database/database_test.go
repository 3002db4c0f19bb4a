package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wikid82/phishwatch/internal/models"
)

func TestConnect(t *testing.T) {
	// Test with memory DB
	db, err := Connect("file:connect_test?mode=memory&cache=shared")
	assert.NoError(t, err)
	assert.NotNil(t, db)

	// Test with file DB
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")
	db, err = Connect(dbPath)
	require.NoError(t, err)
	assert.NotNil(t, db)

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
}

func TestMigrate(t *testing.T) {
	db := OpenTestDB(t)

	for _, model := range []interface{}{
		&models.User{},
		&models.RiskCheck{},
		&models.Notification{},
		&models.NotificationRead{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "data/pw.db?"+sqliteParams, dsn("data/pw.db"))
	assert.Equal(t, "file:x?mode=memory&"+sqliteParams, dsn("file:x?mode=memory"))
}
