package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createAppTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE apps (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		domain TEXT NOT NULL,
		description TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createAPIKeyTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE api_keys (
		id TEXT PRIMARY KEY,
		app_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		key_prefix TEXT NOT NULL,
		key_hash TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL,
		expires_at DATETIME,
		last_used_at DATETIME,
		revoked_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createEventTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE events (
		id TEXT PRIMARY KEY,
		app_id TEXT NOT NULL,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		referrer TEXT,
		device TEXT,
		ip_address TEXT,
		user_agent TEXT,
		browser TEXT,
		os TEXT,
		screen_size TEXT,
		metadata TEXT NOT NULL DEFAULT '{}',
		timestamp DATETIME NOT NULL,
		received_at DATETIME NOT NULL
	);`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	createAppTable(t, db)
	createAPIKeyTable(t, db)
	createEventTable(t, db)
}
