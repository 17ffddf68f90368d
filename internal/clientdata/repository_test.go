package clientdata

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate())

	return db
}

func TestNewRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	assert.NotNil(t, repo)
}

func TestMigrateCreatesAllTables(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, table := range AllTables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	// Migrate is idempotent
	require.NoError(t, NewRepository(db).Migrate())
}

func TestStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	data := map[string]interface{}{
		"name":   "Test Company",
		"symbol": "TEST",
		"price":  123.45,
	}

	err := repo.Store("yahoo_overview", "TEST", data, TTLOverview)
	require.NoError(t, err)

	var storedData string
	var expiresAt int64
	err = db.QueryRow("SELECT data, expires_at FROM yahoo_overview WHERE symbol = ?", "TEST").Scan(&storedData, &expiresAt)
	require.NoError(t, err)

	var parsed map[string]interface{}
	err = json.Unmarshal([]byte(storedData), &parsed)
	require.NoError(t, err)
	assert.Equal(t, "Test Company", parsed["name"])
	assert.Equal(t, "TEST", parsed["symbol"])

	expectedExpires := time.Now().Add(TTLOverview).Unix()
	assert.InDelta(t, expectedExpires, expiresAt, 5) // Allow 5 second tolerance
}

func TestStoreUpsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	data1 := map[string]string{"version": "1"}
	err := repo.Store("yahoo_overview", "AAPL", data1, time.Hour)
	require.NoError(t, err)

	data2 := map[string]string{"version": "2"}
	err = repo.Store("yahoo_overview", "AAPL", data2, time.Hour)
	require.NoError(t, err)

	// Only the latest version remains
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM yahoo_overview WHERE symbol = ?", "AAPL").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	raw, err := repo.Get("yahoo_overview", "AAPL")
	require.NoError(t, err)
	var parsed map[string]string
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, "2", parsed["version"])
}

func TestStoreInvalidTable(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	err := repo.Store("nonexistent_table", "AAPL", map[string]string{}, time.Hour)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestGetIfFresh(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	// Fresh entry is returned
	err := repo.Store("yahoo_history", "AAPL", map[string]string{"state": "fresh"}, time.Hour)
	require.NoError(t, err)

	data, err := repo.GetIfFresh("yahoo_history", "AAPL")
	require.NoError(t, err)
	require.NotNil(t, data)

	// Missing key returns nil, nil
	data, err = repo.GetIfFresh("yahoo_history", "MSFT")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestGetIfFreshExpired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	// Store with negative TTL so the entry is already expired
	err := repo.Store("yahoo_history", "AAPL", map[string]string{"state": "stale"}, -time.Hour)
	require.NoError(t, err)

	data, err := repo.GetIfFresh("yahoo_history", "AAPL")
	require.NoError(t, err)
	assert.Nil(t, data)

	// Get still returns the stale entry
	data, err = repo.Get("yahoo_history", "AAPL")
	require.NoError(t, err)
	require.NotNil(t, data)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "stale", parsed["state"])
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	err := repo.Store("narrative", "AAPL", map[string]string{"narrative": "text"}, time.Hour)
	require.NoError(t, err)

	err = repo.Delete("narrative", "AAPL")
	require.NoError(t, err)

	data, err := repo.Get("narrative", "AAPL")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDeleteSymbol(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	// Populate every table for two symbols
	for _, table := range AllTables {
		require.NoError(t, repo.Store(table, "AAPL", map[string]string{"k": "v"}, time.Hour))
		require.NoError(t, repo.Store(table, "MSFT", map[string]string{"k": "v"}, time.Hour))
	}

	require.NoError(t, repo.DeleteSymbol("AAPL"))

	for _, table := range AllTables {
		data, err := repo.Get(table, "AAPL")
		require.NoError(t, err)
		assert.Nil(t, data, "table %s should have no AAPL entry", table)

		data, err = repo.Get(table, "MSFT")
		require.NoError(t, err)
		assert.NotNil(t, data, "table %s should keep MSFT entry", table)
	}
}

func TestDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	require.NoError(t, repo.Store("analysis", "STALE", map[string]string{}, -time.Hour))
	require.NoError(t, repo.Store("analysis", "FRESH", map[string]string{}, time.Hour))

	deleted, err := repo.DeleteExpired("analysis")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	data, err := repo.Get("analysis", "FRESH")
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestDeleteAllExpired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	require.NoError(t, repo.Store("yahoo_overview", "STALE", map[string]string{}, -time.Hour))
	require.NoError(t, repo.Store("yahoo_news", "STALE", map[string]string{}, -time.Hour))
	require.NoError(t, repo.Store("yahoo_news", "FRESH", map[string]string{}, time.Hour))

	results, err := repo.DeleteAllExpired()
	require.NoError(t, err)

	assert.Equal(t, int64(1), results["yahoo_overview"])
	assert.Equal(t, int64(1), results["yahoo_news"])
	assert.Equal(t, int64(0), results["analysis"])
	assert.Len(t, results, len(AllTables))
}
