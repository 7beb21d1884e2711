// Package testdb, testler için in-memory sqlite veritabanı açar.
// Production ile aynı Migrate fonksiyonu kullanılır; sentinel kategoriler
// dahil şema birebir aynıdır.
package testdb

import (
	"testing"

	"dernek-backend/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open: Her çağrıda izole bir in-memory veritabanı döner ve paket globalini
// ona bağlar (handler'lar ve audit database.DB üzerinden çalışır).
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.DB = db
	return db
}
