package test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"medialib/internal/database"
	"medialib/internal/logging"
)

// SetupTestDB opens a named in-memory SQLite database and migrates the full
// schema. The name is derived from the test so parallel tests never share
// state; shared cache keeps the database alive across pooled connections.
func SetupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	nop := logging.NewNop().Zerolog()
	require.NoError(t, database.NewMigrationManager(db, nop).Migrate())

	tearDown := func() {
		sqlDB.Close()
	}
	return db, tearDown
}
