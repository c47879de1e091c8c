package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotnet/src/model"
)

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mysql", DatabaseURLMain: "whatever"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpenSQLiteAndAutoMigrate(t *testing.T) {
	db, err := Open(Config{
		Driver:          DriverSQLite,
		DatabaseURLMain: "file:automigrate_test?mode=memory&cache=shared",
		GormLogLevel:    1,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
	})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))

	for _, table := range []interface{}{&model.User{}, &model.Position{}, &model.AirDrop{}} {
		assert.True(t, db.Migrator().HasTable(table), "missing table for %T", table)
	}
	assert.True(t, db.Migrator().HasIndex(&model.AirDrop{}, "IsClaimed"))
	assert.True(t, db.Migrator().HasIndex(&model.User{}, "WalletID"))
}

func TestGetConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL_MAIN", "file:cfg?mode=memory")

	cfg := GetConfig()
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "file:cfg?mode=memory", cfg.DatabaseURLMain)
	assert.Equal(t, 20, cfg.MaxOpenConns)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestInitReadOnlyDBFallsBackToMainURL(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL_MAIN", "file:readonly_fallback?mode=memory&cache=shared")
	t.Setenv("DATABASE_URL_READ_ONLY", "")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "1")

	// keep the shared in-memory database alive while the read-only handle connects
	mainDB, err := Open(GetConfig())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(mainDB))

	require.NoError(t, InitReadOnlyDB())
	require.NotNil(t, ReadOnlyDB)
	t.Cleanup(func() { ReadOnlyDB = nil })
}

func TestCheckReadableWithoutSchema(t *testing.T) {
	db, err := Open(Config{
		Driver:          DriverSQLite,
		DatabaseURLMain: "file:readonly_empty?mode=memory&cache=shared",
		GormLogLevel:    1,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
	})
	require.NoError(t, err)

	assert.ErrorContains(t, CheckReadable(db), "failed to access position table")
}
