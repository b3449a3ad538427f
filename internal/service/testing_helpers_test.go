package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/cuteblog/internal/db"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(db.Options{
		Driver:   db.DriverSQLite,
		DSN:      fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano()),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func testCredentials() *Credentials {
	return NewCredentials(bcrypt.MinCost)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
