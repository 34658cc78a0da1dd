// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"resep/internal/models"
	"resep/internal/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DSN returns a private in-memory SQLite DSN for the running test.
func DSN(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return "file:" + name + "?mode=memory&cache=shared"
}

// OpenDB opens and migrates an in-memory SQLite database that lives until
// the test ends.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repositories.NewDB(repositories.DBConfig{
		Driver:   "sqlite",
		DSN:      DSN(t),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A shared-cache memory database disappears with its last connection.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser inserts an active user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hashed", IsActive: true}
	require.NoError(t, repositories.NewGORMUserRepository(db).Create(context.Background(), user))
	return user
}
