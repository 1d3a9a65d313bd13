package controllers

import (
	"path/filepath"
	"testing"
	"time"

	"learnflow/learnflow/config"
	"learnflow/learnflow/sources/psql/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Note{}))
	return db
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Password: "x",
		Role:     models.RoleStudent,
		Settings: models.Settings{Theme: "light", Notifications: true},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
