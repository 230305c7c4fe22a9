package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"weatherboard.app/models"
)

// Setup test database with in-memory SQLite
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.City{},
		&models.WeatherCacheEntry{},
		&models.VisitorPreference{},
		&models.FavoriteCity{},
	)
	assert.NoError(t, err)

	return db
}
