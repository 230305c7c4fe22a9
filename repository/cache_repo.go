package repository

import (
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"weatherboard.app/models"
)

// WeatherCacheRepository stores provider payloads in the durable weather
// cache table, one entry per (city, kind). Cache loss is always safe, so
// read and write failures degrade to a miss instead of surfacing errors.
type WeatherCacheRepository struct {
	db *gorm.DB
}

// NewWeatherCacheRepository creates a new repository for cached weather payloads
func NewWeatherCacheRepository(db *gorm.DB) *WeatherCacheRepository {
	return &WeatherCacheRepository{db: db}
}

// Get returns the cached payload for (cityID, kind) if present and not expired
func (r *WeatherCacheRepository) Get(cityID, kind string) ([]byte, bool) {
	var entry models.WeatherCacheEntry
	err := r.db.Where("city_id = ? AND kind = ?", cityID, kind).First(&entry).Error
	if err != nil {
		return nil, false
	}

	if !entry.ExpiresAt.After(time.Now()) {
		return nil, false
	}

	return entry.Payload, true
}

// Put stores or overwrites the cache entry for (cityID, kind) with the given TTL
func (r *WeatherCacheRepository) Put(cityID, kind string, payload []byte, ttl time.Duration) {
	if payload == nil {
		return
	}

	entry := models.WeatherCacheEntry{
		CityID:    cityID,
		Kind:      kind,
		Payload:   payload,
		ExpiresAt: time.Now().Add(ttl),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "city_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		slog.Error("failed to write weather cache entry", "error", err, "city_id", cityID, "kind", kind)
	}
}
