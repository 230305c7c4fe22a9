// Package repository implements data access layer for the application
package repository

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	apperrors "weatherboard.app/errors"
	"weatherboard.app/models"
)

// NormalizeCountry maps a country code to its canonical stored form.
// Unknown country is the empty-string sentinel.
func NormalizeCountry(country string) string {
	return strings.ToUpper(strings.TrimSpace(country))
}

// CityRepository handles data access operations for city records
type CityRepository struct {
	db *gorm.DB
}

// NewCityRepository creates a new repository for city data
func NewCityRepository(db *gorm.DB) *CityRepository {
	return &CityRepository{db: db}
}

// GetOrCreate returns the unique city record for the normalized (name, country)
// pair, creating it without coordinates if absent
func (r *CityRepository) GetOrCreate(name, country string) (*models.City, error) {
	name = strings.TrimSpace(name)
	country = NormalizeCountry(country)

	if name == "" {
		return nil, apperrors.NewValidationError("city name cannot be empty")
	}

	var city models.City
	err := r.db.Where("name = ? AND country = ?", name, country).First(&city).Error
	if err == nil {
		return &city, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDatabaseError("failed to look up city", err)
	}

	city = models.City{
		ID:      uuid.New().String(),
		Name:    name,
		Country: country,
	}
	if createErr := r.db.Create(&city).Error; createErr != nil {
		// A concurrent request may have inserted the same pair; the unique
		// index on (name, country) resolves the race, so re-read.
		if findErr := r.db.Where("name = ? AND country = ?", name, country).First(&city).Error; findErr != nil {
			return nil, apperrors.NewDatabaseError("failed to create city", createErr)
		}
	}

	slog.Debug("city record resolved", "city", city.Name, "country", city.Country, "id", city.ID)
	return &city, nil
}

// RecordCoordinates upserts a city with coordinates reported by the provider.
// Last write wins; coordinates are treated as monotonically-improving metadata.
func (r *CityRepository) RecordCoordinates(name, country string, lat, lon float64) (*models.City, error) {
	city, err := r.GetOrCreate(name, country)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"lat": lat, "lon": lon}
	if result := r.db.Model(city).Updates(updates); result.Error != nil {
		return nil, apperrors.NewDatabaseError("failed to record city coordinates", result.Error)
	}

	city.Lat = &lat
	city.Lon = &lon
	return city, nil
}

// FindByID retrieves a city by its identifier
func (r *CityRepository) FindByID(id string) (*models.City, error) {
	var city models.City
	err := r.db.Where("id = ?", id).First(&city).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewDatabaseError("failed to look up city by id", err)
	}
	return &city, nil
}
