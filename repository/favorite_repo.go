package repository

import (
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	apperrors "weatherboard.app/errors"
	"weatherboard.app/models"
)

// FavoriteRepository handles data access operations for visitor favorites
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new repository for favorite associations
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// EnsureVisitor creates the visitor preference record if it does not exist
func (r *FavoriteRepository) EnsureVisitor(visitorID string) error {
	if visitorID == "" {
		return apperrors.NewValidationError("visitor id cannot be empty")
	}

	visitor := models.VisitorPreference{ID: visitorID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&visitor).Error
	if err != nil {
		return apperrors.NewDatabaseError("failed to ensure visitor record", err)
	}
	return nil
}

// Add associates a city with a visitor. Adding an existing favorite is a
// no-op success; the unique index on (visitor_id, city_id) absorbs the
// duplicate instead of raising an error.
func (r *FavoriteRepository) Add(visitorID, cityID string) error {
	favorite := models.FavoriteCity{
		VisitorID: visitorID,
		CityID:    cityID,
	}

	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error
	if err != nil {
		return apperrors.NewDatabaseError("failed to add favorite", err)
	}

	slog.Debug("favorite added", "visitor_id", visitorID, "city_id", cityID)
	return nil
}

// Remove deletes the association between a visitor and a city. Removing an
// association that does not exist is a not-found error, not a silent success.
func (r *FavoriteRepository) Remove(visitorID, cityID string) error {
	result := r.db.Where("visitor_id = ? AND city_id = ?", visitorID, cityID).
		Delete(&models.FavoriteCity{})
	if result.Error != nil {
		return apperrors.NewDatabaseError("failed to remove favorite", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("favorite not found")
	}

	slog.Debug("favorite removed", "visitor_id", visitorID, "city_id", cityID)
	return nil
}

// ListFavoritedCities returns every city favorited by at least one visitor,
// deduplicated. Used by the background cache pre-warmer.
func (r *FavoriteRepository) ListFavoritedCities() ([]models.City, error) {
	var cities []models.City
	err := r.db.Model(&models.City{}).
		Distinct("cities.*").
		Joins("JOIN favorite_cities ON favorite_cities.city_id = cities.id").
		Find(&cities).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to list favorited cities", err)
	}
	return cities, nil
}

// ListCities returns all cities favorited by a visitor, oldest first.
// An unknown visitor yields an empty list.
func (r *FavoriteRepository) ListCities(visitorID string) ([]models.City, error) {
	var cities []models.City
	err := r.db.Model(&models.City{}).
		Joins("JOIN favorite_cities ON favorite_cities.city_id = cities.id").
		Where("favorite_cities.visitor_id = ?", visitorID).
		Order("favorite_cities.created_at ASC").
		Find(&cities).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to list favorite cities", err)
	}
	return cities, nil
}
