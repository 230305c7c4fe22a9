package service

import (
	"log/slog"

	"weatherboard.app/errors"
	"weatherboard.app/models"
)

// FavoritesService handles visitor favorite-city business logic
type FavoritesService struct {
	cities CityDirectoryInterface
	ledger FavoriteLedgerInterface
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(cities CityDirectoryInterface, ledger FavoriteLedgerInterface) *FavoritesService {
	return &FavoritesService{
		cities: cities,
		ledger: ledger,
	}
}

// Add favorites a city for a visitor, creating the city record and the
// visitor record on first use. Repeated identical calls are a no-op success.
func (s *FavoritesService) Add(visitorID, name, country string) (*models.City, error) {
	if visitorID == "" {
		return nil, errors.NewValidationError("visitor identity is required")
	}

	city, err := s.cities.GetOrCreate(name, country)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.EnsureVisitor(visitorID); err != nil {
		return nil, err
	}

	if err := s.ledger.Add(visitorID, city.ID); err != nil {
		return nil, err
	}

	slog.Debug("city favorited", "visitor_id", visitorID, "city", city.Name)
	return city, nil
}

// Remove deletes a visitor's favorite association. Removing a city that was
// never favorited is a not-found error.
func (s *FavoritesService) Remove(visitorID, cityID string) error {
	if visitorID == "" {
		return errors.NewNotFoundError("favorite not found")
	}
	if cityID == "" {
		return errors.NewValidationError("city id is required")
	}

	return s.ledger.Remove(visitorID, cityID)
}

// List returns all cities favorited by a visitor. An absent identity means
// no favorites, not an error.
func (s *FavoritesService) List(visitorID string) ([]models.City, error) {
	if visitorID == "" {
		return []models.City{}, nil
	}

	cities, err := s.ledger.ListCities(visitorID)
	if err != nil {
		return nil, err
	}
	if cities == nil {
		cities = []models.City{}
	}

	return cities, nil
}
