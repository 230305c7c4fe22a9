package service

import (
	"encoding/json"
	"time"

	"weatherboard.app/models"
	"weatherboard.app/providers"
)

// CityDirectoryInterface defines city directory operations used by services
type CityDirectoryInterface interface {
	GetOrCreate(name, country string) (*models.City, error)
	RecordCoordinates(name, country string, lat, lon float64) (*models.City, error)
	FindByID(id string) (*models.City, error)
}

// CacheStore defines the weather payload cache consulted before upstream calls
type CacheStore interface {
	Get(cityID, kind string) ([]byte, bool)
	Put(cityID, kind string, payload []byte, ttl time.Duration)
}

// FavoriteLedgerInterface defines favorite association operations used by services
type FavoriteLedgerInterface interface {
	EnsureVisitor(visitorID string) error
	Add(visitorID, cityID string) error
	Remove(visitorID, cityID string) error
	ListCities(visitorID string) ([]models.City, error)
}

// WeatherServiceInterface defines weather query operations exposed to the API layer
type WeatherServiceInterface interface {
	Search(query string) ([]models.Place, error)
	CurrentFor(name, country string) (json.RawMessage, error)
	ForecastFor(name, country string) (json.RawMessage, error)
	BundleFor(name, country string) (*models.WeatherBundle, error)
	Alerts(lat, lon float64) (*providers.AlertsBundle, error)
	Dashboard(cities []models.City) []models.DashboardCard
}

// FavoritesServiceInterface defines favorites operations exposed to the API layer
type FavoritesServiceInterface interface {
	Add(visitorID, name, country string) (*models.City, error)
	Remove(visitorID, cityID string) error
	List(visitorID string) ([]models.City, error)
}
