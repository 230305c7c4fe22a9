package service

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"weatherboard.app/config"
	"weatherboard.app/errors"
	"weatherboard.app/models"
	"weatherboard.app/providers"
)

// WeatherService orchestrates the city directory, weather cache and upstream
// gateway to answer weather queries
type WeatherService struct {
	gateway     providers.WeatherGateway
	cities      CityDirectoryInterface
	cache       CacheStore
	currentTTL  time.Duration
	forecastTTL time.Duration
}

// NewWeatherService creates a new weather query service
func NewWeatherService(
	gateway providers.WeatherGateway,
	cities CityDirectoryInterface,
	cache CacheStore,
	cfg *config.WeatherConfig,
) *WeatherService {
	return &WeatherService{
		gateway:     gateway,
		cities:      cities,
		cache:       cache,
		currentTTL:  time.Duration(cfg.CurrentTTLMinutes) * time.Minute,
		forecastTTL: time.Duration(cfg.ForecastTTLMinutes) * time.Minute,
	}
}

// Search resolves a free-text query to geocoding candidates
func (s *WeatherService) Search(query string) ([]models.Place, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewValidationError("search query cannot be empty")
	}

	return s.gateway.Geocode(query)
}

// CurrentFor returns current conditions for a city, serving from cache while
// fresh and fetching upstream on a miss
func (s *WeatherService) CurrentFor(name, country string) (json.RawMessage, error) {
	city, err := s.cities.GetOrCreate(name, country)
	if err != nil {
		return nil, err
	}

	if payload, ok := s.cache.Get(city.ID, models.KindCurrent); ok {
		slog.Debug("weather cache hit", "city", city.Name, "kind", models.KindCurrent)
		return payload, nil
	}

	result, err := s.gateway.GetCurrent(name, country)
	if err != nil {
		return nil, err
	}

	// Refine the directory record with the coordinates and country code the
	// provider reported. Best effort: a failure here must not fail the lookup.
	if result.HasCoords {
		if _, upErr := s.cities.RecordCoordinates(result.Name, result.Country, result.Lat, result.Lon); upErr != nil {
			slog.Warn("failed to refine city coordinates", "error", upErr, "city", result.Name)
		}
	}

	s.cache.Put(city.ID, models.KindCurrent, result.Payload, s.currentTTL)

	return result.Payload, nil
}

// ForecastFor returns the multi-day forecast for a city, serving from cache
// while fresh and fetching upstream on a miss
func (s *WeatherService) ForecastFor(name, country string) (json.RawMessage, error) {
	city, err := s.cities.GetOrCreate(name, country)
	if err != nil {
		return nil, err
	}

	if payload, ok := s.cache.Get(city.ID, models.KindForecast); ok {
		slog.Debug("weather cache hit", "city", city.Name, "kind", models.KindForecast)
		return payload, nil
	}

	payload, err := s.gateway.GetForecast(name, country)
	if err != nil {
		return nil, err
	}

	s.cache.Put(city.ID, models.KindForecast, payload, s.forecastTTL)

	return payload, nil
}

// BundleFor fetches current conditions and forecast for a city in parallel
func (s *WeatherService) BundleFor(name, country string) (*models.WeatherBundle, error) {
	var (
		wg          sync.WaitGroup
		current     json.RawMessage
		forecast    json.RawMessage
		currentErr  error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = s.CurrentFor(name, country)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = s.ForecastFor(name, country)
	}()
	wg.Wait()

	if currentErr != nil {
		return nil, currentErr
	}
	if forecastErr != nil {
		return nil, forecastErr
	}

	return &models.WeatherBundle{Current: current, Forecast: forecast}, nil
}

// Alerts returns active alerts and a condensed outlook for coordinates
func (s *WeatherService) Alerts(lat, lon float64) (*providers.AlertsBundle, error) {
	return s.gateway.GetAlerts(lat, lon)
}

// Dashboard fetches current conditions for each city concurrently. A failed
// lookup is captured on its own card and never fails the siblings.
func (s *WeatherService) Dashboard(cities []models.City) []models.DashboardCard {
	cards := make([]models.DashboardCard, len(cities))

	var wg sync.WaitGroup
	for i, city := range cities {
		wg.Add(1)
		go func(i int, city models.City) {
			defer wg.Done()

			cards[i].City = city
			payload, err := s.CurrentFor(city.Name, city.Country)
			if err != nil {
				slog.Warn("dashboard lookup failed", "city", city.Name, "error", err)
				cards[i].Error = err.Error()
				return
			}
			cards[i].Current = payload
		}(i, city)
	}
	wg.Wait()

	return cards
}
