// Package scheduler implements background cache pre-warming
package scheduler

import (
	"log/slog"
	"time"

	"weatherboard.app/config"
	"weatherboard.app/models"
	"weatherboard.app/service"
)

// FavoritedCityLister enumerates cities that appear in any visitor's favorites
type FavoritedCityLister interface {
	ListFavoritedCities() ([]models.City, error)
}

// Refresher periodically re-fetches weather for favorited cities so
// dashboard renders hit a warm cache
type Refresher struct {
	config         *config.RefresherConfig
	favorites      FavoritedCityLister
	weatherService service.WeatherServiceInterface
	stopCh         chan struct{}
}

// NewRefresher creates a new cache pre-warmer
func NewRefresher(
	cfg *config.RefresherConfig,
	favorites FavoritedCityLister,
	weatherService service.WeatherServiceInterface,
) *Refresher {
	return &Refresher{
		config:         cfg,
		favorites:      favorites,
		weatherService: weatherService,
		stopCh:         make(chan struct{}),
	}
}

// Start begins the refresh loop; it runs once immediately and then on the
// configured interval until Stop is called
func (r *Refresher) Start() {
	if !r.config.Enabled {
		slog.Info("cache refresher disabled")
		return
	}

	interval := time.Duration(r.config.IntervalMinutes) * time.Minute
	slog.Info("starting cache refresher", "interval", interval)

	r.refreshAll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.refreshAll()
		case <-r.stopCh:
			return
		}
	}
}

// Stop terminates the refresh loop
func (r *Refresher) Stop() {
	close(r.stopCh)
}

func (r *Refresher) refreshAll() {
	cities, err := r.favorites.ListFavoritedCities()
	if err != nil {
		slog.Error("refresher failed to list favorited cities", "error", err)
		return
	}

	for _, city := range cities {
		if _, err := r.weatherService.CurrentFor(city.Name, city.Country); err != nil {
			slog.Warn("refresher current lookup failed", "city", city.Name, "error", err)
		}
		if _, err := r.weatherService.ForecastFor(city.Name, city.Country); err != nil {
			slog.Warn("refresher forecast lookup failed", "city", city.Name, "error", err)
		}
	}

	slog.Debug("cache refresh pass complete", "cities", len(cities))
}
