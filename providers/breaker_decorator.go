package providers

import (
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/sony/gobreaker"
	"weatherboard.app/errors"
	"weatherboard.app/models"
)

const (
	breakerInterval = 30 * time.Second
	breakerTimeout  = 15 * time.Second

	consecutiveFailureLimit = 5
)

// BreakerGateway wraps a WeatherGateway with a circuit breaker so a
// misbehaving provider stops receiving traffic for a cool-down window.
type BreakerGateway struct {
	cb      *gobreaker.CircuitBreaker
	wrapped WeatherGateway
}

// NewBreakerGateway creates a circuit-breaking decorator around a gateway
func NewBreakerGateway(name string, wrapped WeatherGateway) *BreakerGateway {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailureLimit
		},
		// A not-found city or a rejected input is a valid provider answer,
		// not an outage
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var appErr *errors.AppError
			if !stderrors.As(err, &appErr) {
				return false
			}
			return appErr.Type == errors.NotFoundError || appErr.Type == errors.ValidationError
		},
	}

	return &BreakerGateway{
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerGateway) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return nil, err
		}
		return nil, errors.NewExternalAPIError("weather provider unavailable", err)
	}
	return result, nil
}

// Geocode delegates through the circuit breaker
func (b *BreakerGateway) Geocode(query string) ([]models.Place, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.wrapped.Geocode(query)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Place), nil
}

// GetCurrent delegates through the circuit breaker
func (b *BreakerGateway) GetCurrent(name, country string) (*CurrentResult, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.wrapped.GetCurrent(name, country)
	})
	if err != nil {
		return nil, err
	}
	return result.(*CurrentResult), nil
}

// GetForecast delegates through the circuit breaker
func (b *BreakerGateway) GetForecast(name, country string) (json.RawMessage, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.wrapped.GetForecast(name, country)
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

// GetAlerts delegates through the circuit breaker
func (b *BreakerGateway) GetAlerts(lat, lon float64) (*AlertsBundle, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.wrapped.GetAlerts(lat, lon)
	})
	if err != nil {
		return nil, err
	}
	return result.(*AlertsBundle), nil
}
