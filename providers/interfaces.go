package providers

import (
	"encoding/json"

	"weatherboard.app/models"
)

// CurrentResult carries the provider's verbatim current-conditions payload
// plus the identifying fields parsed out of it so the city directory can
// refine its stored name, country and coordinates.
type CurrentResult struct {
	Payload   json.RawMessage
	Name      string
	Country   string
	Lat       float64
	Lon       float64
	HasCoords bool
}

// AlertsBundle is the condensed one-call response: active alerts plus a
// short hourly and daily outlook.
type AlertsBundle struct {
	Alerts  []json.RawMessage `json:"alerts"`
	Current json.RawMessage   `json:"current,omitempty"`
	Hourly  []json.RawMessage `json:"hourly"`
	Daily   []json.RawMessage `json:"daily"`
}

// WeatherGateway defines the interface for the upstream weather provider
type WeatherGateway interface {
	Geocode(query string) ([]models.Place, error)
	GetCurrent(name, country string) (*CurrentResult, error)
	GetForecast(name, country string) (json.RawMessage, error)
	GetAlerts(lat, lon float64) (*AlertsBundle, error)
}
