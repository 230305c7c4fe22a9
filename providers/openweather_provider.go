package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"weatherboard.app/config"
	"weatherboard.app/errors"
	"weatherboard.app/models"
)

const geocodeLimit = 5

// OpenWeatherProvider implements WeatherGateway for OpenWeatherMap
type OpenWeatherProvider struct {
	apiKey         string
	baseURL        string
	geoBaseURL     string
	oneCallBaseURL string
	client         *http.Client
}

// NewOpenWeatherProvider creates a new OpenWeatherMap gateway
func NewOpenWeatherProvider(cfg *config.WeatherConfig) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		apiKey:         cfg.APIKey,
		baseURL:        cfg.BaseURL,
		geoBaseURL:     cfg.GeoBaseURL,
		oneCallBaseURL: cfg.OneCallBaseURL,
		client:         &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

// Geocode resolves a free-text place query to up to five candidates
func (p *OpenWeatherProvider) Geocode(query string) ([]models.Place, error) {
	if query == "" {
		return nil, errors.NewValidationError("search query cannot be empty")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(geocodeLimit))
	params.Set("appid", p.apiKey)

	body, err := p.get(fmt.Sprintf("%s/direct?%s", p.geoBaseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	var places []models.Place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode geocoding response", err)
	}

	return places, nil
}

// currentMeta is the slice of the current-conditions response the directory
// cares about; the full payload is passed through untouched.
type currentMeta struct {
	Name  string `json:"name"`
	Coord *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// GetCurrent retrieves current conditions for a city, keeping the provider
// payload verbatim
func (p *OpenWeatherProvider) GetCurrent(name, country string) (*CurrentResult, error) {
	if name == "" {
		return nil, errors.NewValidationError("city name cannot be empty")
	}

	body, err := p.get(p.weatherURL("/weather", name, country))
	if err != nil {
		return nil, err
	}

	var meta currentMeta
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode current weather response", err)
	}

	result := &CurrentResult{
		Payload: body,
		Name:    meta.Name,
		Country: meta.Sys.Country,
	}
	if meta.Coord != nil {
		result.Lat = meta.Coord.Lat
		result.Lon = meta.Coord.Lon
		result.HasCoords = true
	}

	return result, nil
}

// GetForecast retrieves the 5-day/3-hour forecast for a city as a verbatim payload
func (p *OpenWeatherProvider) GetForecast(name, country string) (json.RawMessage, error) {
	if name == "" {
		return nil, errors.NewValidationError("city name cannot be empty")
	}

	body, err := p.get(p.weatherURL("/forecast", name, country))
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, errors.NewExternalAPIError("invalid forecast response body", nil)
	}

	return body, nil
}

// GetAlerts retrieves one-call alerts for coordinates, condensed to the next
// 24 hourly and 7 daily entries
func (p *OpenWeatherProvider) GetAlerts(lat, lon float64) (*AlertsBundle, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("exclude", "minutely")
	params.Set("units", "metric")
	params.Set("appid", p.apiKey)

	body, err := p.get(fmt.Sprintf("%s/onecall?%s", p.oneCallBaseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	var bundle AlertsBundle
	if err := json.Unmarshal(body, &bundle); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode alerts response", err)
	}

	if bundle.Alerts == nil {
		bundle.Alerts = []json.RawMessage{}
	}
	if len(bundle.Hourly) > 24 {
		bundle.Hourly = bundle.Hourly[:24]
	}
	if len(bundle.Daily) > 7 {
		bundle.Daily = bundle.Daily[:7]
	}

	return &bundle, nil
}

// weatherURL builds a data/2.5 endpoint URL keyed on "Name" or "Name,CC"
func (p *OpenWeatherProvider) weatherURL(path, name, country string) string {
	q := name
	if country != "" {
		q = name + "," + country
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("units", "metric")
	params.Set("appid", p.apiKey)

	return fmt.Sprintf("%s%s?%s", p.baseURL, path, params.Encode())
}

func (p *OpenWeatherProvider) get(requestURL string) ([]byte, error) {
	resp, err := p.client.Get(requestURL)
	if err != nil {
		return nil, errors.NewExternalAPIError("weather provider request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleHTTPError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to read provider response", err)
	}

	return body, nil
}

func (p *OpenWeatherProvider) handleHTTPError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return errors.NewExternalAPIError("openweathermap: invalid API key", nil)
	case http.StatusNotFound:
		return errors.NewNotFoundError("city not found")
	case http.StatusTooManyRequests:
		return errors.NewExternalAPIError("openweathermap: rate limit exceeded", nil)
	default:
		return errors.NewExternalAPIError(
			fmt.Sprintf("openweathermap: HTTP %d %s", statusCode, http.StatusText(statusCode)), nil)
	}
}
