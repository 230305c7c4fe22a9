package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherboard.app/config"
	apperrors "weatherboard.app/errors"
)

func testConfig(serverURL string) *config.WeatherConfig {
	return &config.WeatherConfig{
		APIKey:         "test-api-key",
		BaseURL:        serverURL,
		GeoBaseURL:     serverURL,
		OneCallBaseURL: serverURL,
		TimeoutSeconds: 5,
	}
}

func TestOpenWeatherProvider_Geocode(t *testing.T) {
	t.Run("ValidResponse", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/direct")
			assert.Equal(t, "London", r.URL.Query().Get("q"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			assert.Equal(t, "test-api-key", r.URL.Query().Get("appid"))

			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(`[
				{"name":"London","country":"GB","lat":51.5073,"lon":-0.1276},
				{"name":"London","country":"CA","lat":42.9836,"lon":-81.2497}
			]`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		places, err := provider.Geocode("London")

		assert.NoError(t, err)
		assert.Len(t, places, 2)
		assert.Equal(t, "London", places[0].Name)
		assert.Equal(t, "GB", places[0].Country)
		assert.InDelta(t, 51.5073, places[0].Lat, 0.001)
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		provider := NewOpenWeatherProvider(testConfig("https://api.example.com"))
		places, err := provider.Geocode("")

		assert.Error(t, err)
		assert.Nil(t, places)

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ValidationError, appErr.Type)
	})

	t.Run("ServerError", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		places, err := provider.Geocode("London")

		assert.Error(t, err)
		assert.Nil(t, places)

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ExternalAPIError, appErr.Type)
		assert.Contains(t, appErr.Message, "500")
	})
}

func TestOpenWeatherProvider_GetCurrent(t *testing.T) {
	t.Run("ValidResponse", func(t *testing.T) {
		body := `{
			"name": "London",
			"coord": {"lat": 51.51, "lon": -0.13},
			"sys": {"country": "GB", "sunrise": 1700000000, "sunset": 1700030000},
			"main": {"temp": 15.2, "humidity": 70, "pressure": 1012},
			"weather": [{"main": "Clouds", "description": "overcast clouds", "icon": "04d"}],
			"dt": 1700010000
		}`
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/weather")
			assert.Equal(t, "London,GB", r.URL.Query().Get("q"))
			assert.Equal(t, "metric", r.URL.Query().Get("units"))

			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(body))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		result, err := provider.GetCurrent("London", "GB")

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, "London", result.Name)
		assert.Equal(t, "GB", result.Country)
		assert.True(t, result.HasCoords)
		assert.InDelta(t, 51.51, result.Lat, 0.001)

		// Payload must be the provider response verbatim
		assert.JSONEq(t, body, string(result.Payload))
	})

	t.Run("QueryWithoutCountry", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Paris", r.URL.Query().Get("q"))
			_, err := w.Write([]byte(`{"name":"Paris","sys":{"country":"FR"},"dt":1}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		result, err := provider.GetCurrent("Paris", "")

		assert.NoError(t, err)
		assert.False(t, result.HasCoords)
	})

	t.Run("EmptyCity", func(t *testing.T) {
		provider := NewOpenWeatherProvider(testConfig("https://api.example.com"))
		result, err := provider.GetCurrent("", "")

		assert.Error(t, err)
		assert.Nil(t, result)

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ValidationError, appErr.Type)
	})

	t.Run("CityNotFound", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		result, err := provider.GetCurrent("Atlantis", "")

		assert.Error(t, err)
		assert.Nil(t, result)

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	})

	t.Run("InvalidAPIKey", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		_, err := provider.GetCurrent("London", "GB")

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ExternalAPIError, appErr.Type)
		assert.Contains(t, appErr.Message, "invalid API key")
	})

	t.Run("InvalidJSONResponse", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := w.Write([]byte(`not json`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		_, err := provider.GetCurrent("London", "GB")

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ExternalAPIError, appErr.Type)
	})
}

func TestOpenWeatherProvider_GetForecast(t *testing.T) {
	t.Run("ValidResponse", func(t *testing.T) {
		body := `{"city":{"name":"London","country":"GB"},"list":[{"dt":1700010000,"main":{"temp":14.0},"pop":0.35}]}`
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/forecast")
			assert.Equal(t, "London,GB", r.URL.Query().Get("q"))

			_, err := w.Write([]byte(body))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		payload, err := provider.GetForecast("London", "GB")

		assert.NoError(t, err)
		assert.JSONEq(t, body, string(payload))
	})

	t.Run("ServerError", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		payload, err := provider.GetForecast("London", "GB")

		assert.Error(t, err)
		assert.Nil(t, payload)
	})
}

func TestOpenWeatherProvider_GetAlerts(t *testing.T) {
	t.Run("CondensesHourlyAndDaily", func(t *testing.T) {
		hourly := make([]string, 30)
		for i := range hourly {
			hourly[i] = fmt.Sprintf(`{"dt":%d}`, 1700000000+i*3600)
		}
		daily := make([]string, 8)
		for i := range daily {
			daily[i] = fmt.Sprintf(`{"dt":%d}`, 1700000000+i*86400)
		}

		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/onecall")
			assert.Equal(t, "minutely", r.URL.Query().Get("exclude"))
			assert.Equal(t, "51.5", r.URL.Query().Get("lat"))

			body := fmt.Sprintf(`{"current":{"temp":15},"hourly":[%s],"daily":[%s]}`,
				joinJSON(hourly), joinJSON(daily))
			_, err := w.Write([]byte(body))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		bundle, err := provider.GetAlerts(51.5, -0.13)

		assert.NoError(t, err)
		assert.NotNil(t, bundle)
		assert.Empty(t, bundle.Alerts)
		assert.NotNil(t, bundle.Alerts)
		assert.Len(t, bundle.Hourly, 24)
		assert.Len(t, bundle.Daily, 7)
		assert.JSONEq(t, `{"temp":15}`, string(bundle.Current))
	})

	t.Run("PassesAlertsThrough", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := w.Write([]byte(`{"alerts":[{"event":"Wind","description":"Strong gusts"}],"hourly":[],"daily":[]}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherProvider(testConfig(mockServer.URL))
		bundle, err := provider.GetAlerts(48.85, 2.35)

		assert.NoError(t, err)
		assert.Len(t, bundle.Alerts, 1)

		var alert map[string]string
		assert.NoError(t, json.Unmarshal(bundle.Alerts[0], &alert))
		assert.Equal(t, "Wind", alert["event"])
	})
}

func joinJSON(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ","
		}
		out += item
	}
	return out
}
