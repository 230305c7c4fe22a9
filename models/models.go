// Package models defines data structures used throughout the application
package models

import (
	"encoding/json"
	"time"
)

// Cache entry kinds for weather payloads
const (
	KindCurrent  = "current"
	KindForecast = "forecast"
)

// City represents a real-world city tracked by the dashboard
type City struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_city_name_country"`
	Country   string    `json:"country,omitempty" gorm:"uniqueIndex:idx_city_name_country"`
	Lat       *float64  `json:"lat,omitempty"`
	Lon       *float64  `json:"lon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WeatherCacheEntry holds one cached provider payload per (city, kind)
type WeatherCacheEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CityID    string    `json:"city_id" gorm:"not null;uniqueIndex:idx_cache_city_kind"`
	Kind      string    `json:"kind" gorm:"not null;uniqueIndex:idx_cache_city_kind"`
	Payload   []byte    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VisitorPreference is the anonymous per-browser identity record
type VisitorPreference struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteCity links a visitor identity to a city
type FavoriteCity struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	VisitorID string            `json:"visitor_id" gorm:"not null;uniqueIndex:idx_fav_visitor_city"`
	CityID    string            `json:"city_id" gorm:"not null;uniqueIndex:idx_fav_visitor_city"`
	Visitor   VisitorPreference `json:"-" gorm:"foreignKey:VisitorID"`
	City      City              `json:"-" gorm:"foreignKey:CityID"`
	CreatedAt time.Time         `json:"created_at"`
}

// Place represents a geocoding candidate returned by the provider
type Place struct {
	Name    string  `json:"name"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// FavoriteRequest represents data required to add a favorite city
type FavoriteRequest struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Country string `json:"country" form:"country"`
}

// WeatherBundle pairs the current conditions and forecast payloads for a city
type WeatherBundle struct {
	Current  json.RawMessage `json:"current"`
	Forecast json.RawMessage `json:"forecast"`
}

// DashboardCard is one favorited city's lookup result; exactly one of
// Current or Error is populated
type DashboardCard struct {
	City    City            `json:"city"`
	Current json.RawMessage `json:"current,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}
