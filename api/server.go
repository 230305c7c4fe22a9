package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"weatherboard.app/config"
	weathererr "weatherboard.app/errors"
	"weatherboard.app/identity"
	"weatherboard.app/models"
	"weatherboard.app/repository"
	"weatherboard.app/service"
)

// Server represents the HTTP server and API handler
type Server struct {
	router           *gin.Engine
	config           *config.Config
	resolver         *identity.Resolver
	weatherService   service.WeatherServiceInterface
	favoritesService service.FavoritesServiceInterface
}

// NewServer creates and configures a new HTTP server
func NewServer(
	config *config.Config,
	resolver *identity.Resolver,
	weatherService service.WeatherServiceInterface,
	favoritesService service.FavoritesServiceInterface,
) *Server {
	router := gin.Default()

	server := &Server{
		router:           router,
		config:           config,
		resolver:         resolver,
		weatherService:   weatherService,
		favoritesService: favoritesService,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/weather", s.getWeather)
		api.GET("/weather/alerts", s.getAlerts)
		api.GET("/cities", s.listFavorites)
		api.POST("/cities", s.addFavorite)
		api.DELETE("/cities/:id", s.removeFavorite)
		api.GET("/dashboard", s.getDashboard)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// getWeather serves place search (?search=) and the combined
// current+forecast lookup (?q=Name or ?q=Name,CC)
func (s *Server) getWeather(c *gin.Context) {
	if search := c.Query("search"); search != "" {
		results, err := s.weatherService.Search(search)
		if err != nil {
			slog.Error("place search error", "error", err, "query", search)
			s.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
		return
	}

	q := c.Query("q")
	if q == "" {
		q = c.Query("city")
	}
	if q == "" {
		s.handleError(c, weathererr.NewValidationError("missing city query ?q="))
		return
	}

	name, country := splitCityQuery(q)

	slog.Debug("getting weather", "city", name, "country", country)
	bundle, err := s.weatherService.BundleFor(name, country)
	if err != nil {
		slog.Error("weather lookup error", "error", err, "city", name)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

func (s *Server) getAlerts(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		s.handleError(c, weathererr.NewValidationError("latitude and longitude are required"))
		return
	}

	alerts, err := s.weatherService.Alerts(lat, lon)
	if err != nil {
		slog.Error("alerts lookup error", "error", err, "lat", lat, "lon", lon)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (s *Server) listFavorites(c *gin.Context) {
	visitorID := s.resolver.Ensure(c)

	cities, err := s.favoritesService.List(visitorID)
	if err != nil {
		slog.Error("list favorites error", "error", err, "visitor_id", visitorID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

func (s *Server) addFavorite(c *gin.Context) {
	visitorID := s.resolver.Ensure(c)

	var req models.FavoriteRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Error("request binding error", "error", err)
		s.handleError(c, weathererr.NewValidationError("city name is required"))
		return
	}

	city, err := s.favoritesService.Add(visitorID, req.Name, req.Country)
	if err != nil {
		slog.Error("add favorite error", "error", err, "city", req.Name)
		s.handleError(c, err)
		return
	}

	slog.Debug("favorite added", "visitor_id", visitorID, "city", city.Name)
	c.JSON(http.StatusCreated, gin.H{"city": city})
}

func (s *Server) removeFavorite(c *gin.Context) {
	visitorID := s.resolver.Ensure(c)

	id := c.Param("id")
	if id == "" {
		s.handleError(c, weathererr.NewValidationError("city id is required"))
		return
	}

	if err := s.favoritesService.Remove(visitorID, id); err != nil {
		slog.Error("remove favorite error", "error", err, "city_id", id)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// getDashboard renders every favorited city's current conditions, with
// per-card errors instead of a page-level failure
func (s *Server) getDashboard(c *gin.Context) {
	visitorID := s.resolver.Ensure(c)

	cities, err := s.favoritesService.List(visitorID)
	if err != nil {
		slog.Error("dashboard favorites error", "error", err, "visitor_id", visitorID)
		s.handleError(c, err)
		return
	}

	cards := s.weatherService.Dashboard(cities)
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// splitCityQuery parses "Name" or "Name,CC" into name and normalized country
func splitCityQuery(q string) (string, string) {
	parts := strings.SplitN(q, ",", 2)
	name := strings.TrimSpace(parts[0])
	country := ""
	if len(parts) == 2 {
		country = repository.NormalizeCountry(parts[1])
	}
	return name, country
}

// handleError handles different types of application errors
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *weathererr.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case weathererr.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case weathererr.NotFoundError:
			statusCode = http.StatusNotFound
			message = appErr.Message
		case weathererr.AlreadyExistsError:
			statusCode = http.StatusConflict
			message = appErr.Message
		case weathererr.ExternalAPIError:
			statusCode = http.StatusServiceUnavailable
			message = appErr.Message
		case weathererr.DatabaseError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		case weathererr.ConfigurationError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}
