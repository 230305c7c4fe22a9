// Package identity resolves the anonymous per-browser visitor token carried
// by a long-lived cookie.
package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"weatherboard.app/config"
)

// Resolver reads and establishes the visitor identity cookie
type Resolver struct {
	cookieName string
	maxAge     int
	secure     bool
}

// NewResolver creates a resolver from cookie configuration
func NewResolver(cfg *config.CookieConfig) *Resolver {
	return &Resolver{
		cookieName: cfg.Name,
		maxAge:     cfg.MaxAge,
		secure:     cfg.Secure,
	}
}

// Ensure returns the visitor identity bound to the request, minting and
// setting a new cookie when none is present. Only handlers that may mutate
// the response should call this.
func (r *Resolver) Ensure(c *gin.Context) string {
	if id, err := c.Cookie(r.cookieName); err == nil && id != "" {
		return id
	}

	id := uuid.New().String()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(r.cookieName, id, r.maxAge, "/", "", r.secure, true)

	return id
}

// Peek returns the existing visitor identity or an empty string, without
// creating one. Absence is a valid state for read paths.
func (r *Resolver) Peek(c *gin.Context) string {
	id, err := c.Cookie(r.cookieName)
	if err != nil {
		return ""
	}
	return id
}
