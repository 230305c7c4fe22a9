package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"weatherboard.app/config"
)

func testResolver() *Resolver {
	return NewResolver(&config.CookieConfig{
		Name:   "prefId",
		MaxAge: 31536000,
		Secure: false,
	})
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestEnsure(t *testing.T) {
	t.Run("MintsNewIdentity", func(t *testing.T) {
		resolver := testResolver()
		c, w := newTestContext()

		id := resolver.Ensure(c)

		_, err := uuid.Parse(id)
		assert.NoError(t, err)

		cookies := w.Result().Cookies()
		assert.Len(t, cookies, 1)
		assert.Equal(t, "prefId", cookies[0].Name)
		assert.Equal(t, id, cookies[0].Value)
		assert.Equal(t, 31536000, cookies[0].MaxAge)
		assert.Equal(t, "/", cookies[0].Path)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	})

	t.Run("ReusesExistingIdentity", func(t *testing.T) {
		resolver := testResolver()
		c, w := newTestContext()
		c.Request.AddCookie(&http.Cookie{Name: "prefId", Value: "visitor-abc"})

		id := resolver.Ensure(c)

		assert.Equal(t, "visitor-abc", id)
		assert.Empty(t, w.Result().Cookies(), "no new cookie should be set")
	})

	t.Run("EmptyCookieValueMintsFresh", func(t *testing.T) {
		resolver := testResolver()
		c, _ := newTestContext()
		c.Request.AddCookie(&http.Cookie{Name: "prefId", Value: ""})

		id := resolver.Ensure(c)
		assert.NotEmpty(t, id)
	})
}

func TestPeek(t *testing.T) {
	t.Run("ReturnsExistingIdentity", func(t *testing.T) {
		resolver := testResolver()
		c, _ := newTestContext()
		c.Request.AddCookie(&http.Cookie{Name: "prefId", Value: "visitor-abc"})

		assert.Equal(t, "visitor-abc", resolver.Peek(c))
	})

	t.Run("AbsentCookieReturnsEmpty", func(t *testing.T) {
		resolver := testResolver()
		c, w := newTestContext()

		assert.Empty(t, resolver.Peek(c))
		assert.Empty(t, w.Result().Cookies(), "peek must not set a cookie")
	})
}
