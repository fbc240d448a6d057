package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/gymlife/internal/entities"
)

func setupMiddlewareRouter(t *testing.T) (*gin.Engine, *SessionManager) {
	t.Helper()

	sm := setupSessionManager(t)
	mw := NewMiddleware(sm)

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.Use(mw.Handler())

	router.GET("/login-as/:name", func(c *gin.Context) {
		err := sm.CreateSession(c.Request, &entities.User{ID: 1, UserName: c.Param("name")})
		require.NoError(t, err)
		c.Status(http.StatusOK)
	})
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, GetUsername(c))
	})
	router.GET("/protected", mw.RequireSession(), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})

	return router, sm
}

func TestMiddleware_AnonymousRequest(t *testing.T) {
	router, _ := setupMiddlewareRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestMiddleware_RequireSession_RedirectsToLogin(t *testing.T) {
	router, _ := setupMiddlewareRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, LoginPath, rr.Header().Get("Location"))
	assert.NotContains(t, rr.Body.String(), "secret")
}

func TestMiddleware_SessionIdentity(t *testing.T) {
	router, _ := setupMiddlewareRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login-as/alex", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()

	send := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	rr = send("/whoami")
	assert.Equal(t, "alex", rr.Body.String())

	rr = send("/protected")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "secret", rr.Body.String())
}

func TestContextHelpers_NoSession(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Zero(t, GetUserID(c))
	assert.Empty(t, GetUsername(c))
	assert.False(t, IsAuthenticated(c))

	c.Set(ContextKeyUserID, uint(3))
	c.Set(ContextKeyUsername, "sam")

	assert.Equal(t, uint(3), GetUserID(c))
	assert.Equal(t, "sam", GetUsername(c))
	assert.True(t, IsAuthenticated(c))
}
