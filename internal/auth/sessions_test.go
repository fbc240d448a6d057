package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/gymlife/internal/config"
	"github.com/mrlokans/gymlife/internal/entities"
)

func setupSessionManager(t *testing.T) *SessionManager {
	t.Helper()

	sqlDB, err := setupTestDB(t).DB()
	require.NoError(t, err)

	sm, err := NewSessionManager(sqlDB, config.Auth{
		SessionLifetime: 24 * time.Hour,
		SecureCookies:   false,
	})
	require.NoError(t, err)

	return sm
}

func TestNewSessionManager(t *testing.T) {
	sm := setupSessionManager(t)

	assert.Equal(t, "session", sm.Cookie.Name)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.False(t, sm.Cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
	assert.Equal(t, 24*time.Hour, sm.Lifetime)
	assert.Equal(t, 12*time.Hour, sm.IdleTimeout)
}

func TestSessionManager_CreateAndEndSession(t *testing.T) {
	sm := setupSessionManager(t)
	user := &entities.User{ID: 7, UserName: "alex"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, sm.IsAuthenticated(r))
		assert.Nil(t, sm.GetSessionData(r))

		require.NoError(t, sm.CreateSession(r, user))

		assert.True(t, sm.IsAuthenticated(r))
		assert.Equal(t, uint(7), sm.GetUserID(r))
		assert.Equal(t, "alex", sm.GetUsername(r))

		data := sm.GetSessionData(r)
		require.NotNil(t, data)
		assert.Equal(t, "alex", data.Username)
		assert.False(t, data.LoginAt.IsZero())

		sm.AddFlash(r.Context(), "bye")
		require.NoError(t, sm.EndSession(r))

		assert.False(t, sm.IsAuthenticated(r))
		assert.Equal(t, []string{"bye"}, sm.PopFlashes(r.Context()), "flashes survive logout")

		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSessionManager_Flashes(t *testing.T) {
	sm := setupSessionManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, sm.PopFlashes(r.Context()))

		sm.AddFlash(r.Context(), "first")
		sm.AddFlash(r.Context(), "second")

		assert.Equal(t, []string{"first", "second"}, sm.PopFlashes(r.Context()))
		assert.Empty(t, sm.PopFlashes(r.Context()), "flashes are shown once")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestSessionLoadSave_PersistsAcrossRedirect(t *testing.T) {
	sm := setupSessionManager(t)

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.GET("/set", func(c *gin.Context) {
		sm.AddFlash(c.Request.Context(), "Exercise was successfully deleted.")
		c.Redirect(http.StatusFound, "/get")
	})
	router.GET("/get", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"flashes": sm.PopFlashes(c.Request.Context())})
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/set", nil))
	require.Equal(t, http.StatusFound, rr.Code)

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies, "redirect must carry the session cookie")

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Exercise was successfully deleted.")
}
