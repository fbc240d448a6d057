package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/gymlife/internal/config"
	"github.com/mrlokans/gymlife/internal/database/users"
)

type authTestEnv struct {
	server *httptest.Server
	client *http.Client
	repo   *users.Repository
}

func setupAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	cfg := config.Auth{
		SessionLifetime:  time.Hour,
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: 3,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  time.Minute,
	}

	sm, err := NewSessionManager(sqlDB, cfg)
	require.NoError(t, err)

	repo := users.NewRepository(db)
	service := NewService(repo, cfg)

	// Pages are rendered as plain text so tests can read flashes and errors
	render := func(c *gin.Context, status int, name string, data gin.H) {
		flashes := sm.PopFlashes(c.Request.Context())
		c.String(status, "%s|%v|%s", name, data["Error"], strings.Join(flashes, ";"))
	}

	controller := NewAuthController(service, sm, render, cfg)
	t.Cleanup(controller.Stop)

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.Use(NewMiddleware(sm).Handler())
	controller.RegisterRoutes(router)
	router.GET(HomePath, func(c *gin.Context) {
		flashes := sm.PopFlashes(c.Request.Context())
		c.String(http.StatusOK, "home|%s|%s", GetUsername(c), strings.Join(flashes, ";"))
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &authTestEnv{
		server: server,
		client: &http.Client{Jar: jar},
		repo:   repo,
	}
}

func (e *authTestEnv) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (e *authTestEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestAuthController_RegisterLogsIn(t *testing.T) {
	env := setupAuthTestEnv(t)

	resp, body := env.post(t, "/register", url.Values{"username": {"alex"}, "password": {"password123"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "home|alex|", body)
}

func TestAuthController_RegisterDuplicate(t *testing.T) {
	env := setupAuthTestEnv(t)

	env.post(t, "/register", url.Values{"username": {"alex"}, "password": {"password123"}})
	env.get(t, "/log_out")

	_, body := env.post(t, "/register", url.Values{"username": {"alex"}, "password": {"otherpass123"}})

	assert.True(t, strings.HasPrefix(body, "register.html|"), body)
	assert.Contains(t, body, "The username 'alex' has been taken. Please choose another.")

	count, err := env.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAuthController_RegisterWhileLoggedIn(t *testing.T) {
	env := setupAuthTestEnv(t)

	env.post(t, "/register", url.Values{"username": {"alex"}, "password": {"password123"}})
	_, body := env.get(t, "/register")

	assert.Contains(t, body, "Sorry alex, it appears you are already logged in!")
}

func TestAuthController_LoginUniformMessage(t *testing.T) {
	env := setupAuthTestEnv(t)

	env.post(t, "/register", url.Values{"username": {"alex"}, "password": {"password123"}})
	env.get(t, "/log_out")

	_, wrongPassword := env.post(t, "/log_in", url.Values{"username": {"alex"}, "password": {"wrongpass"}})
	_, unknownUser := env.post(t, "/log_in", url.Values{"username": {"nobody"}, "password": {"wrongpass"}})

	assert.Equal(t, "log_in.html|"+invalidCredentialsMessage+"|", wrongPassword)
	assert.Equal(t, wrongPassword, unknownUser, "unknown usernames must look like wrong passwords")

	_, body := env.post(t, "/log_in", url.Values{"username": {"alex"}, "password": {"password123"}})
	assert.Equal(t, "home|alex|", body)
}

func TestAuthController_LockedAccountLooksLikeBadCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)
	ctx := context.Background()

	env.post(t, "/register", url.Values{"username": {"alex"}, "password": {"password123"}})
	env.get(t, "/log_out")

	user, err := env.repo.GetByUserName(ctx, "alex")
	require.NoError(t, err)
	until := time.Now().Add(time.Hour)
	require.NoError(t, env.repo.RecordFailedLogin(ctx, user.ID, 5, &until))

	resp, locked := env.post(t, "/log_in", url.Values{"username": {"alex"}, "password": {"password123"}})
	_, unknown := env.post(t, "/log_in", url.Values{"username": {"nobody"}, "password": {"password123"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "log_in.html|"+invalidCredentialsMessage+"|", locked)
	assert.Equal(t, unknown, locked)
	assert.NotContains(t, locked, "locked")
}

func TestAuthController_LoginRateLimited(t *testing.T) {
	env := setupAuthTestEnv(t)

	for i := 0; i < 3; i++ {
		env.post(t, "/log_in", url.Values{"username": {"ghost"}, "password": {"wrongpass"}})
	}

	resp, body := env.post(t, "/log_in", url.Values{"username": {"ghost"}, "password": {"wrongpass"}})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, "Too many login attempts")
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestAuthController_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)

	env.post(t, "/register", url.Values{"username": {"alex"}, "password": {"password123"}})
	_, body := env.get(t, "/log_out")

	assert.Equal(t, "home||You were logged out successfully.", body)

	_, body = env.get(t, HomePath)
	assert.Equal(t, "home||", body, "logout flash is shown once")
}
