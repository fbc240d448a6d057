package auth

import (
	"context"
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/gymlife/internal/config"
	"github.com/mrlokans/gymlife/internal/entities"
)

// Session data keys
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
	SessionKeyLoginAt  = "login_at"
	SessionKeyFlashes  = "flashes"
)

func init() {
	// Register types that will be stored in sessions
	gob.Register(time.Time{})
	gob.Register([]string{})
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager backed by the
// sessions table of the given sqlite database.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	// Lax so that following a link into the site keeps the visitor logged in
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession stores the authenticated user in a fresh session token.
func (sm *SessionManager) CreateSession(r *http.Request, user *entities.User) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	sm.Put(r.Context(), SessionKeyUsername, user.UserName)
	sm.Put(r.Context(), SessionKeyLoginAt, time.Now())

	return nil
}

// EndSession forgets the authenticated user but keeps the session itself,
// so a flash added afterwards still reaches the next page.
func (sm *SessionManager) EndSession(r *http.Request) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	sm.Remove(r.Context(), SessionKeyUserID)
	sm.Remove(r.Context(), SessionKeyUsername)
	sm.Remove(r.Context(), SessionKeyLoginAt)

	return nil
}

// GetUserID retrieves the user ID from the session.
// Returns 0 if not authenticated.
func (sm *SessionManager) GetUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

// GetUsername retrieves the username from the session.
func (sm *SessionManager) GetUsername(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyUsername)
}

// IsAuthenticated returns true if the request has a logged in session.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetUsername(r) != ""
}

// AddFlash queues a one-shot message for the next rendered page.
func (sm *SessionManager) AddFlash(ctx context.Context, message string) {
	flashes, _ := sm.Get(ctx, SessionKeyFlashes).([]string)
	sm.Put(ctx, SessionKeyFlashes, append(flashes, message))
}

// PopFlashes returns the queued messages and clears them.
func (sm *SessionManager) PopFlashes(ctx context.Context) []string {
	flashes, _ := sm.Pop(ctx, SessionKeyFlashes).([]string)
	return flashes
}

// SessionData holds the session information for a request.
type SessionData struct {
	UserID   uint
	Username string
	LoginAt  time.Time
}

// GetSessionData retrieves all session data at once.
func (sm *SessionManager) GetSessionData(r *http.Request) *SessionData {
	username := sm.GetUsername(r)
	if username == "" {
		return nil
	}

	loginAt, _ := sm.Get(r.Context(), SessionKeyLoginAt).(time.Time)

	return &SessionData{
		UserID:   sm.GetUserID(r),
		Username: username,
		LoginAt:  loginAt,
	}
}
