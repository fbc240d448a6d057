package http

import (
	"time"

	"github.com/mrlokans/gymlife/internal/auth"
	"github.com/mrlokans/gymlife/internal/config"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database   Pinger
	Exercises  ExerciseStore
	Favourites FavouritesStore
	Lookups    LookupStore

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth

	// CSRFSecret enables CSRF protection when non-empty
	CSRFSecret    []byte
	SecureCookies bool

	// UI paths, empty means the embedded assets
	TemplatesPath string
	StaticPath    string

	Pagination config.Pagination

	// Task queue client (optional)
	TaskQueue      TaskQueue
	Audit          Auditor  // optional, records exercise changes
	AuditLog       AuditLog // optional, shows recorded changes to owners
	PurgeRetention time.Duration
	AuditRetention time.Duration

	// Application info
	Version string
}
