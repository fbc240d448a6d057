// Package auth provides accounts, sessions and request protection.
//
// Sessions are server-side (scs with a sqlite3store) and carry the logged in
// username plus one-shot flash messages. Passwords are stored as bcrypt
// hashes.
//
// # Configuration
//
//	SESSION_SECRET=<hex-32-bytes>    # CSRF key, generated at start-up if empty
//	SESSION_LIFETIME=24h             # Session duration
//	BCRYPT_COST=12                   # bcrypt cost factor
//	SECURE_COOKIES=true              # HTTPS-only cookies
//	MAX_LOGIN_ATTEMPTS=5             # Failures before lockout
//
// # Usage
//
//	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
//	sessions, err := auth.NewSessionManager(sqlDB, cfg.Auth)
//	router.Use(sessions.SessionLoadSave())
//	router.Use(auth.NewMiddleware(sessions).Handler())
//
// Extract the user in handlers:
//
//	username := auth.GetUsername(c) // "" when nobody is logged in
package auth
