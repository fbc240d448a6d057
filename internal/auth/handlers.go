package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gymlife/internal/config"
)

// HomePath is where successful auth actions land.
const HomePath = "/home"

const invalidCredentialsMessage = "Incorrect username and/or password. Please try again."

// Renderer writes an HTML page with the shared layout data filled in.
type Renderer func(c *gin.Context, status int, name string, data gin.H)

type registerForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// AuthController handles the register, log in and log out pages.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	render         Renderer
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, sessionManager *SessionManager, render Renderer, cfg config.Auth) *AuthController {
	rateLimiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	})

	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		render:         render,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/register", ac.RegisterPage)
	router.POST("/register", ac.Register)
	router.GET(LoginPath, ac.LoginPage)
	router.POST(LoginPath, ac.Login)
	router.GET("/log_out", ac.Logout)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	ac.rateLimiter.Stop()
}

// RegisterPage renders the registration form.
func (ac *AuthController) RegisterPage(c *gin.Context) {
	if ac.redirectIfLoggedIn(c, "Sorry %s, it appears you are already logged in! To register a new user, try logging out first.") {
		return
	}
	ac.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Register creates the account and logs the new user in.
func (ac *AuthController) Register(c *gin.Context) {
	if ac.redirectIfLoggedIn(c, "Sorry %s, it appears you are already logged in! To register a new user, try logging out first.") {
		return
	}

	ctx := c.Request.Context()

	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		ac.sessionManager.AddFlash(ctx, "Please enter both a username and a password.")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	user, err := ac.service.Register(ctx, form.Username, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			ac.sessionManager.AddFlash(ctx, fmt.Sprintf("The username '%s' has been taken. Please choose another.", form.Username))
		case errors.Is(err, ErrUsernameInvalid):
			ac.sessionManager.AddFlash(ctx, "Username must be 3-64 characters: letters, digits, underscore or hyphen.")
		case errors.Is(err, ErrPasswordTooShort):
			ac.sessionManager.AddFlash(ctx, fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
		case errors.Is(err, ErrPasswordTooLong):
			ac.sessionManager.AddFlash(ctx, fmt.Sprintf("Password must be at most %d bytes.", MaxPasswordLength))
		default:
			log.Printf("Failed to register %s: %v", form.Username, err)
			ac.sessionManager.AddFlash(ctx, "Registration failed. Please try again.")
		}
		c.Redirect(http.StatusFound, "/register")
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for %s: %v", user.UserName, err)
		c.Redirect(http.StatusFound, LoginPath)
		return
	}

	c.Redirect(http.StatusFound, HomePath)
}

// LoginPage renders the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if ac.redirectIfLoggedIn(c, "Sorry %s, it appears you are already logged in. To log in as a different user, try logging out first.") {
		return
	}
	ac.render(c, http.StatusOK, "log_in.html", gin.H{"Title": "Log In"})
}

// Login handles the login form submission. Unknown usernames and wrong
// passwords get the same message.
func (ac *AuthController) Login(c *gin.Context) {
	if ac.redirectIfLoggedIn(c, "Sorry %s, it appears you are already logged in. To log in as a different user, try logging out first.") {
		return
	}

	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		ac.renderLogin(c, http.StatusOK, form.Username, invalidCredentialsMessage)
		return
	}

	clientIP := c.ClientIP()

	if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, form.Username); !allowed {
		c.Header("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
		ac.renderLogin(c, http.StatusTooManyRequests, form.Username, "Too many login attempts. Please try again later.")
		return
	}

	user, err := ac.service.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		switch {
		// A locked account looks like bad credentials so lockouts do not reveal
		// which usernames exist.
		case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidPassword), errors.Is(err, ErrAccountLocked):
			ac.rateLimiter.RecordFailure(clientIP, form.Username)
			ac.renderLogin(c, http.StatusOK, form.Username, invalidCredentialsMessage)
		default:
			log.Printf("Failed to authenticate %s: %v", form.Username, err)
			ac.renderLogin(c, http.StatusInternalServerError, form.Username, "Something went wrong. Please try again.")
		}
		return
	}

	ac.rateLimiter.RecordSuccess(clientIP, form.Username)

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for %s: %v", user.UserName, err)
		ac.renderLogin(c, http.StatusInternalServerError, form.Username, "Failed to create session")
		return
	}

	c.Redirect(http.StatusFound, HomePath)
}

// Logout forgets the user and returns to the listing.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessionManager.EndSession(c.Request); err != nil {
		log.Printf("Failed to end session: %v", err)
	}
	ac.sessionManager.AddFlash(c.Request.Context(), "You were logged out successfully.")
	c.Redirect(http.StatusFound, HomePath)
}

func (ac *AuthController) renderLogin(c *gin.Context, status int, username, message string) {
	ac.render(c, status, "log_in.html", gin.H{
		"Title":    "Log In",
		"Username": username,
		"Error":    message,
	})
}

// redirectIfLoggedIn sends an already logged in visitor home with a flash
// built from format and their username. Reports whether it redirected.
func (ac *AuthController) redirectIfLoggedIn(c *gin.Context, format string) bool {
	username := ac.sessionManager.GetUsername(c.Request)
	if username == "" {
		return false
	}
	ac.sessionManager.AddFlash(c.Request.Context(), fmt.Sprintf(format, username))
	c.Redirect(http.StatusFound, HomePath)
	return true
}
