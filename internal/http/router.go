package http

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gymlife/internal/auth"
	"github.com/mrlokans/gymlife/internal/config"
	"github.com/mrlokans/gymlife/internal/web"
)

// Router is the configured gin engine plus the background pieces that must be
// stopped with it.
type Router struct {
	*gin.Engine
	authController *auth.AuthController
}

// Close releases resources held by the controllers.
func (r *Router) Close() {
	if r.authController != nil {
		r.authController.Stop()
	}
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) (*Router, error) {
	if cfg.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if cfg.Exercises == nil || cfg.Favourites == nil || cfg.Lookups == nil {
		return nil, fmt.Errorf("exercise, favourites and lookup stores are required")
	}

	homeSize := cfg.Pagination.HomePageSize
	if homeSize <= 0 {
		homeSize = config.DefaultHomePageSize
	}
	accountSize := cfg.Pagination.AccountPageSize
	if accountSize <= 0 {
		accountSize = config.DefaultAccountPageSize
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware(31536000))
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	router.Use(cfg.SessionManager.SessionLoadSave())

	authMiddleware := auth.NewMiddleware(cfg.SessionManager)
	router.Use(authMiddleware.Handler())

	// Inject auth data for templates
	router.Use(AuthContextMiddleware())

	tmpl, err := template.New("").ParseFS(web.Templates(cfg.TemplatesPath), "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	router.StaticFS("/static", http.FS(web.Static(cfg.StaticPath)))

	views := newViews(cfg.SessionManager)
	requireSession := authMiddleware.RequireSession()

	result := &Router{Engine: router}

	if cfg.AuthService != nil {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, views.render, cfg.AuthConfig)
		authController.RegisterRoutes(router)
		result.authController = authController
	}

	health := NewHealthController(cfg.Database, cfg.TaskQueue, cfg.Version)
	exercisesController := NewExercisesController(cfg.Exercises, cfg.Favourites, cfg.Lookups, views, homeSize)
	exercisesController.audit = cfg.Audit
	exercisesController.history = cfg.AuditLog
	favouritesController := NewFavouritesController(cfg.Favourites, views)
	usersController := NewUsersController(cfg.Exercises, cfg.Favourites, cfg.SessionManager, views, accountSize)
	usersController.history = cfg.AuditLog

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, auth.HomePath)
	})

	// Catalogue pages
	getAndPost(router, auth.HomePath, exercisesController.Home)
	getAndPost(router, "/search", exercisesController.Search)
	getAndPost(router, "/exercise/:id", exercisesController.Exercise)
	getAndPost(router, "/user_account/:name", usersController.UserAccount)

	// Pages that change the catalogue need a session
	member := router.Group("/", requireSession)
	getAndPost(member, "/add_exercise", exercisesController.AddExercise)
	member.POST("/insert_exercise", exercisesController.InsertExercise)
	getAndPost(member, "/edit_exercise/:id", exercisesController.EditExercise)
	member.POST("/update_exercise/:id", exercisesController.UpdateExercise)
	getAndPost(member, "/delete_exercise/:id", exercisesController.DeleteExercise)
	getAndPost(member, "/remove_exercise/:id", exercisesController.RemoveExercise)
	member.GET("/toggle_favourite/:id/:flag", favouritesController.ToggleFavourite)

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.PurgeRetention, cfg.AuditRetention)
		member.GET("/api/tasks/types", tasksController.ListTaskTypes)
		member.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		member.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	router.NoRoute(views.notFound)

	return result, nil
}

// getAndPost registers handler for both GET and POST, matching pages whose
// forms post back to themselves.
func getAndPost(routes gin.IRoutes, path string, handler gin.HandlerFunc) {
	routes.GET(path, handler)
	routes.POST(path, handler)
}
