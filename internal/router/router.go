package router

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/paradb/paradb-api/internal/config"
	"github.com/paradb/paradb-api/internal/constants"
	"github.com/paradb/paradb-api/internal/handlers"
	"github.com/paradb/paradb-api/internal/middleware"
	"github.com/paradb/paradb-api/internal/repository"
	"github.com/paradb/paradb-api/internal/search"
	"github.com/paradb/paradb-api/internal/services"
	"gorm.io/gorm"
)

const mapDataPrefix = "/map_data/"

// Deps are the long-lived resources the HTTP application is built on.
// SearchEngine may be nil, in which case search requests fail with 503
// and map writes are not indexed.
type Deps struct {
	Config       *config.Config
	DB           *gorm.DB
	SearchEngine search.Engine
	// SessionStore overrides the store chosen from Config.
	SessionStore sessions.Store
}

// New builds the gin engine with every route registered.
func New(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config

	store := deps.SessionStore
	if store == nil {
		var err error
		store, err = NewSessionStore(cfg)
		if err != nil {
			return nil, err
		}
	}

	r := gin.Default()
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.ReportErrors())
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories and services
	userRepo := repository.NewUserRepository(deps.DB)
	mapRepo := repository.NewMapRepository(deps.DB)
	favoriteRepo := repository.NewFavoriteRepository(deps.DB)

	var indexer services.MapIndexer
	var searcher services.MapSearcher
	if deps.SearchEngine != nil {
		searchService := search.NewService(deps.SearchEngine)
		indexer = searchService
		searcher = searchService
	}

	authHandler := handlers.NewAuthHandler(services.NewAuthService(userRepo))
	mapHandler := handlers.NewMapHandler(
		services.NewMapService(mapRepo, favoriteRepo, indexer, searcher),
		services.NewFavoriteService(mapRepo, favoriteRepo),
	)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			_ = c.Error(fmt.Errorf("health check: %w", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "ParaDB API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/signup", authHandler.Signup)
			users.POST("/login", authHandler.Login)
			users.POST("/logout", authHandler.Logout)
			users.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			users.GET("/me/favorites", middleware.RequireAuth(), mapHandler.ListFavorites)
		}

		maps := api.Group("/maps")
		{
			maps.GET("", mapHandler.ListMaps)
			maps.GET("/search", mapHandler.SearchMaps)
			maps.GET("/:id", middleware.OptionalAuth(), mapHandler.GetMap)
			maps.POST("", middleware.RequireAuth(), mapHandler.SubmitMap)
			maps.DELETE("/:id", middleware.RequireAuth(), mapHandler.DeleteMap)
			maps.POST("/:id/favorite", middleware.RequireAuth(), mapHandler.FavoriteMap)
			maps.DELETE("/:id/favorite", middleware.RequireAuth(), mapHandler.UnfavoriteMap)
		}
	}

	registerFrontend(r, cfg, authHandler)

	return r, nil
}

// registerFrontend serves the built frontend, the map data directory and
// the single-page app entry points.
func registerFrontend(r *gin.Engine, cfg *config.Config, authHandler *handlers.AuthHandler) {
	frontend := http.Dir(cfg.FrontendDir)
	mapData := http.Dir(cfg.MapsDir)
	index := filepath.Join(cfg.FrontendDir, "index.html")

	// gin cannot register /static/map_data next to the /static catch-all
	serveStatic := func(c *gin.Context) {
		path := c.Param("filepath")
		if rest, ok := strings.CutPrefix(path, mapDataPrefix); ok {
			c.FileFromFS(rest, mapData)
			return
		}
		c.FileFromFS(path, frontend)
	}
	r.GET("/static/*filepath", serveStatic)
	r.HEAD("/static/*filepath", serveStatic)

	serveIndex := func(c *gin.Context) {
		c.File(index)
	}
	r.GET("/", serveIndex)
	r.GET("/login", serveIndex)
	r.GET("/signup", serveIndex)
	r.GET("/map/*id", serveIndex)

	r.GET("/logout", authHandler.LogoutRedirect)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
}

// NewSessionStore returns a Redis-backed store when Redis is configured,
// otherwise a signed cookie store.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if addr := cfg.RedisAddr(); addr != "" {
		s, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			addr,
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = s
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
