package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stemsi/ailit-assessment/internal/config"
	"github.com/stemsi/ailit-assessment/internal/handler"
	"github.com/stemsi/ailit-assessment/internal/middleware"
	"github.com/stemsi/ailit-assessment/internal/response"
	"github.com/stemsi/ailit-assessment/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Run       *handler.RunHandler
	Result    *handler.ResultHandler
	Admin     *handler.AdminHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the lifetime of the rate limiters' cleanup goroutines.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Downloads are served byte for byte; the SSE stream must not be buffered.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			p := c.Request.URL.Path
			return strings.HasSuffix(p, "/artifact") || strings.HasSuffix(p, "/export") ||
				strings.HasSuffix(p, "/system/metrics")
		},
	}))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	sinkLimiter := middleware.NewRateLimiter(ctx, cfg.SinkRatePerMin, time.Minute)
	importLimiter := middleware.NewRateLimiter(ctx, cfg.ImportRatePerMin, time.Minute)
	authLimiter := middleware.NewRateLimiter(ctx, 10, time.Minute)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.GET("/catalog", middleware.CacheControl(300), handlers.Catalog.GetCatalog)
		api.POST("/results", sinkLimiter.Middleware(), handlers.Result.SubmitResult)
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
	}

	// ─── 2. Runs (Run JWT) ─────────────────────────────────────────────
	runs := router.Group("/api/v1/runs")
	runs.Use(middleware.NoStore())
	{
		runs.POST("", handlers.Run.StartRun)
		runs.POST("/import", importLimiter.Middleware(), handlers.Run.ImportRun)

		me := runs.Group("/me")
		me.Use(middleware.RequireRunJWT(authService))
		{
			me.GET("", handlers.Run.GetRun)
			me.GET("/results", handlers.Run.GetResults)
			me.POST("/finalize", handlers.Run.Finalize)
			me.GET("/artifact", handlers.Run.DownloadArtifact)
			me.GET("/export", handlers.Run.ExportRun)

			dims := me.Group("/dimensions/:dimension_id")
			{
				dims.POST("/open", handlers.Run.OpenDimension)
				dims.PUT("/answers/:question_id", handlers.Run.RecordAnswer)
				dims.POST("/next", handlers.Run.NextQuestion)
				dims.POST("/prev", handlers.Run.PrevQuestion)
				dims.POST("/exit", handlers.Run.ExitDimension)
			}
		}
	}

	// ─── 3. WebSocket Group (Run WS Auth) ──────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireRunWSAuth(authService))
	{
		ws.GET("/runs/me/stream", handlers.WS.RunStream)
	}

	// ─── 4. Admin Group (Admin JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService), middleware.NoStore())
	{
		adminAPI.GET("/results", handlers.Admin.ListResults)
		adminAPI.GET("/results/:id", handlers.Admin.GetResult)
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboardData)
		adminAPI.GET("/system/metrics", handlers.System.SystemMetricsSSE)
	}

	return router
}
