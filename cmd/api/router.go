package main

import (
	"context"
	"net/http"
	"time"

	"inkdrop-backend/internal/shared/middleware"
	"inkdrop-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// multipartOverhead is the slack allowed on top of the file limit for the
// other form fields and multipart framing.
const multipartOverhead = 1 << 20

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.AllowedOrigins),
		middleware.BodyLimit(c.Config.Storage.MaxUploadBytes+multipartOverhead),
	)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Metrics, promhttp.HandlerOpts{})))
	router.Static(c.Config.Storage.Local.PublicPath, c.Config.Storage.Local.Dir)

	auth := middleware.AuthMiddleware(c.JWTManager)
	admin := []gin.HandlerFunc{auth, middleware.AdminMiddleware()}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c, auth)
		setupBookRoutes(v1, c, auth)
		setupCategoryRoutes(v1, c)
		setupRequestRoutes(v1, c, auth)
		setupDownloadRoutes(v1, c, auth)
		setupNotificationRoutes(v1, c, auth)
		setupAdminRoutes(v1.Group("/admin", admin...), c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	v1.POST("/auth/register", c.UserHandler.Register)
	v1.POST("/auth/login", c.UserHandler.Login)
	v1.GET("/dashboard", auth, c.DashboardHandler.User)

	users := v1.Group("/users", auth)
	{
		users.GET("/me", c.UserHandler.Me)
		users.PATCH("/update-email", c.UserHandler.UpdateEmail)
		users.PATCH("/update-password", c.UserHandler.ChangePassword)
		users.DELETE("/delete-account", c.UserHandler.DeleteAccount)
	}
}

// ========================================
// NOTIFICATION ROUTES
// ========================================
func setupNotificationRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	notifications := v1.Group("/notifications", auth)
	{
		notifications.GET("", c.NotificationHandler.Mine)
		notifications.POST("", c.NotificationHandler.Create)
		notifications.GET("/:userId", c.NotificationHandler.ForUser)
		notifications.PATCH("/:id/read", c.NotificationHandler.MarkAsRead)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/mine", auth, c.BookHandler.MyBooks)
		books.GET("/:id", c.BookHandler.GetBook)
		books.GET("/:id/download", auth, c.DownloadHandler.DownloadBook)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/categories", c.CategoryHandler.List)
}

// ========================================
// REQUEST ROUTES
// ========================================
func setupRequestRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	requests := v1.Group("/requests", auth)
	{
		requests.POST("", c.RequestHandler.Create)
		requests.GET("/mine", c.RequestHandler.Mine)
	}
}

// ========================================
// DOWNLOAD ROUTES
// ========================================
func setupDownloadRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	downloads := v1.Group("/downloads", auth)
	{
		downloads.POST("", c.DownloadHandler.RecordDownload)
		downloads.GET("/mine", c.DownloadHandler.MyDownloads)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(admin *gin.RouterGroup, c *container.Container) {
	admin.POST("/upload", c.BookHandler.UploadBook)

	admin.GET("/books", c.BookHandler.ListBooks)
	admin.GET("/books/export", c.BookHandler.ExportBooks)
	admin.DELETE("/books/:id", c.BookHandler.DeleteBook)

	admin.POST("/categories", c.CategoryHandler.Create)
	admin.DELETE("/categories/:id", c.CategoryHandler.Delete)

	admin.GET("/requests", c.RequestHandler.List)
	admin.PATCH("/requests/:id", c.RequestHandler.Update)

	admin.GET("/dashboard", c.DashboardHandler.Admin)
	admin.GET("/downloads/logs", c.DownloadHandler.Logs)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else if err := appCtx.DB.HealthCheck(ctx); err != nil {
			log.Warn().Err(err).Msg("Database health check failed")
			dbStatus = "error"
		} else if stats, err := appCtx.DB.Stats(); err == nil {
			health["pool"] = stats
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Cache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis health check failed")
			redisStatus = "error"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"storage":  appCtx.Storage.Canonical().Name(),
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			health["status"] = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
