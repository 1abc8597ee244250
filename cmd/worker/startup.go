// cmd/worker/startup.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"inkdrop-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const healthAddr = ":9999"

// HealthChecker performs startup health checks
type HealthChecker struct {
	c *container.Container
}

// startServices performs health checks and starts the health endpoint
func startServices(c *container.Container) error {
	log.Info().
		Int("concurrency", c.Config.Worker.Concurrency).
		Str("backfill_cron", c.Config.Worker.BackfillCron).
		Str("storage", c.Storage.Canonical().Name()).
		Msg("InkDrop worker starting")

	checker := &HealthChecker{c: c}
	if err := checker.checkAll(); err != nil {
		return err
	}

	go startHealthCheckServer(checker)
	return nil
}

// checkAll runs all health checks
func (h *HealthChecker) checkAll() error {
	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Redis Connection", h.c.Cache.Ping},
		{"PostgreSQL Connection", h.c.DB.HealthCheck},
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Health check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Health check OK")
	}
	return nil
}

// startHealthCheckServer serves /health and /ready for the orchestrator
func startHealthCheckServer(h *HealthChecker) {
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "inkdrop-worker"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := h.checkAll(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	log.Info().Str("addr", healthAddr).Msg("[Health] Starting health check server")
	if err := router.Run(healthAddr); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
