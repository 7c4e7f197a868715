package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/platform/tokens"
)

type HealthHandler struct {
	log          *logger.Logger
	db           *gorm.DB
	tokenService tokens.Service
}

func NewHealthHandler(log *logger.Logger, db *gorm.DB, tokenService tokens.Service) *HealthHandler {
	handlerLogger := log.With("handler", "HealthHandler")
	return &HealthHandler{log: handlerLogger, db: db, tokenService: tokenService}
}

// GET /healthcheck
// Pings Postgres and Redis concurrently; either failing turns the
// answer into a 503.
func (hh *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sqlDB, err := hh.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql db: %w", err)
		}
		return sqlDB.PingContext(ctx)
	})
	g.Go(func() error {
		return hh.tokenService.Ping(ctx)
	})

	if err := g.Wait(); err != nil {
		hh.log.Warn("Healthcheck failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
