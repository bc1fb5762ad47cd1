package config

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// APIConfig dependencias que reporta el health check
type APIConfig struct {
	DB         *sql.DB       // nil = sin journal
	Redis      *redis.Client // nil = selección en memoria
	BackendURL string
	Version    string
}

// DefaultAPIConfig configuración sin dependencias externas
func DefaultAPIConfig() APIConfig {
	return APIConfig{Version: "1.0.0"}
}

// SetupAPIModule registra /health en la raíz y bajo /api/v1
func SetupAPIModule(router *gin.Engine, v1 *gin.RouterGroup, cfg APIConfig) {
	handler := healthHandler(cfg)
	router.GET("/health", handler)
	v1.GET("/health", handler)
}

func healthHandler(cfg APIConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{}

		switch {
		case cfg.DB == nil:
			checks["database"] = "disabled"
		case cfg.DB.PingContext(ctx) != nil:
			checks["database"] = "down"
			status = http.StatusServiceUnavailable
		default:
			checks["database"] = "up"
		}

		switch {
		case cfg.Redis == nil:
			checks["redis"] = "disabled"
		case cfg.Redis.Ping(ctx).Err() != nil:
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		default:
			checks["redis"] = "up"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{
			"status":  overall,
			"service": "pos-service",
			"version": cfg.Version,
			"backend": cfg.BackendURL,
			"checks":  checks,
		})
	}
}
