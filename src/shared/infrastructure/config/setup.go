package config

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SharedConfig configuración de los middlewares compartidos
type SharedConfig struct {
	EnableCORS     bool
	AllowedOrigins []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

// DefaultSharedConfig devuelve una configuración por defecto para la UI del POS
func DefaultSharedConfig(cfg Config) SharedConfig {
	return SharedConfig{
		EnableCORS:     len(cfg.AllowedOrigins) > 0,
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedHeaders: []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:         12 * time.Hour,
	}
}

// SetupSharedMiddleware configura los middlewares compartidos
func SetupSharedMiddleware(router *gin.Engine, config SharedConfig) {
	if config.EnableCORS {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     config.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     config.AllowedHeaders,
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           config.MaxAge,
		}))
	}
}
