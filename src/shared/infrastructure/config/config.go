package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config configuración del servicio leída de variables de entorno
type Config struct {
	Port              string
	BackendURL        string
	BackendTimeout    time.Duration
	JWTSecret         string
	DebounceWindow    time.Duration
	SearchPageSize    int
	CustomerRole      string
	PrometheusEnabled bool
	AllowedOrigins    []string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TerminalTTL   time.Duration
}

// Load carga .env (si existe) y arma la configuración con defaults
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	}

	return Config{
		Port:              GetEnv("PORT", "8080"),
		BackendURL:        strings.TrimRight(GetEnv("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout:    time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 10)) * time.Second,
		JWTSecret:         GetEnv("JWT_SECRET", ""),
		DebounceWindow:    time.Duration(getEnvInt("DEBOUNCE_MS", 300)) * time.Millisecond,
		SearchPageSize:    getEnvInt("SEARCH_PAGE_SIZE", 20),
		CustomerRole:      GetEnv("CUSTOMER_ROLE", "customer"),
		PrometheusEnabled: GetEnv("PROMETHEUS_ENABLED", "false") == "true",
		AllowedOrigins:    splitList(GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:4200")),

		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBUser:     GetEnv("DB_USER", "postgres"),
		DBPassword: GetEnv("DB_PASSWORD", "postgres"),
		DBName:     GetEnv("DB_NAME", "pos_db"),

		RedisAddr:     GetEnv("REDIS_ADDR", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		TerminalTTL:   time.Duration(getEnvInt("TERMINAL_TTL_HOURS", 12)) * time.Hour,
	}
}

// PostgresDSN string de conexión para lib/pq
func (c Config) PostgresDSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=disable"
}

// GetEnv obtiene una variable de entorno o devuelve un valor por defecto
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		log.Printf("⚠️  Invalid value for %s: %q, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
