package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	posUseCase "pos/src/pos/application/usecase"
	"pos/src/pos/domain/port"
	posCache "pos/src/pos/infrastructure/cache"
	posClient "pos/src/pos/infrastructure/client"
	posController "pos/src/pos/infrastructure/controller"
	posPersistence "pos/src/pos/infrastructure/persistence"
	"pos/src/shared/domain/session"
	sharedConfig "pos/src/shared/infrastructure/config"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // Driver de PostgreSQL
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("🚀 POS Service - Iniciando...")

	cfg := sharedConfig.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET is required to verify operator tokens")
	}

	// Configurar el router con Gin
	router := gin.New()

	// Agregar middlewares básicos necesarios
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configurar Prometheus metrics si está habilitado
	if cfg.PrometheusEnabled {
		log.Println("Registering /metrics endpoint for POS service")
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	} else {
		log.Println("Prometheus metrics disabled for POS service")
	}

	// CORS para la UI del POS
	sharedConfig.SetupSharedMiddleware(router, sharedConfig.DefaultSharedConfig(cfg))

	// Journal local (opcional)
	db := connectPostgres(cfg)
	if db != nil {
		defer db.Close()
	}

	// Selección de terminal en Redis (opcional)
	redisClient := connectRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// API v1 grupo de rutas
	v1 := router.Group("/api/v1")

	apiCfg := sharedConfig.DefaultAPIConfig()
	apiCfg.DB = db
	apiCfg.Redis = redisClient
	apiCfg.BackendURL = cfg.BackendURL
	sharedConfig.SetupAPIModule(router, v1, apiCfg)

	// Configurar módulo POS
	setupPosModule(v1, cfg, db, redisClient)

	log.Printf("✅ Servidor POS Service iniciado en http://localhost:%s", cfg.Port)
	log.Printf("✅ Backend: %s", cfg.BackendURL)
	log.Printf("✅ Health endpoint: GET http://localhost:%s/health", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}
}

// connectPostgres abre la base del journal; sin conexión el servicio sigue sin reportes
func connectPostgres(cfg sharedConfig.Config) *sql.DB {
	log.Printf("Intentando conectar a %s en %s:%s", cfg.DBName, cfg.DBHost, cfg.DBPort)

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Printf("⚠️  Advertencia: Error al conectar a la base de datos: %v", err)
		log.Println("⚠️  Continuando sin journal local")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Printf("⚠️  Advertencia: Error al verificar la conexión a la base de datos: %v", err)
		log.Println("⚠️  Continuando sin journal local")
		db.Close()
		return nil
	}

	if err := posPersistence.EnsureSchema(ctx, db); err != nil {
		log.Printf("⚠️  Advertencia: No se pudo crear el esquema del journal: %v", err)
		db.Close()
		return nil
	}

	log.Printf("✅ Conexión a %s establecida con éxito", cfg.DBName)
	return db
}

// connectRedis conecta el store de terminales; sin REDIS_ADDR se usa memoria
func connectRedis(cfg sharedConfig.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Println("⚠️  REDIS_ADDR not set, terminal selections kept in memory")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Advertencia: Redis no disponible en %s: %v", cfg.RedisAddr, err)
		log.Println("⚠️  Continuando con selecciones en memoria")
		client.Close()
		return nil
	}

	log.Printf("✅ Conexión a Redis %s establecida con éxito", cfg.RedisAddr)
	return client
}

// setupPosModule configura el módulo POS
func setupPosModule(router *gin.RouterGroup, cfg sharedConfig.Config, db *sql.DB, redisClient *redis.Client) {
	log.Println("Configurando módulo POS...")

	// Clientes del backend
	backend := posClient.NewBackendClient(cfg.BackendURL, cfg.BackendTimeout)
	directory := posClient.NewDirectoryClient(backend)

	// Repositorios
	var journal port.CheckoutJournal
	if db != nil {
		journal = posPersistence.NewCheckoutPostgresRepository(db)
	}

	var store port.TerminalStore
	if redisClient != nil {
		store = posPersistence.NewTerminalRedisStore(redisClient, cfg.TerminalTTL)
	} else {
		store = posPersistence.NewTerminalMemoryStore()
	}

	// Terminales por operador
	registry := posUseCase.NewTerminalRegistry(posUseCase.TerminalDeps{
		Cart:           posClient.NewCartClient(backend),
		Catalog:        posClient.NewCatalogClient(backend),
		Directory:      directory,
		Roles:          posCache.NewRoleCache(directory),
		Coupons:        posClient.NewCouponClient(backend),
		Loyalty:        posClient.NewLoyaltyClient(backend),
		Registers:      posClient.NewRegisterClient(backend),
		Sales:          posClient.NewSaleClient(backend),
		Journal:        journal,
		Store:          store,
		SearchPageSize: cfg.SearchPageSize,
		DebounceWindow: cfg.DebounceWindow,
		CustomerRole:   cfg.CustomerRole,
	})

	// Reportes (requieren DB)
	var dailyReportUC *posUseCase.DailyReportUseCase
	var listCheckoutsUC *posUseCase.ListCheckoutsUseCase
	if db != nil {
		dailyReportUC = posUseCase.NewDailyReportUseCase(db)
		listCheckoutsUC = posUseCase.NewListCheckoutsUseCase(journal)
	} else {
		log.Println("⚠️  Reports disabled (no DB connection)")
	}

	// Registrar rutas
	verifier := session.NewVerifier(cfg.JWTSecret)
	posController.NewPosController(registry, verifier).RegisterRoutes(router)
	posController.NewReportController(dailyReportUC, listCheckoutsUC, verifier).RegisterRoutes(router)

	log.Println("Módulo POS configurado exitosamente")
}
