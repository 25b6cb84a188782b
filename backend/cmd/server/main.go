package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"socialnet/backend/internal/graph"
	"socialnet/backend/internal/identity"
	"socialnet/backend/internal/social"
	"socialnet/backend/pkg/config"
	"socialnet/backend/pkg/errors"
	"socialnet/backend/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting social network API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Identity store (Postgres)
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}

	// Person lookup cache (optional)
	var cache *identity.PersonCache
	if cfg.RedisAddr != "" {
		rdb := identity.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cache = identity.NewPersonCache(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}

	identityStore := identity.NewStore(db, cache)
	ctx := context.Background()
	if err := identityStore.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate identity tables", zap.Error(err))
	}

	// Relationship graph (Neo4j)
	driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer driver.Close(context.Background())
	graphRepo := graph.NewRepository(driver)

	coordinator := social.NewCoordinator(identityStore, graphRepo)
	queries := social.NewQueryService(identityStore, graphRepo)
	reconciler := social.NewReconciler(identityStore, graphRepo, cfg.ReconcileWorkers)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	registerRoutes(router, identityStore, coordinator, queries, reconciler, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// respondError maps the error taxonomy onto HTTP statuses
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.IsDuplicateIdentity(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.IsAlreadyInRelation(err) || errors.IsNotInRelation(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.IsEmptyFeed(err):
		c.JSON(http.StatusOK, gin.H{"posts": []any{}, "message": err.Error()})
	default:
		log.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
