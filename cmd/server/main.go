package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/kanban-board-api/internal/config"
	"github.com/yukikurage/kanban-board-api/internal/database"
	"github.com/yukikurage/kanban-board-api/internal/handlers"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"github.com/yukikurage/kanban-board-api/internal/revalidate"
	"github.com/yukikurage/kanban-board-api/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		zap.L().Fatal("Failed to run migrations", zap.Error(err))
	}

	revalidator, closeRedis := newRevalidator(cfg, logger)
	defer closeRedis()

	router := newRouter(db, revalidator, cfg, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	zap.L().Info("Starting server", zap.String("port", cfg.ServerPort))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	zap.L().Info("Shutdown initiated", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Server shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zap.L().Info("Server stopped")
}

func newLogger(levelStr string) *zap.Logger {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      level == zapcore.DebugLevel,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := config.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

func newRevalidator(cfg *config.Config, logger *zap.Logger) (revalidate.Revalidator, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("Redis not configured, revalidation signals are logged only")
		return revalidate.Nop{Logger: logger}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed, revalidation signals may be lost", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	return revalidate.NewRedisRevalidator(client, logger), func() {
		if err := client.Close(); err != nil {
			logger.Warn("redis close", zap.Error(err))
		}
	}
}

func newRouter(db *gorm.DB, revalidator revalidate.Revalidator, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	// Repositories
	orgRepo := repository.NewOrganizationRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	cardRepo := repository.NewCardRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	audit := services.NewAuditRecorder(auditRepo, logger)
	ordering := services.NewOrderingService(cardRepo, boardRepo, cfg.OrderRetryAttempts, logger)
	orgService := services.NewOrganizationService(orgRepo, auditRepo, audit, revalidator)
	boardService := services.NewBoardService(boardRepo, orgRepo, audit, revalidator)
	cardService := services.NewCardService(cardRepo, boardRepo, ordering, audit, revalidator)
	membershipService := services.NewMembershipService(orgRepo, boardRepo, cardRepo, userRepo, audit, revalidator, logger)
	userService := services.NewUserService(userRepo)

	// Handlers
	orgHandler := handlers.NewOrganizationHandler(orgService, boardService, membershipService)
	boardHandler := handlers.NewBoardHandler(boardService, membershipService)
	cardHandler := handlers.NewCardHandler(cardService, membershipService)
	userHandler := handlers.NewUserHandler(userService)

	r := gin.New()
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Kanban Board API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(r.Group("/api"), handlers.Routes{
		Users:         userHandler,
		Organizations: orgHandler,
		Boards:        boardHandler,
		Cards:         cardHandler,
	})

	return r
}
