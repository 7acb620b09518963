package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sharepool/sharepool/internal/config"
	"github.com/sharepool/sharepool/internal/metrics"
	"github.com/sharepool/sharepool/internal/sharing/bookings"
	"github.com/sharepool/sharepool/internal/sharing/items"
	"github.com/sharepool/sharepool/internal/sharing/requests"
	"github.com/sharepool/sharepool/internal/sharing/users"
	"github.com/sharepool/sharepool/internal/storage"
)

// AppState holds all application services
type AppState struct {
	DB             *bun.DB
	Logger         *zap.Logger
	UserService    users.UserService
	ItemService    items.ItemService
	BookingService bookings.BookingService
	RequestService requests.RequestService
}

func main() {
	// Load configuration
	config.Load()

	// Initialize logger with config
	logger := initLogger()
	logger.Info("Configuration loaded", zap.String("source", "config.Load()"))

	as, err := newAppState(logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}

	ctx := context.Background()
	if err := storage.CreateTables(ctx, as.DB); err != nil {
		logger.Fatal("Failed to create database tables", zap.Error(err))
	}

	router := setupRouter(as)

	addr := fmt.Sprintf("%s:%d", config.Http().Host, config.Http().Port)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	done := setupSignalHandler(as, server, logger)

	logger.Info("Starting SharePool server", zap.String("address", addr))

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newAppState creates and initializes the application state
func newAppState(logger *zap.Logger) (*AppState, error) {
	pgConfig := config.Postgres()

	logger.Info("Database configuration",
		zap.String("host", pgConfig.Host),
		zap.Int("port", pgConfig.Port),
		zap.String("database", pgConfig.Database),
		zap.String("user", pgConfig.User))

	db, err := storage.Open(pgConfig.DSN(), pgConfig.MaxOpenConnections)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	userStore := users.NewPostgresStore(db)
	userService := users.NewService(userStore)

	itemStore := items.NewPostgresStore(db)
	bookingStore := bookings.NewPostgresStore(db)
	itemService := items.NewService(itemStore, bookings.NewItemBookingReader(bookingStore), userStore)

	bookingService := bookings.NewService(bookingStore, itemStore, userStore)

	requestStore := requests.NewPostgresStore(db)
	requestService := requests.NewService(requestStore, itemStore, userStore)

	return &AppState{
		DB:             db,
		Logger:         logger,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		RequestService: requestService,
	}, nil
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	// Set log level
	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupRouter(as *AppState) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(cors.Default())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	metrics.Register()
	router.Use(metrics.Middleware())
	router.GET("/metrics", metrics.Handler())

	// Health endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := as.DB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Format(time.RFC3339),
				"error":     err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"services": gin.H{
				"database": "healthy",
			},
		})
	})

	users.NewHandlers(as.UserService, as.Logger).RegisterRoutes(router)
	items.NewHandlers(as.ItemService, as.Logger).RegisterRoutes(router)
	bookings.NewHandlers(as.BookingService, as.Logger).RegisterRoutes(router)
	requests.NewHandlers(as.RequestService, as.Logger).RegisterRoutes(router)

	return router
}

func setupSignalHandler(as *AppState, server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		if err := as.DB.Close(); err != nil {
			logger.Error("Error closing database", zap.Error(err))
		}

		done <- struct{}{}
	}()

	return done
}
