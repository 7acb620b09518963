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
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sharepool/sharepool/internal/config"
	"github.com/sharepool/sharepool/internal/gateway"
	"github.com/sharepool/sharepool/internal/metrics"
)

func main() {
	// Load configuration
	config.Load()

	logger := initLogger()
	logger.Info("Configuration loaded", zap.String("source", "config.Load()"))

	gwConfig := config.Gateway()

	client := gateway.NewClient(gwConfig.ServerURL, logger)
	handlers := gateway.NewHandlers(client, logger)

	router := setupRouter(handlers)

	addr := fmt.Sprintf("%s:%d", gwConfig.Host, gwConfig.Port)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	done := setupSignalHandler(server, logger)

	logger.Info("Starting SharePool gateway",
		zap.String("address", addr),
		zap.String("server_url", gwConfig.ServerURL))

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start gateway", zap.Error(err))
	}

	<-done
	logger.Info("Gateway shutdown complete")
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

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

func setupRouter(handlers *gateway.Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(cors.Default())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	metrics.Register()
	router.Use(metrics.Middleware())
	router.GET("/metrics", metrics.Handler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	handlers.RegisterRoutes(router)

	return router
}

func setupSignalHandler(server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down gateway...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during gateway shutdown", zap.Error(err))
		}

		done <- struct{}{}
	}()

	return done
}
