package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"marketplace/docs"
	"marketplace/internal/access"
	"marketplace/internal/auth"
	"marketplace/internal/cache"
	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/handler"
	"marketplace/internal/logging"
	"marketplace/internal/router"
	"marketplace/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Marketplace API
// @version 1.0
// @description Marketplace backend: accounts, listings, wishlist and cart behind role-gated bearer authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "store init", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "store connected", "driver", store.Driver)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, logger)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn(ctx, "redis not reachable, caching and logout revocation degraded", "addr", cfg.RedisAddr, "error", err)
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenExpiry)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(store.Accounts, jwtService, tokenStore, cfg.AdminEmail)
	accountService := service.NewAccountService(store.Accounts)
	productService := service.NewProductService(store.Products, cacheClient)
	collectionService := service.NewCollectionService(store.Accounts, store.Products)

	created, err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Error(ctx, "bootstrap admin", "error", err)
		os.Exit(1)
	}
	if created {
		logger.Info(ctx, "bootstrap admin created", "email", cfg.AdminEmail)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(echoLogLevel(cfg.LogLevel))

	router.Register(e, access.NewGuard(authService, accountService, logger), router.Handlers{
		Auth:       handler.NewAuthHandler(authService, logger),
		Users:      handler.NewUserHandler(accountService, logger),
		Products:   handler.NewProductHandler(productService, logger),
		Collection: handler.NewCollectionHandler(collectionService, logger),
	}, logger)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	logger.Info(ctx, "swagger documentation", "url", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info(ctx, "listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "server start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server shutdown", "error", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error(ctx, "store close", "error", err)
	}
	if err := cacheClient.Close(); err != nil {
		logger.Warn(ctx, "redis close", "error", err)
	}
	logger.Info(ctx, "stopped")
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
