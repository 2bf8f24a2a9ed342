package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/backend"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/gateway"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
	"github.com/farmersconnect/farmers-connect-ui/internal/pkg/cache"
	"github.com/farmersconnect/farmers-connect-ui/internal/pkg/config"
	"github.com/farmersconnect/farmers-connect-ui/internal/server"
	"github.com/farmersconnect/farmers-connect-ui/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.IsDevelopment(),
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Env),
	); err != nil {
		return err
	}
	defer func() { _ = logger.Log.Sync() }()

	otelShutdown, err := server.InitObservability(ctx, cfg.ServiceName, cfg.Observability.OTLPEndpoint, logger.Log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	caches := cache.NewCacheManager(logger.Log)
	defer func() {
		for name, m := range caches.GetAllMetrics() {
			logger.Log.Info("Cache stats", zap.String("cache", name),
				zap.Int64("hits", m.Hits), zap.Int64("misses", m.Misses), zap.Int64("sets", m.Sets))
		}
		caches.ClearAll()
	}()

	decoder := session.NewDecoder(cfg.Session.JWTVerifyKey, caches.Identities)
	httpClient := gateway.NewHTTPClient(cfg.Backend.Timeout, cfg.Backend.InsecureTLS)
	api := backend.NewClient(gateway.New(cfg.Backend.BaseURL, httpClient, logger.Log.Named("gateway")))

	srv := server.New(cfg, logger.Log)
	srv.SetRouter(server.SetupRouter(cfg, api, decoder, logger.Log))

	servers := []*http.Server{srv.HTTPServer(), srv.MetricsServer()}
	if cfg.Observability.PprofAddr != "" {
		// pprof runs on a separate port, not exposed publicly
		servers = append(servers, server.PprofServer(cfg.Observability.PprofAddr))
	}

	logger.Log.Info("Farmers Connect starting",
		zap.String("port", cfg.ServerPort),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Bool("verify_tokens", cfg.Session.JWTVerifyKey != ""),
	)
	if err := server.Serve(ctx, logger.Log, servers...); err != nil {
		logger.Log.Error("Server error", zap.Error(err))
		return err
	}

	logger.Log.Info("Graceful shutdown complete")
	return nil
}
