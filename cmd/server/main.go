package main

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/kevin07696/promptpay-service/internal/adapters/qrcode"
	"github.com/kevin07696/promptpay-service/internal/config"
	handler "github.com/kevin07696/promptpay-service/internal/handlers/promptpay"
	service "github.com/kevin07696/promptpay-service/internal/services/promptpay"
	"github.com/kevin07696/promptpay-service/pkg/middleware"
	"github.com/kevin07696/promptpay-service/pkg/observability"
	"github.com/kevin07696/promptpay-service/pkg/resilience"
	"github.com/kevin07696/promptpay-service/pkg/security"
	"github.com/kevin07696/promptpay-service/pkg/shutdown"
)

// probeInterval is how often the renderer self-check runs
const probeInterval = 30 * time.Second

func main() {
	// Load configuration from environment
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Environment, cfg.Logger)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting promptpay service",
		zap.String("version", "0.1.0"),
		zap.String("environment", cfg.Environment),
		zap.String("merchant_account_tag", cfg.Merchant.MerchantAccountTag),
		zap.String("presented_type", cfg.Merchant.PresentedType),
		zap.String("point_of_initiation", cfg.Merchant.PointOfInitiation),
	)

	timeouts := resilience.NewTimeoutConfig(cfg.Server.RequestTimeout)
	renderer := qrcode.NewRenderer(security.NewZapLogger(logger).Named("qrcode"))

	svc, err := service.NewService(cfg.Merchant, cfg.QR, renderer, timeouts, logger.Named("promptpay"))
	if err != nil {
		logger.Fatal("Failed to initialize promptpay service", zap.Error(err))
	}

	// Health: renderer self-check on a timer, readiness flipped off on shutdown
	probe := qrcode.NewProbe(renderer, security.NewZapLogger(logger).Named("probe"))
	probeWorker := shutdown.NewPeriodicWorker("renderer-probe", probeInterval, logger)
	probeWorker.Start(probe.Run)

	healthChecker := observability.NewHealthChecker(2 * time.Second)
	healthChecker.Register("renderer", probe.Check)

	// HTTP API
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
	tracker := shutdown.NewInFlightTracker("http", logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logging(logger),
		middleware.Recovery(logger),
		observability.HTTPMetrics,
		tracker.Middleware,
		rateLimiter.Middleware,
		middleware.Timeout(timeouts, logger),
		middleware.GzipHandler(gzip.DefaultCompression, logger),
	)
	handler.NewHandler(svc, logger.Named("http")).AppendRoutes(router)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// gRPC health service
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			observability.UnaryServerInterceptor(),
			middleware.LoggingUnaryInterceptor(logger),
			middleware.RecoveryUnaryInterceptor(logger),
		),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		logger.Fatal("Failed to listen", zap.Error(err))
	}

	metricsServer := observability.StartMetricsServer(cfg.Server.MetricsPort, healthChecker, logger)
	logger.Info("Metrics server listening", zap.Int("port", cfg.Server.MetricsPort))

	go func() {
		logger.Info("gRPC server listening",
			zap.String("address", listener.Addr().String()),
		)
		if err := grpcServer.Serve(listener); err != nil {
			logger.Fatal("Failed to serve gRPC", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("HTTP server listening",
			zap.Int("port", cfg.Server.HTTPPort),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthChecker.SetReady(true)

	// Components shut down in reverse registration order
	manager := shutdown.NewManager(logger, cfg.Server.ShutdownTimeout)
	manager.RegisterNoErr("rate-limiter", rateLimiter.Shutdown)
	manager.Register("renderer-probe", probeWorker.Shutdown)
	manager.Register("metrics-server", func(ctx context.Context) error {
		return observability.ShutdownMetricsServer(ctx, metricsServer)
	})
	manager.Register("http-inflight", tracker.Shutdown)
	manager.RegisterHTTPServer("http-server", httpServer)
	manager.RegisterNoErr("grpc-server", grpcServer.GracefulStop)
	manager.RegisterNoErr("readiness", func() {
		healthChecker.SetReady(false)
		healthServer.Shutdown()
	})

	if err := manager.WaitForShutdown(context.Background()); err != nil {
		logger.Error("Shutdown finished with errors", zap.Error(err))
	}
	logger.Info("Servers stopped")
}

// initLogger initializes the logger
func initLogger(env string, cfg config.LoggerConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	if env == "production" && !cfg.Development {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		logger, err := zapCfg.Build()
		if err != nil {
			return zap.NewExample()
		}
		return logger
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}
