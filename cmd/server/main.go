package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/jsonshop/internal/config"
	"github.com/Skotchmaster/jsonshop/internal/es"
	"github.com/Skotchmaster/jsonshop/internal/events"
	"github.com/Skotchmaster/jsonshop/internal/httpserver"
	"github.com/Skotchmaster/jsonshop/internal/logging"
	middleware "github.com/Skotchmaster/jsonshop/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/jsonshop/internal/middleware/logging"
	"github.com/Skotchmaster/jsonshop/internal/repo"
	"github.com/Skotchmaster/jsonshop/internal/service"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg := config.Load(envFile)

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	products := repo.NewProductStore(cfg.ProductsFile)
	carts := repo.NewCartStore(cfg.CartsFile)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	for _, s := range []httpserver.Pinger{products, carts} {
		if err := s.Ping(ctx); err != nil {
			cancel()
			log.Fatalf("store check: %v", err)
		}
	}
	cancel()

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		defer func() {
			if err := prod.Close(); err != nil {
				logger.Error("kafka_close_error", "error", err)
			}
		}()
		publisher = prod
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	var indexer es.Indexer = es.NopIndexer{}
	if cfg.ESURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := es.NewClient(ctx, cfg, logger)
		cancel()
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		indexer = es.NewProductIndexer(client, cfg.ESIndex)
	}

	admin := middleware.NewAdminGuard(cfg.JWTSecret)
	if !admin.Enabled() {
		logger.Warn("admin_guard_disabled", "reason", "JWT_SECRET is empty")
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.HTTPErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger, "/health/live", "/health/ready"))
	e.Use(echomw.CORS())
	if cfg.RateLimitRPS > 0 {
		e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(cfg.RateLimitRPS),
			Burst: cfg.RateLimitBurst,
		})))
	}

	httpserver.Register(e, &httpserver.Deps{
		ProductHandler: &httpserver.ProductHTTP{Svc: service.NewCatalogService(products, publisher, indexer)},
		CartHandler:    &httpserver.CartHTTP{Svc: service.NewCartService(carts, products, publisher)},
		HealthHandler:  &httpserver.HealthHTTP{Stores: []httpserver.Pinger{products, carts}},
		Admin:          admin,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "products_file", products.Path(), "carts_file", carts.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
	logger.Info("server_stopped")
}
