package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/qr_cart/internal/config"
	"github.com/Skotchmaster/qr_cart/internal/events"
	"github.com/Skotchmaster/qr_cart/internal/httpserver"
	"github.com/Skotchmaster/qr_cart/internal/metrics"
	"github.com/Skotchmaster/qr_cart/internal/payment"
	"github.com/Skotchmaster/qr_cart/internal/repo"
	"github.com/Skotchmaster/qr_cart/internal/service"
	"github.com/Skotchmaster/qr_cart/pkg/db"
	"github.com/Skotchmaster/qr_cart/pkg/logging"
	loggingmw "github.com/Skotchmaster/qr_cart/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("db_init_error", "error", err)
		os.Exit(1)
	}
	if err := repo.Migrate(gdb); err != nil {
		logger.Error("db_migrate_error", "error", err)
		os.Exit(1)
	}

	var producer events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	m := metrics.New(cfg.ServiceName)
	store := &repo.GormRepo{DB: gdb}

	cartService := &service.CartService{
		Repo:    store,
		Events:  producer,
		Metrics: m,
	}

	paymentService := &payment.Service{
		Gateway: payment.NewClient(cfg.Payment.QRURL, cfg.Payment.HTTPTimeout),
		Socket:  payment.NewListener(cfg.Payment.ListenTimeout),
		Merchant: payment.Merchant{
			Code:     cfg.Payment.MerchantCode,
			Secret:   cfg.Payment.Secret,
			Username: cfg.Payment.Username,
			Password: cfg.Payment.Password,
		},
		Events:  producer,
		Metrics: m,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(m.Middleware())

	httpserver.Register(e, &httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{Svc: cartService},
		PaymentHandler: &httpserver.PaymentHTTP{
			Svc:           paymentService,
			ListenTimeout: cfg.Payment.ListenTimeout,
		},
		Metrics: m,
		Ready:   store.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http_server_starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown complete")
}
