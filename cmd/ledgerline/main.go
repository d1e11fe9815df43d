package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ledgerline/ledgerline/internal/app"
	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/masterdata/customers"
	"github.com/ledgerline/ledgerline/internal/masterdata/products"
	"github.com/ledgerline/ledgerline/internal/masterdata/suppliers"
	"github.com/ledgerline/ledgerline/internal/masterdata/taxes"
	"github.com/ledgerline/ledgerline/internal/observability"
	"github.com/ledgerline/ledgerline/internal/platform/cache"
	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/purchases"
	"github.com/ledgerline/ledgerline/internal/reports"
	"github.com/ledgerline/ledgerline/internal/sales"
	"github.com/ledgerline/ledgerline/internal/users"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reports served uncached", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	productService := products.NewService(products.NewRepository(pool))
	customerService := customers.NewService(customers.NewRepository(pool))
	supplierService := suppliers.NewService(suppliers.NewRepository(pool))
	taxService := taxes.NewService(taxes.NewRepository(pool))
	userService := users.NewService(users.NewRepository(pool))

	inventoryService := inventory.NewService(inventory.NewRepository(pool))
	salesService := sales.NewService(sales.NewRepository(pool))
	purchaseService := purchases.NewService(purchases.NewRepository(pool))
	invoiceService := invoices.NewService(invoices.NewRepository(pool))

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := reports.NewService(salesService, purchaseService, invoiceService, inventoryService, reportCache)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		ProductHandler:   products.NewHandler(logger, productService),
		CustomerHandler:  customers.NewHandler(logger, customerService),
		SupplierHandler:  suppliers.NewHandler(logger, supplierService),
		TaxHandler:       taxes.NewHandler(logger, taxService),
		UserHandler:      users.NewHandler(logger, userService),
		InventoryHandler: inventory.NewHandler(logger, inventoryService),
		SalesHandler:     sales.NewHandler(logger, salesService),
		PurchaseHandler:  purchases.NewHandler(logger, purchaseService),
		InvoiceHandler:   invoices.NewHandler(logger, invoiceService),
		ReportHandler:    reports.NewHandler(logger, reportService),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
