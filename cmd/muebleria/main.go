package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/muebleria-erp/muebleria-erp/internal/app"
	"github.com/muebleria-erp/muebleria-erp/internal/auth"
	"github.com/muebleria-erp/muebleria-erp/internal/catalog"
	"github.com/muebleria-erp/muebleria-erp/internal/clients"
	"github.com/muebleria-erp/muebleria-erp/internal/masterdata"
	"github.com/muebleria-erp/muebleria-erp/internal/orders"
	"github.com/muebleria-erp/muebleria-erp/internal/platform/cache"
	"github.com/muebleria-erp/muebleria-erp/internal/platform/db"
	"github.com/muebleria-erp/muebleria-erp/internal/quotations"
	"github.com/muebleria-erp/muebleria-erp/internal/shared"
	"github.com/muebleria-erp/muebleria-erp/internal/uploads"
	"github.com/muebleria-erp/muebleria-erp/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "muebleria_session", cfg.SessionTTL, cfg.IsProduction())

	uploadStore, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		logger.Error("init upload store", slog.Any("error", err))
		os.Exit(1)
	}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	clientsRepo := clients.NewRepository(dbpool)
	clientsService := clients.NewService(clientsRepo)
	clientsHandler := clients.NewHandler(logger, clientsService)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	quotationsRepo := quotations.NewRepository(dbpool)
	quotationsService := quotations.NewService(quotationsRepo, clientsRepo)
	quotationsHandler := quotations.NewHandler(logger, quotationsService)

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(ordersRepo)
	ordersHandler := orders.NewHandler(logger, ordersService)

	masterdataRepo := masterdata.NewRepository(dbpool)
	masterdataHandler := masterdata.NewHandler(logger, masterdataRepo)

	uploadsHandler := uploads.NewHandler(logger, uploadStore)

	reportClient := report.NewClient(cfg.GotenbergURL)
	reportHandler := report.NewHandler(
		logger,
		reportClient,
		quotationsService,
		ordersService,
		clientsService,
		catalogService,
		masterdataRepo,
	)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		AuthHandler:       authHandler,
		ClientsHandler:    clientsHandler,
		CatalogHandler:    catalogHandler,
		QuotationsHandler: quotationsHandler,
		OrdersHandler:     ordersHandler,
		MasterdataHandler: masterdataHandler,
		UploadsHandler:    uploadsHandler,
		ReportHandler:     reportHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
