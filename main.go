package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/auth"
	"github.com/junaidrashid-git/fastfood-pos/backup"
	"github.com/junaidrashid-git/fastfood-pos/config"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/ledger"
	"github.com/junaidrashid-git/fastfood-pos/logging"
	"github.com/junaidrashid-git/fastfood-pos/middleware"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/printer"
	"github.com/junaidrashid-git/fastfood-pos/realtime"
	"github.com/junaidrashid-git/fastfood-pos/routes"
	"github.com/junaidrashid-git/fastfood-pos/settlement"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"github.com/junaidrashid-git/fastfood-pos/store/firestorestore"
	"github.com/junaidrashid-git/fastfood-pos/store/redisstore"
	"github.com/junaidrashid-git/fastfood-pos/store/sqlstore"
	"github.com/junaidrashid-git/fastfood-pos/telemetry"
	"go.uber.org/zap"
)

const serviceName = "fastfood-pos"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("❌ server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	logger.Info("✅ Starting application...", zap.String("backend", cfg.StoreBackend))
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Stdout:       cfg.TraceStdout,
	})
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	var app *firebase.App
	if cfg.GoogleSignIn() {
		if app, err = auth.NewFirebaseApp(ctx, cfg.FirebaseCredentialsJSON, cfg.FirebaseProjectID); err != nil {
			return err
		}
	}

	backend, err := openBackend(ctx, cfg, app, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	hub := realtime.NewHub(logger)
	defer hub.Close()

	inv := inventory.New(backend,
		inventory.WithLogger(logger),
		inventory.WithListener(func(snap store.Snapshot) {
			hub.Broadcast(realtime.EventInventory, snap)
		}),
	)
	if err := inv.Open(ctx); err != nil {
		return err
	}
	defer inv.Close()

	settleOpts := []settlement.Option{
		settlement.WithLogger(logger),
		settlement.WithReceiptHook(func(r models.Receipt) {
			hub.Broadcast(realtime.EventReceiptAdded, r)
		}),
	}
	if cfg.LedgerURL != "" {
		settleOpts = append(settleOpts, settlement.WithMirror(ledger.NewClient(cfg.LedgerURL, cfg.LedgerAPIKey, logger)))
	}

	authOpts := []auth.Option{auth.WithLogger(logger)}
	if app != nil {
		verifier, err := auth.NewFirebaseVerifier(ctx, app, cfg.FirebaseProjectID)
		if err != nil {
			return err
		}
		authOpts = append(authOpts, auth.WithVerifier(verifier))
	}
	authSvc := auth.NewService(backend, auth.Config{
		Secret:             []byte(cfg.JWTSecret),
		SuperAdminUsername: cfg.SuperAdminUsername,
		SuperAdminEmail:    cfg.SuperAdminEmail,
	}, authOpts...)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	r.MaxMultipartMemory = 32 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Dependencies{
		Inventory:  inv,
		Settlement: settlement.NewService(inv, settleOpts...),
		Backend:    backend,
		Auth:       authSvc,
		Hub:        hub,
		Printer: printer.New(printer.Options{
			StoreName: cfg.StoreName,
			Location:  cfg.Location(),
			Currency:  cfg.CurrencySymbol,
		}),
		Logger:        logger,
		Location:      cfg.Location(),
		LedgerAPIKey:  cfg.LedgerAPIKey,
		UploadsDir:    cfg.UploadsDir,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	// Back up uploads daily at BACKUP_HOUR
	go backup.New(backup.Config{
		SourceDir: cfg.UploadsDir,
		BackupDir: cfg.BackupDir,
		Retention: cfg.BackupRetention,
		Hour:      cfg.BackupHour,
	}, logger).Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           telemetry.Handler(r, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("🛑 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openBackend(ctx context.Context, cfg config.Config, app *firebase.App, logger *zap.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemory(logger), nil
	case config.BackendLocal:
		return sqlstore.OpenSQLite(cfg.SQLitePath, logger)
	case config.BackendPostgres:
		return sqlstore.OpenPostgres(cfg.PostgresDSN(), logger)
	case config.BackendRedis:
		return redisstore.Open(ctx, cfg.RedisURL, cfg.RedisNamespace, logger)
	case config.BackendFirestore:
		if app == nil {
			return nil, errors.New("firestore backend needs firebase credentials")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("open firestore: %w", err)
		}
		return firestorestore.New(client, "", logger), nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
