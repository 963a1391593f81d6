package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/rogerio-castellano/catalog-service/internal/auth"
	"github.com/rogerio-castellano/catalog-service/internal/catalog"
	"github.com/rogerio-castellano/catalog-service/internal/config"
	"github.com/rogerio-castellano/catalog-service/internal/db"
	"github.com/rogerio-castellano/catalog-service/internal/http/handlers"
	rl "github.com/rogerio-castellano/catalog-service/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-service/internal/http/router"
	"github.com/rogerio-castellano/catalog-service/internal/logger"
	"github.com/rogerio-castellano/catalog-service/internal/redissvc"
	"github.com/rogerio-castellano/catalog-service/internal/repo"
	"github.com/sirupsen/logrus"
)

const devTokenTTL = 24 * time.Hour

// @title Product Catalog API
// @version 1.0
// @description REST API for managing catalog products.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	issueToken := flag.String("issue-token", "", "print a signed token for the given role and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if *issueToken != "" {
		token, err := auth.GenerateToken([]byte(cfg.Auth.JWTSecret), "dev", *issueToken, devTokenTTL)
		if err != nil {
			log.WithError(err).Fatal("could not issue token")
		}
		fmt.Println(token)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("could not open product store")
	}

	service := catalog.NewService(store, log)

	var visitors *rl.Visitors
	if cfg.RateLimit.RPS > 0 {
		visitors = rl.NewVisitors(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go visitors.StartCleanupLoop(ctx, time.Minute)
	}

	handler := router.NewRouter(router.Deps{
		Products:     handlers.NewProductHandler(service, log),
		Log:          log,
		JWTSecret:    []byte(cfg.Auth.JWTSecret),
		AdminRole:    cfg.Auth.AdminRole,
		AuthDisabled: cfg.Auth.Disabled,
		Visitors:     visitors,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.HTTP.Addr, "driver": cfg.Storage.Driver}).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.HTTP.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"catalog-api": func(ctx context.Context) error {
				log.Info("graceful shutdown initiated")
				// drain requests before the store goes away
				err := srv.Shutdown(ctx)
				cancel()
				return errors.Join(err, closeStore())
			},
		},
	)

	exitCode := <-wait
	log.WithField("code", exitCode).Info("server stopped")
	os.Exit(exitCode)
}

// openStore builds the configured product store, wrapped in the Redis cache
// when enabled. The returned func releases its connections.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (repo.ProductStore, func() error, error) {
	var (
		store   repo.ProductStore
		closers []func() error
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		database, err := db.Connect(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx, database); err != nil {
			database.Close()
			return nil, nil, err
		}
		closers = append(closers, database.Close)
		store = repo.NewPostgresProductRepository(database)

	case config.DriverSQLite:
		gdb, err := db.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, sqlDB.Close)
		gormStore, err := repo.NewGormProductRepository(gdb)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		store = gormStore

	case config.DriverMemory:
		log.Warn("using in-memory product store, data is lost on restart")
		store = repo.NewInMemoryProductRepository()

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Redis.Enabled {
		rdb, err := redissvc.Connect(ctx, cfg.Redis.Addr)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		closers = append(closers, rdb.Close)
		store = repo.NewCachedProductStore(store, rdb, cfg.Redis.CacheTTL, log)
		log.WithField("addr", cfg.Redis.Addr).Info("product cache enabled")
	}

	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	return store, closeAll, nil
}
