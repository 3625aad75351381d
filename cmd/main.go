// @title Go2gether Itinerary Planner API
// @version 1.0
// @description Group trip planning: invitations, preference surveys and a generated, shared itinerary.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	_ "GO2GETHER_PLANNER/docs" // This is required for swagger
	"GO2GETHER_PLANNER/internal/config"
	"GO2GETHER_PLANNER/internal/generator"
	"GO2GETHER_PLANNER/internal/handlers"
	"GO2GETHER_PLANNER/internal/locks"
	"GO2GETHER_PLANNER/internal/logging"
	"GO2GETHER_PLANNER/internal/middleware"
	"GO2GETHER_PLANNER/internal/planner"
	"GO2GETHER_PLANNER/internal/realtime"
	"GO2GETHER_PLANNER/internal/routes"
	"GO2GETHER_PLANNER/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingers := map[string]handlers.Pinger{}

	// --- Storage ---
	var base store.Store
	switch cfg.Planner.StoreBackend {
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		base = store.NewMemory()
	default:
		db, closeDB, err := openPostgres(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		pg := store.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		base = pg
	}
	pingers["store"] = base

	st := base
	switch {
	case cfg.Planner.ItineraryBackend == "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		st = store.Split{Store: base, Itineraries: store.NewMongoItineraries(coll)}
		pingers["mongo"] = handlers.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		})
		logger.Info("itineraries stored in mongo", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)
	case cfg.Planner.ItineraryBackend == "memory" && cfg.Planner.StoreBackend != "memory":
		st = store.Split{Store: base, Itineraries: store.NewMemory()}
	}

	// --- Locks and live fan-out ---
	hub := realtime.NewHub(realtime.WithLogger(logger))
	deps := planner.Deps{
		Store:  st,
		Hub:    hub,
		Logger: logger,
	}
	if cfg.IsRedisConfigured() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		broker := realtime.NewRedisBroker(rdb, hub, logger)
		go func() {
			if err := broker.Run(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("redis broker stopped", "error", err)
			}
		}()
		deps.Locker = locks.NewRedis(rdb, "go2gether:lock:", logger)
		deps.Publisher = broker
		pingers["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	gen, err := generator.New(ctx, cfg.Generator, logger)
	if err != nil {
		return err
	}
	deps.Generator = gen

	p := planner.New(deps, planner.Options{
		PromptMaxBytes:   cfg.Planner.PromptMaxBytes,
		StructuredOutput: cfg.Generator.StructuredOutput,
		LockTTL:          cfg.Planner.LockTTL,
		PublicBaseURL:    cfg.Server.PublicBaseURL,
	})

	// --- HTTP Handlers ---
	mux := http.NewServeMux()
	routes.SetupRoutes(mux, routes.Handlers{
		Health:        handlers.NewHealthHandler(pingers),
		Trips:         handlers.NewTripsHandler(p, logger),
		Surveys:       handlers.NewSurveysHandler(p, logger),
		Itinerary:     handlers.NewItineraryHandler(p, logger),
		Notifications: handlers.NewNotificationsHandler(p, logger),
	}, &cfg.JWT, middleware.NewRateLimiter(cfg.RateLimit))

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	// --- HTTP Server + Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(middleware.RequestLogger(mux, logger)),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	logger.Info("server stopped")
	return nil
}

// openPostgres dials a pgx pool and exposes it as database/sql for the store.
func openPostgres(ctx context.Context, cfg *config.Config) (*sql.DB, func(), error) {
	// simple protocol is required behind PgBouncer
	pcfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, nil, err
	}
	pcfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pcfg.ConnConfig.RuntimeParams["application_name"] = "go2gether-planner"
	pcfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.Database.QueryTimeout.Milliseconds(), 10)
	pcfg.MaxConns = cfg.Database.MaxConns
	pcfg.MinConns = cfg.Database.MinConns
	pcfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, nil, err
	}

	// ping at boot
	pctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	db := stdlib.OpenDBFromPool(pool)
	return db, func() {
		_ = db.Close()
		pool.Close()
	}, nil
}
