// Package server initializes and runs the photofeed server.
// It opens the database and the optional Redis, Neo4j and broker backends,
// wires the services, serves gRPC and metrics, and shuts everything down
// when the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/dbx"
	"github.com/dmitrijs2005/photofeed/internal/logging"
	"github.com/dmitrijs2005/photofeed/internal/server/auth"
	"github.com/dmitrijs2005/photofeed/internal/server/config"
	"github.com/dmitrijs2005/photofeed/internal/server/events"
	"github.com/dmitrijs2005/photofeed/internal/server/graph"
	"github.com/dmitrijs2005/photofeed/internal/server/metrics"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/feeds"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photofeed/internal/server/services"
	"github.com/dmitrijs2005/photofeed/internal/server/storage"
	"github.com/dmitrijs2005/photofeed/internal/server/telemetry"
	"github.com/dmitrijs2005/photofeed/internal/server/timeline"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/photofeed/internal/server/grpc"
)

const serviceName = "photofeed"

type App struct {
	config  *config.Config
	logger  logging.Logger
	metrics *metrics.Metrics
	grpc    *gs.GRPCServer

	// closers run in reverse order on shutdown.
	closers []func(context.Context) error
}

func NewApp(ctx context.Context, c *config.Config) (_ *App, err error) {
	app := &App{config: c, logger: logging.New(c.Env, os.Stdout), metrics: metrics.New()}
	defer func() {
		if err != nil {
			app.close(ctx)
		}
	}()

	shutdownTracing, err := telemetry.Setup(ctx, c.OtelEndpoint, serviceName, c.Env)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}
	app.onClose(shutdownTracing)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.onClose(func(context.Context) error { return db.Close() })

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	runner := dbx.NewSQLRunner(db)

	g, err := app.openGraph(ctx, rm, runner)
	if err != nil {
		return nil, err
	}

	fd, err := app.openFeeds(rm, runner)
	if err != nil {
		return nil, err
	}

	bus, err := app.openBus()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewS3Store(ctx, storage.S3Config{
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		Endpoint:  c.S3BaseEndpoint,
		PublicURL: c.S3PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	deps := services.Deps{
		DB:      runner,
		Repos:   rm,
		Graph:   g,
		Feeds:   fd,
		Store:   store,
		Bus:     bus,
		Metrics: app.metrics,
		Logger:  app.logger,
	}
	fanout := services.FanoutOptions{BatchSize: c.FanoutBatchSize, Concurrency: c.FanoutConcurrency}

	notifier := services.NewNotificationService(deps)
	app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, app.logger, gs.Services{
		Users:         services.NewUserService(deps, auth.NewPasswordHasher(nil), c),
		Graph:         services.NewGraphService(deps, notifier),
		Posts:         services.NewPostService(deps, notifier, fanout),
		Notifications: notifier,
		Comments:      services.NewCommentService(deps, notifier),
		Messages:      services.NewMessageService(deps),
	})

	return app, nil
}

func (app *App) onClose(fn func(context.Context) error) {
	app.closers = append(app.closers, fn)
}

func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](ctx); err != nil {
			app.logger.Warn(ctx, "shutdown step failed", "error", err)
		}
	}
	app.closers = nil
}

func (app *App) openGraph(ctx context.Context, rm repomanager.RepositoryManager, runner dbx.Runner) (graph.Store, error) {
	if app.config.GraphBackend != config.GraphNeo4j {
		return graph.NewPostgresStore(rm.Follows(runner.Conn())), nil
	}

	driver, err := neo4j.NewDriverWithContext(app.config.Neo4jURI,
		neo4j.BasicAuth(app.config.Neo4jUser, app.config.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j init error: %w", err)
	}
	app.onClose(driver.Close)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j connect error: %w", err)
	}

	store := graph.NewNeo4jStore(driver)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("neo4j schema error: %w", err)
	}
	app.logger.Info(ctx, "Using neo4j social graph", "uri", app.config.Neo4jURI)
	return store, nil
}

func (app *App) openFeeds(rm repomanager.RepositoryManager, runner dbx.Runner) (feeds.Repository, error) {
	if app.config.RedisAddr == "" {
		return rm.Feeds(runner.Conn()), nil
	}

	client := redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
	app.onClose(func(context.Context) error { return client.Close() })

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("redis tracing error: %w", err)
	}
	return timeline.NewRedisTimeline(client), nil
}

func (app *App) openBus() (events.Bus, error) {
	var bus events.Bus
	switch app.config.EventsBackend {
	case config.EventsNats:
		b, err := events.DialNats(app.config.NatsURL)
		if err != nil {
			return nil, err
		}
		bus = b
	case config.EventsKafka:
		bus = events.NewKafkaBus(app.config.KafkaBrokers)
	default:
		return events.NopBus{}, nil
	}
	app.onClose(func(context.Context) error { return bus.Close() })
	return bus, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if app.config.MetricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())
	srv := &http.Server{Addr: app.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startMetricsServer(ctx, cancelFunc)
	}()

	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	app.close(shutdownCtx)

	app.logger.Info(shutdownCtx, "App stopped")
}
