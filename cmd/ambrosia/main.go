package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/plateful-app/ambrosia/internal/health"
	"github.com/plateful-app/ambrosia/internal/logging"
	"github.com/plateful-app/ambrosia/internal/middleware"
	"github.com/plateful-app/ambrosia/internal/middleware/memory"
	"github.com/plateful-app/ambrosia/internal/middleware/rediscache"
	"github.com/plateful-app/ambrosia/internal/ranking"
	"github.com/plateful-app/ambrosia/internal/server"
	"github.com/plateful-app/ambrosia/internal/service/impl"
	"github.com/plateful-app/ambrosia/internal/storage/postgres"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Host string `long:"http.host" env:"HTTP_HOST" default:"0.0.0.0" description:"IP to listen on"`
	Port int    `long:"http.port" env:"HTTP_PORT" default:"8080" description:"port to listen on"`

	RequestTimeout time.Duration `long:"http.request_timeout" env:"HTTP_REQUEST_TIMEOUT" default:"10s" description:"request processing timeout"`

	Postgres                   string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMaxOpenConnections int    `long:"postgres.max_open_connections" env:"POSTGRES_MAX_OPEN_CONNECTIONS" default:"0" description:"postgres maximal open connections count, 0 means unlimited"`
	PostgresMaxIdleConnections int    `long:"postgres.max_idle_connections" env:"POSTGRES_MAX_IDLE_CONNECTIONS" default:"5" description:"postgres maximal idle connections count"`
	PostgresMigrations         string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`

	Redis string `long:"redis" env:"REDIS" description:"redis address for the shared response cache, empty means in-process cache"`

	FetchTimeout time.Duration `long:"feed.fetch_timeout" env:"FEED_FETCH_TIMEOUT" default:"3s" description:"timeout of one upstream snapshot fetch"`
	PoolSize     uint16        `long:"feed.pool_size" env:"FEED_POOL_SIZE" default:"200" description:"candidate recency window size"`
	Composer     string        `long:"feed.composer" env:"FEED_COMPOSER" default:"canonical" description:"score composer strategy" choice:"canonical" choice:"legacy"`
	Popularity   string        `long:"feed.popularity" env:"FEED_POPULARITY" default:"blend" description:"popularity strategy" choice:"blend" choice:"log"`
	Freshness    string        `long:"feed.freshness" env:"FEED_FRESHNESS" default:"tiered" description:"freshness strategy" choice:"tiered" choice:"legacy"`

	LogLevel  string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warning" choice:"error"`
	SentryDSN string `long:"sentry.dsn" env:"SENTRY_DSN" description:"sentry dsn"`
}{}

var errTerminated = errors.New("terminated")

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Ambrosia"
	parser.LongDescription = "Ambrosia feed ranking service"

	_, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	lvl, _ := logrus.ParseLevel(opts.LogLevel) // err will always be nil
	logrus.SetLevel(lvl)

	logrus.Info("service started")
	logrus.Infof("%+v", opts)

	if opts.SentryDSN != "" {
		hook, err := logging.NewSentryHook(opts.SentryDSN, health.GetVersion(), "ambrosia")
		if err != nil {
			logrus.WithError(err).Fatal("failed to init sentry")
		}

		logrus.AddHook(hook)
	} else {
		logrus.Info("empty sentry dsn")
		logrus.Warn("skip sentry initialization")
	}

	engine, err := ranking.NewFromNames(opts.Composer, opts.Popularity, opts.Freshness)
	if err != nil {
		logrus.WithError(err).Fatal("invalid strategy configuration")
	}

	db := mustGetDB()
	s := postgres.New(db)

	svc := impl.New(s, engine,
		impl.WithFetchTimeout(opts.FetchTimeout),
		impl.WithPoolSize(opts.PoolSize),
	)

	cache, pingers := getCache()
	pingers = append(pingers, health.SubjectPinger("postgres", db.PingContext))

	r := chi.NewMux()
	r.Get("/health", health.Handler(5*time.Second, pingers...))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	server.SetupRouter(svc, r, opts.RequestTimeout, cache)

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())

	gr, _ := errgroup.WithContext(ctx)
	gr.Go(srv.ListenAndServe)
	gr.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

		select {
		case s := <-sigs:
			logrus.Infof("terminating by %s signal", s)
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("failed to shutdown server gracefully")
		}

		cancel()

		return errTerminated
	})

	logrus.Infof("listening on %s", srv.Addr)

	if err := gr.Wait(); err != nil && !errors.Is(err, errTerminated) && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("service unexpectedly closed")
	}
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}
	db.SetMaxOpenConns(opts.PostgresMaxOpenConnections)
	db.SetMaxIdleConns(opts.PostgresMaxIdleConnections)

	if err := db.PingContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	driver, err := migratep.WithInstance(db, &migratep.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database migrate driver")
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", opts.PostgresMigrations), "postgres", driver)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	switch v, d, err := migrator.Version(); err {
	case nil:
		logrus.Infof("database version %d with dirty state %t", v, d)
	case migrate.ErrNilVersion:
		logrus.Info("database version: nil")
	default:
		logrus.WithError(err).Fatal("failed to get version")
	}

	switch err := migrator.Up(); err {
	case nil:
		logrus.Info("database was migrated")
	case migrate.ErrNoChange:
		logrus.Info("database is up-to-date")
	default:
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	return db
}

func getCache() (middleware.CacheStorage, []health.Pinger) {
	if opts.Redis == "" {
		return memory.NewStorage(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Redis,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 3 * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).Fatal("failed to ping redis")
	}

	return rediscache.NewStorage(client), []health.Pinger{
		health.SubjectPinger("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}),
	}
}
