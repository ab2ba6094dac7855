// Chirp is a minimal social-feed backend: register, post, follow, and read
// a timeline of your own posts plus everyone you follow.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/run"
	"github.com/sethvargo/go-envconfig"
	_ "modernc.org/sqlite"

	"github.com/jdholdren/chirp/internal/api"
	"github.com/jdholdren/chirp/internal/chirp"
	"github.com/jdholdren/chirp/internal/feed"
	"github.com/jdholdren/chirp/internal/memstore"
	"github.com/jdholdren/chirp/internal/migrations"
	chsqlite "github.com/jdholdren/chirp/internal/sqlite"
	"github.com/jdholdren/chirp/logger"
)

type config struct {
	Port int `env:"PORT, default=4444"`

	// Which backend holds the stores: memory or sqlite.
	Store    string `env:"STORE, default=memory"`
	Database string `env:"DATABASE"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`

	CorsOrigin      string `env:"CORS_ORIGIN, default=*"`
	ProfanityFilter bool   `env:"PROFANITY_FILTER, default=false"`

	// Fan-out-on-write timeline cache; off by default, the fan-out-on-read
	// aggregator is the baseline.
	FanoutCache     bool `env:"FANOUT_CACHE, default=false"`
	FanoutCacheSize int  `env:"FANOUT_CACHE_SIZE, default=1024"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	// Determine which logger format to use
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if cfg.LoggerFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	l := slog.New(logger.NewHandler(handler))
	slog.SetDefault(l)

	// Start the application
	if err := runApp(ctx, cfg); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func runApp(ctx context.Context, cfg config) error {
	slog.Info("running", "config", cfg)

	users, graph, tweets, err := buildStores(cfg)
	if err != nil {
		return err
	}

	var opts []feed.Option
	if cfg.FanoutCache {
		opts = append(opts, feed.WithMaterializer(cfg.FanoutCacheSize))
	}
	svc, err := feed.New(users, graph, tweets, opts...)
	if err != nil {
		return fmt.Errorf("error building feed service: %s", err)
	}

	s := api.NewServer(api.ServerConfig{
		Port:            cfg.Port,
		CorsOrigin:      cfg.CorsOrigin,
		ProfanityFilter: cfg.ProfanityFilter,
	}, svc)

	var g run.Group
	g.Add(func() error {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}

		return nil
	}, func(error) {
		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	})
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err = g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) || errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func buildStores(cfg config) (chirp.UserDirectory, chirp.FollowGraph, chirp.TweetStore, error) {
	switch cfg.Store {
	case "memory":
		return memstore.NewUsers(), memstore.NewGraph(), memstore.NewTweets(), nil

	case "sqlite":
		if cfg.Database == "" {
			return nil, nil, nil, fmt.Errorf("DATABASE is required when STORE=sqlite")
		}

		dbx, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_txlock=immediate&_journal_mode=WAL&_busy_timeout=5000", cfg.Database))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("error opening database: %s", err)
		}

		// Migrate, always
		if err := migrations.Run(dbx); err != nil {
			return nil, nil, nil, fmt.Errorf("error migrating: %s", err)
		}

		repo := chsqlite.New(dbx)
		return repo, repo, repo, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
