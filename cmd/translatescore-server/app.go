package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"translatescore/adapters/jsonfile"
	mem "translatescore/adapters/memory"
	redisAdapter "translatescore/adapters/redis"
	sqlxAdapter "translatescore/adapters/sqlx"
	"translatescore/analytics"
	"translatescore/api/httpapi"
	"translatescore/config"
	"translatescore/engine"
	"translatescore/integrations/webhook"
	"translatescore/leaderboard"
	"translatescore/notify"
	"translatescore/notify/push"
	"translatescore/realtime"
	"translatescore/scoring"
)

// App aggregates the assembled server components.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Hub      *realtime.Hub
	Board    *leaderboard.Board
	Counters *analytics.Counters
	Service  *engine.ScoreService
	Handler  http.Handler
	Server   *http.Server
}

func provideConfig(ctx context.Context) (*config.Config, error) {
	return config.Load()
}

func provideLogger(cfg *config.Config) *slog.Logger {
	return setupLogging(cfg)
}

func provideHub() *realtime.Hub {
	return realtime.NewHub()
}

func provideBoard() *leaderboard.Board {
	return leaderboard.New()
}

func provideCounters() *analytics.Counters {
	return analytics.NewCounters()
}

func provideStorage(ctx context.Context, cfg *config.Config) (engine.Storage, error) {
	return setupStorage(ctx, cfg)
}

func provideNotifier(cfg *config.Config) notify.Notifier {
	if cfg.Notify.Endpoint == "" {
		return nil
	}
	pushCfg := push.DefaultConfig()
	pushCfg.Endpoint = cfg.Notify.Endpoint
	pushCfg.APIKey = cfg.Notify.APIKey
	if cfg.Notify.Timeout > 0 {
		pushCfg.Timeout = cfg.Notify.Timeout
	}
	return push.New(pushCfg)
}

func provideService(cfg *config.Config, hub *realtime.Hub, board *leaderboard.Board, counters *analytics.Counters, storage engine.Storage, notifier notify.Notifier, logger *slog.Logger) *engine.ScoreService {
	opts := []scoring.Option{
		scoring.WithStorage(storage),
		scoring.WithNotifier(notifier),
		scoring.WithLogger(logger),
		scoring.WithRealtime(hub),
		scoring.WithLeaderboard(board),
		scoring.WithHook(counters),
		scoring.WithDispatchMode(engine.DispatchAsync),
	}
	if len(cfg.Webhook.Endpoints) > 0 {
		opts = append(opts, scoring.WithHook(webhook.New(cfg.Webhook.Endpoints)))
	}
	return scoring.New(opts...)
}

func provideHandler(svc *engine.ScoreService, hub *realtime.Hub, board *leaderboard.Board, counters *analytics.Counters, cfg *config.Config) http.Handler {
	return httpapi.NewMux(svc, hub, board, counters, httpapi.Options{
		PathPrefix:       cfg.Server.PathPrefix,
		AllowCORSOrigin:  cfg.Server.CORSOrigin,
		APIKeys:          cfg.Security.APIKeys,
		RateLimitEnabled: cfg.Security.EnableRateLimit,
		RateLimitRPM:     cfg.Security.RateLimit.RequestsPerMinute,
		RateLimitBurst:   cfg.Security.RateLimit.BurstSize,
	})
}

func provideServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// setupLogging configures the logger based on configuration.
func setupLogging(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	switch cfg.Logging.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupStorage creates the appropriate storage adapter based on configuration.
func setupStorage(ctx context.Context, cfg *config.Config) (engine.Storage, error) {
	switch cfg.Storage.Adapter {
	case "memory":
		return mem.New(), nil
	case "redis":
		rc := redisAdapter.DefaultConfig()
		rc.Addr = cfg.Storage.Redis.Addr
		rc.Password = cfg.Storage.Redis.Password
		rc.DB = cfg.Storage.Redis.DB
		return redisAdapter.New(rc)
	case "sql":
		sc := sqlxAdapter.DefaultConfig()
		sc.DSN = cfg.Storage.SQL.DSN
		sc.MaxOpenConns = cfg.Storage.SQL.MaxOpenConns
		store, err := sqlxAdapter.New(sc)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case "file":
		return jsonfile.New(cfg.Storage.File.Path)
	default:
		return nil, fmt.Errorf("unknown storage adapter: %s", cfg.Storage.Adapter)
	}
}
