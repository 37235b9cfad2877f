// Package scoring assembles the engine from pluggable parts.
package scoring

import (
	"context"
	"log/slog"

	mem "translatescore/adapters/memory"
	"translatescore/analytics"
	"translatescore/core"
	"translatescore/engine"
	"translatescore/leaderboard"
	"translatescore/notify"
	"translatescore/realtime"
)

// Option configures the scoring service builder.
type Option func(*config)

type config struct {
	storage  engine.Storage
	notifier notify.Notifier
	mode     engine.DispatchMode
	logger   *slog.Logger
	hub      *realtime.Hub
	hooks    []analytics.Hook
	board    *leaderboard.Board
}

// WithStorage sets the persistence adapter.
func WithStorage(s engine.Storage) Option { return func(c *config) { c.storage = s } }

// WithNotifier sets the push-delivery collaborator. Without one, notification
// dispatch is a no-op.
func WithNotifier(n notify.Notifier) Option { return func(c *config) { c.notifier = n } }

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// WithRealtime wires a realtime hub to receive all scoring events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// WithHook subscribes an analytics hook to all scoring events.
func WithHook(h analytics.Hook) Option { return func(c *config) { c.hooks = append(c.hooks, h) } }

// WithLeaderboard keeps a board in sync with point totals.
func WithLeaderboard(b *leaderboard.Board) Option { return func(c *config) { c.board = b } }

// New builds a configured ScoreService. Defaults: in-memory storage, sync
// dispatch, no notifier.
func New(opts ...Option) *engine.ScoreService {
	cfg := &config{mode: engine.DispatchSync}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.storage == nil {
		cfg.storage = mem.New()
	}
	bus := engine.NewEventBus(cfg.mode)
	dispatcher := notify.NewDispatcher(cfg.notifier, cfg.logger)
	svc := engine.NewScoreService(cfg.storage, bus, dispatcher, cfg.logger)

	sinks := make([]func(core.Event), 0, len(cfg.hooks)+2)
	if cfg.hub != nil {
		hub := cfg.hub
		sinks = append(sinks, func(e core.Event) { hub.Broadcast(context.Background(), e) })
	}
	if cfg.board != nil {
		board := cfg.board
		sinks = append(sinks, board.OnEvent)
	}
	for _, h := range cfg.hooks {
		hook := h
		sinks = append(sinks, hook.OnEvent)
	}
	if len(sinks) > 0 {
		forward := func(_ context.Context, e core.Event) {
			for _, sink := range sinks {
				sink(e)
			}
		}
		bus.Subscribe(core.EventPointsAdjusted, forward)
		bus.Subscribe(core.EventBadgeUnlocked, forward)
	}
	return svc
}
