package engine

import (
	"context"
	"fmt"
	"log/slog"

	"translatescore/core"
	"translatescore/notify"
)

// ScoreService wires storage, the event bus, and the notification dispatcher
// into the reactive scoring pipeline. Each Handle* invocation is independent
// and stateless beyond the persisted user record; failures are isolated
// per-invocation.
type ScoreService struct {
	storage    Storage
	bus        *EventBus
	dispatcher *notify.Dispatcher
	logger     *slog.Logger
}

func NewScoreService(storage Storage, bus *EventBus, dispatcher *notify.Dispatcher, logger *slog.Logger) *ScoreService {
	if storage == nil || bus == nil || dispatcher == nil {
		panic("NewScoreService requires non-nil storage, bus, and dispatcher")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoreService{storage: storage, bus: bus, dispatcher: dispatcher, logger: logger}
}

// Subscribe convenience method.
func (s *ScoreService) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	return s.bus.Subscribe(typ, handler)
}

// HandleTranslationCreated awards the fixed submission reward to the
// translation's author.
func (s *ScoreService) HandleTranslationCreated(ctx context.Context, ev core.TranslationCreated) error {
	user, err := core.NormalizeUserID(ev.Snapshot.UserID)
	if err != nil {
		return fmt.Errorf("translation %s: %w", ev.TranslationID, err)
	}
	return s.score(ctx, user, ev.TranslationID, core.KindCreate, core.CreateDelta)
}

// HandleVotesChanged diffs the two snapshots and applies the resulting
// delta. A zero delta short-circuits before any storage access: no write, no
// notification.
func (s *ScoreService) HandleVotesChanged(ctx context.Context, ev core.VotesChanged) error {
	user, err := core.NormalizeUserID(ev.After.UserID)
	if err != nil {
		return fmt.Errorf("translation %s: %w", ev.TranslationID, err)
	}
	delta := core.VoteDelta(ev.Before.Votes, ev.After.Votes)
	if delta == 0 {
		return nil
	}
	return s.score(ctx, user, ev.TranslationID, core.KindVoteChange, delta)
}

func (s *ScoreService) score(ctx context.Context, user core.UserID, translationID string, kind core.EventKind, delta int64) error {
	outcome, err := s.storage.ApplyDelta(ctx, user, delta)
	if err != nil {
		return fmt.Errorf("applying delta %d for user %s: %w", delta, user, err)
	}

	s.bus.Publish(ctx, core.NewPointsAdjusted(user, translationID, kind, delta, outcome.Points))
	if outcome.BadgeUpgraded {
		s.bus.Publish(ctx, core.NewBadgeUnlocked(user, translationID, kind, outcome.Badge, outcome.Points))
	}

	// The update has committed; notification is best-effort from here on.
	// A read failure here only costs the notification, never the score.
	rec, err := s.storage.GetUser(ctx, user)
	if err != nil {
		s.logger.Warn("skipping notification, user record unreadable",
			"user_id", user, "error", err)
		return nil
	}
	s.dispatcher.Dispatch(ctx, rec, outcome, kind, delta, translationID)

	s.logger.Info("score updated",
		"user_id", user,
		"translation_id", translationID,
		"kind", kind,
		"delta", delta,
		"points", outcome.Points,
		"badge", outcome.Badge,
		"badge_upgraded", outcome.BadgeUpgraded)
	return nil
}

// RegisterPushToken stores a delivery token on the user record without
// touching points or badge.
func (s *ScoreService) RegisterPushToken(ctx context.Context, user core.UserID, token string) error {
	normalized, err := core.NormalizeUserID(user)
	if err != nil {
		return err
	}
	return s.storage.SetPushToken(ctx, normalized, token)
}

// GetUser returns the persisted reputation record, or the lazy defaults if
// the user never scored.
func (s *ScoreService) GetUser(ctx context.Context, user core.UserID) (core.UserReputation, error) {
	normalized, err := core.NormalizeUserID(user)
	if err != nil {
		return core.UserReputation{}, err
	}
	return s.storage.GetUser(ctx, normalized)
}

func (s *ScoreService) Close() { s.bus.Close() }
