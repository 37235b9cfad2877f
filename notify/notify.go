// Package notify selects and delivers user-facing push notifications for
// scoring outcomes. Delivery is best-effort: failures are logged and never
// affect already-committed state.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"translatescore/core"
)

// Notifier abstracts the push-delivery collaborator. Implementations attempt
// at-most-once delivery to the given token.
type Notifier interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// Notification payload types reported to the client app.
const (
	TypeBadgeUnlocked      = "badge_unlocked"
	TypePointsEarned       = "points_earned"
	TypeTranslationUpvoted = "translation_upvoted"
)

// Dispatcher applies the notification selection policy for one scoring
// outcome.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
}

func NewDispatcher(notifier Notifier, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{notifier: notifier, logger: logger}
}

// Dispatch picks at most one notification for the outcome and sends it.
// First match wins: badge upgrade, then submission reward, then positive vote
// delta. A missing push token is a silent no-op, not an error. Callers must
// only invoke Dispatch after the point/badge update has committed.
func (d *Dispatcher) Dispatch(ctx context.Context, user core.UserReputation, outcome core.Outcome, kind core.EventKind, delta int64, translationID string) {
	if d.notifier == nil || user.PushToken == "" {
		return
	}

	var title, body string
	data := map[string]string{}

	switch {
	case outcome.BadgeUpgraded:
		title = "🏅 Badge Unlocked!"
		body = fmt.Sprintf("Congratulations! You've earned the %s badge!", outcome.Badge)
		data["type"] = TypeBadgeUnlocked
	case kind == core.KindCreate:
		title = "🎉 Points Earned!"
		body = "You earned +5 points for your new translation submission."
		data["type"] = TypePointsEarned
	case kind == core.KindVoteChange && delta > 0:
		title = "🌟 Translation Upvoted!"
		body = fmt.Sprintf("Someone liked your translation. Earnt +%d points.", delta)
		data["type"] = TypeTranslationUpvoted
		data["translation_id"] = translationID
	default:
		// Point losses without a badge change stay quiet.
		return
	}

	if err := d.notifier.Send(ctx, user.PushToken, title, body, data); err != nil {
		d.logger.Warn("push delivery failed",
			"user_id", user.UserID,
			"notification_type", data["type"],
			"error", err)
	}
}
