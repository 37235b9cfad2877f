package core

import "time"

// EventType enumerates domain events emitted by the scoring engine.
type EventType string

const (
	EventPointsAdjusted EventType = "points_adjusted"
	EventBadgeUnlocked  EventType = "badge_unlocked"
)

// EventKind distinguishes the two inbound scoring triggers.
type EventKind string

const (
	KindCreate     EventKind = "create"
	KindVoteChange EventKind = "vote_change"
)

// Event is an immutable domain event published after a scoring update has
// committed.
type Event struct {
	Type          EventType `json:"type"`
	Time          time.Time `json:"time"`
	UserID        UserID    `json:"user_id"`
	TranslationID string    `json:"translation_id,omitempty"`
	Kind          EventKind `json:"kind,omitempty"`
	Delta         int64     `json:"delta,omitempty"`
	Points        int64     `json:"points"`
	Badge         Badge     `json:"badge,omitempty"`
}

func NewPointsAdjusted(user UserID, translationID string, kind EventKind, delta, points int64) Event {
	return Event{
		Type:          EventPointsAdjusted,
		Time:          time.Now().UTC(),
		UserID:        user,
		TranslationID: translationID,
		Kind:          kind,
		Delta:         delta,
		Points:        points,
	}
}

func NewBadgeUnlocked(user UserID, translationID string, kind EventKind, badge Badge, points int64) Event {
	return Event{
		Type:          EventBadgeUnlocked,
		Time:          time.Now().UTC(),
		UserID:        user,
		TranslationID: translationID,
		Kind:          kind,
		Points:        points,
		Badge:         badge,
	}
}
