// Package analytics aggregates in-process counters over scoring events so
// operators can observe engine throughput without external tooling.
package analytics

import (
	"sync/atomic"

	"translatescore/core"
)

// Hook receives domain events for KPI aggregation.
type Hook interface {
	OnEvent(e core.Event)
}

// Counters tracks scoring activity totals.
type Counters struct {
	pointsAdjusted atomic.Int64
	pointsAwarded  atomic.Int64
	pointsRevoked  atomic.Int64
	badgeUnlocks   atomic.Int64
}

func NewCounters() *Counters { return &Counters{} }

// OnEvent updates the counters for one scoring event.
func (c *Counters) OnEvent(e core.Event) {
	switch e.Type {
	case core.EventPointsAdjusted:
		c.pointsAdjusted.Add(1)
		if e.Delta > 0 {
			c.pointsAwarded.Add(e.Delta)
		} else {
			c.pointsRevoked.Add(-e.Delta)
		}
	case core.EventBadgeUnlocked:
		c.badgeUnlocks.Add(1)
	}
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	PointsAdjusted int64 `json:"points_adjusted"`
	PointsAwarded  int64 `json:"points_awarded"`
	PointsRevoked  int64 `json:"points_revoked"`
	BadgeUnlocks   int64 `json:"badge_unlocks"`
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		PointsAdjusted: c.pointsAdjusted.Load(),
		PointsAwarded:  c.pointsAwarded.Load(),
		PointsRevoked:  c.pointsRevoked.Load(),
		BadgeUnlocks:   c.badgeUnlocks.Load(),
	}
}

// BridgeHook bridges an event source to multiple hooks.
type BridgeHook struct{ hooks []Hook }

func NewBridge(hooks ...Hook) *BridgeHook { return &BridgeHook{hooks: hooks} }

func (b *BridgeHook) OnEvent(e core.Event) {
	for _, h := range b.hooks {
		h.OnEvent(e)
	}
}
