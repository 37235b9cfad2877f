package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"translatescore/core"
)

func TestCountersAggregateEvents(t *testing.T) {
	c := NewCounters()

	c.OnEvent(core.NewPointsAdjusted("u1", "t1", core.KindCreate, 5, 5))
	c.OnEvent(core.NewPointsAdjusted("u1", "t2", core.KindVoteChange, -3, 2))
	c.OnEvent(core.NewBadgeUnlocked("u2", "t3", core.KindVoteChange, core.BadgeRisingStar, 50))

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.PointsAdjusted)
	assert.Equal(t, int64(5), snap.PointsAwarded)
	assert.Equal(t, int64(3), snap.PointsRevoked)
	assert.Equal(t, int64(1), snap.BadgeUnlocks)
}

func TestBridgeFansOut(t *testing.T) {
	a := NewCounters()
	b := NewCounters()
	bridge := NewBridge(a, b)

	bridge.OnEvent(core.NewPointsAdjusted("u1", "t1", core.KindCreate, 5, 5))

	assert.Equal(t, int64(1), a.Snapshot().PointsAdjusted)
	assert.Equal(t, int64(1), b.Snapshot().PointsAdjusted)
}
