// Package leaderboard keeps an in-process ranking of translators by points,
// fed from points_adjusted events. It tracks the latest known point total
// per user, not cumulative deltas, so redeliveries are harmless.
package leaderboard

import (
	"sort"
	"sync"

	"translatescore/core"
)

// Entry is one ranked translator.
type Entry struct {
	User   core.UserID `json:"user_id"`
	Points int64       `json:"points"`
}

// Board tracks translator point totals.
type Board struct {
	mu     sync.RWMutex
	points map[core.UserID]int64
}

func New() *Board { return &Board{points: map[core.UserID]int64{}} }

// OnEvent records the post-update total carried by a points event.
func (b *Board) OnEvent(e core.Event) {
	if e.Type != core.EventPointsAdjusted {
		return
	}
	b.mu.Lock()
	b.points[e.UserID] = e.Points
	b.mu.Unlock()
}

// TopN returns up to n entries ordered by points descending; ties break by
// user id for stable output.
func (b *Board) TopN(n int) []Entry {
	b.mu.RLock()
	entries := make([]Entry, 0, len(b.points))
	for user, pts := range b.points {
		entries = append(entries, Entry{User: user, Points: pts})
	}
	b.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].User < entries[j].User
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Get returns a user's entry if known.
func (b *Board) Get(user core.UserID) (Entry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	pts, ok := b.points[user]
	return Entry{User: user, Points: pts}, ok
}
