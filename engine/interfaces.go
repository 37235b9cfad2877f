package engine

import (
	"context"

	"translatescore/core"
)

// Storage abstracts persistence for user reputation records.
//
// ApplyDelta carries the concurrency contract of the engine: the read of the
// current record, the clamp-and-classify step (core.Advance), and the write
// must form one atomic region per user, so concurrent deltas for the same
// user never lose an increment and badge decisions never act on a stale
// read. Writes are merge-style upserts: fields the operation does not touch
// (notably the push token) stay intact, and the record need not pre-exist.
type Storage interface {
	ApplyDelta(ctx context.Context, user core.UserID, delta int64) (core.Outcome, error)
	GetUser(ctx context.Context, user core.UserID) (core.UserReputation, error)
	SetPushToken(ctx context.Context, user core.UserID, token string) error
}
