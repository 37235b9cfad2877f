package memory

import (
	"context"
	"sync"

	"translatescore/core"
)

// Store is a concurrent in-memory Storage implementation. The per-record
// mutex makes ApplyDelta atomic for a user, satisfying the engine's
// read-modify-write contract.
type Store struct {
	users sync.Map // map[core.UserID]*userRecord
}

type userRecord struct {
	mu  sync.Mutex
	rep core.UserReputation
}

func New() *Store { return &Store{} }

func (s *Store) getOrCreate(user core.UserID) *userRecord {
	if v, ok := s.users.Load(user); ok {
		return v.(*userRecord)
	}
	rec := &userRecord{rep: core.NewUserReputation(user)}
	actual, _ := s.users.LoadOrStore(user, rec)
	return actual.(*userRecord)
}

func (s *Store) ApplyDelta(_ context.Context, user core.UserID, delta int64) (core.Outcome, error) {
	rec := s.getOrCreate(user)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := core.Advance(rec.rep.Points, rec.rep.Badge, delta)
	rec.rep.Points = out.Points
	if out.BadgeUpgraded {
		rec.rep.Badge = out.Badge
	}
	return out, nil
}

// GetUser never materializes a record; unknown users get the lazy defaults.
func (s *Store) GetUser(_ context.Context, user core.UserID) (core.UserReputation, error) {
	v, ok := s.users.Load(user)
	if !ok {
		return core.NewUserReputation(user), nil
	}
	rec := v.(*userRecord)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.rep, nil
}

func (s *Store) SetPushToken(_ context.Context, user core.UserID, token string) error {
	rec := s.getOrCreate(user)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.rep.PushToken = token
	return nil
}
