package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"translatescore/core"
)

// Store persists all reputation records to a single JSON file.
// Suitable for demos and small deployments. The store-wide mutex makes
// ApplyDelta trivially atomic.
type Store struct {
	path string
	mu   sync.Mutex
	// in-memory cache for speed
	data map[core.UserID]core.UserReputation
}

func New(path string) (*Store, error) {
	s := &Store{path: path, data: map[core.UserID]core.UserReputation{}}
	if err := s.load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var raw map[string]core.UserReputation
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		v.UserID = core.UserID(k)
		s.data[core.UserID(k)] = v
	}
	return nil
}

func (s *Store) persist() error {
	tmp := s.path + ".tmp"
	raw := make(map[string]core.UserReputation, len(s.data))
	for k, v := range s.data {
		raw[string(k)] = v
	}
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) get(user core.UserID) core.UserReputation {
	if rep, ok := s.data[user]; ok {
		return rep
	}
	return core.NewUserReputation(user)
}

func (s *Store) ApplyDelta(_ context.Context, user core.UserID, delta int64) (core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.data[user]
	rep := s.get(user)
	out := core.Advance(rep.Points, rep.Badge, delta)
	rep.Points = out.Points
	if out.BadgeUpgraded {
		rep.Badge = out.Badge
	}
	s.data[user] = rep
	if err := s.persist(); err != nil {
		// A failed delta is not applied; the cache must not report it.
		s.restore(user, prev, existed)
		return core.Outcome{}, err
	}
	return out, nil
}

func (s *Store) restore(user core.UserID, prev core.UserReputation, existed bool) {
	if existed {
		s.data[user] = prev
	} else {
		delete(s.data, user)
	}
}

func (s *Store) GetUser(_ context.Context, user core.UserID) (core.UserReputation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(user), nil
}

func (s *Store) SetPushToken(_ context.Context, user core.UserID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.data[user]
	rep := s.get(user)
	rep.PushToken = token
	s.data[user] = rep
	if err := s.persist(); err != nil {
		s.restore(user, prev, existed)
		return err
	}
	return nil
}
