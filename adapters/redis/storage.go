package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"translatescore/core"
)

// Config holds Redis connection configuration
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Store implements the engine.Storage interface using Redis as the backend.
// Each user record is a hash:
// - user:{user_id} -> {points, badge, push_token}
type Store struct {
	client *redis.Client
}

// New creates a new Redis-backed storage with the provided configuration
func New(config Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// NewWithClient creates a Store using an existing Redis client (useful for testing)
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func userKey(userID core.UserID) string {
	return fmt.Sprintf("user:%s", userID)
}

// applyDeltaScript performs the whole read-clamp-classify-write cycle in one
// atomic eval, so the badge decision always sees the post-increment value.
// The tier thresholds and rank comparison mirror core.Advance; the tier
// labels come in as ARGV so Go stays the source of truth for naming. The
// stored badge only ever moves to a strictly higher rank, so a sticky badge
// survives point recovery after a clamped loss.
//
// ARGV: delta, novice label, rising-star label, dialect-master label.
// Returns {newPoints, badge, upgraded}.
var applyDeltaScript = redis.NewScript(`
	local key = KEYS[1]
	local delta = tonumber(ARGV[1])

	local points = tonumber(redis.call('HGET', key, 'points') or '0')
	local badge = redis.call('HGET', key, 'badge')
	if badge == false or badge == '' then badge = ARGV[2] end

	local next_points = points + delta
	if next_points < 0 then next_points = 0 end

	local candidate = ARGV[2]
	local candidate_rank = 0
	if next_points >= 150 then
		candidate = ARGV[4]
		candidate_rank = 2
	elseif next_points >= 50 then
		candidate = ARGV[3]
		candidate_rank = 1
	end

	local badge_rank = 0
	if badge == ARGV[4] then
		badge_rank = 2
	elseif badge == ARGV[3] then
		badge_rank = 1
	end

	local upgraded = 0
	if candidate_rank > badge_rank and next_points > points then
		badge = candidate
		upgraded = 1
		redis.call('HSET', key, 'badge', badge)
	end
	redis.call('HSET', key, 'points', next_points)

	return {next_points, badge, upgraded}
`)

// ApplyDelta atomically adjusts the user's points and re-derives the badge
// from the post-increment total within the same script run.
func (s *Store) ApplyDelta(ctx context.Context, userID core.UserID, delta int64) (core.Outcome, error) {
	result, err := applyDeltaScript.Run(ctx, s.client, []string{userKey(userID)},
		delta,
		string(core.BadgeNovice),
		string(core.BadgeRisingStar),
		string(core.BadgeDialectMaster),
	).Result()
	if err != nil {
		return core.Outcome{}, fmt.Errorf("failed to apply delta: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return core.Outcome{}, errors.New("unexpected result shape from Redis script")
	}
	points, ok := values[0].(int64)
	if !ok {
		return core.Outcome{}, errors.New("unexpected points type from Redis script")
	}
	badge, ok := values[1].(string)
	if !ok {
		return core.Outcome{}, errors.New("unexpected badge type from Redis script")
	}
	upgraded, ok := values[2].(int64)
	if !ok {
		return core.Outcome{}, errors.New("unexpected upgrade flag type from Redis script")
	}

	return core.Outcome{
		Points:        points,
		Badge:         core.Badge(badge),
		BadgeUpgraded: upgraded == 1,
	}, nil
}

// GetUser reads the user hash, synthesizing defaults for fields never
// written.
func (s *Store) GetUser(ctx context.Context, userID core.UserID) (core.UserReputation, error) {
	fields, err := s.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return core.UserReputation{}, fmt.Errorf("failed to read user: %w", err)
	}

	rep := core.NewUserReputation(userID)
	if raw, ok := fields["points"]; ok {
		if _, err := fmt.Sscan(raw, &rep.Points); err != nil {
			return core.UserReputation{}, fmt.Errorf("corrupt points value %q: %w", raw, err)
		}
	}
	if badge, ok := fields["badge"]; ok && badge != "" {
		rep.Badge = core.Badge(badge)
	}
	rep.PushToken = fields["push_token"]
	return rep, nil
}

// SetPushToken writes only the token field; points and badge stay intact.
func (s *Store) SetPushToken(ctx context.Context, userID core.UserID, token string) error {
	if err := s.client.HSet(ctx, userKey(userID), "push_token", token).Err(); err != nil {
		return fmt.Errorf("failed to set push token: %w", err)
	}
	return nil
}
