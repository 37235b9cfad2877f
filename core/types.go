package core

import (
	"errors"
	"strings"
)

// UserID identifies a translation author in the reputation domain.
type UserID string

// Badge is a reputation tier label. Tiers are ordered; once a user reaches a
// tier it is never taken away, even if their points later fall below the
// threshold.
type Badge string

const (
	BadgeNovice        Badge = "Novice Translator"
	BadgeRisingStar    Badge = "Rising Star"
	BadgeDialectMaster Badge = "Dialect Master"
)

// Tier point thresholds.
const (
	RisingStarPoints    = 50
	DialectMasterPoints = 150
)

// TierForPoints maps a point total to its badge tier. Total over all
// non-negative inputs and monotonic non-decreasing in points.
func TierForPoints(points int64) Badge {
	switch {
	case points >= DialectMasterPoints:
		return BadgeDialectMaster
	case points >= RisingStarPoints:
		return BadgeRisingStar
	default:
		return BadgeNovice
	}
}

// TierRank returns the ordinal position of a badge in the tier ladder.
// Unknown badges rank below the lowest tier.
func TierRank(b Badge) int {
	switch b {
	case BadgeDialectMaster:
		return 2
	case BadgeRisingStar:
		return 1
	case BadgeNovice:
		return 0
	default:
		return -1
	}
}

// UserReputation is the persisted per-user scoring record. PushToken is an
// opaque delivery address; empty means the user never registered a device.
type UserReputation struct {
	UserID    UserID `json:"user_id" db:"user_id"`
	Points    int64  `json:"points" db:"points"`
	Badge     Badge  `json:"badge" db:"badge"`
	PushToken string `json:"push_token,omitempty" db:"push_token"`
}

// NewUserReputation returns the lazily-created default record for a user that
// has never scored before.
func NewUserReputation(user UserID) UserReputation {
	return UserReputation{UserID: user, Points: 0, Badge: BadgeNovice}
}

// Outcome describes the result of applying a delta to a user's record.
type Outcome struct {
	Points        int64 `json:"points"`
	Badge         Badge `json:"badge"`
	BadgeUpgraded bool  `json:"badge_upgraded"`
}

// Advance computes the post-delta state for a record. Points clamp at a floor
// of zero. The badge changes only when the classifier reports a strictly
// higher tier than the stored one AND the point total strictly increased in
// this operation; a stored badge is never replaced by a lower tier, even
// when points recover after a clamped loss left the total below the stored
// tier's threshold.
//
// Storage adapters must call this (or mirror it exactly) inside their atomic
// read-modify-write region so the badge decision is derived from the
// post-increment value.
func Advance(currentPoints int64, currentBadge Badge, delta int64) Outcome {
	if currentBadge == "" {
		currentBadge = BadgeNovice
	}
	newPoints := currentPoints + delta
	if newPoints < 0 {
		newPoints = 0
	}
	out := Outcome{Points: newPoints, Badge: currentBadge}
	if candidate := TierForPoints(newPoints); TierRank(candidate) > TierRank(currentBadge) && newPoints > currentPoints {
		out.Badge = candidate
		out.BadgeUpgraded = true
	}
	return out
}

// NormalizeUserID trims user identifiers and rejects empty ones.
func NormalizeUserID(id UserID) (UserID, error) {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return "", ErrMissingUser
	}
	return UserID(s), nil
}

// ErrMissingUser marks a triggering snapshot without an author. The
// invocation must abort before any state is touched.
var ErrMissingUser = errors.New("translation snapshot has no user id")
