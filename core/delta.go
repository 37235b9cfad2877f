package core

// CreateDelta is the fixed reward for a newly submitted translation.
const CreateDelta int64 = 5

// Per-direction vote adjustments.
const (
	upvoteAddedDelta     int64 = 2
	upvoteRemovedDelta   int64 = -2
	downvoteAddedDelta   int64 = -1
	downvoteRemovedDelta int64 = 1
)

// VoteCounts holds the vote tallies observed on a translation snapshot.
type VoteCounts struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

// TranslationSnapshot is the engine's view of a translation record at one
// point in time. The engine never mutates translations.
type TranslationSnapshot struct {
	UserID UserID `json:"user_id"`
	Votes  VoteCounts
}

// TranslationCreated is the inbound trigger for a newly created translation.
type TranslationCreated struct {
	TranslationID string
	Snapshot      TranslationSnapshot
}

// VotesChanged is the inbound trigger for a vote-count change on an existing
// translation, carrying both the prior and the new snapshot.
type VotesChanged struct {
	TranslationID string
	Before        TranslationSnapshot
	After         TranslationSnapshot
}

// VoteDelta computes the signed point adjustment between two snapshots of the
// same translation. Only one direction per pair can be observed in a single
// diff, but the upvote and downvote contributions are additive. A zero result
// means the caller must skip all downstream work.
func VoteDelta(before, after VoteCounts) int64 {
	var delta int64
	if after.Upvotes > before.Upvotes {
		delta += upvoteAddedDelta
	}
	if after.Upvotes < before.Upvotes {
		delta += upvoteRemovedDelta
	}
	if after.Downvotes > before.Downvotes {
		delta += downvoteAddedDelta
	}
	if after.Downvotes < before.Downvotes {
		delta += downvoteRemovedDelta
	}
	return delta
}
