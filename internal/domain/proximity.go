package domain

import (
	"github.com/google/uuid"
)

type EdgeState string

const (
	EdgeApart EdgeState = "apart"
	EdgeNear  EdgeState = "near"
)

// PairKey is the canonical identity of an unordered friend pair: the two
// UUIDs sorted lexicographically and joined with '|'. Both directions of a
// pair always map to the same key, which is what the per-pair locks and the
// single-open-session invariant hang off.
type PairKey string

func NewPairKey(a, b uuid.UUID) PairKey {
	as, bs := a.String(), b.String()
	if bs < as {
		as, bs = bs, as
	}
	return PairKey(as + "|" + bs)
}

func (k PairKey) String() string { return string(k) }

// ProximityEdge is the transient Apart/Near relationship between a friend
// pair. Recomputed on every sample touching either endpoint; never persisted.
type ProximityEdge struct {
	Pair      PairKey   `json:"pair"`
	DistanceM float64   `json:"distance_m"`
	State     EdgeState `json:"state"`
}

// EdgeCrossing reports a threshold crossing produced by one sample.
type EdgeCrossing struct {
	FriendID  uuid.UUID `json:"friend_id"`
	DistanceM float64   `json:"distance_m"`
	State     EdgeState `json:"state"`
}
