package domain

import "time"

// Kind is the operative state of a directed interaction. Only the most recent
// kind per (actor, target) pair matters for filtering; a hash upsert gives
// last-writer-wins semantics.
type Kind string

const (
	// KindLike marks interest in the target.
	KindLike Kind = "like"
	// KindPass skips the target in primary discovery.
	KindPass Kind = "pass"
	// KindBlock hides the pair bidirectionally until an explicit unblock.
	KindBlock Kind = "block"
)

// Action is an inbound interaction request. Unlike Kind it includes unblock,
// which deletes state instead of writing it.
type Action string

const (
	// ActionLike requests a like.
	ActionLike Action = "like"
	// ActionPass requests a pass.
	ActionPass Action = "pass"
	// ActionBlock requests a block.
	ActionBlock Action = "block"
	// ActionUnblock reverses a block, returning the pair to the none state.
	ActionUnblock Action = "unblock"
)

// ParseAction validates an action string.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionLike, ActionPass, ActionBlock, ActionUnblock:
		return Action(s), true
	}
	return "", false
}

// Interaction is a directed action by one user toward another.
type Interaction struct {
	ActorID   string
	TargetID  string
	Kind      Kind
	CreatedAt time.Time
}

// Match is the derived symmetric record created when both users hold an
// active like toward each other. UserA/UserB are stored in canonical order.
type Match struct {
	UserA     string
	UserB     string
	CreatedAt time.Time
}

// CanonicalPair orders two user ids deterministically so a reciprocated pair
// maps to exactly one match key regardless of which like arrived second.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
