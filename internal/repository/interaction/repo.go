package interaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/venturematch/venturematch/internal/db"
	"github.com/venturematch/venturematch/internal/domain"
)

// store is the consumer interface for interactions (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, key string) error
}

// Repo persists directed interactions and derived matches.
//
// One hash per (actor, target) pair holds the operative kind; HSET gives
// last-writer-wins serialized per pair. Membership sets make exclusion
// listing a set read instead of a keyspace scan.
type Repo struct {
	store  store
	prefix string
}

// New creates an interaction repository. An empty prefix falls back to the
// default keyspace.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Record upserts the operative kind for (actor, target). The liked_by set
// tracks incoming likes; any other kind overwrites a previous like, so the
// membership follows the operative kind.
func (r *Repo) Record(ctx context.Context, actor, target string, kind domain.Kind, at time.Time) error {
	key := r.pairKey(actor, target)
	fields := map[string]string{
		"kind":       string(kind),
		"created_at": strconv.FormatInt(at.UnixMilli(), 10),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	if err := r.store.SAdd(ctx, r.interactedKey(actor), target); err != nil {
		return fmt.Errorf("sadd interacted: %w", err)
	}

	if kind == domain.KindLike {
		if err := r.store.SAdd(ctx, r.likedByKey(target), actor); err != nil {
			return fmt.Errorf("sadd liked_by: %w", err)
		}
	} else {
		if err := r.store.SRem(ctx, r.likedByKey(target), actor); err != nil {
			return fmt.Errorf("srem liked_by: %w", err)
		}
	}

	if kind == domain.KindBlock {
		if err := r.store.SAdd(ctx, r.blockedKey(actor), target); err != nil {
			return fmt.Errorf("sadd blocked: %w", err)
		}
		if err := r.store.SAdd(ctx, r.blockedByKey(target), actor); err != nil {
			return fmt.Errorf("sadd blocked_by: %w", err)
		}
	}
	return nil
}

// Delete removes the interaction record entirely, returning the pair to the
// none state. Used by the unblock transition.
func (r *Repo) Delete(ctx context.Context, actor, target string) error {
	if err := r.store.Del(ctx, r.pairKey(actor, target)); err != nil {
		return fmt.Errorf("del pair: %w", err)
	}
	if err := r.store.SRem(ctx, r.interactedKey(actor), target); err != nil {
		return fmt.Errorf("srem interacted: %w", err)
	}
	if err := r.store.SRem(ctx, r.likedByKey(target), actor); err != nil {
		return fmt.Errorf("srem liked_by: %w", err)
	}
	if err := r.store.SRem(ctx, r.blockedKey(actor), target); err != nil {
		return fmt.Errorf("srem blocked: %w", err)
	}
	if err := r.store.SRem(ctx, r.blockedByKey(target), actor); err != nil {
		return fmt.Errorf("srem blocked_by: %w", err)
	}
	return nil
}

// GetKind returns the operative kind for (actor, target), if any.
func (r *Repo) GetKind(ctx context.Context, actor, target string) (domain.Kind, bool, error) {
	fields, err := r.store.HGetAll(ctx, r.pairKey(actor, target))
	if err != nil {
		return "", false, fmt.Errorf("hgetall pair: %w", err)
	}
	kind, ok := fields["kind"]
	if !ok {
		return "", false, nil
	}
	return domain.Kind(kind), true, nil
}

// ListInteractions returns the operative kind per target for one actor.
func (r *Repo) ListInteractions(ctx context.Context, actor string) (map[string]domain.Kind, error) {
	targets, err := r.store.SMembers(ctx, r.interactedKey(actor))
	if err != nil {
		return nil, fmt.Errorf("smembers interacted: %w", err)
	}
	if len(targets) == 0 {
		return map[string]domain.Kind{}, nil
	}

	keys := make([]string, len(targets))
	for i, target := range targets {
		keys[i] = r.pairKey(actor, target)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	out := make(map[string]domain.Kind, len(targets))
	for i, fields := range hashes {
		if kind, ok := fields["kind"]; ok {
			out[targets[i]] = domain.Kind(kind)
		}
	}
	return out, nil
}

// ListBlockedBy returns users who have blocked the given user.
func (r *Repo) ListBlockedBy(ctx context.Context, userID string) ([]string, error) {
	members, err := r.store.SMembers(ctx, r.blockedByKey(userID))
	if err != nil {
		return nil, fmt.Errorf("smembers blocked_by: %w", err)
	}
	return members, nil
}

// ListLikedBy returns users whose operative interaction toward userID is a
// like. Overwritten likes (pass, block) have already left the set.
func (r *Repo) ListLikedBy(ctx context.Context, userID string) ([]string, error) {
	members, err := r.store.SMembers(ctx, r.likedByKey(userID))
	if err != nil {
		return nil, fmt.Errorf("smembers liked_by: %w", err)
	}
	return members, nil
}

// PairBlocked reports whether a block holds in either direction. Two set
// membership checks, no hash reads.
func (r *Repo) PairBlocked(ctx context.Context, userA, userB string) (bool, error) {
	blocked, err := r.store.SIsMember(ctx, r.blockedKey(userA), userB)
	if err != nil {
		return false, fmt.Errorf("sismember blocked: %w", err)
	}
	if blocked {
		return true, nil
	}
	blocked, err = r.store.SIsMember(ctx, r.blockedKey(userB), userA)
	if err != nil {
		return false, fmt.Errorf("sismember blocked: %w", err)
	}
	return blocked, nil
}

// HasMutualLike reports whether both directions currently hold a like.
func (r *Repo) HasMutualLike(ctx context.Context, userA, userB string) (bool, error) {
	kindAB, okAB, err := r.GetKind(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	if !okAB || kindAB != domain.KindLike {
		return false, nil
	}
	kindBA, okBA, err := r.GetKind(ctx, userB, userA)
	if err != nil {
		return false, err
	}
	return okBA && kindBA == domain.KindLike, nil
}

// matchDoc is the persisted JSON shape of a match.
type matchDoc struct {
	UserA     string `json:"user_a"`
	UserB     string `json:"user_b"`
	CreatedAt int64  `json:"created_at"` // unix ms
}

// CreateMatch inserts the match row for the canonical pair. SET NX makes the
// insert idempotent: under concurrent reciprocal likes exactly one caller
// observes created=true, and re-detecting reciprocity later is a no-op.
func (r *Repo) CreateMatch(ctx context.Context, userA, userB string, at time.Time) (bool, error) {
	a, b := domain.CanonicalPair(userA, userB)
	data, err := json.Marshal(matchDoc{UserA: a, UserB: b, CreatedAt: at.UnixMilli()})
	if err != nil {
		return false, fmt.Errorf("marshal match: %w", err)
	}

	created, err := r.store.SetNX(ctx, r.matchKey(a, b), data)
	if err != nil {
		return false, fmt.Errorf("setnx match: %w", err)
	}
	if !created {
		return false, nil
	}

	if err := r.store.SAdd(ctx, r.matchesKey(a), b); err != nil {
		return false, fmt.Errorf("sadd matches: %w", err)
	}
	if err := r.store.SAdd(ctx, r.matchesKey(b), a); err != nil {
		return false, fmt.Errorf("sadd matches: %w", err)
	}
	return true, nil
}

// ListMatches returns all matches for one user.
func (r *Repo) ListMatches(ctx context.Context, userID string) ([]domain.Match, error) {
	partners, err := r.store.SMembers(ctx, r.matchesKey(userID))
	if err != nil {
		return nil, fmt.Errorf("smembers matches: %w", err)
	}

	out := make([]domain.Match, 0, len(partners))
	for _, partner := range partners {
		a, b := domain.CanonicalPair(userID, partner)
		raw, err := r.store.Get(ctx, r.matchKey(a, b))
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("get match %s:%s: %w", a, b, err)
		}
		var doc matchDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		out = append(out, domain.Match{
			UserA:     doc.UserA,
			UserB:     doc.UserB,
			CreatedAt: time.UnixMilli(doc.CreatedAt),
		})
	}
	return out, nil
}

func (r *Repo) pairKey(actor, target string) string {
	return fmt.Sprintf("%sinteraction:%s:%s", r.prefix, actor, target)
}

func (r *Repo) interactedKey(actor string) string {
	return fmt.Sprintf("%sinteracted:%s", r.prefix, actor)
}

func (r *Repo) likedByKey(userID string) string {
	return fmt.Sprintf("%sliked_by:%s", r.prefix, userID)
}

func (r *Repo) blockedKey(actor string) string {
	return fmt.Sprintf("%sblocked:%s", r.prefix, actor)
}

func (r *Repo) blockedByKey(userID string) string {
	return fmt.Sprintf("%sblocked_by:%s", r.prefix, userID)
}

func (r *Repo) matchKey(a, b string) string {
	return fmt.Sprintf("%smatch:%s:%s", r.prefix, a, b)
}

func (r *Repo) matchesKey(userID string) string {
	return fmt.Sprintf("%smatches:%s", r.prefix, userID)
}
