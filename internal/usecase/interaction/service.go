package interaction

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/venturematch/venturematch/internal/domain"
	"github.com/venturematch/venturematch/internal/logger"
	"github.com/venturematch/venturematch/internal/metrics"
)

// RecordResult reports the outcome of one interaction.
type RecordResult struct {
	// Matched is true when a mutual like holds after this interaction.
	Matched bool
	// MatchCreated is true when this interaction produced the match record.
	// Under concurrent reciprocal likes only one caller sees it.
	MatchCreated bool
}

// MatchEntry is one mutual match with the partner's profile attached.
type MatchEntry struct {
	Partner   domain.Profile
	CreatedAt time.Time
}

// Service runs the interaction state machine and match derivation.
type Service struct {
	store    Store
	profiles ProfileReader
	// blockHidesMatches hides matches from the listing while either side
	// holds a block. The match record itself stays.
	blockHidesMatches bool

	now func() time.Time
}

// NewService creates the interaction service.
func NewService(store Store, profiles ProfileReader, blockHidesMatches bool) *Service {
	return &Service{
		store:             store,
		profiles:          profiles,
		blockHidesMatches: blockHidesMatches,
		now:               time.Now,
	}
}

// Record applies one action from actor to target.
//
// like/pass overwrite each other freely but are rejected while a block holds
// in either direction. block always succeeds. unblock requires an existing
// block by the actor and returns the pair to the none state, never to the
// pre-block kind.
func (s *Service) Record(ctx context.Context, actorID, targetID string, action domain.Action) (RecordResult, error) {
	if actorID == "" || targetID == "" {
		return RecordResult{}, fmt.Errorf("actor and target ids: %w", domain.ErrMissingParameter)
	}
	if actorID == targetID {
		return RecordResult{}, domain.ErrSelfInteraction
	}

	exists, err := s.profiles.Exists(ctx, targetID)
	if err != nil {
		return RecordResult{}, fmt.Errorf("check target profile: %w", err)
	}
	if !exists {
		return RecordResult{}, fmt.Errorf("target %s: %w", targetID, domain.ErrNotFound)
	}

	var result RecordResult
	switch action {
	case domain.ActionLike, domain.ActionPass:
		result, err = s.recordPreference(ctx, actorID, targetID, action)
	case domain.ActionBlock:
		err = s.store.Record(ctx, actorID, targetID, domain.KindBlock, s.now())
	case domain.ActionUnblock:
		err = s.unblock(ctx, actorID, targetID)
	default:
		return RecordResult{}, domain.ErrInvalidAction
	}
	if err != nil {
		return RecordResult{}, err
	}

	metrics.InteractionsTotal.WithLabelValues(string(action)).Inc()
	return result, nil
}

func (s *Service) recordPreference(ctx context.Context, actorID, targetID string, action domain.Action) (RecordResult, error) {
	if err := s.ensureNotBlocked(ctx, actorID, targetID); err != nil {
		return RecordResult{}, err
	}

	kind := domain.KindLike
	if action == domain.ActionPass {
		kind = domain.KindPass
	}
	if err := s.store.Record(ctx, actorID, targetID, kind, s.now()); err != nil {
		return RecordResult{}, fmt.Errorf("record %s: %w", kind, err)
	}
	if kind != domain.KindLike {
		return RecordResult{}, nil
	}

	mutual, err := s.store.HasMutualLike(ctx, actorID, targetID)
	if err != nil {
		return RecordResult{}, fmt.Errorf("check mutual like: %w", err)
	}
	if !mutual {
		return RecordResult{}, nil
	}

	created, err := s.store.CreateMatch(ctx, actorID, targetID, s.now())
	if err != nil {
		return RecordResult{}, fmt.Errorf("create match: %w", err)
	}
	if created {
		metrics.MatchesCreatedTotal.Inc()
		logger.FromContext(ctx).Info("Match created",
			zap.String("actor_id", actorID),
			zap.String("target_id", targetID),
		)
	}
	return RecordResult{Matched: true, MatchCreated: created}, nil
}

// ensureNotBlocked rejects preference writes while a block holds in either
// direction.
func (s *Service) ensureNotBlocked(ctx context.Context, actorID, targetID string) error {
	blocked, err := s.store.PairBlocked(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("check block state: %w", err)
	}
	if blocked {
		return domain.ErrPairBlocked
	}
	return nil
}

func (s *Service) unblock(ctx context.Context, actorID, targetID string) error {
	kind, ok, err := s.store.GetKind(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("check block state: %w", err)
	}
	if !ok || kind != domain.KindBlock {
		return domain.ErrNotBlocked
	}
	if err := s.store.Delete(ctx, actorID, targetID); err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	return nil
}

// ListMatches returns the user's matches with partner profiles, newest first.
// Partners without a loadable profile are dropped rather than failing the
// listing.
func (s *Service) ListMatches(ctx context.Context, userID string) ([]MatchEntry, error) {
	matches, err := s.store.ListMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	hidden, err := s.hiddenPartners(ctx, userID)
	if err != nil {
		return nil, err
	}

	partners := make([]string, 0, len(matches))
	createdAt := make(map[string]time.Time, len(matches))
	for _, m := range matches {
		partner := m.UserA
		if partner == userID {
			partner = m.UserB
		}
		if hidden[partner] {
			continue
		}
		partners = append(partners, partner)
		createdAt[partner] = m.CreatedAt
	}

	profiles, err := s.profiles.GetMulti(ctx, partners)
	if err != nil {
		return nil, fmt.Errorf("load partner profiles: %w", err)
	}

	out := make([]MatchEntry, 0, len(partners))
	for _, partner := range partners {
		p, ok := profiles[partner]
		if !ok {
			continue
		}
		out = append(out, MatchEntry{Partner: p, CreatedAt: createdAt[partner]})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Partner.UserID < out[j].Partner.UserID
	})
	return out, nil
}

// ListPendingRequests returns profiles of users whose like toward userID is
// still awaiting a response: no operative interaction from userID back. A
// limit of 0 returns everything.
func (s *Service) ListPendingRequests(ctx context.Context, userID string, limit int) ([]domain.Profile, error) {
	likers, err := s.store.ListLikedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked_by: %w", err)
	}

	mine, err := s.store.ListInteractions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	pending := make([]string, 0, len(likers))
	for _, liker := range likers {
		if _, responded := mine[liker]; responded {
			continue
		}
		pending = append(pending, liker)
	}
	sort.Strings(pending)
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	profiles, err := s.profiles.GetMulti(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("load liker profiles: %w", err)
	}

	out := make([]domain.Profile, 0, len(pending))
	for _, liker := range pending {
		if p, ok := profiles[liker]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) hiddenPartners(ctx context.Context, userID string) (map[string]bool, error) {
	if !s.blockHidesMatches {
		return map[string]bool{}, nil
	}

	hidden := map[string]bool{}
	kinds, err := s.store.ListInteractions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	for target, kind := range kinds {
		if kind == domain.KindBlock {
			hidden[target] = true
		}
	}
	blockedBy, err := s.store.ListBlockedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list blocked_by: %w", err)
	}
	for _, blocker := range blockedBy {
		hidden[blocker] = true
	}
	return hidden, nil
}
