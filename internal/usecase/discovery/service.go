package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/venturematch/venturematch/internal/domain"
	"github.com/venturematch/venturematch/internal/logger"
	"github.com/venturematch/venturematch/internal/metrics"
)

// Service runs candidate retrieval: similarity scoring gated by the
// requester's threshold and region scope, minus everyone already acted on.
type Service struct {
	embeddings   EmbeddingReader
	interactions InteractionReader
	settings     SettingsReader
	seen         SeenStore
	profiles     ProfileReader

	defaultLimit int
	maxLimit     int
	// passExcludes hides passed users from primary discovery. They stay
	// reachable through ListSkipped either way.
	passExcludes bool

	now func() time.Time
}

// NewService creates the discovery service.
func NewService(
	embeddings EmbeddingReader,
	interactions InteractionReader,
	settings SettingsReader,
	seen SeenStore,
	profiles ProfileReader,
	defaultLimit, maxLimit int,
	passExcludes bool,
) *Service {
	return &Service{
		embeddings:   embeddings,
		interactions: interactions,
		settings:     settings,
		seen:         seen,
		profiles:     profiles,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		passExcludes: passExcludes,
		now:          time.Now,
	}
}

type scored struct {
	userID  string
	score   float64
	updated time.Time
}

// FindCandidates returns scored candidates for the requester, best first.
// Requires a published venture embedding; without one the requester has
// nothing to match against.
func (s *Service) FindCandidates(ctx context.Context, userID string, limit int) ([]domain.Candidate, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	cutoff := domain.ThresholdCutoff(settings.Threshold)

	own, err := s.embeddings.GetCurrentForOwner(ctx, userID, domain.EntityVenture)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProfileIncomplete
		}
		return nil, fmt.Errorf("load own embedding: %w", err)
	}

	var ownProfile domain.Profile
	if p, err := s.profiles.Get(ctx, userID); err == nil {
		ownProfile = p
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load own profile: %w", err)
	}

	interactedSet, blockedSet, seenSet, err := s.loadExclusions(ctx, userID)
	if err != nil {
		return nil, err
	}

	all, err := s.embeddings.ListCurrent(ctx, domain.EntityVenture)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}

	// One entry per user. Stale rows can linger after a venture rewrite;
	// the freshest embedding wins.
	latest := make(map[string]domain.Embedding, len(all))
	for _, emb := range all {
		if emb.UserID == "" || emb.UserID == userID {
			continue
		}
		if prev, ok := latest[emb.UserID]; !ok || emb.UpdatedAt.After(prev.UpdatedAt) {
			latest[emb.UserID] = emb
		}
	}

	survivors := make([]scored, 0, len(latest))
	for candidateID, emb := range latest {
		switch {
		case blockedSet[candidateID]:
			metrics.CandidatesExcluded.WithLabelValues("blocked").Inc()
			continue
		case interactedSet[candidateID]:
			metrics.CandidatesExcluded.WithLabelValues("interacted").Inc()
			continue
		case seenSet[candidateID]:
			metrics.CandidatesExcluded.WithLabelValues("seen").Inc()
			continue
		}

		if !own.Version.ComparableWith(emb.Version) {
			metrics.CandidatesExcluded.WithLabelValues("version").Inc()
			continue
		}

		score, err := domain.Dot(own.Vector, emb.Vector)
		if err != nil {
			metrics.CandidatesExcluded.WithLabelValues("data_error").Inc()
			logger.FromContext(ctx).Warn("Skipping unscorable candidate",
				zap.String("candidate_id", candidateID), zap.Error(err))
			continue
		}
		if score < cutoff {
			metrics.CandidatesExcluded.WithLabelValues("threshold").Inc()
			continue
		}

		survivors = append(survivors, scored{userID: candidateID, score: score, updated: emb.UpdatedAt})
	}

	candidates, err := s.enrichAndScope(ctx, survivors, settings.Scope, ownProfile.Location)
	if err != nil {
		return nil, err
	}

	// Score descending, then freshest embedding, then id for a stable order.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if !candidates[i].EmbeddingUpdated.Equal(candidates[j].EmbeddingUpdated) {
			return candidates[i].EmbeddingUpdated.After(candidates[j].EmbeddingUpdated)
		}
		return candidates[i].Profile.UserID < candidates[j].Profile.UserID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	metrics.CandidatesReturned.Observe(float64(len(candidates)))
	return candidates, nil
}

func (s *Service) loadExclusions(ctx context.Context, userID string) (interacted, blocked, seen map[string]bool, err error) {
	kinds, err := s.interactions.ListInteractions(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list interactions: %w", err)
	}
	interacted = make(map[string]bool, len(kinds))
	blocked = map[string]bool{}
	for target, kind := range kinds {
		switch kind {
		case domain.KindBlock:
			blocked[target] = true
		case domain.KindPass:
			if s.passExcludes {
				interacted[target] = true
			}
		default:
			interacted[target] = true
		}
	}

	blockedBy, err := s.interactions.ListBlockedBy(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list blocked_by: %w", err)
	}
	for _, blocker := range blockedBy {
		blocked[blocker] = true
	}

	seenIDs, err := s.seen.List(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list seen: %w", err)
	}
	seen = make(map[string]bool, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = true
	}
	return interacted, blocked, seen, nil
}

// enrichAndScope attaches profiles and applies the geographic filter. A
// candidate without a loadable profile cannot be displayed or scoped, so it
// is dropped as a data error rather than failing the whole request.
func (s *Service) enrichAndScope(ctx context.Context, survivors []scored, scope domain.RegionScope, ownLoc domain.Location) ([]domain.Candidate, error) {
	if len(survivors) == 0 {
		return []domain.Candidate{}, nil
	}

	ids := make([]string, len(survivors))
	for i, sc := range survivors {
		ids[i] = sc.userID
	}
	profiles, err := s.profiles.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load candidate profiles: %w", err)
	}

	out := make([]domain.Candidate, 0, len(survivors))
	for _, sc := range survivors {
		p, ok := profiles[sc.userID]
		if !ok {
			metrics.CandidatesExcluded.WithLabelValues("data_error").Inc()
			continue
		}
		if !scopeMatch(scope, ownLoc, p.Location) {
			metrics.CandidatesExcluded.WithLabelValues("scope").Inc()
			continue
		}
		out = append(out, domain.Candidate{
			Profile:          p,
			Score:            sc.score,
			EmbeddingUpdated: sc.updated,
		})
	}
	return out, nil
}

// scopeMatch reports whether two locations fall inside the scope. A side
// missing the relevant field never matches: scoping is opt-in via profile data.
func scopeMatch(scope domain.RegionScope, a, b domain.Location) bool {
	switch scope {
	case domain.ScopeCity:
		return a.HasCity() && b.HasCity() && a.CityID == b.CityID
	case domain.ScopeCountry:
		return a.HasCountry() && b.HasCountry() && a.CountryCode == b.CountryCode
	case domain.ScopeRegion:
		return a.HasRegion() && b.HasRegion() && a.RegionCode == b.RegionCode
	case domain.ScopeWorldwide:
		return true
	}
	return false
}

// MarkSeen records that the viewer was shown the given users.
func (s *Service) MarkSeen(ctx context.Context, viewerID string, viewedIDs []string) error {
	if len(viewedIDs) == 0 {
		return fmt.Errorf("viewed ids: %w", domain.ErrMissingParameter)
	}
	at := s.now()
	for _, viewedID := range viewedIDs {
		if viewedID == "" || viewedID == viewerID {
			continue
		}
		if err := s.seen.Mark(ctx, viewerID, viewedID, at); err != nil {
			return fmt.Errorf("mark seen %s: %w", viewedID, err)
		}
	}
	return nil
}

// ListSkipped returns profiles the user has passed on, for revisiting.
func (s *Service) ListSkipped(ctx context.Context, userID string) ([]domain.Profile, error) {
	kinds, err := s.interactions.ListInteractions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	ids := make([]string, 0, len(kinds))
	for target, kind := range kinds {
		if kind == domain.KindPass {
			ids = append(ids, target)
		}
	}
	sort.Strings(ids)

	profiles, err := s.profiles.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load skipped profiles: %w", err)
	}

	out := make([]domain.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
