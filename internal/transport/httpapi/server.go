package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/venturematch/venturematch/internal/domain"
	discoveryuc "github.com/venturematch/venturematch/internal/usecase/discovery"
	embeddinguc "github.com/venturematch/venturematch/internal/usecase/embedding"
	healthuc "github.com/venturematch/venturematch/internal/usecase/health"
	interactionuc "github.com/venturematch/venturematch/internal/usecase/interaction"
	profileuc "github.com/venturematch/venturematch/internal/usecase/profile"
	settingsuc "github.com/venturematch/venturematch/internal/usecase/settings"
)

// Server wires the use case services to the chi router.
type Server struct {
	embeddings    *embeddinguc.Service
	discovery     *discoveryuc.Service
	interactions  *interactionuc.Service
	settings      *settingsuc.Service
	profiles      *profileuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	embeddings *embeddinguc.Service,
	discovery *discoveryuc.Service,
	interactions *interactionuc.Service,
	settings *settingsuc.Service,
	profiles *profileuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		embeddings:    embeddings,
		discovery:     discovery,
		interactions:  interactions,
		settings:      settings,
		profiles:      profiles,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts all routes on the router. Middleware is the caller's job.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/embeddings", s.GenerateEmbedding)
		r.Get("/candidates", s.ListCandidates)
		r.Post("/interactions", s.RecordInteraction)
		r.Get("/matches", s.ListMatches)
		r.Get("/pending-requests", s.ListPendingRequests)
		r.Get("/skipped", s.ListSkipped)
		r.Post("/seen", s.MarkSeen)
		r.Get("/settings", s.GetSettings)
		r.Put("/settings", s.UpdateSettings)
		r.Put("/profiles/{userID}", s.UpsertProfile)
		r.Get("/profiles/{userID}", s.GetProfile)
	})
}

// GenerateEmbedding handles POST /api/v1/embeddings.
func (s *Server) GenerateEmbedding(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req embeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	entityType, ok := domain.ParseEntityType(req.EntityType)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "entity_type must be venture or profile")
		return
	}
	var providerID domain.ProviderID
	if req.Provider != "" {
		providerID, ok = domain.ParseProviderID(req.Provider)
		if !ok {
			s.handleDomainError(w, domain.ErrUnknownProvider)
			return
		}
	}

	emb, err := s.embeddings.GenerateAndStore(r.Context(), embeddinguc.GenerateParams{
		UserID:     userID,
		EntityType: entityType,
		EntityID:   req.EntityID,
		Text:       req.Text,
		Provider:   providerID,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, embeddingToDTO(emb))
}

// ListCandidates handles GET /api/v1/candidates.
func (s *Server) ListCandidates(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	candidates, err := s.discovery.FindCandidates(r.Context(), userID, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]candidateResponse, len(candidates))
	for i, c := range candidates {
		items[i] = candidateToDTO(c)
	}
	writeJSON(w, http.StatusOK, candidateListResponse{Items: items, Count: len(items)})
}

// RecordInteraction handles POST /api/v1/interactions.
func (s *Server) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	action, ok := domain.ParseAction(req.Action)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "action must be like, pass, block or unblock")
		return
	}

	result, err := s.interactions.Record(r.Context(), userID, req.TargetID, action)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, interactionResponse{
		Matched:      result.Matched,
		MatchCreated: result.MatchCreated,
	})
}

// ListMatches handles GET /api/v1/matches.
func (s *Server) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	matches, err := s.interactions.ListMatches(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]matchResponse, len(matches))
	for i, m := range matches {
		items[i] = matchToDTO(m)
	}
	writeJSON(w, http.StatusOK, matchListResponse{Items: items})
}

// ListPendingRequests handles GET /api/v1/pending-requests.
func (s *Server) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	pending, err := s.interactions.ListPendingRequests(r.Context(), userID, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]profileResponse, len(pending))
	for i, p := range pending {
		items[i] = profileToDTO(p)
	}
	writeJSON(w, http.StatusOK, pendingListResponse{Items: items, Count: len(items)})
}

// ListSkipped handles GET /api/v1/skipped.
func (s *Server) ListSkipped(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	skipped, err := s.discovery.ListSkipped(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]profileResponse, len(skipped))
	for i, p := range skipped {
		items[i] = profileToDTO(p)
	}
	writeJSON(w, http.StatusOK, skippedListResponse{Items: items})
}

// MarkSeen handles POST /api/v1/seen.
func (s *Server) MarkSeen(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req seenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.discovery.MarkSeen(r.Context(), userID, req.UserIDs); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings handles GET /api/v1/settings.
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	settings, err := s.settings.Get(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsToDTO(settings))
}

// UpdateSettings handles PUT /api/v1/settings.
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req settingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	params := settingsuc.UpdateParams{Threshold: req.SimilarityThreshold}
	if req.RegionScope != nil {
		scope := domain.RegionScope(*req.RegionScope)
		params.Scope = &scope
	}

	settings, err := s.settings.Update(r.Context(), userID, params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsToDTO(settings))
}

// UpsertProfile handles PUT /api/v1/profiles/{userID}.
func (s *Server) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req profileUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := s.profiles.Upsert(r.Context(), domain.Profile{
		UserID:            userID,
		DisplayName:       req.DisplayName,
		Headline:          req.Headline,
		VentureSummary:    req.VentureSummary,
		PreferenceSummary: req.PreferenceSummary,
		Location: domain.Location{
			CityID:      req.Location.CityID,
			CountryCode: req.Location.CountryCode,
			RegionCode:  req.Location.RegionCode,
		},
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileToDTO(p))
}

// GetProfile handles GET /api/v1/profiles/{userID}.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	p, err := s.profiles.Get(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileToDTO(p))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	label := "healthy"
	if !status.Healthy {
		httpStatus = http.StatusServiceUnavailable
		label = "unhealthy"
	}
	writeJSON(w, httpStatus, healthResponse{Status: label, Checks: status.Components})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
