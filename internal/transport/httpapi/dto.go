package httpapi

import (
	"time"

	"github.com/venturematch/venturematch/internal/domain"
	interactionuc "github.com/venturematch/venturematch/internal/usecase/interaction"
)

type embeddingRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Text       string `json:"text"`
	Provider   string `json:"provider,omitempty"`
}

type embeddingResponse struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Model      string    `json:"model"`
	Version    string    `json:"version"`
	Dimensions int       `json:"dimensions"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type locationDTO struct {
	CityID      string `json:"city_id,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	RegionCode  string `json:"region_code,omitempty"`
}

type profileResponse struct {
	UserID            string      `json:"user_id"`
	DisplayName       string      `json:"display_name"`
	Headline          string      `json:"headline,omitempty"`
	VentureSummary    string      `json:"venture_summary,omitempty"`
	PreferenceSummary string      `json:"preference_summary,omitempty"`
	Location          locationDTO `json:"location"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

type profileUpsertRequest struct {
	DisplayName       string      `json:"display_name"`
	Headline          string      `json:"headline"`
	VentureSummary    string      `json:"venture_summary"`
	PreferenceSummary string      `json:"preference_summary"`
	Location          locationDTO `json:"location"`
}

type candidateResponse struct {
	Profile            profileResponse `json:"profile"`
	EmbeddingUpdatedAt time.Time       `json:"embedding_updated_at"`
}

type candidateListResponse struct {
	Items []candidateResponse `json:"items"`
	Count int                 `json:"count"`
}

type interactionRequest struct {
	TargetID string `json:"target_id"`
	Action   string `json:"action"`
}

type interactionResponse struct {
	Matched      bool `json:"matched"`
	MatchCreated bool `json:"match_created"`
}

type matchResponse struct {
	Partner   profileResponse `json:"partner"`
	MatchedAt time.Time       `json:"matched_at"`
}

type matchListResponse struct {
	Items []matchResponse `json:"items"`
}

type skippedListResponse struct {
	Items []profileResponse `json:"items"`
}

type pendingListResponse struct {
	Items []profileResponse `json:"items"`
	Count int               `json:"count"`
}

type seenRequest struct {
	UserIDs []string `json:"user_ids"`
}

type settingsResponse struct {
	SimilarityThreshold int    `json:"similarity_threshold"`
	RegionScope         string `json:"region_scope"`
}

type settingsUpdateRequest struct {
	SimilarityThreshold *int    `json:"similarity_threshold"`
	RegionScope         *string `json:"region_scope"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func embeddingToDTO(emb domain.Embedding) embeddingResponse {
	return embeddingResponse{
		EntityType: string(emb.EntityType),
		EntityID:   emb.EntityID,
		Model:      emb.Model,
		Version:    emb.Version.String(),
		Dimensions: len(emb.Vector),
		UpdatedAt:  emb.UpdatedAt.UTC(),
	}
}

func profileToDTO(p domain.Profile) profileResponse {
	return profileResponse{
		UserID:            p.UserID,
		DisplayName:       p.DisplayName,
		Headline:          p.Headline,
		VentureSummary:    p.VentureSummary,
		PreferenceSummary: p.PreferenceSummary,
		Location: locationDTO{
			CityID:      p.Location.CityID,
			CountryCode: p.Location.CountryCode,
			RegionCode:  p.Location.RegionCode,
		},
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func candidateToDTO(c domain.Candidate) candidateResponse {
	// Scores order the list but stay internal; clients get ranking, not
	// numbers to second-guess.
	return candidateResponse{
		Profile:            profileToDTO(c.Profile),
		EmbeddingUpdatedAt: c.EmbeddingUpdated.UTC(),
	}
}

func matchToDTO(m interactionuc.MatchEntry) matchResponse {
	return matchResponse{
		Partner:   profileToDTO(m.Partner),
		MatchedAt: m.CreatedAt.UTC(),
	}
}

func settingsToDTO(s domain.Settings) settingsResponse {
	return settingsResponse{
		SimilarityThreshold: s.Threshold,
		RegionScope:         string(s.Scope),
	}
}
