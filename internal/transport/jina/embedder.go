package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/venturematch/venturematch/internal/domain"
	"github.com/venturematch/venturematch/internal/metrics"
)

const (
	providerName = string(domain.ProviderJina)

	// DefaultBaseURL is the public Jina embeddings endpoint.
	DefaultBaseURL = "https://api.jina.ai"
	// DefaultModel is the embedding model for version 2.x vectors.
	DefaultModel = "jina-embeddings-v3"
	// DefaultDimensions matches the stored vector dimensionality for 2.x.
	DefaultDimensions = 1024

	embeddingsPath = "/v1/embeddings"
	// task steers the model toward symmetric similarity rather than
	// query/document retrieval.
	matchingTask = "text-matching"
)

// Embedder is the Jina embeddings provider. Jina's API is OpenAI-flavored but
// not compatible (the task field is mandatory for v3 models), so the client
// is a plain HTTP implementation.
type Embedder struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	logger     *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewEmbedder creates a Jina embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Embedder{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
		dimensions: dimensions,
		logger:     cfg.Logger,
	}
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Task       string   `json:"task"`
	Dimensions int      `json:"dimensions"`
	Input      []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
	Detail string `json:"detail"`
}

// Embed implements domain.Embedder. Returns the raw vector and usage with
// transport-level metrics. The caller owns normalization.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	body, err := json.Marshal(embeddingRequest{
		Model:      e.model,
		Task:       matchingTask,
		Dimensions: e.dimensions,
		Input:      []string{text},
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, e.baseURL+embeddingsPath, bytes.NewReader(body),
	)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	start := time.Now()

	resp, err := e.httpClient.Do(req)

	duration := time.Since(start)

	if err != nil {
		e.countError("transport_error")
		return domain.EmbeddingResult{}, fmt.Errorf("jina request: %v: %w", err, domain.ErrProviderUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		e.countError("read_error")
		return domain.EmbeddingResult{}, fmt.Errorf("read jina response: %v: %w", err, domain.ErrProviderUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		e.countError("api_error")
		return domain.EmbeddingResult{}, e.statusError(resp.StatusCode, raw)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		e.countError("parse_error")
		return domain.EmbeddingResult{}, fmt.Errorf("parse jina response: %v: %w", err, domain.ErrProviderUnavailable)
	}

	if len(parsed.Data) == 0 {
		e.countError("empty_response")
		return domain.EmbeddingResult{}, fmt.Errorf("jina: %w", domain.ErrEmptyEmbedding)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, e.model).Observe(duration.Seconds())
	if parsed.Usage.TotalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(providerName, e.model, "prompt").
			Add(float64(parsed.Usage.PromptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(providerName, e.model, "total").
			Add(float64(parsed.Usage.TotalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:    parsed.Data[0].Embedding,
		Model:        e.model,
		PromptTokens: parsed.Usage.PromptTokens,
		TotalTokens:  parsed.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies credentials are present. Jina has no free probe
// endpoint, so the check stays local.
func (e *Embedder) HealthCheck(_ context.Context) error {
	if e.apiKey == "" {
		return fmt.Errorf("jina: %w", domain.ErrProviderNotConfigured)
	}
	return nil
}

func (e *Embedder) statusError(status int, body []byte) error {
	detail := extractDetail(body)
	if detail == "" {
		detail = http.StatusText(status)
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("jina API error %d: %s: %w", status, detail, domain.ErrProviderAuth)
	}
	return fmt.Errorf("jina API error %d: %s: %w", status, detail, domain.ErrProviderUnavailable)
}

func (e *Embedder) countError(errType string) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, errType).Inc()
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
