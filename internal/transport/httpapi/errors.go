package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/venturematch/venturematch/internal/domain"
)

// ErrorCode is the machine-readable error discriminator in responses.
type ErrorCode string

const (
	CodeBadRequest          ErrorCode = "bad_request"
	CodeValidationFailed    ErrorCode = "validation_failed"
	CodeUnauthorized        ErrorCode = "unauthorized"
	CodeNotFound            ErrorCode = "not_found"
	CodeProfileIncomplete   ErrorCode = "profile_incomplete"
	CodeSelfInteraction     ErrorCode = "self_interaction"
	CodePairBlocked         ErrorCode = "pair_blocked"
	CodeNotBlocked          ErrorCode = "not_blocked"
	CodeProviderUnavailable ErrorCode = "embedding_provider_error"
	CodeProviderConfig      ErrorCode = "embedding_provider_not_configured"
	CodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrProfileIncomplete, http.StatusUnprocessableEntity, CodeProfileIncomplete),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrSelfInteraction, http.StatusBadRequest, CodeSelfInteraction),
		sentinelHandler(domain.ErrPairBlocked, http.StatusConflict, CodePairBlocked),
		sentinelHandler(domain.ErrNotBlocked, http.StatusConflict, CodeNotBlocked),
		sentinelHandler(domain.ErrInvalidAction, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrMissingParameter, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidThreshold, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRegionScope, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnknownProvider, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrProviderNotConfigured, http.StatusServiceUnavailable, CodeProviderConfig),
		sentinelHandler(domain.ErrProviderAuth, http.StatusBadGateway, CodeProviderUnavailable),
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusBadGateway, CodeProviderUnavailable),
		sentinelHandler(domain.ErrEmptyEmbedding, http.StatusBadGateway, CodeProviderUnavailable),
		sentinelHandler(domain.ErrDegenerateVector, http.StatusBadGateway, CodeProviderUnavailable),
	}
}

// sentinelHandler returns an errorHandler matching a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage returns the sentinel's message without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrProfileIncomplete,
		domain.ErrSelfInteraction,
		domain.ErrPairBlocked,
		domain.ErrNotBlocked,
		domain.ErrInvalidAction,
		domain.ErrMissingParameter,
		domain.ErrInvalidThreshold,
		domain.ErrInvalidRegionScope,
		domain.ErrUnknownProvider,
		domain.ErrProviderNotConfigured,
		domain.ErrProviderAuth,
		domain.ErrProviderUnavailable,
		domain.ErrEmptyEmbedding,
		domain.ErrDegenerateVector,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
