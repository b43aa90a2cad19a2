package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	custom_errors "archgen/internal/errors"
)

type errorResponse struct {
	Error        string `json:"error"`
	LimitReached bool   `json:"limit_reached,omitempty"`
	Remaining    *int   `json:"remaining,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithAppError maps an application error onto its HTTP status. Causes
// are logged, never sent to the client.
func respondWithAppError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *custom_errors.AppError
	if !errors.As(err, &appErr) {
		var formatErr *custom_errors.ErrInvalidRepoFormat
		if errors.As(err, &formatErr) {
			respondWithError(w, http.StatusBadRequest, formatErr.Error())
			return
		}
		logger.Error("Request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch {
	case errors.Is(err, custom_errors.ErrMissingInput):
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case errors.Is(err, custom_errors.ErrNotFound):
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case errors.Is(err, custom_errors.ErrLimitReached):
		remaining := appErr.Remaining
		respondWithJSON(w, http.StatusForbidden, errorResponse{
			Error:        appErr.Message,
			LimitReached: true,
			Remaining:    &remaining,
		})
	case errors.Is(err, custom_errors.ErrUpstreamRateLimited):
		logger.Warn("Upstream rate limited", "error", err)
		respondWithError(w, http.StatusTooManyRequests, appErr.Message)
	case errors.Is(err, custom_errors.ErrUpstreamQuotaExhausted):
		logger.Warn("Upstream quota exhausted", "error", err)
		respondWithError(w, http.StatusPaymentRequired, appErr.Message)
	case errors.Is(err, custom_errors.ErrParse):
		logger.Error("Unusable AI response", "error", err)
		respondWithError(w, http.StatusInternalServerError, "AI service error")
	case errors.Is(err, custom_errors.ErrUpstream):
		logger.Error("Upstream failure", "status", appErr.StatusCode, "error", err)
		respondWithError(w, http.StatusInternalServerError, appErr.Message)
	default:
		logger.Error("Request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
