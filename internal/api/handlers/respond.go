package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospitalops/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

const maxBodyBytes = 1 << 20

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError answers with the status of err's AppError type.
// Internal messages are replaced so nothing leaks to clients.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || !appErr.Type.Public() {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Internal error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if appErr.Type == apperrors.ErrorTypeExternal {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("Upstream failure")
	}
	respondWithError(w, appErr.Type.HTTPStatus(), appErr.Message)
}

// respondApplied wraps a mutation result as {"applied": true, key: value}
func respondApplied(w http.ResponseWriter, key string, value interface{}) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"applied": true,
		key:       value,
	})
}

// respondNotApplied answers a mutation on an unknown id
func respondNotApplied(w http.ResponseWriter) {
	respondWithJSON(w, http.StatusOK, map[string]bool{"applied": false})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
