package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/astro-auth-api/internal/domain"
	"github.com/astro-auth-api/internal/pkg/validate"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendCodeEnvelope confirms a code was issued and delivered.
type SendCodeEnvelope struct {
	Message          string `json:"message"`
	Email            string `json:"email"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

// TokenEnvelope wraps a successful code redemption.
type TokenEnvelope struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        *domain.User `json:"user"`
	HasProfile  bool         `json:"has_profile"`
}

// TokenCheckEnvelope wraps verify-token responses.
type TokenCheckEnvelope struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// decodeValid decodes the JSON body into dst and validates it. It writes the
// 400 or 422 response itself and reports whether the handler may continue.
func decodeValid(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

// httpError maps a service error onto a status code. Code failures keep their
// message; infrastructure failures are logged and answered generically.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrStorage):
		slog.ErrorContext(r.Context(), "storage failure", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	case errors.Is(err, domain.ErrCodeNotFound),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrAttemptsExceeded),
		errors.Is(err, domain.ErrCodeMismatch):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "could not validate credentials")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDeliveryFailed):
		slog.ErrorContext(r.Context(), "delivery failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to send verification code")
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
