package handler

import (
	"context"
	"net/http"
)

type codeLookup interface {
	Get(ctx context.Context, email string) (string, bool)
}

// DevOTPHandler exposes the last code delivered to an address. Only mounted
// when the dev delivery provider is active.
type DevOTPHandler struct {
	store codeLookup
}

func NewDevOTPHandler(store codeLookup) *DevOTPHandler { return &DevOTPHandler{store: store} }

func (h *DevOTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter required")
		return
	}
	code, ok := h.store.Get(r.Context(), email)
	if !ok {
		writeError(w, http.StatusNotFound, "no code for this email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email, "otp": code})
}
