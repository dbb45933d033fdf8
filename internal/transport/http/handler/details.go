package handler

import (
	"net/http"

	"github.com/astro-auth-api/internal/application/profile"
	"github.com/astro-auth-api/internal/domain"
	"github.com/astro-auth-api/internal/transport/http/middleware"
)

// DetailsHandler handles the authenticated user's birth profile.
type DetailsHandler struct {
	svc profile.Service
}

func NewDetailsHandler(svc profile.Service) *DetailsHandler { return &DetailsHandler{svc: svc} }

func (h *DetailsHandler) Register(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.RegisterDetailsRequest
	if !decodeValid(w, r, &req) {
		return
	}
	d, err := h.svc.Register(r.Context(), u.UserID, req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *DetailsHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	d, err := h.svc.Get(r.Context(), u.UserID)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DetailsHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateDetailsRequest
	if !decodeValid(w, r, &req) {
		return
	}
	d, err := h.svc.Update(r.Context(), u.UserID, req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
