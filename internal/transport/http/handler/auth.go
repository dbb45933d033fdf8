package handler

import (
	"net/http"

	"github.com/astro-auth-api/internal/application/auth"
	"github.com/astro-auth-api/internal/domain"
	"github.com/astro-auth-api/internal/transport/http/middleware"
)

// AuthHandler handles the email code login flow and token checks.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendCodeRequest
	if !decodeValid(w, r, &req) {
		return
	}
	res, err := h.svc.RequestCode(r.Context(), req.Email)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SendCodeEnvelope{
		Message:          "OTP sent successfully",
		Email:            res.Email,
		ExpiresInMinutes: res.TTLMinutes,
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyCodeRequest
	if !decodeValid(w, r, &req) {
		return
	}
	res, err := h.svc.RedeemCode(r.Context(), req.Email, req.Code)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{
		AccessToken: res.Token,
		TokenType:   res.TokenType,
		ExpiresIn:   res.ExpiresIn,
		User:        res.User,
		HasProfile:  res.HasProfile,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, TokenCheckEnvelope{Message: "Token is valid", UserID: u.UserID, Email: u.Email})
}

// Logout only confirms; tokens are stateless and expire on their own.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Successfully logged out"})
}
