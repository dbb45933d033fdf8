package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func withAction(r *http.Request, action string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("action", action)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPing(t *testing.T) {
	h := NewHealthHandler()

	rr := httptest.NewRecorder()
	h.Ping(rr, withAction(httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil), "ping"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pong")

	rr = httptest.NewRecorder()
	h.Ping(rr, withAction(httptest.NewRequest(http.MethodGet, "/v1/health-check/pong", nil), "pong"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler().Health(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())
}

type stubCodes map[string]string

func (s stubCodes) Get(_ context.Context, email string) (string, bool) {
	c, ok := s[email]
	return c, ok
}

func TestDevOTP(t *testing.T) {
	h := NewDevOTPHandler(stubCodes{"a@example.com": "123456"})

	rr := httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/v1/dev/otp?email=a@example.com", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"email":"a@example.com","otp":"123456"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/v1/dev/otp?email=b@example.com", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/v1/dev/otp", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
