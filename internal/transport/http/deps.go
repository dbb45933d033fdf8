package http

import (
	"github.com/astro-auth-api/internal/application/auth"
	"github.com/astro-auth-api/internal/application/profile"
	"github.com/astro-auth-api/internal/infrastructure/devotp"
)

// Deps holds the services the router exposes.
type Deps struct {
	Auth    auth.Service
	Profile profile.Service
	// DevCodes is set only when the dev delivery provider is active; the
	// retrieval route is mounted only then.
	DevCodes *devotp.Store
}
