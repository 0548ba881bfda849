// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// TenantKey is the context key for the authenticated tenant.
	TenantKey contextKey = "tenant"

	// UserKey is the context key for the acting user's ID.
	UserKey contextKey = "user"
)

// TenantAuthenticator resolves and verifies API keys. *store.TenantStore
// satisfies it.
type TenantAuthenticator interface {
	FindByAPIKeyID(ctx context.Context, keyID string) (*models.Tenant, error)
	CheckAPIKey(tenant *models.Tenant, secret string) bool
}

// RequireAPIKey authenticates requests with a bearer API key of the form
// "ck_<key id>_<secret>". The key id is public and indexes the tenant; the
// secret is verified against the stored bcrypt hash. The authenticated
// tenant lands in the request context via TenantFromCtx.
//
// An optional X-User-ID header identifies the acting staff member for
// per-user rate limiting; absent or malformed, the tenant ID stands in.
func RequireAPIKey(auth TenantAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keyID, secret, ok := parseAPIKey(r.Header.Get("Authorization"))
			if !ok {
				writeUnauthorized(w)
				return
			}

			tenant, err := auth.FindByAPIKeyID(r.Context(), keyID)
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "server_error", "authentication unavailable")
				return
			}
			if tenant == nil || !auth.CheckAPIKey(tenant, secret) {
				writeUnauthorized(w)
				return
			}

			userID := tenant.ID
			if raw := r.Header.Get("X-User-ID"); raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					userID = id
				}
			}

			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			ctx = context.WithValue(ctx, UserKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseAPIKey splits "Bearer ck_<key id>_<secret>" into its parts. The
// secret may itself contain underscores; the key id may not.
func parseAPIKey(header string) (keyID, secret string, ok bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", "", false
	}
	rest, found := strings.CutPrefix(strings.TrimSpace(token), "ck_")
	if !found {
		return "", "", false
	}
	keyID, secret, found = strings.Cut(rest, "_")
	if !found || keyID == "" || secret == "" {
		return "", "", false
	}
	return keyID, secret, true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
}

// TenantFromCtx extracts the authenticated tenant from the request context.
// Returns nil on unauthenticated requests.
func TenantFromCtx(ctx context.Context) *models.Tenant {
	tenant, _ := ctx.Value(TenantKey).(*models.Tenant)
	return tenant
}

// UserFromCtx extracts the acting user's ID from the request context.
func UserFromCtx(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(UserKey).(uuid.UUID)
	return id
}
