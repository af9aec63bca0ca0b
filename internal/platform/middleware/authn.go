// Copyright (c) 2026 Keystone Identity. All rights reserved.

// Session authentication middleware for the Keystone API.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. The authentication pieces here
// resolve the opaque session cookie into an identity and enforce the
// CSRF policy on mutating protected requests.
package middleware

import (
	"context"
	"net/http"

	"github.com/keystoneid/keystone/internal/platform/apperr"
	"github.com/keystoneid/keystone/internal/platform/constants"
	"github.com/keystoneid/keystone/internal/platform/ctxutil"
	"github.com/keystoneid/keystone/internal/platform/respond"
	"github.com/keystoneid/keystone/internal/platform/sec"
)

// SessionResolver turns an opaque client token into an authenticated identity.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the auth
// service implementation, allowing us to easily inject fakes during unit testing.
type SessionResolver interface {
	// Resolve returns the identity bound to the token, or an error if the
	// session is missing, expired, or tampered with.
	Resolve(ctx context.Context, token string) (*sec.Identity, error)
}

// Authenticate resolves the session cookie (if present) into an identity.
//
// # Flow
//  1. Check for the session cookie.
//  2. If absent, the request proceeds as Anonymous.
//  3. If present, resolve the token through the [SessionResolver].
//  4. Inject [*sec.Identity] into the request context for downstream use.
//
// A stale or forged cookie downgrades the request to Anonymous rather than
// failing it: public endpoints must stay reachable with a dead cookie.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Anonymous Access ───────────────────────────────────────────
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			identity, err := resolver.Resolve(request.Context(), cookie.Value)
			if err != nil || identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context.
//  2. If missing, abort with HTTP 403 Forbidden (PermissionDenied).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Forbidden("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireCSRF enforces the double-check anti-forgery policy on mutating
// protected requests.
//
// # Usage
//
// Must be registered AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Safe methods (GET, HEAD, OPTIONS) pass through untouched.
//  2. The X-CSRF-Token header must equal the token stored in the session record.
func RequireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Forbidden("Authentication required"))
			return
		}

		switch request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(writer, request)
			return
		}

		token := request.Header.Get(constants.CSRFHeaderName)
		if token == "" || token != identity.CSRFToken {
			respond.Error(writer, request, apperr.Forbidden("Missing or invalid CSRF token"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}
