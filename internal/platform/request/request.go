// Copyright (c) 2026 Keystone Identity. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keystoneid/keystone/internal/platform/apperr"
	"github.com/keystoneid/keystone/internal/platform/ctxutil"
	"github.com/keystoneid/keystone/internal/platform/sec"
	"github.com/keystoneid/keystone/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Identity extracts the authenticated identity from the request context.

Returns nil if the request is Anonymous.
*/
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the identity.

A protected operation reached without a session is a PermissionDenied
condition, not a credentials problem, hence 403 rather than 401.

Returns:
  - *sec.Identity: The authenticated identity
  - error: apperr.Forbidden if the request is Anonymous
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {

	// Get the resolved identity
	identity := ctxutil.GetIdentity(request.Context())

	// If the request is Anonymous, deny the protected operation
	if identity == nil {
		return nil, apperr.Forbidden("Authentication required")
	}

	return identity, nil
}
