// Copyright (c) 2026 Keystone Identity. All rights reserved.

// HTTP delivery layer for the account surface.
//
// This layer is strictly responsible for transport concerns (status codes,
// cookies, JSON); all business rules live in [Service].
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keystoneid/keystone/internal/platform/constants"
	"github.com/keystoneid/keystone/internal/platform/middleware"
	requestutil "github.com/keystoneid/keystone/internal/platform/request"
	"github.com/keystoneid/keystone/internal/platform/respond"
	"github.com/keystoneid/keystone/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the account-surface HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account routes.
//
// # Endpoints
//   - GET    /dashboard : Name, last login, member-since, recent audit entries.
//   - GET    /profile   : Full account record (sans hash).
//   - GET    /activity  : Paginated audit trail.
//   - DELETE /          : Permanent account deletion (CSRF-checked).
//
// Every route requires an authenticated session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/dashboard", handler.dashboard)
	router.Get("/profile", handler.profile)
	router.Get("/activity", handler.activity)

	router.With(middleware.RequireCSRF).Delete("/", handler.deleteAccount)

	return router
}

/*
Dashboard returns the member dashboard aggregate.

GET /api/v1/account/dashboard

Response:
  - 200: DashboardInfo
  - 403: ErrForbidden: No authenticated session
  - 404: ErrNotFound: Account deleted mid-session
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := handler.accountService.Dashboard(request.Context(), identity.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, info)
}

/*
Profile returns the full account record.

GET /api/v1/account/profile

Response:
  - 200: User
  - 403: ErrForbidden: No authenticated session
  - 404: ErrNotFound: Account deleted mid-session
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Profile(request.Context(), identity.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Activity returns one page of the account's audit trail.

GET /api/v1/account/activity?page=&limit=

Response:
  - 200: []audit.Entry with pagination metadata
  - 403: ErrForbidden: No authenticated session
*/
func (handler *Handler) activity(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	entries, meta, err := handler.accountService.Activity(request.Context(), identity.Email, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, meta)
}

/*
DeleteAccount permanently removes the authenticated member's account.

DELETE /api/v1/account

Description: Writes the ACCOUNT_DELETED audit entry, removes the row, and
clears the session cookie. The server-side session is destroyed even if the
delete step fails.

Response:
  - 200: Success message
  - 403: ErrForbidden: No session or bad CSRF token
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.accountService.DeleteAccount(
		request.Context(),
		identity.Email,
		middleware.RealIP(request),
	)

	// The cookie is expired regardless of the outcome: the server-side
	// session is already gone.
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldMessage: "Your account and data have been permanently deleted",
	})
}
