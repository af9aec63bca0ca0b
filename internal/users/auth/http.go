// Copyright (c) 2026 Keystone Identity. All rights reserved.

// HTTP delivery layer for the authentication surface.
//
// Cookie handling lives here and only here: the service layer deals in
// opaque tokens and never sees http.Cookie.
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/keystoneid/keystone/internal/platform/constants"
	"github.com/keystoneid/keystone/internal/platform/middleware"
	requestutil "github.com/keystoneid/keystone/internal/platform/request"
	"github.com/keystoneid/keystone/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the authentication routes.
//
// # Endpoints
//   - POST /register        : Create a new account.
//   - POST /login           : Verify credentials and open a session.
//   - POST /logout          : End the current session (requires one).
//   - POST /forgot-password : Acknowledge a recovery request.
//   - POST /reset-password  : Replace the account credential.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.With(middleware.RequireAuth).Post("/logout", handler.logout)

	return router
}

// sessionCookie builds the session cookie in its canonical shape; an empty
// value with maxAge -1 clears it.
func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     constants.SessionCookiePath,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// # Handlers

/*
Register creates a new account.

POST /api/v1/auth/register

Request:

	{"full_name": "...", "email": "...", "phone": "...", "password": "...", "consent": true}

Response:
  - 201: Created account (hash excluded)
  - 400: ErrValidation: Field-level failures
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	input := RegisterInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), input, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login verifies credentials and opens a session.

POST /api/v1/auth/login

Description: The opaque session token travels only in the HttpOnly cookie;
the response body carries the CSRF token the client must echo on mutating
protected requests.

Response:
  - 200: {"csrf_token": "...", "user": {...}}
  - 401: ErrUnauthorized: Invalid email or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	input := LoginInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loginSession, err := handler.authService.Login(request.Context(), input, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	maxAge := int(time.Until(loginSession.ExpiresAt).Seconds())
	http.SetCookie(writer, sessionCookie(loginSession.Token, maxAge))

	respond.OK(writer, map[string]interface{}{
		FieldCSRFToken: loginSession.CSRFToken,
		"user":         loginSession.User,
	})
}

/*
Logout ends the current session.

POST /api/v1/auth/logout

Description: The cookie is cleared even when the server-side session was
already gone; repeating a logout is harmless.

Response:
  - 200: Success message
  - 403: ErrForbidden: No authenticated session
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.Logout(request.Context(), identity.SessionToken, middleware.RealIP(request))

	http.SetCookie(writer, sessionCookie("", -1))

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "You have been logged out",
	})
}

/*
ForgotPassword acknowledges a password-recovery request.

POST /api/v1/auth/forgot-password

Description: The response is identical whether or not the email is
registered, so the endpoint cannot be used to enumerate accounts.

Response:
  - 200: Generic acknowledgement
  - 400: ErrValidation: Malformed email
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Email string `json:"email"`
	}{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email is registered, you can now reset your password",
	})
}

/*
ResetPassword replaces the account credential.

POST /api/v1/auth/reset-password

Request:

	{"email": "...", "new_password": "..."}

Response:
  - 200: Success message
  - 400: ErrValidation: Weak password or malformed email
  - 404: ErrNotFound: Unknown account
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Email       string `json:"email"`
		NewPassword string `json:"new_password"`
	}{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.authService.ResetPassword(
		request.Context(),
		input.Email,
		input.NewPassword,
		middleware.RealIP(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Your password has been updated. Please log in again",
	})
}
