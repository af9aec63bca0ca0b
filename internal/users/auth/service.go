// Copyright (c) 2026 Keystone Identity. All rights reserved.

package auth

import (
	"context"
	"time"

	"github.com/keystoneid/keystone/internal/platform/apperr"
	"github.com/keystoneid/keystone/internal/platform/constants"
	"github.com/keystoneid/keystone/internal/platform/sec"
	"github.com/keystoneid/keystone/internal/platform/validate"
	"github.com/keystoneid/keystone/internal/users/account"
	"github.com/keystoneid/keystone/internal/users/audit"
)

// # Definitions & Constructors

// Service orchestrates the authentication use cases: registration, login,
// logout, password recovery, and session resolution for the middleware.
type Service struct {
	userRepository    account.UserRepository
	sessionRepository SessionRepository
	auditRecorder     *audit.Recorder
	sessionSecret     string
}

// NewService constructs a new authentication [Service] with its dependencies.
func NewService(
	userRepository account.UserRepository,
	sessionRepository SessionRepository,
	auditLog audit.Repository,
	sessionSecret string,
) *Service {
	return &Service{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		auditRecorder:     audit.NewRecorder(auditLog),
		sessionSecret:     sessionSecret,
	}
}

// # Inputs & Outputs

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Consent  bool   `json:"consent"`
}

// LoginInput carries the login form fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginSession is what a successful login hands back to the delivery layer:
// the opaque token for the cookie plus the material the client needs in the
// response body.
type LoginSession struct {
	Token     string
	CSRFToken string
	ExpiresAt time.Time
	User      *account.User
}

// # Registration

/*
Register validates the registration form and creates the account.

Description: The email is normalized before storage so duplicate checks are
case-insensitive. The plaintext password exists only for the duration of the
bcrypt call.

Parameters:
  - context: context.Context
  - input: RegisterInput
  - ipAddress: string (originating address for the audit entry)

Returns:
  - *account.User: Created entity
  - error: ErrValidation, ErrConflict (duplicate email), or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput, ipAddress string) (*account.User, error) {
	validator := &validate.Validator{}
	validator.
		Required(account.FieldFullName, input.FullName).
		MaxLen(account.FieldFullName, input.FullName, 120).
		Required(account.FieldEmail, input.Email).
		Email(account.FieldEmail, input.Email).
		Required(account.FieldPassword, input.Password).
		StrongPassword(account.FieldPassword, input.Password).
		Custom(account.FieldConsent, !input.Consent, "Consent to the terms is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	email := validate.NormalizeEmail(input.Email)

	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &account.User{
		FullName:     input.FullName,
		Email:        email,
		Phone:        input.Phone,
		PasswordHash: passwordHash,
		Consent:      input.Consent,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.auditRecorder.Record(context, audit.EventRegisterSuccess, email, ipAddress)

	return user, nil
}

// # Login & Logout

/*
Login verifies credentials and issues a new session.

Description: Unknown email and wrong password produce the same generic
401 so the endpoint cannot be used to enumerate accounts. Every attempt
writes exactly one audit entry — LOGIN_SUCCESS or LOGIN_FAILED.

Parameters:
  - context: context.Context
  - input: LoginInput
  - ipAddress: string (originating address for the audit entry)

Returns:
  - *LoginSession: Token material and the authenticated account
  - error: ErrUnauthorized on bad credentials, or storage errors
*/
func (service *Service) Login(context context.Context, input LoginInput, ipAddress string) (*LoginSession, error) {
	email := validate.NormalizeEmail(input.Email)

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			service.auditRecorder.Record(context, audit.EventLoginFailed, email, ipAddress)
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.auditRecorder.Record(context, audit.EventLoginFailed, email, ipAddress)
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	token, err := sec.GenerateSecureToken(constants.SessionTokenLength)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	csrfToken, err := sec.GenerateSecureToken(constants.SessionTokenLength)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := time.Now().UTC()
	session := &Session{
		Email:     email,
		CSRFToken: csrfToken,
		IssuedAt:  now,
		ExpiresAt: now.Add(constants.SessionMaxLifetime),
	}

	if err := service.sessionRepository.Create(context, sec.HashToken(token, service.sessionSecret), session); err != nil {
		return nil, err
	}

	if err := service.userRepository.TouchLastLogin(context, email); err != nil {
		return nil, err
	}

	service.auditRecorder.Record(context, audit.EventLoginSuccess, email, ipAddress)

	return &LoginSession{
		Token:     token,
		CSRFToken: csrfToken,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

/*
Logout destroys the session behind a client token.

Description: Idempotent — logging out an already-dead session succeeds. The
LOGOUT audit entry is written only when a live session was actually ended.

Parameters:
  - context: context.Context
  - token: string (opaque client token from the cookie)
  - ipAddress: string

Returns:
  - error: Store failures
*/
func (service *Service) Logout(context context.Context, token, ipAddress string) error {
	tokenHash := sec.HashToken(token, service.sessionSecret)

	session, err := service.sessionRepository.Find(context, tokenHash)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	service.auditRecorder.Record(context, audit.EventLogout, session.Email, ipAddress)

	return service.sessionRepository.Destroy(context, tokenHash)
}

// # Password Recovery

/*
RequestPasswordReset acknowledges a forgot-password request.

Description: Whether or not the email exists, the caller gets the same
outcome — the existence of an account is never revealed. Only genuine
storage failures propagate.

Parameters:
  - context: context.Context
  - email: string (raw form input)

Returns:
  - error: Storage errors only; an unknown email is not an error
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	if !validate.IsEmail(email) {
		return validate.RequiredError(FieldEmail, "Must be a valid email address")
	}

	_, err := service.userRepository.FindByEmail(context, validate.NormalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	return nil
}

/*
ResetPassword replaces an account's credential with a new one.

Description: The strength policy is enforced before anything touches
storage — a weak candidate leaves the existing hash untouched. On success
every live session for the account is revoked, forcing a fresh login with
the new credential.

Parameters:
  - context: context.Context
  - email: string (raw form input)
  - newPassword: string
  - ipAddress: string

Returns:
  - error: ErrValidation, NotFound for an unknown account, or storage errors
*/
func (service *Service) ResetPassword(context context.Context, email, newPassword, ipAddress string) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldNewPassword, newPassword).
		StrongPassword(FieldNewPassword, newPassword)
	if err := validator.Err(); err != nil {
		return err
	}

	normalized := validate.NormalizeEmail(email)

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}

	if err := service.userRepository.UpdatePassword(context, normalized, newHash); err != nil {
		return err
	}

	service.auditRecorder.Record(context, audit.EventPasswordResetSuccess, normalized, ipAddress)

	// The old credential may be compromised; every open session dies with it.
	return service.sessionRepository.DestroyAllForEmail(context, normalized)
}

// # Session Resolution

/*
Resolve exchanges an opaque client token for an authenticated identity.

Description: This is the middleware entry point. The token is HMAC-hashed
into the store key; an absent, idle-expired, or lifetime-expired session
yields NotFound. A successful resolution refreshes the idle timeout.

Parameters:
  - context: context.Context
  - token: string (opaque client token from the cookie)

Returns:
  - *sec.Identity: Authenticated identity
  - error: apperr.NotFound or store failures
*/
func (service *Service) Resolve(context context.Context, token string) (*sec.Identity, error) {
	tokenHash := sec.HashToken(token, service.sessionSecret)

	session, err := service.sessionRepository.Find(context, tokenHash)
	if err != nil {
		return nil, err
	}

	if session.Expired(time.Now().UTC()) {
		// Past the absolute lifetime: reap the record eagerly rather than
		// waiting for the idle TTL.
		_ = service.sessionRepository.Destroy(context, tokenHash)
		return nil, apperr.NotFound("Session")
	}

	if err := service.sessionRepository.Touch(context, tokenHash); err != nil {
		return nil, err
	}

	return &sec.Identity{
		Email:        session.Email,
		SessionToken: token,
		CSRFToken:    session.CSRFToken,
	}, nil
}
