// Copyright (c) 2026 Keystone Identity. All rights reserved.

package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keystoneid/keystone/internal/platform/apperr"
	"github.com/keystoneid/keystone/internal/platform/sec"
	"github.com/keystoneid/keystone/internal/users/account"
	"github.com/keystoneid/keystone/internal/users/audit"
	"github.com/keystoneid/keystone/internal/users/auth"
)

// # In-Memory Fakes

type fakeUserRepository struct {
	users map[string]*account.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*account.User{}}
}

func (r *fakeUserRepository) Create(_ context.Context, user *account.User) error {
	if _, exists := r.users[user.Email]; exists {
		return apperr.Conflict("Email is already registered")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*account.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return user, nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, email, newHash string) error {
	user, ok := r.users[email]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.PasswordHash = newHash
	return nil
}

func (r *fakeUserRepository) TouchLastLogin(_ context.Context, email string) error {
	user, ok := r.users[email]
	if !ok {
		return apperr.NotFound("Account")
	}
	now := time.Now().UTC()
	user.LastLogin = &now
	return nil
}

func (r *fakeUserRepository) Delete(_ context.Context, email string) error {
	if _, ok := r.users[email]; !ok {
		return apperr.NotFound("Account")
	}
	delete(r.users, email)
	return nil
}

type fakeSessionRepository struct {
	sessions map[string]*auth.Session
	touched  int
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*auth.Session{}}
}

func (r *fakeSessionRepository) Create(_ context.Context, tokenHash string, session *auth.Session) error {
	r.sessions[tokenHash] = session
	return nil
}

func (r *fakeSessionRepository) Find(_ context.Context, tokenHash string) (*auth.Session, error) {
	session, ok := r.sessions[tokenHash]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	return session, nil
}

func (r *fakeSessionRepository) Touch(_ context.Context, tokenHash string) error {
	if _, ok := r.sessions[tokenHash]; !ok {
		return apperr.NotFound("Session")
	}
	r.touched++
	return nil
}

func (r *fakeSessionRepository) Destroy(_ context.Context, tokenHash string) error {
	delete(r.sessions, tokenHash)
	return nil
}

func (r *fakeSessionRepository) DestroyAllForEmail(_ context.Context, email string) error {
	for tokenHash, session := range r.sessions {
		if session.Email == email {
			delete(r.sessions, tokenHash)
		}
	}
	return nil
}

type fakeAuditLog struct {
	entries []audit.Entry
}

func (r *fakeAuditLog) Record(_ context.Context, entry *audit.Entry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditLog) RecentByEmail(_ context.Context, email string, limit int) ([]audit.Entry, error) {
	matched := make([]audit.Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(matched) < limit; i-- {
		if r.entries[i].Email == email {
			matched = append(matched, r.entries[i])
		}
	}
	return matched, nil
}

func (r *fakeAuditLog) ListByEmail(_ context.Context, email string, limit, offset int) ([]audit.Entry, int, error) {
	matched := make([]audit.Entry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].Email == email {
			matched = append(matched, r.entries[i])
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeAuditLog) countEvents(event audit.Event) int {
	count := 0
	for _, entry := range r.entries {
		if entry.Event == event {
			count++
		}
	}
	return count
}

// # Test Harness

const testSessionSecret = "test-session-secret"

type testEnv struct {
	service  *auth.Service
	users    *fakeUserRepository
	sessions *fakeSessionRepository
	auditLog *fakeAuditLog
}

func newTestEnv() *testEnv {
	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	auditLog := &fakeAuditLog{}

	return &testEnv{
		service:  auth.NewService(users, sessions, auditLog, testSessionSecret),
		users:    users,
		sessions: sessions,
		auditLog: auditLog,
	}
}

func (env *testEnv) register(t *testing.T, email, password string) *account.User {
	t.Helper()
	user, err := env.service.Register(context.Background(), auth.RegisterInput{
		FullName: "Test Member",
		Email:    email,
		Password: password,
		Consent:  true,
	}, "203.0.113.7")
	require.NoError(t, err)
	return user
}

// # Registration

/*
TestService_Register verifies account creation, email normalization, and the
REGISTER_SUCCESS audit entry.
*/
func TestService_Register(t *testing.T) {
	env := newTestEnv()

	user, err := env.service.Register(context.Background(), auth.RegisterInput{
		FullName: "Alice Nguyen",
		Email:    "  Alice@Example.COM ",
		Phone:    "+84 90 000 0000",
		Password: "abcd1234",
		Consent:  true,
	}, "203.0.113.7")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "abcd1234", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("abcd1234", user.PasswordHash))

	assert.Equal(t, 1, env.auditLog.countEvents(audit.EventRegisterSuccess))
	assert.Equal(t, "alice@example.com", env.auditLog.entries[0].Email)
	assert.Equal(t, "203.0.113.7", env.auditLog.entries[0].IPAddress)
}

/*
TestService_Register_Validation verifies that invalid input is rejected
before anything reaches storage.
*/
func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input auth.RegisterInput
	}{
		{"missing_name", auth.RegisterInput{Email: "a@b.co", Password: "abcd1234", Consent: true}},
		{"bad_email", auth.RegisterInput{FullName: "A", Email: "a@b", Password: "abcd1234", Consent: true}},
		{"email_with_space", auth.RegisterInput{FullName: "A", Email: "a b@c.com", Password: "abcd1234", Consent: true}},
		{"short_password", auth.RegisterInput{FullName: "A", Email: "a@b.co", Password: "ab1", Consent: true}},
		{"letters_only_password", auth.RegisterInput{FullName: "A", Email: "a@b.co", Password: "abcdefgh", Consent: true}},
		{"digits_only_password", auth.RegisterInput{FullName: "A", Email: "a@b.co", Password: "12345678", Consent: true}},
		{"no_consent", auth.RegisterInput{FullName: "A", Email: "a@b.co", Password: "abcd1234", Consent: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			_, err := env.service.Register(context.Background(), tt.input, "203.0.113.7")
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)

			assert.Empty(t, env.users.users)
			assert.Empty(t, env.auditLog.entries)
		})
	}
}

/*
TestService_Register_DuplicateEmail verifies that duplicates conflict even
when the casing differs.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv()
	env.register(t, "a@b.com", "abcd1234")

	_, err := env.service.Register(context.Background(), auth.RegisterInput{
		FullName: "Impostor",
		Email:    "A@B.com",
		Password: "abcd1234",
		Consent:  true,
	}, "203.0.113.7")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Len(t, env.users.users, 1)
}

// # Login & Logout

/*
TestService_Login verifies the success path: token issuance, last-login
update, and exactly one LOGIN_SUCCESS audit entry.
*/
func TestService_Login(t *testing.T) {
	env := newTestEnv()
	env.register(t, "alice@example.com", "abcd1234")

	loginSession, err := env.service.Login(context.Background(), auth.LoginInput{
		Email:    "Alice@Example.com",
		Password: "abcd1234",
	}, "203.0.113.7")
	require.NoError(t, err)

	assert.NotEmpty(t, loginSession.Token)
	assert.NotEmpty(t, loginSession.CSRFToken)
	assert.NotEqual(t, loginSession.Token, loginSession.CSRFToken)
	assert.True(t, loginSession.ExpiresAt.After(time.Now()))

	require.NotNil(t, env.users.users["alice@example.com"].LastLogin)
	assert.Equal(t, 1, env.auditLog.countEvents(audit.EventLoginSuccess))
	assert.Equal(t, 0, env.auditLog.countEvents(audit.EventLoginFailed))

	// The issued token resolves to the account identity.
	identity, err := env.service.Resolve(context.Background(), loginSession.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, loginSession.CSRFToken, identity.CSRFToken)
}

/*
TestService_Login_BadCredentials verifies that a wrong password and an
unknown email are indistinguishable, and that each attempt writes exactly
one LOGIN_FAILED entry.
*/
func TestService_Login_BadCredentials(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"wrong_password", "alice@example.com"},
		{"unknown_email", "nobody@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.register(t, "alice@example.com", "abcd1234")
			registered := env.auditLog.countEvents(audit.EventLoginFailed)

			_, err := env.service.Login(context.Background(), auth.LoginInput{
				Email:    tt.email,
				Password: "wrong-pass1",
			}, "203.0.113.7")
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
			assert.Equal(t, "Invalid email or password", ae.Message)

			assert.Equal(t, registered+1, env.auditLog.countEvents(audit.EventLoginFailed))
			assert.Equal(t, 0, env.auditLog.countEvents(audit.EventLoginSuccess))
		})
	}
}

/*
TestService_Logout verifies that logout kills the session, records one
LOGOUT entry, and stays idempotent on repetition.
*/
func TestService_Logout(t *testing.T) {
	env := newTestEnv()
	env.register(t, "alice@example.com", "abcd1234")

	loginSession, err := env.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "abcd1234",
	}, "203.0.113.7")
	require.NoError(t, err)

	require.NoError(t, env.service.Logout(context.Background(), loginSession.Token, "203.0.113.7"))
	assert.Equal(t, 1, env.auditLog.countEvents(audit.EventLogout))

	_, err = env.service.Resolve(context.Background(), loginSession.Token)
	assert.True(t, apperr.IsNotFound(err))

	// A second logout with the same dead token is not an error and does not
	// write a second audit entry.
	require.NoError(t, env.service.Logout(context.Background(), loginSession.Token, "203.0.113.7"))
	assert.Equal(t, 1, env.auditLog.countEvents(audit.EventLogout))
}

// # Session Resolution

/*
TestService_Resolve_Expired verifies that a session past its absolute
lifetime is rejected and reaped.
*/
func TestService_Resolve_Expired(t *testing.T) {
	env := newTestEnv()
	env.register(t, "alice@example.com", "abcd1234")

	loginSession, err := env.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "abcd1234",
	}, "203.0.113.7")
	require.NoError(t, err)

	// Age the stored record past its ceiling.
	tokenHash := sec.HashToken(loginSession.Token, testSessionSecret)
	env.sessions.sessions[tokenHash].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	_, err = env.service.Resolve(context.Background(), loginSession.Token)
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, env.sessions.sessions)
}

/*
TestService_Resolve_TamperedToken verifies that a forged token never
resolves.
*/
func TestService_Resolve_TamperedToken(t *testing.T) {
	env := newTestEnv()
	env.register(t, "alice@example.com", "abcd1234")

	_, err := env.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "abcd1234",
	}, "203.0.113.7")
	require.NoError(t, err)

	_, err = env.service.Resolve(context.Background(), "forged-token-value")
	assert.True(t, apperr.IsNotFound(err))
}

// # Password Recovery

/*
TestService_RequestPasswordReset verifies that the outcome does not reveal
whether the email is registered.
*/
func TestService_RequestPasswordReset(t *testing.T) {
	env := newTestEnv()
	env.register(t, "alice@example.com", "abcd1234")

	assert.NoError(t, env.service.RequestPasswordReset(context.Background(), "alice@example.com"))
	assert.NoError(t, env.service.RequestPasswordReset(context.Background(), "nobody@example.com"))

	err := env.service.RequestPasswordReset(context.Background(), "not-an-email")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_ResetPassword verifies credential replacement, session
revocation, and the PASSWORD_RESET_SUCCESS audit entry.
*/
func TestService_ResetPassword(t *testing.T) {
	env := newTestEnv()
	env.register(t, "alice@example.com", "abcd1234")

	loginSession, err := env.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "abcd1234",
	}, "203.0.113.7")
	require.NoError(t, err)

	err = env.service.ResetPassword(context.Background(), "Alice@Example.com", "newpass99", "203.0.113.7")
	require.NoError(t, err)

	stored := env.users.users["alice@example.com"]
	assert.True(t, sec.CheckPasswordHash("newpass99", stored.PasswordHash))
	assert.False(t, sec.CheckPasswordHash("abcd1234", stored.PasswordHash))
	assert.Equal(t, 1, env.auditLog.countEvents(audit.EventPasswordResetSuccess))

	// Every open session dies with the old credential.
	_, err = env.service.Resolve(context.Background(), loginSession.Token)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_ResetPassword_WeakPassword verifies that a weak candidate leaves
the stored hash untouched.
*/
func TestService_ResetPassword_WeakPassword(t *testing.T) {
	env := newTestEnv()
	env.register(t, "alice@example.com", "abcd1234")
	previousHash := env.users.users["alice@example.com"].PasswordHash

	tests := []string{"short1", "allletters", "12345678"}
	for _, candidate := range tests {
		err := env.service.ResetPassword(context.Background(), "alice@example.com", candidate, "203.0.113.7")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	}

	assert.Equal(t, previousHash, env.users.users["alice@example.com"].PasswordHash)
	assert.Equal(t, 0, env.auditLog.countEvents(audit.EventPasswordResetSuccess))
}

/*
TestService_ResetPassword_UnknownAccount verifies the storage NotFound
propagates for a well-formed but unregistered email.
*/
func TestService_ResetPassword_UnknownAccount(t *testing.T) {
	env := newTestEnv()

	err := env.service.ResetPassword(context.Background(), "nobody@example.com", "newpass99", "203.0.113.7")
	assert.True(t, apperr.IsNotFound(err))
}
