// Copyright (c) 2026 Keystone Identity. All rights reserved.

package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/keystoneid/keystone/internal/platform/constants"
	"github.com/keystoneid/keystone/internal/platform/ctxutil"
	"github.com/keystoneid/keystone/internal/users/audit"
	"github.com/keystoneid/keystone/pkg/pagination"
)

// Service implements the member-facing account use cases: dashboard,
// profile, activity history, and account deletion.
//
// All operations take the normalized email of an already-authenticated
// identity; session gating happens in the delivery layer.
type Service struct {
	userRepository UserRepository
	auditLog       audit.Repository
	auditRecorder  *audit.Recorder
	sessions       SessionInvalidator
}

// NewService constructs a new account [Service] with its dependencies.
func NewService(userRepo UserRepository, auditLog audit.Repository, sessions SessionInvalidator) *Service {
	return &Service{
		userRepository: userRepo,
		auditLog:       auditLog,
		auditRecorder:  audit.NewRecorder(auditLog),
		sessions:       sessions,
	}
}

// # Read Surface

// DashboardInfo is the aggregate shown on the member dashboard.
type DashboardInfo struct {
	Name        string        `json:"name"`
	LastLogin   *time.Time    `json:"last_login,omitempty"`
	MemberSince time.Time     `json:"member_since"`
	RecentAudit []audit.Entry `json:"recent_audit_entries"`
}

/*
Dashboard assembles the dashboard view for an authenticated account.

Description: Combines the account record with the five most recent audit
entries for display.

Parameters:
  - context: context.Context
  - email: string (normalized, from the session identity)

Returns:
  - *DashboardInfo: Aggregate view
  - error: NotFound if the account vanished mid-session, or storage errors
*/
func (service *Service) Dashboard(context context.Context, email string) (*DashboardInfo, error) {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return nil, err
	}

	entries, err := service.auditLog.RecentByEmail(context, email, constants.DashboardAuditEntries)
	if err != nil {
		return nil, err
	}

	return &DashboardInfo{
		Name:        user.FullName,
		LastLogin:   user.LastLogin,
		MemberSince: user.CreatedAt,
		RecentAudit: entries,
	}, nil
}

/*
Profile returns the account record for an authenticated identity.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - *User: Hydrated entity (password hash excluded from JSON)
  - error: NotFound or storage errors
*/
func (service *Service) Profile(context context.Context, email string) (*User, error) {
	return service.userRepository.FindByEmail(context, email)
}

/*
Activity returns one page of the account's audit trail, newest first.

Parameters:
  - context: context.Context
  - email: string (normalized)
  - params: pagination.Params

Returns:
  - []audit.Entry: One page of entries
  - pagination.Meta: Navigation metadata
  - error: Storage errors
*/
func (service *Service) Activity(context context.Context, email string, params pagination.Params) ([]audit.Entry, pagination.Meta, error) {
	entries, total, err := service.auditLog.ListByEmail(context, email, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return entries, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Account Deletion

/*
DeleteAccount permanently removes an authenticated member's account.

Description: The ACCOUNT_DELETED audit entry is written first — once the row
is gone it is the only durable trace of the account. Sessions for the email
are destroyed unconditionally, even if the delete itself failed partway, so
no live session can ever point at a missing account.

Parameters:
  - context: context.Context
  - email: string (normalized, from the session identity)
  - ipAddress: string (originating address for the audit entry)

Returns:
  - error: NotFound or storage errors from the delete step
*/
func (service *Service) DeleteAccount(context context.Context, email, ipAddress string) error {

	// Log the deletion before the row disappears.
	service.auditRecorder.Record(context, audit.EventAccountDeleted, email, ipAddress)

	deleteErr := service.userRepository.Delete(context, email)

	// Session cleanup happens regardless of the delete outcome.
	if err := service.sessions.DestroyAllForEmail(context, email); err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "session_invalidation_failed",
			slog.String("email", email),
			slog.Any("error", err),
		)
	}

	return deleteErr
}
