// Copyright (c) 2026 Keystone Identity. All rights reserved.

package audit

import (
	"context"
	"log/slog"

	"github.com/keystoneid/keystone/internal/platform/ctxutil"
)

// Recorder is the write-side façade the services use to emit audit events.
//
// # Failure Policy
//
// A failed audit write must never abort the caller's primary operation, but
// it must not vanish either: the failure is logged at Error level with the
// event details so an operator can reconcile the trail.
type Recorder struct {
	repository Repository
}

// NewRecorder constructs a [Recorder] over the given repository.
func NewRecorder(repository Repository) *Recorder {
	return &Recorder{repository: repository}
}

/*
Record emits one audit event for the given account email.

Parameters:
  - context: context.Context
  - event: Event kind
  - email: Normalized account email (may reference a deleted account)
  - ipAddress: Originating network address
*/
func (recorder *Recorder) Record(context context.Context, event Event, email, ipAddress string) {
	entry := &Entry{
		Event:     event,
		Email:     email,
		IPAddress: ipAddress,
	}

	if err := recorder.repository.Record(context, entry); err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "audit_record_failed",
			slog.String("event", string(event)),
			slog.String("email", email),
			slog.Any("error", err),
		)
	}
}
