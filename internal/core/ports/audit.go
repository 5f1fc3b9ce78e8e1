package ports

import (
	"context"
	"time"
)

// Audit actions and outcomes recorded by the auth flow.
const (
	AuditActionLogin    = "login"
	AuditActionLogout   = "logout"
	AuditActionRegister = "register"

	AuditOutcomeSuccess  = "success"
	AuditOutcomeFailure  = "failure"
	AuditOutcomeThrottle = "throttled"
)

// AuthEventInput is the DTO handed from the auth flow to the audit pipeline.
type AuthEventInput struct {
	Username  string
	Action    string
	Outcome   string
	RemoteIP  string
	Timestamp time.Time
}

// AuditRecorder is the fire-and-forget side of the audit pipeline; the auth
// service enqueues and moves on, persistence happens on the worker pool.
type AuditRecorder interface {
	Enqueue(event AuthEventInput)
}

// AuditService persists a single auth event.
type AuditService interface {
	Process(ctx context.Context, event AuthEventInput) error
}

// AuditRepository stores auth events durably.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *AuthEventInput) error
}
