package domain

import "time"

// Audit action kinds.
const (
	AuditLoginSuccess         = "auth.login_success"
	AuditLoginFailure         = "auth.login_failure"
	AuditSignup               = "auth.signup"
	AuditLogout               = "auth.logout"
	AuditOTPIssued            = "auth.otp_issued"
	AuditOTPVerified          = "auth.otp_verified"
	AuditOTPFailed            = "auth.otp_failed"
	AuditAccountLocked        = "auth.account_locked"
	AuditAccountUnlocked      = "auth.account_unlocked"
	AuditPasswordChange       = "auth.password_change"
	AuditPasswordResetRequest = "auth.password_reset_request"
	AuditSessionRevoked       = "auth.session_revoked"
	AuditSessionRevokedAll    = "auth.session_revoked_all"
	AuditMFAToggled           = "auth.mfa_toggled"
)

// AuditEvent is an append-only record of a security-relevant action.
// AccountID is nil when the action could not be tied to an account,
// e.g. a failed login against an unknown identifier.
type AuditEvent struct {
	ID           uint
	AccountID    *uint
	Action       string
	ResourceType string
	ResourceID   string
	IP           string
	UserAgent    string
	Success      bool
	Reason       string
	Metadata     map[string]any
	CreatedAt    time.Time
}

// ClientContext carries client information extracted from the HTTP
// request once at the edge.
type ClientContext struct {
	IP        string
	UserAgent string
}

// NewAuditEvent creates an audit event with common fields populated.
func NewAuditEvent(action string, accountID *uint) *AuditEvent {
	return &AuditEvent{
		Action:    action,
		AccountID: accountID,
		CreatedAt: time.Now().UTC(),
		Success:   true,
	}
}

// WithFailure marks the event failed and records the reason.
func (e *AuditEvent) WithFailure(reason string) *AuditEvent {
	e.Success = false
	e.Reason = reason
	return e
}

// WithClient sets client context information.
func (e *AuditEvent) WithClient(client ClientContext) *AuditEvent {
	e.IP = client.IP
	e.UserAgent = client.UserAgent
	return e
}

// WithResource sets the resource the event acted on.
func (e *AuditEvent) WithResource(resourceType, resourceID string) *AuditEvent {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithMetadata adds a metadata entry to the event.
func (e *AuditEvent) WithMetadata(key string, value any) *AuditEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}
