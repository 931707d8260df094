package domain

import (
	"errors"
	"testing"
	"time"
)

func TestAccountLocked(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		lockedUntil *time.Time
		expected    bool
	}{
		{
			name:     "never locked",
			expected: false,
		},
		{
			name: "lock in the future",
			lockedUntil: func() *time.Time {
				ts := now.Add(10 * time.Minute)
				return &ts
			}(),
			expected: true,
		},
		{
			name: "lock already expired",
			lockedUntil: func() *time.Time {
				ts := now.Add(-time.Minute)
				return &ts
			}(),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &Account{LockedUntil: tt.lockedUntil}
			if got := account.Locked(now); got != tt.expected {
				t.Errorf("Locked() = %t, want %t", got, tt.expected)
			}
		})
	}
}

func TestAccountHasPassword(t *testing.T) {
	withPassword := &Account{PasswordHash: "$2a$10$abcdef"}
	if !withPassword.HasPassword() {
		t.Error("expected account with hash to have a password")
	}

	otpOnly := &Account{}
	if otpOnly.HasPassword() {
		t.Error("expected OTP-only account to have no password")
	}
}

func TestSessionValid(t *testing.T) {
	now := time.Now()
	revokedAt := now.Add(-time.Minute)

	tests := []struct {
		name     string
		session  Session
		expected bool
	}{
		{
			name:     "live session",
			session:  Session{ExpiresAt: now.Add(time.Hour)},
			expected: true,
		},
		{
			name:     "expired session",
			session:  Session{ExpiresAt: now.Add(-time.Hour)},
			expected: false,
		},
		{
			name:     "revoked session",
			session:  Session{ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Valid(now); got != tt.expected {
				t.Errorf("Valid() = %t, want %t", got, tt.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Reasons: []string{"too short", "must contain a digit"}}

	if !errors.Is(err, ErrWeakPassword) {
		t.Error("expected ValidationError to match ErrWeakPassword")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("ValidationError must not match unrelated sentinels")
	}
	if err.Error() == "" {
		t.Error("expected a non-empty message")
	}
}

func TestAuditEventBuilder(t *testing.T) {
	accountID := uint(42)
	event := NewAuditEvent(AuditLoginFailure, &accountID).
		WithFailure("password mismatch").
		WithClient(ClientContext{IP: "203.0.113.7", UserAgent: "curl/8.0"}).
		WithResource("session", "7").
		WithMetadata("method", "password")

	if event.Action != AuditLoginFailure {
		t.Errorf("expected action %q, got %q", AuditLoginFailure, event.Action)
	}
	if event.AccountID == nil || *event.AccountID != 42 {
		t.Error("expected account ID 42")
	}
	if event.Success {
		t.Error("WithFailure must mark the event failed")
	}
	if event.Reason != "password mismatch" {
		t.Errorf("expected reason, got %q", event.Reason)
	}
	if event.IP != "203.0.113.7" || event.UserAgent != "curl/8.0" {
		t.Error("expected client context copied onto the event")
	}
	if event.ResourceType != "session" || event.ResourceID != "7" {
		t.Error("expected resource fields set")
	}
	if event.Metadata["method"] != "password" {
		t.Error("expected metadata entry")
	}
	if event.CreatedAt.IsZero() {
		t.Error("expected CreatedAt set at construction")
	}
}
