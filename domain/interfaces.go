package domain

import (
	"context"
	"time"
)

// AccountRepository defines account data access operations
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByPhone(ctx context.Context, phone string) (*Account, error)
	FindByIdentifier(ctx context.Context, id Identifier) (*Account, error)
	FindByID(ctx context.Context, id uint) (*Account, error)
	Update(ctx context.Context, account *Account) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// FindCandidates returns non-revoked, unexpired sessions; the
	// service layer bcrypt-compares each candidate against the raw
	// token because the stored hash has no lookup key.
	FindCandidates(ctx context.Context) ([]*Session, error)
	FindByAccount(ctx context.Context, accountID uint) ([]*Session, error)
	Touch(ctx context.Context, sessionID uint, usedAt time.Time) error
	Revoke(ctx context.Context, sessionID, accountID uint, revokedAt time.Time) error
	RevokeAll(ctx context.Context, accountID uint, revokedAt time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteIdle(ctx context.Context, idleBefore time.Time) (int64, error)
}

// AuditRepository defines audit log data access operations
type AuditRepository interface {
	Insert(ctx context.Context, event *AuditEvent) error
	CountRecentFailures(ctx context.Context, ip string, since time.Time) (int64, error)
	QueryByAccount(ctx context.Context, accountID uint, limit int) ([]*AuditEvent, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// OTPStore defines ephemeral one-time code operations
type OTPStore interface {
	// Issue generates and stores a code for the identifier,
	// overwriting any prior live code, and returns it so the caller
	// can hand it to a notification channel.
	Issue(ctx context.Context, id Identifier) (string, error)
	// Verify consumes the stored code on success. It fails with
	// ErrOTPNotFound, ErrOTPExpired or ErrOTPMismatch otherwise.
	Verify(ctx context.Context, id Identifier, candidate string) error
	// IssueResetToken stores an opaque single-use password reset token.
	IssueResetToken(ctx context.Context, email string) (string, error)
	// PeekResetToken checks the stored reset token without consuming
	// it, so a rejected new password does not burn the token.
	PeekResetToken(ctx context.Context, email, candidate string) error
	// VerifyResetToken consumes the stored reset token on success.
	VerifyResetToken(ctx context.Context, email, candidate string) error
}

// PasswordService defines password hashing and policy operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
	ValidateStrength(password string) StrengthResult
}

// TokenService defines access token operations
type TokenService interface {
	Issue(accountID uint, email, role string) (string, error)
	Validate(token string) (*TokenClaims, error)
	TTL() time.Duration
}

// SessionService defines refresh-session lifecycle operations
type SessionService interface {
	Create(ctx context.Context, accountID uint, client ClientContext) (session *Session, rawToken string, err error)
	Verify(ctx context.Context, rawToken string) (*Session, error)
	ListActive(ctx context.Context, accountID uint) ([]*Session, error)
	Revoke(ctx context.Context, sessionID, accountID uint) error
	RevokeAll(ctx context.Context, accountID uint) error
}

// AuditService defines security event recording and queries
type AuditService interface {
	// Record appends an event. It never blocks the caller's critical
	// path; a logging failure must not fail the operation it describes.
	Record(ctx context.Context, event *AuditEvent)
	CountRecentFailures(ctx context.Context, ip string, window time.Duration) (int64, error)
	QueryByAccount(ctx context.Context, accountID uint, limit int) ([]*AuditEvent, error)
}

// AuthService defines the authentication orchestration flows
type AuthService interface {
	SignupSendOTP(ctx context.Context, id Identifier, client ClientContext) (string, error)
	SignupVerifyOTP(ctx context.Context, req OTPSignupRequest, client ClientContext) (*AuthResult, error)
	Signup(ctx context.Context, req SignupRequest, client ClientContext) (*AuthResult, error)
	LoginSendOTP(ctx context.Context, id Identifier, client ClientContext) (string, error)
	LoginVerifyOTP(ctx context.Context, id Identifier, code string, client ClientContext) (*AuthResult, error)
	Login(ctx context.Context, email, password, mfaCode string, client ClientContext) (*AuthResult, error)
	Logout(ctx context.Context, accountID uint, rawRefreshToken string, client ClientContext) error
	ForgotPassword(ctx context.Context, email string, client ClientContext) (string, error)
	ResetPassword(ctx context.Context, email, token, newPassword string, client ClientContext) error
	Profile(ctx context.Context, accountID uint) (*Account, error)
	UnlockAccount(ctx context.Context, accountID uint, client ClientContext) error
}

// OTPSignupRequest carries the verify-OTP signup payload.
type OTPSignupRequest struct {
	Identifier Identifier
	Code       string
	Name       string
	Password   string
	Role       string
}

// SignupRequest carries the direct password signup payload.
type SignupRequest struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// NotificationService defines outbound notification operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the Casbin enforcer the service uses.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
