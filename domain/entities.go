package domain

import "time"

// Account roles
const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// Account represents an identity in the marketplace. At least one of
// Email/Phone is always set. Accounts are never hard-deleted; audit
// events keep referencing them after deactivation.
type Account struct {
	ID                  uint
	Name                string
	Email               string
	Phone               string
	PasswordHash        string
	Role                string
	EmailVerified       bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	MFASecret           string
	LastLoginAt         *time.Time
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Locked reports whether the account is currently locked out.
func (a *Account) Locked(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}

// HasPassword reports whether the account can use the password login
// path. Accounts created through the OTP-only flow may not have one.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// Session is the persisted proof that a refresh credential was issued
// to an account from a given client context. The raw refresh token is
// never stored; only its bcrypt hash is.
type Session struct {
	ID          uint
	AccountID   uint
	TokenHash   string
	IP          string
	UserAgent   string
	DeviceLabel string
	ExpiresAt   time.Time
	LastUsedAt  time.Time
	RevokedAt   *time.Time
	CreatedAt   time.Time
}

// Valid reports whether the session may still be used: not revoked and
// not past its absolute expiry.
func (s *Session) Valid(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}

// AuthResult represents the outcome of a successful authentication flow.
type AuthResult struct {
	Account      *Account
	AccessToken  string
	RefreshToken string
	SessionID    uint
	ExpiresIn    int64
}

// TokenClaims represents access token claims.
type TokenClaims struct {
	AccountID uint   `json:"sub"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// StrengthTier classifies a password for UI feedback only; the Valid
// flag on StrengthResult is the only security gate.
type StrengthTier string

const (
	StrengthWeak   StrengthTier = "weak"
	StrengthMedium StrengthTier = "medium"
	StrengthStrong StrengthTier = "strong"
)

// StrengthResult is the outcome of a password policy check.
type StrengthResult struct {
	Valid   bool
	Reasons []string
	Tier    StrengthTier
}
