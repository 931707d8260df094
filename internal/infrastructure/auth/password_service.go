package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/eventauth/domain"
)

const minPasswordLength = 12

// knownWeak is a small deny-list of strings that pass the class checks
// but show up in every breach corpus.
var knownWeak = map[string]struct{}{
	"password1234!":    {},
	"p@ssword12345":    {},
	"qwerty12345678!":  {},
	"admin1234567890!": {},
	"welcome12345678!": {},
	"letmein12345678!": {},
}

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service with the given
// bcrypt cost. Cost 0 falls back to bcrypt.DefaultCost.
func NewPasswordService(cost int) domain.PasswordService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService. bcrypt's own comparison is
// constant-time over the digest.
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidateStrength implements domain.PasswordService
func (p *PasswordServiceImpl) ValidateStrength(password string) domain.StrengthResult {
	var reasons []string

	if len(password) < minPasswordLength {
		reasons = append(reasons, "must be at least 12 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		reasons = append(reasons, "must contain an uppercase letter")
	}
	if !hasLower {
		reasons = append(reasons, "must contain a lowercase letter")
	}
	if !hasDigit {
		reasons = append(reasons, "must contain a digit")
	}
	if !hasSpecial {
		reasons = append(reasons, "must contain a special character")
	}

	if _, weak := knownWeak[strings.ToLower(password)]; weak {
		reasons = append(reasons, "is a commonly used password")
	}

	classes := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if ok {
			classes++
		}
	}

	return domain.StrengthResult{
		Valid:   len(reasons) == 0,
		Reasons: reasons,
		Tier:    strengthTier(len(password), classes),
	}
}

// strengthTier grades a password from length and class diversity. The
// tier is UI feedback only.
func strengthTier(length, classes int) domain.StrengthTier {
	switch {
	case length >= 16 && classes == 4:
		return domain.StrengthStrong
	case length >= minPasswordLength && classes >= 3:
		return domain.StrengthMedium
	default:
		return domain.StrengthWeak
	}
}
