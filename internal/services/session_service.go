package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/you/eventauth/domain"
	"github.com/you/eventauth/internal/obs"
)

// SessionServiceImpl implements domain.SessionService. Raw refresh
// tokens are opaque credentials handed to the client once; only their
// bcrypt hash is persisted. Verification therefore scans live sessions
// and compares each hash, since a salted hash has no lookup key.
type SessionServiceImpl struct {
	repo domain.SessionRepository
	ttl  time.Duration
	cost int
}

// NewSessionService creates a new session service
func NewSessionService(repo domain.SessionRepository, ttl time.Duration) domain.SessionService {
	return &SessionServiceImpl{
		repo: repo,
		ttl:  ttl,
		cost: bcrypt.DefaultCost,
	}
}

// Create implements domain.SessionService
func (s *SessionServiceImpl) Create(ctx context.Context, accountID uint, client domain.ClientContext) (*domain.Session, string, error) {
	rawToken, err := generateRefreshToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawToken), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash refresh token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		AccountID:   accountID,
		TokenHash:   string(hash),
		IP:          client.IP,
		UserAgent:   client.UserAgent,
		DeviceLabel: deviceLabel(client.UserAgent),
		ExpiresAt:   now.Add(s.ttl),
		LastUsedAt:  now,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, "", err
	}

	obs.SessionsCreated.Inc()
	return session, rawToken, nil
}

// Verify implements domain.SessionService. It returns (nil, nil) when
// no live session matches; absence is a normal authorization failure
// for the caller, not an exceptional condition.
func (s *SessionServiceImpl) Verify(ctx context.Context, rawToken string) (*domain.Session, error) {
	candidates, err := s.repo.FindCandidates(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, session := range candidates {
		if !session.Valid(now) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(session.TokenHash), []byte(rawToken)) != nil {
			continue
		}
		session.LastUsedAt = now
		if err := s.repo.Touch(ctx, session.ID, now); err != nil {
			return nil, err
		}
		return session, nil
	}
	return nil, nil
}

// ListActive implements domain.SessionService
func (s *SessionServiceImpl) ListActive(ctx context.Context, accountID uint) ([]*domain.Session, error) {
	return s.repo.FindByAccount(ctx, accountID)
}

// Revoke implements domain.SessionService
func (s *SessionServiceImpl) Revoke(ctx context.Context, sessionID, accountID uint) error {
	if err := s.repo.Revoke(ctx, sessionID, accountID, time.Now()); err != nil {
		return err
	}
	obs.SessionsRevoked.Inc()
	return nil
}

// RevokeAll implements domain.SessionService
func (s *SessionServiceImpl) RevokeAll(ctx context.Context, accountID uint) error {
	if err := s.repo.RevokeAll(ctx, accountID, time.Now()); err != nil {
		return err
	}
	obs.SessionsRevoked.Inc()
	return nil
}

// generateRefreshToken builds an opaque credential. The result stays
// under bcrypt's 72-byte input limit.
func generateRefreshToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return uuid.NewString() + "." + hex.EncodeToString(buf), nil
}

var deviceLabels = []struct {
	needle string
	label  string
}{
	{"iphone", "iPhone"},
	{"ipad", "iPad"},
	{"android", "Android Device"},
	{"windows", "Windows PC"},
	{"macintosh", "Mac"},
	{"mac os", "Mac"},
	{"linux", "Linux PC"},
	{"curl", "CLI Client"},
	{"postman", "API Client"},
}

// deviceLabel derives a human-readable label from the user agent.
// Best-effort substring matching; anything unrecognized is labelled
// "Unknown Device".
func deviceLabel(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, d := range deviceLabels {
		if strings.Contains(ua, d.needle) {
			return d.label
		}
	}
	return "Unknown Device"
}
