package services

import (
	"strings"
	"testing"
	"time"

	"github.com/you/eventauth/domain"
	"github.com/you/eventauth/internal/mocks"
)

func createSessionServiceForTest(t *testing.T) (domain.SessionService, *mocks.MockSessionRepository) {
	t.Helper()

	repo := mocks.NewMockSessionRepository()
	return NewSessionService(repo, 7*24*time.Hour), repo
}

func TestSessionServiceImpl_Create(t *testing.T) {
	svc, repo := createSessionServiceForTest(t)
	ctx := createTestContext(t)

	session, rawToken, err := svc.Create(ctx, 1, domain.ClientContext{
		IP:        "203.0.113.7",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if rawToken == "" {
		t.Fatal("expected a raw token")
	}
	if session.TokenHash == rawToken {
		t.Error("stored hash must differ from the raw token")
	}
	if strings.Contains(session.TokenHash, rawToken) {
		t.Error("stored hash must not embed the raw token")
	}
	if len(rawToken) >= 72 {
		t.Errorf("raw token length %d exceeds the bcrypt input limit", len(rawToken))
	}
	if session.DeviceLabel != "iPhone" {
		t.Errorf("expected device label iPhone, got %q", session.DeviceLabel)
	}
	if session.ExpiresAt.Before(time.Now().Add(6 * 24 * time.Hour)) {
		t.Error("expected roughly one week expiry")
	}
	if len(repo.Sessions) != 1 {
		t.Fatalf("expected 1 persisted session, got %d", len(repo.Sessions))
	}
}

func TestSessionServiceImpl_Verify(t *testing.T) {
	svc, _ := createSessionServiceForTest(t)
	ctx := createTestContext(t)

	session, rawToken, err := svc.Create(ctx, 1, domain.ClientContext{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := svc.Verify(ctx, rawToken)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if found == nil {
		t.Fatal("expected matching session")
	}
	if found.ID != session.ID || found.AccountID != 1 {
		t.Errorf("expected session %d for account 1, got %+v", session.ID, found)
	}

	// The persisted hash is not a usable credential.
	found, err = svc.Verify(ctx, session.TokenHash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if found != nil {
		t.Error("the stored hash must not verify as a token")
	}

	found, err = svc.Verify(ctx, "not-a-token")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if found != nil {
		t.Error("an unknown token must not verify")
	}
}

func TestSessionServiceImpl_Verify_TouchesLastUsed(t *testing.T) {
	svc, repo := createSessionServiceForTest(t)
	ctx := createTestContext(t)

	session, rawToken, err := svc.Create(ctx, 1, domain.ClientContext{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	stored := repo.Sessions[session.ID]
	before := stored.LastUsedAt

	time.Sleep(5 * time.Millisecond)
	if _, err := svc.Verify(ctx, rawToken); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if !repo.Sessions[session.ID].LastUsedAt.After(before) {
		t.Error("expected verification to advance LastUsedAt")
	}
}

// A revoked session stops verifying immediately.
func TestSessionServiceImpl_Revoke(t *testing.T) {
	svc, _ := createSessionServiceForTest(t)
	ctx := createTestContext(t)

	session, rawToken, err := svc.Create(ctx, 1, domain.ClientContext{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Revoke(ctx, session.ID, 1); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	found, err := svc.Verify(ctx, rawToken)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if found != nil {
		t.Error("a revoked session must not verify")
	}
}

// Revoking with the wrong owning account is a silent no-op.
func TestSessionServiceImpl_Revoke_WrongAccount(t *testing.T) {
	svc, _ := createSessionServiceForTest(t)
	ctx := createTestContext(t)

	session, rawToken, err := svc.Create(ctx, 1, domain.ClientContext{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Revoke(ctx, session.ID, 2); err != nil {
		t.Fatalf("revoke returned error: %v", err)
	}

	found, err := svc.Verify(ctx, rawToken)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if found == nil {
		t.Error("session owned by another account must survive the revoke")
	}
}

func TestSessionServiceImpl_RevokeAll(t *testing.T) {
	svc, _ := createSessionServiceForTest(t)
	ctx := createTestContext(t)

	var tokens []string
	for i := 0; i < 3; i++ {
		_, raw, err := svc.Create(ctx, 1, domain.ClientContext{})
		if err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
		tokens = append(tokens, raw)
	}
	_, otherRaw, err := svc.Create(ctx, 2, domain.ClientContext{})
	if err != nil {
		t.Fatalf("create for other account failed: %v", err)
	}

	if err := svc.RevokeAll(ctx, 1); err != nil {
		t.Fatalf("revoke all failed: %v", err)
	}

	for i, raw := range tokens {
		found, err := svc.Verify(ctx, raw)
		if err != nil {
			t.Fatalf("verify %d failed: %v", i, err)
		}
		if found != nil {
			t.Errorf("token %d should be dead after revoke all", i)
		}
	}

	found, err := svc.Verify(ctx, otherRaw)
	if err != nil {
		t.Fatalf("verify other failed: %v", err)
	}
	if found == nil {
		t.Error("another account's session must survive")
	}
}

func TestSessionServiceImpl_ListActive(t *testing.T) {
	svc, _ := createSessionServiceForTest(t)
	ctx := createTestContext(t)

	first, _, err := svc.Create(ctx, 1, domain.ClientContext{UserAgent: "curl/8.0"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, _, err := svc.Create(ctx, 1, domain.ClientContext{UserAgent: "PostmanRuntime/7.36"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	sessions, err := svc.ListActive(ctx, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 active sessions, got %d", len(sessions))
	}

	if err := svc.Revoke(ctx, first.ID, 1); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	sessions, err = svc.ListActive(ctx, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("expected 1 active session after revoke, got %d", len(sessions))
	}
}

func TestDeviceLabel(t *testing.T) {
	tests := []struct {
		userAgent string
		expected  string
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", "iPhone"},
		{"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", "iPad"},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", "Android Device"},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", "Windows PC"},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)", "Mac"},
		{"Mozilla/5.0 (X11; Linux x86_64)", "Linux PC"},
		{"curl/8.4.0", "CLI Client"},
		{"PostmanRuntime/7.36.0", "API Client"},
		{"", "Unknown Device"},
		{"SomethingElse/1.0", "Unknown Device"},
	}

	for _, tt := range tests {
		t.Run(tt.expected+"_"+tt.userAgent, func(t *testing.T) {
			if got := deviceLabel(tt.userAgent); got != tt.expected {
				t.Errorf("deviceLabel(%q) = %q, want %q", tt.userAgent, got, tt.expected)
			}
		})
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := generateRefreshToken()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if len(token) >= 72 {
			t.Fatalf("token length %d exceeds the bcrypt input limit", len(token))
		}
		if seen[token] {
			t.Fatal("duplicate token generated")
		}
		seen[token] = true
	}
}
