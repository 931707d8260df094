package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/eventauth/domain"
)

func TestPasswordServiceImpl_HashAndVerify(t *testing.T) {
	// MinCost keeps the bcrypt work factor cheap in tests.
	svc := NewPasswordService(bcrypt.MinCost)

	password := "MyStr0ng!Pass123"
	hash, err := svc.Hash(password)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hash == password {
		t.Error("hash must differ from the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}
	if !svc.Verify(hash, password) {
		t.Error("expected correct password to verify")
	}
	if svc.Verify(hash, "wrong-password") {
		t.Error("expected wrong password to fail")
	}
	if svc.Verify("not-a-hash", password) {
		t.Error("expected malformed hash to fail verification")
	}
}

func TestPasswordServiceImpl_HashIsSalted(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	first, err := svc.Hash("MyStr0ng!Pass123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := svc.Hash("MyStr0ng!Pass123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ")
	}
}

func TestPasswordServiceImpl_ValidateStrength(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	tests := []struct {
		name          string
		password      string
		expectedValid bool
		expectedTier  domain.StrengthTier
		expectReason  string
	}{
		{
			name:          "strong password",
			password:      "MyStr0ng!Pass123",
			expectedValid: true,
			expectedTier:  domain.StrengthStrong,
		},
		{
			name:          "medium password",
			password:      "Abcdef123456",
			expectedValid: false,
			expectedTier:  domain.StrengthMedium,
			expectReason:  "special character",
		},
		{
			name:          "too short",
			password:      "Sh0rt!",
			expectedValid: false,
			expectedTier:  domain.StrengthWeak,
			expectReason:  "at least 12 characters",
		},
		{
			name:          "no uppercase",
			password:      "mystr0ng!pass123",
			expectedValid: false,
			expectReason:  "uppercase",
		},
		{
			name:          "no lowercase",
			password:      "MYSTR0NG!PASS123",
			expectedValid: false,
			expectReason:  "lowercase",
		},
		{
			name:          "no digit",
			password:      "MyStrong!PassWord",
			expectedValid: false,
			expectReason:  "digit",
		},
		{
			name:          "no special character",
			password:      "MyStr0ngPass1234",
			expectedValid: false,
			expectReason:  "special character",
		},
		{
			name:          "known weak password",
			password:      "Password1234!",
			expectedValid: false,
			expectReason:  "commonly used",
		},
		{
			name:          "empty password",
			password:      "",
			expectedValid: false,
			expectedTier:  domain.StrengthWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.ValidateStrength(tt.password)

			if result.Valid != tt.expectedValid {
				t.Errorf("expected valid=%t, got %t (reasons: %v)", tt.expectedValid, result.Valid, result.Reasons)
			}
			if tt.expectedTier != "" && result.Tier != tt.expectedTier {
				t.Errorf("expected tier %q, got %q", tt.expectedTier, result.Tier)
			}
			if tt.expectReason != "" {
				found := false
				for _, reason := range result.Reasons {
					if strings.Contains(reason, tt.expectReason) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected a reason containing %q, got %v", tt.expectReason, result.Reasons)
				}
			}
			if tt.expectedValid && len(result.Reasons) != 0 {
				t.Errorf("valid password should carry no reasons, got %v", result.Reasons)
			}
		})
	}
}
