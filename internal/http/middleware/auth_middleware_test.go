package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/you/eventauth/domain"
	"github.com/you/eventauth/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupProtectedRouter(t *testing.T, tokenSvc domain.TokenService) *gin.Engine {
	t.Helper()

	mw := NewAuthMW(tokenSvc)
	r := gin.New()
	r.GET("/protected", mw.WithJWT(), func(c *gin.Context) {
		id, _ := AccountID(c)
		role, _ := c.Get("account_role")
		c.JSON(http.StatusOK, gin.H{"account_id": id, "role": role})
	})
	return r
}

func validTokenService(t *testing.T) *mocks.MockTokenService {
	t.Helper()

	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateFunc = func(token string) (*domain.TokenClaims, error) {
		if token == "valid-token" {
			return &domain.TokenClaims{AccountID: 42, Role: domain.RoleUser}, nil
		}
		if token == "expired-token" {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	return tokenSvc
}

func TestAuthMW_WithJWT(t *testing.T) {
	tests := []struct {
		name           string
		setupRequest   func(req *http.Request)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "bearer header accepted",
			setupRequest: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer valid-token")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "cookie accepted",
			setupRequest: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "valid-token"})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "header wins over cookie",
			setupRequest: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer valid-token")
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "garbage"})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no token",
			setupRequest:   func(req *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Authentication required",
		},
		{
			name: "invalid token",
			setupRequest: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer garbage")
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token",
		},
		{
			name: "expired token",
			setupRequest: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer expired-token")
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Token expired",
		},
		{
			name: "malformed authorization header",
			setupRequest: func(req *http.Request) {
				req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupProtectedRouter(t, validTokenService(t))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.setupRequest(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedError != "" && !strings.Contains(w.Body.String(), tt.expectedError) {
				t.Errorf("expected error %q in body %q", tt.expectedError, w.Body.String())
			}
		})
	}
}

func TestAccountID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := AccountID(c); ok {
		t.Error("expected no account id on a bare context")
	}

	c.Set("account_id", uint(42))
	id, ok := AccountID(c)
	if !ok || id != 42 {
		t.Errorf("expected (42, true), got (%d, %t)", id, ok)
	}

	c.Set("account_id", "not-a-uint")
	if _, ok := AccountID(c); ok {
		t.Error("expected type mismatch to report false")
	}
}
