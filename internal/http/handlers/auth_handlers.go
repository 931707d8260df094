package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/eventauth/domain"
	"github.com/you/eventauth/internal/http/middleware"
)

// AuthHandlers exposes the authentication flows over HTTP.
type AuthHandlers struct {
	authSvc  domain.AuthService
	tokenTTL int
	echoOTP  bool
}

// NewAuthHandlers creates new auth handlers. echoOTP enables returning
// codes and reset tokens in responses; it must be false in production.
func NewAuthHandlers(authSvc domain.AuthService, tokenTTLSeconds int, echoOTP bool) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc, tokenTTL: tokenTTLSeconds, echoOTP: echoOTP}
}

// SendOTPRequest carries the "phone or email" pair for OTP issuance.
type SendOTPRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// OTPSignupRequest is the verify-OTP signup payload.
type OTPSignupRequest struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	OTP      string `json:"otp" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SignupRequest is the direct password signup payload.
type SignupRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// OTPLoginRequest is the verify-OTP login payload.
type OTPLoginRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
	OTP   string `json:"otp" binding:"required"`
}

// LoginRequest is the password login payload.
type LoginRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	TwoFactorCode string `json:"twoFactorCode"`
}

// LogoutRequest optionally carries the refresh token so the matching
// session can be revoked.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordRequest carries the reset request payload.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest carries the reset submission payload.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// SignupSendOTP handles POST /auth/signup/send-otp
func (h *AuthHandlers) SignupSendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := domain.ParseIdentifier(req.Phone, req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid phone or email is required"})
		return
	}

	otp, err := h.authSvc.SignupSendOTP(c.Request.Context(), id, clientContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"message": "OTP sent successfully"}
	if h.echoOTP {
		body["otp"] = otp
	}
	c.JSON(http.StatusOK, body)
}

// SignupVerifyOTP handles POST /auth/signup/verify-otp
func (h *AuthHandlers) SignupVerifyOTP(c *gin.Context) {
	var req OTPSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := domain.ParseIdentifier(req.Phone, req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid phone or email is required"})
		return
	}

	result, err := h.authSvc.SignupVerifyOTP(c.Request.Context(), domain.OTPSignupRequest{
		Identifier: id,
		Code:       req.OTP,
		Name:       req.Name,
		Password:   req.Password,
		Role:       req.Role,
	}, clientContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondAuthenticated(c, http.StatusCreated, result)
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Signup(c.Request.Context(), domain.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.PhoneNumber,
		Password: req.Password,
		Role:     req.Role,
	}, clientContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondAuthenticated(c, http.StatusCreated, result)
}

// LoginSendOTP handles POST /auth/login/send-otp
func (h *AuthHandlers) LoginSendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := domain.ParseIdentifier(req.Phone, req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid phone or email is required"})
		return
	}

	otp, err := h.authSvc.LoginSendOTP(c.Request.Context(), id, clientContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"message": "OTP sent successfully"}
	if h.echoOTP {
		body["otp"] = otp
	}
	c.JSON(http.StatusOK, body)
}

// LoginVerifyOTP handles POST /auth/login/verify-otp
func (h *AuthHandlers) LoginVerifyOTP(c *gin.Context) {
	var req OTPLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := domain.ParseIdentifier(req.Phone, req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid phone or email is required"})
		return
	}

	result, err := h.authSvc.LoginVerifyOTP(c.Request.Context(), id, req.OTP, clientContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondAuthenticated(c, http.StatusOK, result)
}

// Login handles POST /auth/login and POST /auth/admin/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, req.TwoFactorCode, clientContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondAuthenticated(c, http.StatusOK, result)
}

// Me handles GET /auth/me
func (h *AuthHandlers) Me(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	account, err := h.authSvc.Profile(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": accountView(account)})
}

// Logout handles POST /auth/logout. It always clears the cookie and
// reports success, even when no session was found to revoke.
func (h *AuthHandlers) Logout(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	_ = h.authSvc.Logout(c.Request.Context(), accountID, req.RefreshToken, clientContext(c))

	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ForgotPassword handles POST /auth/forgot-password. The response is
// identical whether or not the email has an account.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email, clientContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"message": "If that email is registered, a reset link has been sent"}
	if h.echoOTP && token != "" {
		body["link"] = "/reset-password?email=" + req.Email + "&token=" + token
	}
	c.JSON(http.StatusOK, body)
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.Token, req.NewPassword, clientContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset. Please log in again."})
}

func (h *AuthHandlers) respondAuthenticated(c *gin.Context, status int, result *domain.AuthResult) {
	c.SetCookie(middleware.TokenCookie, result.AccessToken, h.tokenTTL, "/", "", false, true)
	c.JSON(status, gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    result.ExpiresIn,
		"user":          accountView(result.Account),
	})
}

func accountView(account *domain.Account) gin.H {
	return gin.H{
		"id":             account.ID,
		"name":           account.Name,
		"email":          account.Email,
		"phone":          account.Phone,
		"role":           account.Role,
		"email_verified": account.EmailVerified,
		"last_login_at":  account.LastLoginAt,
		"created_at":     account.CreatedAt,
	}
}

func clientContext(c *gin.Context) domain.ClientContext {
	return domain.ClientContext{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// respondError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a generic 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "reasons": validation.Reasons})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNoIdentifier):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid phone or email is required"})
	case errors.Is(err, domain.ErrAccountExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Account already exists"})
	case errors.Is(err, domain.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, domain.ErrAccountLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is temporarily locked. Try again later."})
	case errors.Is(err, domain.ErrAccountInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
	case errors.Is(err, domain.ErrInsufficientRole), errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, domain.ErrOTPNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "OTP not found. Request a new code."})
	case errors.Is(err, domain.ErrOTPExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "OTP has expired. Request a new code."})
	case errors.Is(err, domain.ErrOTPMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid OTP code"})
	case errors.Is(err, domain.ErrOTPResendLimit):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new code"})
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, domain.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
