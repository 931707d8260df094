package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"time"

	"github.com/you/eventauth/domain"
	"github.com/you/eventauth/internal/obs"
)

// AuthServiceImpl implements domain.AuthService. It is the state
// machine tying the OTP store, credential verifier, session manager,
// token issuer and audit logger together; every flow starts and ends
// in an unauthenticated or authenticated state with no partial state
// observable on error.
type AuthServiceImpl struct {
	accountRepo     domain.AccountRepository
	otpStore        domain.OTPStore
	passwordSvc     domain.PasswordService
	tokenSvc        domain.TokenService
	sessionSvc      domain.SessionService
	auditSvc        domain.AuditService
	notificationSvc domain.NotificationService
	cfg             AuthConfig
}

// AuthConfig carries the orchestrator's tunables.
type AuthConfig struct {
	LockoutThreshold int
	LockoutDuration  time.Duration
}

// NewAuthService creates a new auth orchestrator
func NewAuthService(
	accountRepo domain.AccountRepository,
	otpStore domain.OTPStore,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	sessionSvc domain.SessionService,
	auditSvc domain.AuditService,
	notificationSvc domain.NotificationService,
	cfg AuthConfig,
) domain.AuthService {
	if cfg.LockoutThreshold <= 0 {
		cfg.LockoutThreshold = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	return &AuthServiceImpl{
		accountRepo:     accountRepo,
		otpStore:        otpStore,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		sessionSvc:      sessionSvc,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
		cfg:             cfg,
	}
}

// SignupSendOTP implements domain.AuthService. The identifier must not
// belong to an existing account.
func (s *AuthServiceImpl) SignupSendOTP(ctx context.Context, id domain.Identifier, client domain.ClientContext) (string, error) {
	existing, err := s.accountRepo.FindByIdentifier(ctx, id)
	if err != nil && err != domain.ErrAccountNotFound {
		return "", err
	}
	if existing != nil {
		return "", domain.ErrAccountExists
	}
	return s.issueOTP(ctx, id, nil, client)
}

// SignupVerifyOTP implements domain.AuthService
func (s *AuthServiceImpl) SignupVerifyOTP(ctx context.Context, req domain.OTPSignupRequest, client domain.ClientContext) (*domain.AuthResult, error) {
	role, err := signupRole(req.Role)
	if err != nil {
		return nil, err
	}

	if err := s.otpStore.Verify(ctx, req.Identifier, req.Code); err != nil {
		s.recordOTPFailure(ctx, req.Identifier, nil, client, err)
		return nil, err
	}
	obs.OTPVerifications.WithLabelValues("success").Inc()

	existing, err := s.accountRepo.FindByIdentifier(ctx, req.Identifier)
	if err != nil && err != domain.ErrAccountNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAccountExists
	}

	account := &domain.Account{
		Name:     req.Name,
		Role:     role,
		IsActive: true,
	}
	if req.Identifier.IsPhone() {
		account.Phone = req.Identifier.Value
	} else {
		account.Email = req.Identifier.Value
		account.EmailVerified = true
	}
	if req.Password != "" {
		if err := s.checkStrength(req.Password); err != nil {
			return nil, err
		}
		hash, err := s.passwordSvc.Hash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = hash
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditOTPVerified, &account.ID).WithClient(client).
		WithMetadata("identifier", req.Identifier.String()))
	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditSignup, &account.ID).WithClient(client).
		WithMetadata("method", "otp").WithMetadata("role", role))

	return s.establish(ctx, account, client, "otp")
}

// Signup implements domain.AuthService: the direct password path.
func (s *AuthServiceImpl) Signup(ctx context.Context, req domain.SignupRequest, client domain.ClientContext) (*domain.AuthResult, error) {
	role, err := signupRole(req.Role)
	if err != nil {
		return nil, err
	}
	if req.Email == "" {
		return nil, domain.ErrNoIdentifier
	}
	if err := s.checkStrength(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.FindByEmail(ctx, req.Email)
	if err != nil && err != domain.ErrAccountNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAccountExists
	}

	hash, err := s.passwordSvc.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditSignup, &account.ID).WithClient(client).
		WithMetadata("method", "password").WithMetadata("role", role))

	return s.establish(ctx, account, client, "password")
}

// LoginSendOTP implements domain.AuthService. Unlike the signup path,
// the account must already exist.
func (s *AuthServiceImpl) LoginSendOTP(ctx context.Context, id domain.Identifier, client domain.ClientContext) (string, error) {
	account, err := s.accountRepo.FindByIdentifier(ctx, id)
	if err != nil {
		return "", err
	}
	if !account.IsActive {
		return "", domain.ErrAccountInactive
	}
	return s.issueOTP(ctx, id, &account.ID, client)
}

// LoginVerifyOTP implements domain.AuthService
func (s *AuthServiceImpl) LoginVerifyOTP(ctx context.Context, id domain.Identifier, code string, client domain.ClientContext) (*domain.AuthResult, error) {
	account, err := s.accountRepo.FindByIdentifier(ctx, id)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, domain.ErrAccountInactive
	}

	if err := s.otpStore.Verify(ctx, id, code); err != nil {
		s.recordOTPFailure(ctx, id, &account.ID, client, err)
		return nil, err
	}
	obs.OTPVerifications.WithLabelValues("success").Inc()

	s.clearFailures(ctx, account)
	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditLoginSuccess, &account.ID).WithClient(client).
		WithMetadata("method", "otp"))
	obs.LoginAttempts.WithLabelValues("otp", "success").Inc()

	return s.establish(ctx, account, client, "otp")
}

// Login implements domain.AuthService: the password path with lockout.
// The lockout check happens before the password check so an already
// locked account never costs a bcrypt comparison.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, mfaCode string, client domain.ClientContext) (*domain.AuthResult, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			// Identical client-facing failure as a bad password;
			// the distinguishing reason lives server-side only.
			s.recordLoginFailure(ctx, nil, client, "unknown identifier")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.IsActive {
		s.recordLoginFailure(ctx, &account.ID, client, "account inactive")
		return nil, domain.ErrAccountInactive
	}

	now := time.Now()
	if account.Locked(now) {
		s.recordLoginFailure(ctx, &account.ID, client, "account locked")
		return nil, domain.ErrAccountLocked
	}

	if !account.HasPassword() || !s.passwordSvc.Verify(account.PasswordHash, password) {
		s.registerFailedAttempt(ctx, account, client, now)
		return nil, domain.ErrInvalidCredentials
	}

	if account.MFASecret != "" {
		if subtle.ConstantTimeCompare([]byte(mfaCode), []byte(account.MFASecret)) != 1 {
			s.recordLoginFailure(ctx, &account.ID, client, "mfa code mismatch")
			return nil, domain.ErrInvalidCredentials
		}
	}

	s.clearFailures(ctx, account)
	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditLoginSuccess, &account.ID).WithClient(client).
		WithMetadata("method", "password"))
	obs.LoginAttempts.WithLabelValues("password", "success").Inc()

	return s.establish(ctx, account, client, "password")
}

// Logout implements domain.AuthService. It always succeeds from the
// server's point of view, even when the session is already gone.
func (s *AuthServiceImpl) Logout(ctx context.Context, accountID uint, rawRefreshToken string, client domain.ClientContext) error {
	if rawRefreshToken != "" {
		session, err := s.sessionSvc.Verify(ctx, rawRefreshToken)
		if err != nil {
			log.Printf("LOGOUT_SESSION_LOOKUP_FAILED: account_id=%d error=%v", accountID, err)
		}
		if session != nil && session.AccountID == accountID {
			if err := s.sessionSvc.Revoke(ctx, session.ID, accountID); err != nil {
				log.Printf("LOGOUT_REVOKE_FAILED: account_id=%d session_id=%d error=%v", accountID, session.ID, err)
			}
		}
	}
	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditLogout, &accountID).WithClient(client))
	return nil
}

// ForgotPassword implements domain.AuthService. An unknown email is
// not an error at this boundary; the caller returns the same generic
// message either way so the endpoint cannot be used for enumeration.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string, client domain.ClientContext) (string, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditPasswordResetRequest, nil).WithClient(client).
				WithFailure("unknown email").WithMetadata("email", email))
			return "", nil
		}
		return "", err
	}

	token, err := s.otpStore.IssueResetToken(ctx, email)
	if err != nil {
		return "", err
	}

	body := fmt.Sprintf("Use this token to reset your password: %s. It expires in 15 minutes.", token)
	if err := s.notificationSvc.SendEmail(email, "Password reset", body); err != nil {
		return "", fmt.Errorf("failed to send reset email: %w", err)
	}

	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditPasswordResetRequest, &account.ID).WithClient(client))
	return token, nil
}

// ResetPassword implements domain.AuthService. A successful reset
// revokes every session; the account must log in fresh.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, token, newPassword string, client domain.ClientContext) error {
	if err := s.otpStore.PeekResetToken(ctx, email, token); err != nil {
		s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditPasswordChange, nil).WithClient(client).
			WithFailure("invalid reset token").WithMetadata("email", email))
		return err
	}

	// A rejected password must leave the token usable for a retry, so
	// strength is checked before the token is consumed.
	if err := s.checkStrength(newPassword); err != nil {
		return err
	}

	if err := s.otpStore.VerifyResetToken(ctx, email, token); err != nil {
		s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditPasswordChange, nil).WithClient(client).
			WithFailure("invalid reset token").WithMetadata("email", email))
		return err
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	account.PasswordHash = hash
	account.FailedLoginAttempts = 0
	account.LockedUntil = nil
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	if err := s.sessionSvc.RevokeAll(ctx, account.ID); err != nil {
		log.Printf("RESET_REVOKE_ALL_FAILED: account_id=%d error=%v", account.ID, err)
	}

	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditPasswordChange, &account.ID).WithClient(client))
	return nil
}

// Profile implements domain.AuthService
func (s *AuthServiceImpl) Profile(ctx context.Context, accountID uint) (*domain.Account, error) {
	return s.accountRepo.FindByID(ctx, accountID)
}

// UnlockAccount implements domain.AuthService: an explicit admin action.
func (s *AuthServiceImpl) UnlockAccount(ctx context.Context, accountID uint, client domain.ClientContext) error {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	account.FailedLoginAttempts = 0
	account.LockedUntil = nil
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditAccountUnlocked, &accountID).WithClient(client))
	return nil
}

// establish mints the access token and refresh session for an account
// that has already proven its identity.
func (s *AuthServiceImpl) establish(ctx context.Context, account *domain.Account, client domain.ClientContext, method string) (*domain.AuthResult, error) {
	now := time.Now()
	account.LastLoginAt = &now
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	session, rawToken, err := s.sessionSvc.Create(ctx, account.ID, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.tokenSvc.Issue(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &domain.AuthResult{
		Account:      account,
		AccessToken:  accessToken,
		RefreshToken: rawToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.tokenSvc.TTL().Seconds()),
	}, nil
}

func (s *AuthServiceImpl) issueOTP(ctx context.Context, id domain.Identifier, accountID *uint, client domain.ClientContext) (string, error) {
	code, err := s.otpStore.Issue(ctx, id)
	if err != nil {
		return "", err
	}

	message := fmt.Sprintf("Your verification code is: %s. Valid for 10 minutes.", code)
	if id.IsPhone() {
		err = s.notificationSvc.SendSMS(id.Value, message)
	} else {
		err = s.notificationSvc.SendEmail(id.Value, "Your verification code", message)
	}
	if err != nil {
		return "", fmt.Errorf("failed to deliver OTP: %w", err)
	}

	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditOTPIssued, accountID).WithClient(client).
		WithMetadata("identifier", id.String()))
	obs.OTPIssued.Inc()
	return code, nil
}

// registerFailedAttempt bumps the failure counter and locks the
// account once the counter reaches the threshold.
func (s *AuthServiceImpl) registerFailedAttempt(ctx context.Context, account *domain.Account, client domain.ClientContext, now time.Time) {
	account.FailedLoginAttempts++
	if account.FailedLoginAttempts >= s.cfg.LockoutThreshold {
		lockedUntil := now.Add(s.cfg.LockoutDuration)
		account.LockedUntil = &lockedUntil
		s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditAccountLocked, &account.ID).WithClient(client).
			WithMetadata("failed_attempts", account.FailedLoginAttempts).
			WithMetadata("locked_until", lockedUntil.UTC().Format(time.RFC3339)))
		obs.AccountLockouts.Inc()
	}
	if err := s.accountRepo.Update(ctx, account); err != nil {
		log.Printf("LOGIN_COUNTER_UPDATE_FAILED: account_id=%d error=%v", account.ID, err)
	}
	s.recordLoginFailure(ctx, &account.ID, client, "password mismatch")
}

// clearFailures resets the lockout state after a successful login.
func (s *AuthServiceImpl) clearFailures(ctx context.Context, account *domain.Account) {
	if account.FailedLoginAttempts == 0 && account.LockedUntil == nil {
		return
	}
	account.FailedLoginAttempts = 0
	account.LockedUntil = nil
	if err := s.accountRepo.Update(ctx, account); err != nil {
		log.Printf("LOGIN_COUNTER_RESET_FAILED: account_id=%d error=%v", account.ID, err)
	}
}

func (s *AuthServiceImpl) recordLoginFailure(ctx context.Context, accountID *uint, client domain.ClientContext, reason string) {
	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditLoginFailure, accountID).WithClient(client).
		WithFailure(reason))
	obs.LoginAttempts.WithLabelValues("password", "failure").Inc()
}

func (s *AuthServiceImpl) recordOTPFailure(ctx context.Context, id domain.Identifier, accountID *uint, client domain.ClientContext, err error) {
	s.auditSvc.Record(ctx, domain.NewAuditEvent(domain.AuditOTPFailed, accountID).WithClient(client).
		WithFailure(err.Error()).WithMetadata("identifier", id.String()))
	obs.OTPVerifications.WithLabelValues("failure").Inc()
	obs.LoginAttempts.WithLabelValues("otp", "failure").Inc()
}

func (s *AuthServiceImpl) checkStrength(password string) error {
	result := s.passwordSvc.ValidateStrength(password)
	if !result.Valid {
		return &domain.ValidationError{Reasons: result.Reasons}
	}
	return nil
}

// signupRole resolves a client-requested role. Admin accounts are
// provisioned out of band and can never be self-assigned through a
// signup or OTP-verify call.
func signupRole(requested string) (string, error) {
	switch requested {
	case "", domain.RoleUser:
		return domain.RoleUser, nil
	case domain.RoleVendor:
		return domain.RoleVendor, nil
	case domain.RoleAdmin:
		return "", domain.ErrInsufficientRole
	default:
		return "", &domain.ValidationError{Reasons: []string{"unknown role: " + requested}}
	}
}
