package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/eventauth/domain"
)

// expiredGrace keeps a logically expired entry around in Redis so a
// late verification can report "expired" instead of "not found". The
// entry is deleted on first access after expiry.
const expiredGrace = time.Hour

// consumeScript deletes the key only if its value is unchanged since it
// was read, so two racing verifications cannot both succeed and an
// overwritten code is never consumed by a stale verify.
var consumeScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// OTPServiceImpl implements domain.OTPStore backed by Redis. Values are
// stored as "code:expiryUnix"; Redis key TTL enforces an upper bound
// while the embedded expiry implements lazy per-access expiry.
type OTPServiceImpl struct {
	client *redis.Client
	config OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	ResendWindow time.Duration
	ResetTTL     time.Duration
}

// NewOTPService creates a new Redis-backed OTP store
func NewOTPService(client *redis.Client, config OTPConfig) domain.OTPStore {
	return &OTPServiceImpl{client: client, config: config}
}

// Issue implements domain.OTPStore. A plain SET overwrites any prior
// live code for the identifier, which invalidates it.
func (s *OTPServiceImpl) Issue(ctx context.Context, id domain.Identifier) (string, error) {
	otpKey := s.otpKey(id)
	resendKey := "otp:res:" + id.String()

	throttled, err := s.client.Exists(ctx, resendKey).Result()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if throttled > 0 {
		return "", domain.ErrOTPResendLimit
	}

	code, err := s.generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}

	if err := s.store(ctx, otpKey, code, s.config.TTL); err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, resendKey, 1, s.config.ResendWindow).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	return code, nil
}

// Verify implements domain.OTPStore
func (s *OTPServiceImpl) Verify(ctx context.Context, id domain.Identifier, candidate string) error {
	return s.consume(ctx, s.otpKey(id), candidate)
}

// IssueResetToken implements domain.OTPStore. Reset tokens are opaque
// hex strings stored under a separate prefix with their own TTL.
func (s *OTPServiceImpl) IssueResetToken(ctx context.Context, email string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.store(ctx, s.resetKey(email), token, s.config.ResetTTL); err != nil {
		return "", err
	}
	return token, nil
}

// PeekResetToken implements domain.OTPStore. It runs the same checks
// as VerifyResetToken but leaves a matching token in place.
func (s *OTPServiceImpl) PeekResetToken(ctx context.Context, email, candidate string) error {
	_, err := s.check(ctx, s.resetKey(email), candidate)
	return err
}

// VerifyResetToken implements domain.OTPStore
func (s *OTPServiceImpl) VerifyResetToken(ctx context.Context, email, candidate string) error {
	return s.consume(ctx, s.resetKey(email), candidate)
}

func (s *OTPServiceImpl) otpKey(id domain.Identifier) string {
	return "otp:code:" + id.String()
}

func (s *OTPServiceImpl) resetKey(email string) string {
	return "otp:reset:" + strings.ToLower(email)
}

func (s *OTPServiceImpl) store(ctx context.Context, key, code string, ttl time.Duration) error {
	value := fmt.Sprintf("%s:%d", code, time.Now().Add(ttl).Unix())
	if err := s.client.Set(ctx, key, value, ttl+expiredGrace).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return nil
}

// check validates the candidate against the stored value without
// consuming it: not found, lazily expired, mismatched, or matched. A
// matched check returns the raw stored value for a follow-up consume.
func (s *OTPServiceImpl) check(ctx context.Context, key, candidate string) (string, error) {
	stored, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", domain.ErrOTPNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	code, expiry, err := splitValue(stored)
	if err != nil {
		s.client.Del(ctx, key)
		return "", domain.ErrOTPNotFound
	}

	if time.Now().Unix() > expiry {
		s.client.Del(ctx, key)
		return "", domain.ErrOTPExpired
	}

	if code != candidate {
		return "", domain.ErrOTPMismatch
	}
	return stored, nil
}

// consume implements single-use verification: check, then delete the
// entry if and only if it is still the checked value.
func (s *OTPServiceImpl) consume(ctx context.Context, key, candidate string) error {
	stored, err := s.check(ctx, key, candidate)
	if err != nil {
		return err
	}

	deleted, err := consumeScript.Run(ctx, s.client, []string{key}, stored).Int()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if deleted == 0 {
		// Consumed or overwritten by a concurrent request.
		return domain.ErrOTPNotFound
	}
	return nil
}

func splitValue(value string) (code string, expiry int64, err error) {
	idx := strings.LastIndex(value, ":")
	if idx < 0 {
		return "", 0, fmt.Errorf("malformed otp value")
	}
	expiry, err = strconv.ParseInt(value[idx+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed otp expiry: %w", err)
	}
	return value[:idx], expiry, nil
}

// generateCode draws each digit uniformly, so leading zeros are as
// likely as any other digit.
func (s *OTPServiceImpl) generateCode() (string, error) {
	digits := make([]byte, s.config.Length)
	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}
