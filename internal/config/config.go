package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
	GinMode     string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	ResendWindow string `yaml:"resend_window"`
	ResetTTL     string `yaml:"reset_ttl"`
}

type SessionConfig struct {
	TTL         string `yaml:"ttl"`
	IdleTimeout string `yaml:"idle_timeout"`
}

type LockoutConfig struct {
	Threshold int    `yaml:"threshold"`
	Duration  string `yaml:"duration"`
}

type AuditConfig struct {
	Retention  string `yaml:"retention"`
	BufferSize int    `yaml:"buffer_size"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Session  SessionConfig  `yaml:"session"`
	Lockout  LockoutConfig  `yaml:"lockout"`
	Audit    AuditConfig    `yaml:"audit"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port        string
	Environment string
	DSN         string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	OTP_TTL          time.Duration
	OTP_Length       int
	OTP_ResendWindow time.Duration
	ResetTokenTTL    time.Duration

	SessionTTL         time.Duration
	SessionIdleTimeout time.Duration

	LockoutThreshold int
	LockoutDuration  time.Duration

	AuditRetention   time.Duration
	AuditBufferSize  int

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	CasbinModelPath string
}

// Production reports whether the service runs in production mode.
// OTP codes and reset links are echoed in HTTP responses only when it
// returns false.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom(env("EVENTAUTH_CONFIG", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	tokenTTL, err := parseDuration(configFile.JWT.TTL, "jwt.ttl")
	if err != nil {
		return nil, err
	}
	otpTTL, err := parseDuration(configFile.OTP.TTL, "otp.ttl")
	if err != nil {
		return nil, err
	}
	resendWindow, err := parseDuration(configFile.OTP.ResendWindow, "otp.resend_window")
	if err != nil {
		return nil, err
	}
	resetTTL, err := parseDuration(configFile.OTP.ResetTTL, "otp.reset_ttl")
	if err != nil {
		return nil, err
	}
	sessionTTL, err := parseDuration(configFile.Session.TTL, "session.ttl")
	if err != nil {
		return nil, err
	}
	idleTimeout, err := parseDuration(configFile.Session.IdleTimeout, "session.idle_timeout")
	if err != nil {
		return nil, err
	}
	lockoutDuration, err := parseDuration(configFile.Lockout.Duration, "lockout.duration")
	if err != nil {
		return nil, err
	}
	auditRetention, err := parseDuration(configFile.Audit.Retention, "audit.retention")
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               fmt.Sprintf("%d", configFile.App.Port),
		Environment:        env("EVENTAUTH_ENV", configFile.App.Environment),
		DSN:                env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:          env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:      env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:            configFile.Redis.DB,
		JWTSecret:          env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:          configFile.JWT.Issuer,
		TokenTTL:           tokenTTL,
		OTP_TTL:            otpTTL,
		OTP_Length:         configFile.OTP.Length,
		OTP_ResendWindow:   resendWindow,
		ResetTokenTTL:      resetTTL,
		SessionTTL:         sessionTTL,
		SessionIdleTimeout: idleTimeout,
		LockoutThreshold:   configFile.Lockout.Threshold,
		LockoutDuration:    lockoutDuration,
		AuditRetention:     auditRetention,
		AuditBufferSize:    configFile.Audit.BufferSize,
		TwilioSID:          env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:        env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:         env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		CasbinModelPath:    configFile.Casbin.ModelPath,
	}, nil
}

func parseDuration(s, field string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	return d, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
