// Package obs holds the service's Prometheus instrumentation.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventauth_login_attempts_total",
		Help: "Login attempts by method and outcome.",
	}, []string{"method", "outcome"})

	AccountLockouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventauth_account_lockouts_total",
		Help: "Accounts locked after exceeding the failed login threshold.",
	})

	OTPIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventauth_otp_issued_total",
		Help: "One-time codes issued.",
	})

	OTPVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventauth_otp_verifications_total",
		Help: "One-time code verification attempts by outcome.",
	}, []string{"outcome"})

	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventauth_sessions_created_total",
		Help: "Refresh sessions created.",
	})

	SessionsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventauth_sessions_revoked_total",
		Help: "Refresh sessions revoked.",
	})

	SessionsSwept = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventauth_sessions_swept_total",
		Help: "Sessions deleted by periodic sweeps.",
	}, []string{"reason"})

	AuditEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventauth_audit_events_dropped_total",
		Help: "Audit events dropped because the dispatch buffer was full.",
	})
)
