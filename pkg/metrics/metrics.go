package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SignInAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authgw", Name: "sign_in_attempts_total", Help: "Number of sign-in attempts by outcome."},
		[]string{"outcome"},
	)
	SignUps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authgw", Name: "sign_ups_total", Help: "Number of signups by outcome."},
		[]string{"outcome"},
	)
	ProfileReconciliations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authgw", Name: "profile_reconciliations_total", Help: "Number of profile reconciliation passes by outcome."},
		[]string{"outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authgw", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authgw", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(SignInAttempts)
	reg.MustRegister(SignUps)
	reg.MustRegister(ProfileReconciliations)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
