package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniforum_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// OTPVerifications counts OTP verification attempts and their outcome
	// (success|invalid|expired|missing|not_found).
	OTPVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniforum_otp_verifications_total",
			Help: "Total number of email OTP verification attempts",
		},
		[]string{"result"},
	)

	// VotesCast counts vote operations by subject kind and direction.
	VotesCast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniforum_votes_cast_total",
			Help: "Total number of votes applied to questions and answers",
		},
		[]string{"subject", "type"},
	)

	// QuestionViews counts view-counter increments from question detail reads.
	QuestionViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uniforum_question_views_total",
			Help: "Total number of question detail views",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uniforum_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
