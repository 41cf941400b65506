package rangeverify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricNameVerifyRequests   = "range_verify_requests_total"
	MetricNameVerifyRejections = "range_verify_rejections_total"

	LabelResult = "result"
	LabelReason = "reason"

	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultError    = "error"

	ReasonSettingsNotInitialized = "settings_not_initialized"
)

var (
	VerifyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameVerifyRequests,
			Help: "Number of range verification requests by result",
		},
		[]string{LabelResult},
	)

	VerifyRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameVerifyRejections,
			Help: "Number of rejected range verification requests by reason",
		},
		[]string{LabelReason},
	)
)
