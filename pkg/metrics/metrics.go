package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Contact form metrics
	ContactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Total number of contact form submissions by outcome",
	}, []string{"outcome"})

	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_mail_send_success_total",
		Help: "Total number of notifications handed to the SMTP relay",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_mail_send_failure_total",
		Help: "Total number of notifications the SMTP relay did not accept",
	}, []string{"host"})
	MailSendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contact_mail_send_duration_seconds",
		Help:    "Time spent dialing, authenticating and sending one notification",
		Buckets: prometheus.DefBuckets,
	}, []string{"host"})

	// Rate limit metrics
	RateLimitRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"route"})
	RateLimitStoreErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_rate_limit_store_errors_total",
		Help: "Total number of rate limit store failures that fell back to memory",
	}, []string{"store"})
)

func init() {
	prometheus.MustRegister(ContactSubmissions)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(MailSendDuration)
	prometheus.MustRegister(RateLimitRejections)
	prometheus.MustRegister(RateLimitStoreErrors)
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
