// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	DispatchTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_ticks_total",
		Help: "Total dispatcher ticks, including no-op ticks",
	})

	CampaignsClaimed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campaigns_claimed_total",
		Help: "Campaigns claimed for sending",
	})

	CampaignsFinalized = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campaigns_finalized_total",
		Help: "Campaigns reaching a terminal status",
	}, []string{"status"})

	MessagesAttempted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "messages_attempted_total",
		Help: "Per-recipient send attempts",
	})

	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "messages_sent_total",
		Help: "Per-recipient sends that succeeded",
	})

	MessagesFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "messages_failed_total",
		Help: "Per-recipient sends that failed",
	})

	LandingVisits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landing_visits_total",
		Help: "Recorded landing-page visits",
	})

	Submissions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "submissions_total",
		Help: "Recorded form submissions",
	})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(
		DispatchTicks,
		CampaignsClaimed,
		CampaignsFinalized,
		MessagesAttempted,
		MessagesSent,
		MessagesFailed,
		LandingVisits,
		Submissions,
		httpRequestsTotal,
		httpRequestDuration,
	)
}

// Instrument is a chi-compatible middleware recording request counts and
// latency.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		httpRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
