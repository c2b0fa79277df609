package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_sessions_total",
			Help: "Total number of training session lifecycle events",
		},
		[]string{"event"},
	)

	EnrollmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_enrollments_total",
			Help: "Total number of class enrollment attempts by outcome",
		},
		[]string{"outcome"},
	)

	ClassChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_class_changes_total",
			Help: "Total number of group class create/update/delete operations",
		},
		[]string{"action"},
	)

	BookingConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_booking_conflicts_total",
			Help: "Total number of bookings rejected because a resource was busy",
		},
		[]string{"resource"},
	)

	AvailabilityUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_availability_updates_total",
			Help: "Total number of trainer availability replacements",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymdesk_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordSession(event string) {
	SessionsTotal.WithLabelValues(event).Inc()
}

func RecordEnrollment(outcome string) {
	EnrollmentsTotal.WithLabelValues(outcome).Inc()
}

func RecordClassChange(action string) {
	ClassChangesTotal.WithLabelValues(action).Inc()
}

func RecordBookingConflict(resource string) {
	BookingConflictsTotal.WithLabelValues(resource).Inc()
}

func RecordAvailabilityUpdate() {
	AvailabilityUpdatesTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
