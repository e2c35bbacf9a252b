package metrics

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginsTotal counts login attempts by outcome (success, failure).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// PostsCreatedTotal counts questions posted.
	PostsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total number of questions created",
		},
	)

	// PostsDeletedTotal counts questions deleted by their owners.
	PostsDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_deleted_total",
			Help: "Total number of questions deleted",
		},
	)

	// ResetMailsSentTotal counts password reset mails handed to the mailer.
	ResetMailsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reset_mails_sent_total",
			Help: "Total number of password reset mails sent",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LoginsTotal,
			PostsCreatedTotal, PostsDeletedTotal, ResetMailsSentTotal)
	})
}

// NormalizePath reduces label cardinality and keeps secrets out of the
// metrics endpoint. Reset-token and username segments are masked entirely:
// the token is a live credential and must never appear on /metrics, and both
// segments are unbounded as label values. Numeric segments become {id},
// e.g. /soru/123/duzenle -> /soru/{id}/duzenle.
func NormalizePath(path string) string {
	if strings.HasPrefix(path, "/sifre_yenileme/") {
		return "/sifre_yenileme/{token}"
	}
	if strings.HasPrefix(path, "/kullanici/") {
		return "/kullanici/{username}"
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/{file}"
	}
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}
