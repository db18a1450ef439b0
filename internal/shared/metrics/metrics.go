package metrics

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the prometheus registry for the service. A nil Recorder is a
// valid no-op so components can be built without instrumentation in tests.
type Recorder struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	leaveDecisions  *prometheus.CounterVec
	balanceSkips    prometheus.Counter
	chatMessages    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	outboxPublished *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	leaveDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_decisions_total",
		Help: "Leave requests decided by outcome",
	}, []string{"status"})

	balanceSkips := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leave_balance_skips_total",
		Help: "Approvals that found no balance row to charge",
	})

	chatMessages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Chat messages sent by kind",
	}, []string{"kind"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by cache name and result",
	}, []string{"cache", "result"})

	outboxPublished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_total",
		Help: "Outbox events processed by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration, requestTotal, leaveDecisions, balanceSkips,
		chatMessages, cacheLookups, outboxPublished, goroutines,
	)

	return &Recorder{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		leaveDecisions:  leaveDecisions,
		balanceSkips:    balanceSkips,
		chatMessages:    chatMessages,
		cacheLookups:    cacheLookups,
		outboxPublished: outboxPublished,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	r.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	r.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

func (r *Recorder) LeaveDecided(status string) {
	if r == nil {
		return
	}
	r.leaveDecisions.WithLabelValues(status).Inc()
}

func (r *Recorder) BalanceSkipped() {
	if r == nil {
		return
	}
	r.balanceSkips.Inc()
}

func (r *Recorder) ChatMessageSent(kind string) {
	if r == nil {
		return
	}
	r.chatMessages.WithLabelValues(kind).Inc()
}

func (r *Recorder) CacheLookup(cache string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(cache, result).Inc()
}

func (r *Recorder) OutboxProcessed(result string) {
	if r == nil {
		return
	}
	r.outboxPublished.WithLabelValues(result).Inc()
}
