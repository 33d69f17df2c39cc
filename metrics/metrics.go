package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	tasksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "podcastgen_tasks_created_total",
			Help: "Tasks inserted into the store.",
		},
	)

	enqueueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "podcastgen_enqueue_total",
			Help: "Queue sends by result (ok/error).",
		},
		[]string{"result"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "podcastgen_http_request_duration_seconds",
			Help:    "HTTP request latency by method, path and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(tasksCreated, enqueueTotal, httpDuration)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func TaskCreated() {
	tasksCreated.Inc()
}

func EnqueueResult(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	enqueueTotal.WithLabelValues(result).Inc()
}

func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	httpDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
