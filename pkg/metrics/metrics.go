// Package metrics defines the Prometheus collectors for the completion
// server and exposes an HTTP handler for scraping.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/felixge/fgprof"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wordrank"

// StatsSource is anything reporting cache counters the way
// autocomplete.Cached does.
type StatsSource interface {
	Stats() map[string]int
}

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResultsCount    prometheus.Histogram
	IndexWords      prometheus.Gauge
	WordsAdded      prometheus.Counter
}

// New creates the collectors on a private registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total requests by action and status (ok, invalid, error).",
			},
			[]string{"action", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request latency in seconds.",
				Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"action"},
		),
		ResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "results_count",
				Help:      "Number of suggestions returned per completion.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		IndexWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_words",
				Help:      "Number of words held by the index.",
			},
		),
		WordsAdded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "words_added_total",
				Help:      "Words inserted or re-weighted after the index was built.",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ResultsCount,
		m.IndexWords,
		m.WordsAdded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// WatchCache exports the counters of a query cache. Values are read at
// scrape time.
func (m *Metrics) WatchCache(src StatsSource) error {
	if m == nil {
		return nil
	}
	stat := func(key string) func() float64 {
		return func() float64 { return float64(src.Stats()[key]) }
	}
	return errors.Join(
		m.registry.Register(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of query cache hits.",
		}, stat("cacheHits"))),
		m.registry.Register(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of query cache misses.",
		}, stat("cacheMisses"))),
		m.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Number of cached query results.",
		}, stat("cacheEntries"))),
	)
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(action, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(action, status).Inc()
	m.RequestDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// ObserveResults records the size of one completion result.
func (m *Metrics) ObserveResults(n int) {
	if m == nil {
		return
	}
	m.ResultsCount.Observe(float64(n))
}

// SetIndexWords sets the index size gauge.
func (m *Metrics) SetIndexWords(n int) {
	if m == nil {
		return
	}
	m.IndexWords.Set(float64(n))
}

// AddedWord counts a successful insertion.
func (m *Metrics) AddedWord() {
	if m == nil {
		return
	}
	m.WordsAdded.Inc()
}

// Handler returns the scrape handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// StartServer serves /metrics on addr until ctx is cancelled, along with a
// wall-clock profiler at /debug/fgprof. It returns once the listener is
// bound, with the bound address.
func (m *Metrics) StartServer(ctx context.Context, addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/debug/fgprof", fgprof.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Metrics server stopped: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof("Serving metrics on http://%s/metrics", ln.Addr())
	return ln.Addr(), nil
}
