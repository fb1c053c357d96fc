// Package metrics exports aggregation diagnostics as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/leaderboard"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/logger"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
)

const namespace = "jlb"

// Collector implements leaderboard.Observer by updating Prometheus metrics.
type Collector struct {
	snapshots   prometheus.Counter
	daysSkipped *prometheus.CounterVec
	entriesSkip prometheus.Counter
	entriesAcc  prometheus.Counter
	duration    prometheus.Histogram
	size        prometheus.Gauge
	leader      prometheus.Gauge
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		snapshots: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_aggregated_total",
			Help:      "Number of snapshots ranked.",
		}),
		daysSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "days_skipped_total",
			Help:      "Day records that did not contribute to a ranking, by reason.",
		}, []string{"reason"}),
		entriesSkip: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_skipped_total",
			Help:      "Journalist entries dropped for lacking an id.",
		}),
		entriesAcc: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_accumulated_total",
			Help:      "Journalist entries added to a running total.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregate_duration_seconds",
			Help:      "Time spent ranking one snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		size: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "leaderboard_size",
			Help:      "Journalists in the latest ranking.",
		}),
		leader: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "leader_points",
			Help:      "Points of the top journalist in the latest ranking, 0 when empty.",
		}),
	}
}

// DaySkipped counts a skipped day under its reason.
func (c *Collector) DaySkipped(_ string, reason leaderboard.SkipReason) {
	c.daysSkipped.WithLabelValues(string(reason)).Inc()
}

// EntrySkipped counts an entry without an id.
func (c *Collector) EntrySkipped(string, int) {
	c.entriesSkip.Inc()
}

// EntryAccumulated counts an entry added to a total.
func (c *Collector) EntryAccumulated(string, models.ContributorTotal, float64) {
	c.entriesAcc.Inc()
}

// Aggregated records the run duration and the shape of the result.
func (c *Collector) Aggregated(lb models.Leaderboard, elapsed time.Duration) {
	c.snapshots.Inc()
	c.duration.Observe(elapsed.Seconds())
	c.size.Set(float64(len(lb.Journalists)))

	leader, ok := lb.Leader()
	if !ok {
		c.leader.Set(0)
		return
	}
	c.leader.Set(leader.Points)
}

// Handler returns the /metrics handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown failed", "error", err)
		}
	}()

	logger.Info("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

var _ leaderboard.Observer = (*Collector)(nil)
