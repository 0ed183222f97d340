// Package metrics exposes estimation runs as Prometheus metrics.
package metrics

import (
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/evtdim/internal/dimension"
)

const namespace = "evtdim"

// Collector records estimation progress and outcomes on its own registry.
// It is a progress.Sink, so it can be handed to dimension.WithProgress.
type Collector struct {
	reg *prometheus.Registry

	points    prometheus.Counter
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	meanDim   *prometheus.GaugeVec
	meanTheta *prometheus.GaugeVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Collector{
		reg: reg,
		points: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_total",
			Help:      "Points whose local dimension has been estimated",
		}),
		// Labels: extraction, status (ok, error)
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Batch estimation runs by outcome",
		}, []string{"extraction", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of batch estimation runs",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"extraction"}),
		meanDim: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_dimension",
			Help:      "Mean local dimension of the last successful run",
		}, []string{"extraction"}),
		meanTheta: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_extremal_index",
			Help:      "Mean extremal index of the last successful run with persistence",
		}, []string{"extraction"}),
	}
}

// Advance counts one finished point.
func (c *Collector) Advance() {
	c.points.Inc()
}

// ObserveRun records the outcome of one batch. res is ignored when err is set.
func (c *Collector) ObserveRun(extraction string, elapsed time.Duration, res *dimension.Result, err error) {
	c.duration.WithLabelValues(extraction).Observe(elapsed.Seconds())
	if err != nil || res == nil {
		c.runs.WithLabelValues(extraction, "error").Inc()
		return
	}
	c.runs.WithLabelValues(extraction, "ok").Inc()
	c.meanDim.WithLabelValues(extraction).Set(res.MeanDim())
	if th := res.MeanTheta(); !math.IsNaN(th) {
		c.meanTheta.WithLabelValues(extraction).Set(th)
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// Handler serves the collector in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
