// Package metrics exposes the board's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fkcurrie/transit-led-golang/internal/types"
)

var modes = []string{"splash", "version", "board", "no_data"}

// Collector holds the board's Prometheus metrics on a private registry
type Collector struct {
	reg *prometheus.Registry

	Fetches       *prometheus.CounterVec   // endpoint, result
	FetchDuration *prometheus.HistogramVec // endpoint

	Redraws     prometheus.Counter
	ScrollWraps prometheus.Counter
	Mode        *prometheus.GaugeVec // mode label, 1 for the active mode

	TickDuration prometheus.Histogram

	TickInterval        prometheus.Gauge // seconds
	ClockRefreshSeconds prometheus.Gauge
	DataRefreshSeconds  prometheus.Gauge
}

// NewCollector registers every metric and records the configured cadence
func NewCollector(sched types.ScheduleConfig) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "board_fetches_total",
			Help: "Transit API requests by endpoint and result.",
		}, []string{"endpoint", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "board_fetch_duration_seconds",
			Help:    "Transit API request latency.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"endpoint"}),
		Redraws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "board_redraws_total",
			Help: "Full board redraws caused by a change of trip.",
		}),
		ScrollWraps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "board_scroll_wraps_total",
			Help: "Times the stop list scrolled off the top and restarted.",
		}),
		Mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "board_mode",
			Help: "1 for the active display mode, 0 otherwise.",
		}, []string{"mode"}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "board_tick_duration_seconds",
			Help:    "Duration of one loop tick including sleep and blocking fetches.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		TickInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_tick_interval_seconds",
			Help: "Configured tick period in seconds.",
		}),
		ClockRefreshSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_clock_refresh_seconds",
			Help: "Nominal clock refresh period in seconds.",
		}),
		DataRefreshSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_data_refresh_seconds",
			Help: "Nominal departure refresh period in seconds.",
		}),
	}

	reg.MustRegister(
		c.Fetches, c.FetchDuration,
		c.Redraws, c.ScrollWraps, c.Mode,
		c.TickDuration,
		c.TickInterval, c.ClockRefreshSeconds, c.DataRefreshSeconds,
	)

	tick := sched.Tick()
	c.TickInterval.Set(tick.Seconds())
	c.ClockRefreshSeconds.Set((tick * time.Duration(sched.ClockRefreshTicks)).Seconds())
	c.DataRefreshSeconds.Set((tick * time.Duration(sched.DataRefreshTicks)).Seconds())
	for _, m := range modes {
		c.Mode.WithLabelValues(m).Set(0)
	}

	return c
}

// ObserveFetch records one transit API request
func (c *Collector) ObserveFetch(endpoint, result string, d time.Duration) {
	c.Fetches.WithLabelValues(endpoint, result).Inc()
	c.FetchDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RedrawInc counts a full board redraw
func (c *Collector) RedrawInc() { c.Redraws.Inc() }

// ScrollWrapInc counts a stop list wrap
func (c *Collector) ScrollWrapInc() { c.ScrollWraps.Inc() }

// SetMode marks mode as the active display mode
func (c *Collector) SetMode(mode string) {
	for _, m := range modes {
		v := 0.0
		if m == mode {
			v = 1
		}
		c.Mode.WithLabelValues(m).Set(v)
	}
}

// ObserveTick records how long one scheduler tick took
func (c *Collector) ObserveTick(d time.Duration) { c.TickDuration.Observe(d.Seconds()) }

// Handler serves the private registry
func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }
