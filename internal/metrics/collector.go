package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

const (
	// Namespace for all metrics
	namespace = "dyson"
	// Subsystem for engine metrics
	subsystem = "engine"
)

// Collector mirrors engine notifications into Prometheus metrics
type Collector struct {
	registry *prometheus.Registry

	resourceAmount *prometheus.GaugeVec
	productionRate *prometheus.GaugeVec
	solarCapture   prometheus.Gauge
	era            prometheus.Gauge
	buildSpeed     prometheus.Gauge

	structuresBuilt   *prometheus.CounterVec
	researchCompleted prometheus.Counter
	milestonesClaimed prometheus.Counter
	offlineSeconds    prometheus.Counter

	tickDuration prometheus.Histogram
}

// NewCollector creates the collector and registers it on registry
func NewCollector(registry *prometheus.Registry) (*Collector, error) {
	c := &Collector{
		registry: registry,

		resourceAmount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resource_amount",
				Help:      "Current quantity of each resource",
			},
			[]string{"resource"},
		),
		productionRate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "production_rate",
				Help:      "Production per simulated second of each resource",
			},
			[]string{"resource"},
		),
		solarCapture: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "solar_capture_ratio",
			Help:      "Fraction of the star output captured",
		}),
		era: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "era",
			Help:      "Current era",
		}),
		buildSpeed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "build_speed",
			Help:      "Current construction speed multiplier",
		}),
		structuresBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "structures_built_total",
				Help:      "Total structures completed by type and completion mode",
			},
			[]string{"structure", "mode"},
		),
		researchCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "research_completed_total",
			Help:      "Total technologies researched",
		}),
		milestonesClaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "milestones_claimed_total",
			Help:      "Total milestones claimed",
		}),
		offlineSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "offline_effective_seconds_total",
			Help:      "Effective seconds credited by offline reconciliation",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in one engine tick",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}

	metrics := []prometheus.Collector{
		c.resourceAmount,
		c.productionRate,
		c.solarCapture,
		c.era,
		c.buildSpeed,
		c.structuresBuilt,
		c.researchCompleted,
		c.milestonesClaimed,
		c.offlineSeconds,
		c.tickDuration,
	}
	for _, metric := range metrics {
		if err := registry.Register(metric); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Bind subscribes the collector to the bus and returns the unsubscribe func
func (c *Collector) Bind(bus *events.Bus) func() {
	return bus.SubscribeAll(c.observe)
}

// ObserveTick records the wall time of one tick
func (c *Collector) ObserveTick(d time.Duration) {
	c.tickDuration.Observe(d.Seconds())
}

// SetEra seeds the era gauge, e.g. after a restore
func (c *Collector) SetEra(era int) {
	c.era.Set(float64(era))
}

func (c *Collector) observe(ev events.Event) {
	switch p := ev.Payload.(type) {
	case events.ResourceChanged:
		c.resourceAmount.WithLabelValues(string(p.Resource)).Set(p.Amount)
	case events.ProductionUpdated:
		p.Snapshot.Rates.Each(func(rt models.ResourceType, v float64) {
			c.productionRate.WithLabelValues(string(rt)).Set(v)
		})
		c.solarCapture.Set(p.Snapshot.SolarCaptureContribution)
		c.buildSpeed.Set(p.Snapshot.BuildSpeed)
	case events.ConstructionCompleted:
		mode := "timed"
		if p.Auto {
			mode = "auto"
		}
		c.structuresBuilt.WithLabelValues(string(p.Structure), mode).Inc()
	case events.ResearchCompleted:
		c.researchCompleted.Inc()
	case events.Milestone:
		c.milestonesClaimed.Inc()
	case events.EraChanged:
		c.era.Set(float64(p.To))
	case events.OfflineReport:
		c.offlineSeconds.Add(p.EffectiveSeconds)
	}
}

// Handler exposes the registry over HTTP
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve runs the metrics endpoint until ctx is cancelled
func (c *Collector) Serve(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
