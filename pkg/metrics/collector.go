/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metrics

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carverauto/sensora/pkg/models"
)

const (
	namespace = "sensora"
	meterName = "sensora.benchmark"

	metricSweepsTotal     = "benchmark_sweeps_total"
	metricSweepsRejected  = "benchmark_sweeps_rejected_total"
	metricSweepDuration   = "benchmark_sweep_duration_seconds"
	metricSweepRunning    = "benchmark_sweep_running"
	metricLastOnline      = "benchmark_last_online_devices"
	metricLastOffline     = "benchmark_last_offline_devices"
	metricProbesTotal     = "probe_results_total"
	metricProbeRTT        = "probe_rtt_seconds"
	metricIngestMessages  = "ingest_messages_total"
	labelOutcome          = "outcome"
	labelMethod           = "method"
	outcomeIngestAccepted = "accepted"
	outcomeIngestDropped  = "dropped"
)

// Collector implements Recorder on top of a Prometheus registry and the
// global OTel meter provider.
type Collector struct {
	registry *prometheus.Registry

	sweeps        prometheus.Counter
	sweepRejected prometheus.Counter
	sweepDuration prometheus.Histogram
	sweepRunning  prometheus.Gauge
	lastOnline    prometheus.Gauge
	lastOffline   prometheus.Gauge
	probes        *prometheus.CounterVec
	probeRTT      *prometheus.HistogramVec
	ingest        *prometheus.CounterVec

	otelSweeps   metric.Int64Counter
	otelDuration metric.Float64Histogram
	otelProbes   metric.Int64Counter
	otelIngest   metric.Int64Counter

	online  atomic.Int64
	offline atomic.Int64
}

// NewCollector registers every instrument on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      metricSweepsTotal,
			Help:      "Completed benchmark sweeps",
		}),
		sweepRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      metricSweepsRejected,
			Help:      "Benchmark requests rejected because a sweep was running",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      metricSweepDuration,
			Help:      "Wall time of benchmark sweeps",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		sweepRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      metricSweepRunning,
			Help:      "1 while a benchmark sweep is in progress",
		}),
		lastOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      metricLastOnline,
			Help:      "Devices found ONLINE by the last sweep",
		}),
		lastOffline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      metricLastOffline,
			Help:      "Devices found OFFLINE by the last sweep",
		}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      metricProbesTotal,
			Help:      "Probe results by method and outcome",
		}, []string{labelMethod, labelOutcome}),
		probeRTT: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      metricProbeRTT,
			Help:      "Round trip time of successful probes",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{labelMethod}),
		ingest: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      metricIngestMessages,
			Help:      "Telemetry messages handled by the ingestion cache",
		}, []string{labelOutcome}),
	}

	c.registry.MustRegister(
		c.sweeps,
		c.sweepRejected,
		c.sweepDuration,
		c.sweepRunning,
		c.lastOnline,
		c.lastOffline,
		c.probes,
		c.probeRTT,
		c.ingest,
	)

	c.initMeter()

	return c
}

func (c *Collector) initMeter() {
	meter := otel.Meter(meterName)

	var err error

	if c.otelSweeps, err = meter.Int64Counter(
		namespace+"_"+metricSweepsTotal,
		metric.WithDescription("Completed benchmark sweeps"),
	); err != nil {
		otel.Handle(err)
	}

	if c.otelDuration, err = meter.Float64Histogram(
		namespace+"_"+metricSweepDuration,
		metric.WithDescription("Wall time of benchmark sweeps"),
		metric.WithUnit("s"),
	); err != nil {
		otel.Handle(err)
	}

	if c.otelProbes, err = meter.Int64Counter(
		namespace+"_"+metricProbesTotal,
		metric.WithDescription("Probe results by method and outcome"),
	); err != nil {
		otel.Handle(err)
	}

	if c.otelIngest, err = meter.Int64Counter(
		namespace+"_"+metricIngestMessages,
		metric.WithDescription("Telemetry messages handled by the ingestion cache"),
	); err != nil {
		otel.Handle(err)
	}

	online, err := meter.Int64ObservableGauge(
		namespace+"_"+metricLastOnline,
		metric.WithDescription("Devices found ONLINE by the last sweep"),
	)
	if err != nil {
		otel.Handle(err)
		return
	}

	offline, err := meter.Int64ObservableGauge(
		namespace+"_"+metricLastOffline,
		metric.WithDescription("Devices found OFFLINE by the last sweep"),
	)
	if err != nil {
		otel.Handle(err)
		return
	}

	if _, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(online, c.online.Load())
		observer.ObserveInt64(offline, c.offline.Load())

		return nil
	}, online, offline); err != nil {
		otel.Handle(err)
	}
}

// Registry exposes the Prometheus registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) SweepStarted(_ context.Context) {
	c.sweepRunning.Set(1)
}

func (c *Collector) SweepRejected(_ context.Context) {
	c.sweepRejected.Inc()
}

func (c *Collector) SweepFinished(ctx context.Context, report *models.DetectReport, elapsed time.Duration) {
	c.sweepRunning.Set(0)
	c.sweeps.Inc()
	c.sweepDuration.Observe(elapsed.Seconds())

	if report != nil {
		c.lastOnline.Set(float64(report.OnlineCount))
		c.lastOffline.Set(float64(report.OfflineCount))
		c.online.Store(report.OnlineCount)
		c.offline.Store(report.OfflineCount)
	}

	if c.otelSweeps != nil {
		c.otelSweeps.Add(ctx, 1)
	}

	if c.otelDuration != nil {
		c.otelDuration.Record(ctx, elapsed.Seconds())
	}
}

func (c *Collector) ProbeCompleted(ctx context.Context, method, outcome string, rtt time.Duration) {
	c.probes.WithLabelValues(method, outcome).Inc()

	if rtt > 0 {
		c.probeRTT.WithLabelValues(method).Observe(rtt.Seconds())
	}

	if c.otelProbes != nil {
		c.otelProbes.Add(ctx, 1, metric.WithAttributes(
			attribute.String(labelMethod, method),
			attribute.String(labelOutcome, outcome),
		))
	}
}

func (c *Collector) IngestMessage(ctx context.Context, accepted bool) {
	outcome := outcomeIngestDropped
	if accepted {
		outcome = outcomeIngestAccepted
	}

	c.ingest.WithLabelValues(outcome).Inc()

	if c.otelIngest != nil {
		c.otelIngest.Add(ctx, 1, metric.WithAttributes(attribute.String(labelOutcome, outcome)))
	}
}
