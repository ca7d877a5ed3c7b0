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

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/sensora/pkg/entity"
	"github.com/carverauto/sensora/pkg/events"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/metrics"
	"github.com/carverauto/sensora/pkg/models"
	"github.com/carverauto/sensora/pkg/probe"
	"github.com/carverauto/sensora/pkg/registry"
)

const defaultWriteTimeout = 5 * time.Second

var (
	errMissingAddress      = errors.New("device has no probe address")
	errMissingStatusEntity = errors.New("device has no status entity")
)

// Config tunes a sweep.
type Config struct {
	IntegrationID  string
	ProbeTimeout   time.Duration
	MaxConcurrency int
	WriteTimeout   time.Duration
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithPublisher sends detect_status and detect_report events to p.
func WithPublisher(p events.Publisher) Option {
	return func(o *Orchestrator) {
		o.publisher = p
	}
}

// WithRecorder records sweep and probe metrics.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// WithLatestReport seeds the report served before the first sweep, usually
// the newest one persisted by a previous run.
func WithLatestReport(report *models.DetectReport) Option {
	return func(o *Orchestrator) {
		if report != nil {
			o.latest.Store(report)
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// Orchestrator owns the DetectStatus and the latest DetectReport. Only one
// sweep runs at a time; overlapping requests are rejected.
type Orchestrator struct {
	cfg       Config
	registry  registry.Registry
	values    entity.ValueStore
	prober    probe.Prober
	publisher events.Publisher
	recorder  metrics.Recorder
	logger    logger.Logger
	now       func() time.Time

	running atomic.Bool
	status  atomic.Int64
	latest  atomic.Pointer[models.DetectReport]
}

func NewOrchestrator(
	cfg Config,
	reg registry.Registry,
	values entity.ValueStore,
	prober probe.Prober,
	log logger.Logger,
	opts ...Option,
) *Orchestrator {
	if cfg.IntegrationID == "" {
		cfg.IntegrationID = models.DefaultIntegrationID
	}

	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = models.DefaultProbeTimeout
	}

	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = models.DefaultMaxConcurrency
	}

	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	o := &Orchestrator{
		cfg:      cfg,
		registry: reg,
		values:   values,
		prober:   prober,
		recorder: metrics.Nop{},
		logger:   log,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	o.status.Store(int64(models.DetectStandby))

	return o
}

func (o *Orchestrator) DetectStatus() models.DetectStatus {
	return models.DetectStatus(o.status.Load())
}

// LatestReport returns the report of the last completed sweep, or nil.
func (o *Orchestrator) LatestReport() *models.DetectReport {
	return o.latest.Load()
}

// RunBenchmark probes every registered device, persists each device's status
// and returns the aggregate report. It returns models.ErrSweepInProgress when
// another sweep holds the guard. If the fleet cannot be listed the status is
// left DETECTING and no report is produced.
func (o *Orchestrator) RunBenchmark(ctx context.Context) (*models.DetectReport, error) {
	if !o.running.CompareAndSwap(false, true) {
		o.recorder.SweepRejected(ctx)

		return nil, models.ErrSweepInProgress
	}
	defer o.running.Store(false)

	start := o.now()

	o.setDetectStatus(ctx, models.DetectDetecting)
	o.recorder.SweepStarted(ctx)

	devices, err := o.registry.FindAll(ctx, o.cfg.IntegrationID)
	if err != nil {
		o.logger.Error().Err(err).Msg("Failed to list devices, sweep aborted")

		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	o.logger.Info().
		Int("devices", len(devices)).
		Int("concurrency", o.cfg.MaxConcurrency).
		Dur("probe_timeout", o.cfg.ProbeTimeout).
		Msg("Starting benchmark sweep")

	var (
		online    atomic.Int64
		offline   atomic.Int64
		unchecked atomic.Int64
		g         errgroup.Group
	)

	g.SetLimit(o.cfg.MaxConcurrency)

	for i, device := range devices {
		if ctx.Err() != nil {
			unchecked.Add(int64(len(devices) - i))

			break
		}

		g.Go(func() error {
			status, checked := o.checkDevice(ctx, device)

			switch {
			case !checked:
				unchecked.Add(1)
			case status == models.DeviceOnline:
				online.Add(1)
			default:
				offline.Add(1)
			}

			return nil
		})
	}

	_ = g.Wait()

	finished := o.now()
	elapsed := finished.Sub(start)

	if skipped := unchecked.Load(); skipped > 0 {
		doneCtx := context.WithoutCancel(ctx)
		o.setDetectStatus(doneCtx, models.DetectStandby)

		o.logger.Warn().
			Int64("online", online.Load()).
			Int64("offline", offline.Load()).
			Int64("unchecked", skipped).
			Msg("Benchmark sweep canceled, no report produced")

		return nil, fmt.Errorf("%w: %d of %d devices unchecked: %w", models.ErrSweepCanceled, skipped, len(devices), ctx.Err())
	}

	report := &models.DetectReport{
		ConsumedTime: elapsed.Milliseconds(),
		OnlineCount:  online.Load(),
		OfflineCount: offline.Load(),
		FinishedAt:   finished.UTC(),
	}

	// every device is committed; ctx may have ended during the last write
	doneCtx := context.WithoutCancel(ctx)

	o.latest.Store(report)
	o.setDetectStatus(doneCtx, models.DetectStandby)
	o.recorder.SweepFinished(doneCtx, report, elapsed)

	o.publish(doneCtx, events.Event{
		Kind:          events.KindDetectReport,
		IntegrationID: o.cfg.IntegrationID,
		Time:          finished,
		Payload:       report,
	})

	o.logger.Info().
		Int64("consumed_ms", report.ConsumedTime).
		Int64("devices", report.Total()).
		Int64("online", report.OnlineCount).
		Int64("offline", report.OfflineCount).
		Msg("Benchmark sweep completed")

	return report, nil
}

// checkDevice probes one device and writes its status. checked is false when
// ctx ended before the probe produced an answer; nothing is written then.
func (o *Orchestrator) checkDevice(ctx context.Context, device *models.Device) (status models.DeviceStatus, checked bool) {
	if ctx.Err() != nil {
		return models.DeviceOffline, false
	}

	res := o.probeDevice(ctx, device)

	if res.Outcome == probe.ProbeError && ctx.Err() != nil {
		o.logger.Debug().Str("device", device.Identifier).Msg("Check abandoned, sweep canceled")

		return models.DeviceOffline, false
	}

	status = models.DeviceOffline

	switch res.Outcome {
	case probe.Reachable:
		status = models.DeviceOnline
	case probe.Unreachable:
		o.logger.Debug().Str("device", device.Identifier).Msg("Device unreachable")
	case probe.ProbeError:
		o.logger.Warn().Err(res.Err).Str("device", device.Identifier).Msg("Probe failed, marking device offline")
	}

	o.recorder.ProbeCompleted(ctx, res.Method, res.Outcome.String(), res.RTT)

	key, ok := device.StatusEntityKey()
	if !ok {
		o.logger.Error().Err(errMissingStatusEntity).Str("device", device.Identifier).Msg("Cannot record device status")

		return models.DeviceOffline, true
	}

	// a classified device is always committed, even if ctx ends now
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.WriteTimeout)
	defer cancel()

	if err := o.values.WriteValue(writeCtx, key, int64(status)); err != nil {
		o.logger.Error().Err(err).Str("device", device.Identifier).Str("key", key).Msg("Failed to write device status")

		return models.DeviceOffline, true
	}

	return status, true
}

func (o *Orchestrator) probeDevice(ctx context.Context, device *models.Device) probe.Result {
	address := device.Address()
	if address == "" {
		return probe.Result{Outcome: probe.ProbeError, Method: "none", Err: errMissingAddress}
	}

	return o.prober.Probe(ctx, address, o.cfg.ProbeTimeout)
}

func (o *Orchestrator) setDetectStatus(ctx context.Context, status models.DetectStatus) {
	o.status.Store(int64(status))

	key := models.IntegrationEntityKey(o.cfg.IntegrationID, models.EntityDetectStatus)
	if err := o.values.WriteValue(ctx, key, int64(status)); err != nil {
		o.logger.Warn().Err(err).Str("status", status.String()).Msg("Failed to store detect status")
	}

	o.publish(ctx, events.Event{
		Kind:          events.KindDetectStatus,
		IntegrationID: o.cfg.IntegrationID,
		Time:          o.now(),
		Payload: models.DetectStatusEventData{
			IntegrationID: o.cfg.IntegrationID,
			Status:        status.String(),
			Ordinal:       int64(status),
		},
	})
}

func (o *Orchestrator) publish(ctx context.Context, event events.Event) {
	if o.publisher == nil {
		return
	}

	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn().Err(err).Str("event", event.Path()).Msg("Failed to publish event")
	}
}
