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

package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/carverauto/sensora/pkg/entity"
	"github.com/carverauto/sensora/pkg/events"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

var (
	errNotPrepared    = errors.New("integration not prepared")
	errAlreadyStarted = errors.New("integration already started")
)

// Bootstrap owns the integration lifecycle: entity declaration, event
// subscriptions and the sweep scheduler.
type Bootstrap struct {
	integrationID string
	catalog       *entity.Catalog
	bus           *events.Bus
	scheduler     SweepScheduler
	devices       DeviceListener
	reports       ReportSink
	logger        logger.Logger

	mu       sync.Mutex
	prepared bool
	started  bool
	unsubs   []func()
}

// Option customizes a Bootstrap.
type Option func(*Bootstrap)

// WithReportSink persists every completed sweep report.
func WithReportSink(sink ReportSink) Option {
	return func(b *Bootstrap) {
		b.reports = sink
	}
}

// NewBootstrap creates the lifecycle owner. devices may be nil when device
// management is served elsewhere.
func NewBootstrap(
	integrationID string,
	catalog *entity.Catalog,
	bus *events.Bus,
	scheduler SweepScheduler,
	devices DeviceListener,
	log logger.Logger,
	opts ...Option,
) *Bootstrap {
	b := &Bootstrap{
		integrationID: integrationID,
		catalog:       catalog,
		bus:           bus,
		scheduler:     scheduler,
		devices:       devices,
		logger:        log,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// OnPrepared declares the integration entities. Calling it again is a no-op.
func (b *Bootstrap) OnPrepared(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.prepared {
		return nil
	}

	if err := b.catalog.Register(entity.IntegrationEntities(b.integrationID)...); err != nil {
		return fmt.Errorf("failed to register integration entities: %w", err)
	}

	b.prepared = true

	b.logger.Info().
		Str("integration", b.integrationID).
		Int("entities", len(b.catalog.All())).
		Msg("Integration prepared")

	return nil
}

// OnStarted subscribes the event handlers and starts the scheduler.
func (b *Bootstrap) OnStarted(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.prepared {
		return errNotPrepared
	}

	if b.started {
		return errAlreadyStarted
	}

	b.unsubs = append(b.unsubs,
		b.bus.Subscribe(events.KindBenchmarkRequested, b.scheduler.HandleEvent),
		b.bus.Subscribe(events.KindDetectReport, b.onReport),
		b.bus.Subscribe(events.KindDeviceAdded, b.onDeviceAdded),
		b.bus.Subscribe(events.KindDeviceDeleted, b.onDeviceDeleted),
	)

	if err := b.scheduler.Start(ctx); err != nil {
		b.unsubscribeLocked()

		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	b.started = true

	b.logger.Info().Str("integration", b.integrationID).Msg("Integration started")

	return nil
}

// OnDestroy removes the subscriptions and stops the scheduler, waiting for a
// running sweep until ctx expires.
func (b *Bootstrap) OnDestroy(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unsubscribeLocked()

	if !b.started {
		return nil
	}

	b.started = false

	if err := b.scheduler.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}

	b.logger.Info().Str("integration", b.integrationID).Msg("Integration destroyed")

	return nil
}

func (b *Bootstrap) unsubscribeLocked() {
	for _, unsub := range b.unsubs {
		unsub()
	}

	b.unsubs = nil
}

func (b *Bootstrap) onReport(ctx context.Context, event events.Event) {
	report, ok := event.Payload.(*models.DetectReport)
	if !ok || report == nil {
		return
	}

	b.logger.Info().
		Int64("consumed_ms", report.ConsumedTime).
		Int64("online", report.OnlineCount).
		Int64("offline", report.OfflineCount).
		Msg("[Get-Report]")

	if b.reports == nil {
		return
	}

	if err := b.reports.SaveReport(ctx, b.integrationID, report); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to persist detect report")
	}
}

func (b *Bootstrap) onDeviceAdded(ctx context.Context, event events.Event) {
	data, ok := event.Payload.(models.DeviceEventData)
	if !ok || data.Device == nil {
		return
	}

	if err := b.catalog.Register(data.Device.Entities...); err != nil {
		b.logger.Warn().Err(err).Str("device", data.Device.Identifier).Msg("Failed to register device entities")
	}

	if b.devices != nil {
		b.devices.HandleDeviceAdded(ctx, event)
	}
}

func (b *Bootstrap) onDeviceDeleted(_ context.Context, event events.Event) {
	data, ok := event.Payload.(models.DeviceEventData)
	if !ok || data.Device == nil {
		return
	}

	keys := make([]string, 0, len(data.Device.Entities))
	for i := range data.Device.Entities {
		keys = append(keys, data.Device.Entities[i].Key)
	}

	b.catalog.Unregister(keys...)
}
