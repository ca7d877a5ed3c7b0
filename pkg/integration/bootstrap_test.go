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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/sensora/pkg/entity"
	"github.com/carverauto/sensora/pkg/events"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

const testIntegration = models.DefaultIntegrationID

type fixture struct {
	catalog   *entity.Catalog
	bus       *events.Bus
	scheduler *MockSweepScheduler
	devices   *MockDeviceListener
	reports   *MockReportSink
	bootstrap *Bootstrap
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := logger.NewTestLogger()

	f := &fixture{
		catalog:   entity.NewCatalog(),
		bus:       events.NewBus(log),
		scheduler: NewMockSweepScheduler(ctrl),
		devices:   NewMockDeviceListener(ctrl),
		reports:   NewMockReportSink(ctrl),
	}

	f.bootstrap = NewBootstrap(testIntegration, f.catalog, f.bus, f.scheduler, f.devices, log, WithReportSink(f.reports))

	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()

	f.scheduler.EXPECT().Start(gomock.Any()).Return(nil)

	require.NoError(t, f.bootstrap.OnPrepared(context.Background()))
	require.NoError(t, f.bootstrap.OnStarted(context.Background()))
}

func testDevice() *models.Device {
	return &models.Device{
		ID:            "d1",
		IntegrationID: testIntegration,
		Identifier:    "10_0_0_1-sn1",
		Entities:      []models.Entity{entity.DeviceStatusEntity(testIntegration, "10_0_0_1-sn1")},
	}
}

func TestOnPreparedRegistersIntegrationEntities(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bootstrap.OnPrepared(context.Background()))
	require.NoError(t, f.bootstrap.OnPrepared(context.Background()))

	_, ok := f.catalog.Lookup(models.IntegrationEntityKey(testIntegration, models.EntityDetectStatus))
	assert.True(t, ok)
	assert.Len(t, f.catalog.All(), len(entity.IntegrationEntities(testIntegration)))
}

func TestOnStartedRequiresPrepare(t *testing.T) {
	f := newFixture(t)

	err := f.bootstrap.OnStarted(context.Background())

	require.ErrorIs(t, err, errNotPrepared)
}

func TestOnStartedTwiceFails(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	require.ErrorIs(t, f.bootstrap.OnStarted(context.Background()), errAlreadyStarted)
}

func TestOnStartedSchedulerFailureUnsubscribes(t *testing.T) {
	f := newFixture(t)

	f.scheduler.EXPECT().Start(gomock.Any()).Return(errors.New("boom"))

	require.NoError(t, f.bootstrap.OnPrepared(context.Background()))
	require.Error(t, f.bootstrap.OnStarted(context.Background()))

	// no HandleEvent expectation: a leftover subscription would fail the mock
	require.NoError(t, f.bus.Publish(context.Background(), events.Event{Kind: events.KindBenchmarkRequested}))
}

func TestBenchmarkRequestsReachScheduler(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	f.scheduler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Times(1)

	require.NoError(t, f.bus.Publish(context.Background(), events.Event{
		Kind:          events.KindBenchmarkRequested,
		IntegrationID: testIntegration,
	}))
}

func TestReportsArePersisted(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	report := &models.DetectReport{ConsumedTime: 10, OnlineCount: 3, OfflineCount: 1, FinishedAt: time.Now()}

	f.reports.EXPECT().SaveReport(gomock.Any(), testIntegration, report).Return(nil)

	require.NoError(t, f.bus.Publish(context.Background(), events.Event{
		Kind:          events.KindDetectReport,
		IntegrationID: testIntegration,
		Payload:       report,
	}))
}

func TestReportPersistenceFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	f.reports.EXPECT().SaveReport(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	err := f.bus.Publish(context.Background(), events.Event{
		Kind:    events.KindDetectReport,
		Payload: &models.DetectReport{},
	})

	require.NoError(t, err)
}

func TestDeviceLifecycleTracksCatalog(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	device := testDevice()
	key := device.Entities[0].Key

	f.devices.EXPECT().HandleDeviceAdded(gomock.Any(), gomock.Any()).Times(1)

	require.NoError(t, f.bus.Publish(context.Background(), events.Event{
		Kind:    events.KindDeviceAdded,
		Payload: models.DeviceEventData{Device: device},
	}))

	_, ok := f.catalog.Lookup(key)
	require.True(t, ok)

	require.NoError(t, f.bus.Publish(context.Background(), events.Event{
		Kind:    events.KindDeviceDeleted,
		Payload: models.DeviceEventData{Device: device},
	}))

	_, ok = f.catalog.Lookup(key)
	assert.False(t, ok)
}

func TestOnDestroyStopsScheduler(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	f.scheduler.EXPECT().Stop(gomock.Any()).Return(nil)

	require.NoError(t, f.bootstrap.OnDestroy(context.Background()))
	require.NoError(t, f.bootstrap.OnDestroy(context.Background()))

	// handlers are gone after destroy
	require.NoError(t, f.bus.Publish(context.Background(), events.Event{Kind: events.KindBenchmarkRequested}))
}
