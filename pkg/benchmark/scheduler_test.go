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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/sensora/pkg/events"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

func TestSchedulerRunsOnInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockRunner(ctrl)
	ran := make(chan struct{}, 8)

	runner.EXPECT().RunBenchmark(gomock.Any()).DoAndReturn(func(context.Context) (*models.DetectReport, error) {
		select {
		case ran <- struct{}{}:
		default:
		}

		return &models.DetectReport{OnlineCount: 1}, nil
	}).MinTimes(2)

	s := NewScheduler(runner, 10*time.Millisecond, logger.NewTestLogger())
	require.NoError(t, s.Start(context.Background()))
	require.ErrorIs(t, s.Start(context.Background()), errSchedulerStarted)

	for range 2 {
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not run")
		}
	}

	require.NoError(t, s.Stop(context.Background()))
}

func TestSchedulerDisabledInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockRunner(ctrl)

	s := NewScheduler(runner, 0, logger.NewTestLogger())
	require.NoError(t, s.Start(context.Background()))

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}

func TestSchedulerHandlesBenchmarkRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockRunner(ctrl)
	ran := make(chan struct{}, 2)

	gomock.InOrder(
		runner.EXPECT().RunBenchmark(gomock.Any()).DoAndReturn(func(context.Context) (*models.DetectReport, error) {
			ran <- struct{}{}

			return &models.DetectReport{}, nil
		}),
		runner.EXPECT().RunBenchmark(gomock.Any()).DoAndReturn(func(context.Context) (*models.DetectReport, error) {
			ran <- struct{}{}

			return nil, models.ErrSweepInProgress
		}),
	)

	bus := events.NewBus(logger.NewTestLogger())
	s := NewScheduler(runner, 0, logger.NewTestLogger())

	// ignored while stopped
	s.HandleEvent(context.Background(), events.Event{Kind: events.KindBenchmarkRequested})

	require.NoError(t, s.Start(context.Background()))

	unsubscribe := bus.Subscribe(events.KindBenchmarkRequested, s.HandleEvent)
	defer unsubscribe()

	for range 2 {
		require.NoError(t, bus.Publish(context.Background(), events.Event{
			Kind:          events.KindBenchmarkRequested,
			IntegrationID: models.DefaultIntegrationID,
		}))

		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("benchmark request not handled")
		}
	}

	// other kinds are ignored
	s.HandleEvent(context.Background(), events.Event{Kind: events.KindDeviceAdded})

	require.NoError(t, s.Stop(context.Background()))
}

func TestSchedulerStopCancelsRunningSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockRunner(ctrl)
	started := make(chan struct{})

	runner.EXPECT().RunBenchmark(gomock.Any()).DoAndReturn(func(ctx context.Context) (*models.DetectReport, error) {
		close(started)
		<-ctx.Done()

		return nil, ctx.Err()
	})

	s := NewScheduler(runner, 0, logger.NewTestLogger())
	require.NoError(t, s.Start(context.Background()))

	s.HandleEvent(context.Background(), events.Event{Kind: events.KindBenchmarkRequested})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, s.Stop(ctx))
	assert.NoError(t, s.Stop(ctx), "second stop is a no-op")
}

func TestSchedulerSetInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockRunner(ctrl)
	ran := make(chan struct{}, 8)

	runner.EXPECT().RunBenchmark(gomock.Any()).DoAndReturn(func(context.Context) (*models.DetectReport, error) {
		select {
		case ran <- struct{}{}:
		default:
		}

		return &models.DetectReport{}, nil
	}).AnyTimes()

	s := NewScheduler(runner, 0, logger.NewTestLogger())
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-ran:
		t.Fatal("disabled scheduler ran a sweep")
	case <-time.After(30 * time.Millisecond):
	}

	s.SetInterval(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, s.Interval())

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not pick up the new interval")
	}

	s.SetInterval(0)
	require.NoError(t, s.Stop(context.Background()))

	// drained after Stop: no timer remains
	for len(ran) > 0 {
		<-ran
	}

	select {
	case <-ran:
		t.Fatal("sweep ran after the timer was disabled and the scheduler stopped")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestSchedulerSetIntervalBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := NewScheduler(NewMockRunner(ctrl), time.Minute, logger.NewTestLogger())
	s.SetInterval(time.Hour)
	assert.Equal(t, time.Hour, s.Interval())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}
