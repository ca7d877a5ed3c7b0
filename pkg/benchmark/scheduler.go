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
	"sync"
	"time"

	"github.com/carverauto/sensora/pkg/events"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

var errSchedulerStarted = errors.New("scheduler already started")

// Scheduler triggers sweeps on a fixed interval and on benchmark_requested
// events. An interval of zero disables the timer.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   logger.Logger

	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	loopCancel context.CancelFunc
	wg         sync.WaitGroup
}

func NewScheduler(runner Runner, interval time.Duration, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   log,
	}
}

// Start launches the timer loop and returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return errSchedulerStarted
	}

	// detached from the caller so the loop outlives a start timeout
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.ctx = runCtx
	s.cancel = cancel

	s.startLoopLocked()

	return nil
}

// SetInterval changes the sweep period. A running timer restarts with the new
// period; zero disables it. Sweeps already in flight are not interrupted.
func (s *Scheduler) SetInterval(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interval == s.interval {
		return
	}

	s.logger.Info().Dur("from", s.interval).Dur("to", interval).Msg("Benchmark interval changed")
	s.interval = interval

	if s.cancel == nil {
		return
	}

	if s.loopCancel != nil {
		s.loopCancel()
		s.loopCancel = nil
	}

	s.startLoopLocked()
}

// Interval returns the current sweep period.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.interval
}

func (s *Scheduler) startLoopLocked() {
	if s.interval <= 0 {
		s.logger.Info().Msg("Periodic benchmark disabled")

		return
	}

	s.logger.Info().Dur("interval", s.interval).Msg("Starting benchmark scheduler")

	loopCtx, cancel := context.WithCancel(s.ctx)
	s.loopCancel = cancel

	s.wg.Add(1)

	go s.loop(loopCtx, s.ctx, s.interval)
}

// loop ticks until loopCtx ends. Sweeps run on runCtx so that replacing the
// timer leaves a running sweep alone.
func (s *Scheduler) loop(loopCtx, runCtx context.Context, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-loopCtx.Done():
			s.logger.Debug().Dur("interval", interval).Msg("Benchmark timer stopped")

			return
		case t := <-ticker.C:
			s.logger.Debug().Time("tick", t).Msg("Ticker fired, starting periodic benchmark")
			s.run(runCtx, "schedule")
		}
	}
}

// HandleEvent starts a sweep for a benchmark_requested event without blocking
// the publisher.
func (s *Scheduler) HandleEvent(_ context.Context, event events.Event) {
	if event.Kind != events.KindBenchmarkRequested {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		s.logger.Warn().Msg("Benchmark requested while scheduler is stopped, ignoring")

		return
	}

	ctx := s.ctx

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.run(ctx, "event")
	}()
}

func (s *Scheduler) run(ctx context.Context, trigger string) {
	report, err := s.runner.RunBenchmark(ctx)

	switch {
	case errors.Is(err, models.ErrSweepInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("Benchmark already running, skipping")
	case errors.Is(err, models.ErrSweepCanceled):
		s.logger.Info().Err(err).Str("trigger", trigger).Msg("Benchmark interrupted")
	case err != nil:
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("Benchmark failed")
	default:
		s.logger.Debug().
			Str("trigger", trigger).
			Int64("online", report.OnlineCount).
			Int64("offline", report.OfflineCount).
			Msg("Benchmark finished")
	}
}

// Stop cancels the loop and any running sweep and waits for them to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.ctx = nil
	s.loopCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
