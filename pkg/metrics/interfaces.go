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

// Package metrics records sweep, probe and ingestion instruments. Every
// observation goes to a Prometheus registry served on /metrics and to the
// global OTel meter, which is exported over OTLP when enabled.
package metrics

import (
	"context"
	"time"

	"github.com/carverauto/sensora/pkg/models"
)

// Recorder receives the instrumented events of the service.
type Recorder interface {
	SweepStarted(ctx context.Context)
	SweepRejected(ctx context.Context)
	SweepFinished(ctx context.Context, report *models.DetectReport, elapsed time.Duration)
	ProbeCompleted(ctx context.Context, method, outcome string, rtt time.Duration)
	IngestMessage(ctx context.Context, accepted bool)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) SweepStarted(context.Context)                                       {}
func (Nop) SweepRejected(context.Context)                                      {}
func (Nop) SweepFinished(context.Context, *models.DetectReport, time.Duration) {}
func (Nop) ProbeCompleted(context.Context, string, string, time.Duration)      {}
func (Nop) IngestMessage(context.Context, bool)                                {}
