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

//go:generate mockgen -destination=mock_integration.go -package=integration github.com/carverauto/sensora/pkg/integration SweepScheduler,DeviceListener,ReportSink

// Package integration wires the sensora components together at startup.
package integration

import (
	"context"

	"github.com/carverauto/sensora/pkg/events"
	"github.com/carverauto/sensora/pkg/models"
)

// SweepScheduler runs periodic and requested sweeps.
type SweepScheduler interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	HandleEvent(ctx context.Context, event events.Event)
}

// DeviceListener reacts to newly added devices.
type DeviceListener interface {
	HandleDeviceAdded(ctx context.Context, event events.Event)
}

// ReportSink persists completed sweep reports.
type ReportSink interface {
	SaveReport(ctx context.Context, integrationID string, report *models.DetectReport) error
}
