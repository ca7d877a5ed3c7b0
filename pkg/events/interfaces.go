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

//go:generate mockgen -destination=mock_events.go -package=events github.com/carverauto/sensora/pkg/events Publisher

// Package events carries integration events between components and out to JetStream.
package events

import (
	"context"
	"time"
)

// Kind enumerates the events the integration emits.
type Kind string

const (
	KindDetectStatus       Kind = "detect_status"
	KindDetectReport       Kind = "detect_report"
	KindDeviceAdded        Kind = "device_added"
	KindDeviceDeleted      Kind = "device_deleted"
	KindBenchmarkRequested Kind = "benchmark_requested"
)

// Kinds lists every Kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindDetectStatus, KindDetectReport, KindDeviceAdded, KindDeviceDeleted, KindBenchmarkRequested}
}

// Event is one occurrence. Payload holds the typed data for the kind:
// models.DetectStatusEventData, *models.DetectReport, models.DeviceEventData
// or nothing for benchmark requests.
type Event struct {
	Kind          Kind
	IntegrationID string
	Time          time.Time
	Payload       any
}

// Path is the hierarchical event path, e.g. "sensora-integration.detect_report".
func (e Event) Path() string {
	return e.IntegrationID + "." + string(e.Kind)
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Handler receives events from a Bus.
type Handler func(ctx context.Context, event Event)
