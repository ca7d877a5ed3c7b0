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

//go:generate mockgen -destination=mock_api.go -package=api github.com/carverauto/sensora/pkg/api StatusQuerier,DeviceManager,SensorSource

// Package api serves the integration HTTP surface.
package api

import (
	"context"

	"github.com/carverauto/sensora/pkg/models"
)

// StatusQuerier answers device status questions.
type StatusQuerier interface {
	CountOnline(ctx context.Context) (int, error)
	GetStatus(ctx context.Context, identifier string) (*models.DeviceStatusInfo, error)
	SetOnline(ctx context.Context, identifier string) error
	DetectStatus() models.DetectStatus
	LatestReport() *models.DetectReport
}

// DeviceManager adds, removes and lists devices.
type DeviceManager interface {
	AddDevice(ctx context.Context, req *models.AddDeviceRequest) (*models.Device, error)
	DeleteDevice(ctx context.Context, identifier string) (*models.Device, error)
	SearchDevices(ctx context.Context, name, identifier string) ([]models.DeviceSummary, error)
}

// SensorSource exposes the latest ingested readings.
type SensorSource interface {
	Snapshot() map[string]models.SensorReading
	Reading(topic string) (models.SensorReading, bool)
}
