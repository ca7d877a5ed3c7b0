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

// Package status answers device status queries from the status store.
package status

import (
	"context"
	"fmt"

	"github.com/carverauto/sensora/pkg/benchmark"
	"github.com/carverauto/sensora/pkg/entity"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
	"github.com/carverauto/sensora/pkg/registry"
)

// Service reads and updates device statuses and exposes the sweep state of
// the orchestrator it was given.
type Service struct {
	integrationID string
	registry      registry.Registry
	values        entity.ValueStore
	state         benchmark.StateProvider
	logger        logger.Logger
}

func NewService(
	integrationID string,
	reg registry.Registry,
	values entity.ValueStore,
	state benchmark.StateProvider,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Service{
		integrationID: integrationID,
		registry:      reg,
		values:        values,
		state:         state,
		logger:        log,
	}
}

// CountOnline counts devices whose stored status is ONLINE. Devices without
// a status entity or without a stored value are not counted either way.
func (s *Service) CountOnline(ctx context.Context) (int, error) {
	devices, err := s.registry.FindAll(ctx, s.integrationID)
	if err != nil {
		return 0, fmt.Errorf("failed to list devices: %w", err)
	}

	keys := make([]string, 0, len(devices))

	for _, d := range devices {
		if key, ok := d.StatusEntityKey(); ok {
			keys = append(keys, key)
		}
	}

	if len(keys) == 0 {
		return 0, nil
	}

	values, err := s.values.FindValuesByKeys(ctx, keys)
	if err != nil {
		return 0, fmt.Errorf("failed to read device statuses: %w", err)
	}

	count := 0

	for _, v := range values {
		if models.DeviceStatus(v) == models.DeviceOnline {
			count++
		}
	}

	return count, nil
}

// GetStatus resolves the status label of one device.
func (s *Service) GetStatus(ctx context.Context, identifier string) (*models.DeviceStatusInfo, error) {
	device, err := s.registry.FindByIdentifier(ctx, s.integrationID, identifier)
	if err != nil {
		return nil, fmt.Errorf("device %q: %w", identifier, err)
	}

	label, err := s.StatusLabel(ctx, device)
	if err != nil {
		return nil, err
	}

	return &models.DeviceStatusInfo{Identifier: identifier, Status: label}, nil
}

// StatusLabel resolves the label of an already loaded device.
func (s *Service) StatusLabel(ctx context.Context, device *models.Device) (string, error) {
	key, ok := device.StatusEntityKey()
	if !ok {
		return models.DeviceStatusLabel(nil), nil
	}

	value, found, err := s.values.FindValueByKey(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read status of %q: %w", device.Identifier, err)
	}

	if !found {
		return models.DeviceStatusLabel(nil), nil
	}

	return models.DeviceStatusLabel(&value), nil
}

// SetOnline marks a device ONLINE. It does nothing when the device is already
// ONLINE and warns when the write cannot be read back.
func (s *Service) SetOnline(ctx context.Context, identifier string) error {
	device, err := s.registry.FindByIdentifier(ctx, s.integrationID, identifier)
	if err != nil {
		return fmt.Errorf("device %q: %w", identifier, err)
	}

	key, ok := device.StatusEntityKey()
	if !ok {
		return fmt.Errorf("device %q has no status entity: %w", identifier, models.ErrNotFound)
	}

	current, found, err := s.values.FindValueByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read status of %q: %w", identifier, err)
	}

	if found && models.DeviceStatus(current) == models.DeviceOnline {
		s.logger.Info().Str("device", identifier).Msg("Device already ONLINE")

		return nil
	}

	if err := s.values.WriteValue(ctx, key, int64(models.DeviceOnline)); err != nil {
		return fmt.Errorf("failed to set %q ONLINE: %w", identifier, err)
	}

	confirmed, found, err := s.values.FindValueByKey(ctx, key)

	switch {
	case err != nil:
		s.logger.Warn().Err(err).Str("device", identifier).Msg("Could not confirm ONLINE status")
	case !found || models.DeviceStatus(confirmed) != models.DeviceOnline:
		s.logger.Warn().Str("device", identifier).Msg("Device status not ONLINE after update")
	default:
		s.logger.Info().Str("device", identifier).Msg("Device set ONLINE")
	}

	return nil
}

func (s *Service) DetectStatus() models.DetectStatus {
	return s.state.DetectStatus()
}

// LatestReport returns the last completed sweep report, or a zero report
// when no sweep has finished yet.
func (s *Service) LatestReport() *models.DetectReport {
	if r := s.state.LatestReport(); r != nil {
		return r
	}

	return &models.DetectReport{}
}
