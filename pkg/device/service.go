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

// Package device registers and removes field devices.
package device

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/carverauto/sensora/pkg/entity"
	"github.com/carverauto/sensora/pkg/events"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
	"github.com/carverauto/sensora/pkg/probe"
	"github.com/carverauto/sensora/pkg/registry"
)

const (
	maxHostnameLength = 253
	maxLabelLength    = 63
	maxSerialLength   = 64
)

// StatusResolver resolves the status label shown in search results.
type StatusResolver interface {
	StatusLabel(ctx context.Context, device *models.Device) (string, error)
}

type Service struct {
	integrationID string
	registry      registry.Registry
	values        entity.ValueStore
	statuses      StatusResolver
	publisher     events.Publisher
	logger        logger.Logger
}

func NewService(
	integrationID string,
	reg registry.Registry,
	values entity.ValueStore,
	statuses StatusResolver,
	publisher events.Publisher,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Service{
		integrationID: integrationID,
		registry:      reg,
		values:        values,
		statuses:      statuses,
		publisher:     publisher,
		logger:        log,
	}
}

// AddDevice validates req, registers the device with its status entity and
// publishes device_added. A duplicate identifier fails with models.ErrConflict.
func (s *Service) AddDevice(ctx context.Context, req *models.AddDeviceRequest) (*models.Device, error) {
	name, address, serial, err := validate(req)
	if err != nil {
		return nil, err
	}

	identifier := models.DeviceIdentifier(address, serial)

	device := &models.Device{
		IntegrationID: s.integrationID,
		Name:          name,
		Identifier:    identifier,
		Additional: map[string]string{
			models.AdditionalIP:           address,
			models.AdditionalSerialNumber: serial,
		},
		Entities: []models.Entity{entity.DeviceStatusEntity(s.integrationID, identifier)},
	}

	saved, err := s.registry.Save(ctx, device)
	if err != nil {
		s.logger.Error().Err(err).Str("device", identifier).Msg("Failed to save device")

		return nil, fmt.Errorf("failed to save device %s: %w", identifier, err)
	}

	s.logger.Info().Str("name", name).Str("identifier", identifier).Msg("Added device")

	s.publish(ctx, events.KindDeviceAdded, saved)

	return saved, nil
}

// DeleteDevice removes the device and its stored status, then publishes
// device_deleted with the removed device.
func (s *Service) DeleteDevice(ctx context.Context, identifier string) (*models.Device, error) {
	device, err := s.registry.FindByIdentifier(ctx, s.integrationID, identifier)
	if err != nil {
		return nil, fmt.Errorf("device %q: %w", identifier, err)
	}

	if err := s.registry.DeleteByID(ctx, device.ID); err != nil {
		return nil, fmt.Errorf("failed to delete device %q: %w", identifier, err)
	}

	s.logger.Info().Str("id", device.ID).Str("identifier", identifier).Msg("Deleted device")

	s.publish(ctx, events.KindDeviceDeleted, device)

	return device, nil
}

// SearchDevices filters the fleet by case-insensitive substrings of name and
// identifier. Empty filters match everything.
func (s *Service) SearchDevices(ctx context.Context, name, identifier string) ([]models.DeviceSummary, error) {
	devices, err := s.registry.FindAll(ctx, s.integrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	name = strings.ToLower(name)
	identifier = strings.ToLower(identifier)

	summaries := make([]models.DeviceSummary, 0, len(devices))

	for _, d := range devices {
		if !strings.Contains(strings.ToLower(d.Name), name) ||
			!strings.Contains(strings.ToLower(d.Identifier), identifier) {
			continue
		}

		summary := models.DeviceSummary{
			ID:         d.ID,
			Name:       d.Name,
			Identifier: d.Identifier,
			Additional: d.Additional,
			Status:     models.DeviceStatusLabel(nil),
		}

		if s.statuses != nil {
			label, err := s.statuses.StatusLabel(ctx, d)
			if err != nil {
				return nil, err
			}

			summary.Status = label
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// HandleDeviceAdded initialises the status of a new device to OFFLINE unless
// a value was already stored.
func (s *Service) HandleDeviceAdded(ctx context.Context, event events.Event) {
	data, ok := event.Payload.(models.DeviceEventData)
	if !ok || data.Device == nil {
		return
	}

	key, ok := data.Device.StatusEntityKey()
	if !ok {
		return
	}

	_, found, err := s.values.FindValueByKey(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to read initial device status")

		return
	}

	if found {
		return
	}

	if err := s.values.WriteValue(ctx, key, int64(models.DeviceOffline)); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to initialise device status")
	}
}

func (s *Service) publish(ctx context.Context, kind events.Kind, device *models.Device) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, events.Event{
		Kind:          kind,
		IntegrationID: s.integrationID,
		Payload:       models.DeviceEventData{Device: device.Clone()},
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Str("device", device.Identifier).Msg("Failed to publish device event")
	}
}

func validate(req *models.AddDeviceRequest) (name, address, serial string, err error) {
	if req == nil {
		return "", "", "", fmt.Errorf("%w: empty request", models.ErrInvalidDevice)
	}

	name = strings.TrimSpace(req.Name)
	address = probe.NormalizeAddress(req.Address)
	serial = strings.TrimSpace(req.SerialNumber)

	if name == "" {
		return "", "", "", fmt.Errorf("%w: name is required", models.ErrInvalidDevice)
	}

	if !validAddress(address) {
		return "", "", "", fmt.Errorf("%w: invalid address %q", models.ErrInvalidDevice, req.Address)
	}

	if serial == "" || len(serial) > maxSerialLength {
		return "", "", "", fmt.Errorf("%w: serial number must be 1-%d characters", models.ErrInvalidDevice, maxSerialLength)
	}

	return name, address, serial, nil
}

func validAddress(address string) bool {
	if net.ParseIP(address) != nil {
		return true
	}

	if address == "" || len(address) > maxHostnameLength {
		return false
	}

	for _, label := range strings.Split(strings.TrimSuffix(address, "."), ".") {
		if !validLabel(label) {
			return false
		}
	}

	return true
}

func validLabel(label string) bool {
	if label == "" || len(label) > maxLabelLength {
		return false
	}

	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}

	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}

	return true
}
