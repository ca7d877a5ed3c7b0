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

// Package models pkg/models/device.go
package models

import (
	"strings"
)

const (
	// DefaultIntegrationID namespaces every device, entity and event owned by this service.
	DefaultIntegrationID = "sensora-integration"

	// AdditionalIP holds the probe target address of a device.
	AdditionalIP = "ip"
	// AdditionalSerialNumber holds the serial number the identifier was derived from.
	AdditionalSerialNumber = "sn"
)

// DeviceStatus is the connection state of a single device. The ordinal is what
// the status store persists.
type DeviceStatus int64

const (
	DeviceOnline DeviceStatus = iota
	DeviceOffline
)

const deviceStatusUnknown = "UNKNOWN"

var deviceStatusLabels = [...]string{
	DeviceOnline:  "ONLINE",
	DeviceOffline: "OFFLINE",
}

func (s DeviceStatus) String() string {
	if !s.Valid() {
		return deviceStatusUnknown
	}

	return deviceStatusLabels[s]
}

// Valid reports whether the ordinal maps to a known label.
func (s DeviceStatus) Valid() bool {
	return s >= 0 && int(s) < len(deviceStatusLabels)
}

// DeviceStatusLabel maps a stored status value to its label. A nil value or an
// ordinal outside the enumeration yields "UNKNOWN".
func DeviceStatusLabel(value *int64) string {
	if value == nil {
		return deviceStatusUnknown
	}

	return DeviceStatus(*value).String()
}

// Device is a single field device registered under an integration.
type Device struct {
	ID            string            `json:"id,omitempty"`
	IntegrationID string            `json:"integration_id"`
	Name          string            `json:"name"`
	Identifier    string            `json:"identifier"`
	Additional    map[string]string `json:"additional,omitempty"`
	Entities      []Entity          `json:"entities,omitempty"`
}

// Address returns the probe target recorded for the device.
func (d *Device) Address() string {
	if d == nil || d.Additional == nil {
		return ""
	}

	return d.Additional[AdditionalIP]
}

// StatusEntityKey returns the key of the first telemetry entity, which carries
// the device's connection status.
func (d *Device) StatusEntityKey() (string, bool) {
	if d == nil || len(d.Entities) == 0 {
		return "", false
	}

	return d.Entities[0].Key, true
}

// Clone returns a deep copy so event subscribers can hold a snapshot after the
// registry record is gone.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}

	cp := *d

	if d.Additional != nil {
		cp.Additional = make(map[string]string, len(d.Additional))
		for k, v := range d.Additional {
			cp.Additional[k] = v
		}
	}

	if d.Entities != nil {
		cp.Entities = make([]Entity, len(d.Entities))
		for i := range d.Entities {
			cp.Entities[i] = d.Entities[i].Clone()
		}
	}

	return &cp
}

// NormalizeIdentifierPart lower-cases the value and replaces separators that are
// not allowed inside entity keys.
func NormalizeIdentifierPart(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))

	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ':', ' ', '\t', '/':
			return '_'
		default:
			return r
		}
	}, value)
}

// DeviceIdentifier derives the immutable device identifier from its network
// address and serial number.
func DeviceIdentifier(address, serialNumber string) string {
	return NormalizeIdentifierPart(address) + "-" + NormalizeIdentifierPart(serialNumber)
}

// AddDeviceRequest is the payload accepted when registering a device.
type AddDeviceRequest struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	SerialNumber string `json:"serialNumber"`
}

// DeviceStatusInfo is the resolved status of one device.
type DeviceStatusInfo struct {
	Identifier string `json:"identifier"`
	Status     string `json:"status"`
}

// DeviceSummary is the listing representation of a device.
type DeviceSummary struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Identifier string            `json:"identifier"`
	Additional map[string]string `json:"additional,omitempty"`
	Status     string            `json:"status"`
}
