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

package models

// EntityType classifies an entity slot.
type EntityType string

const (
	EntityTypeProperty EntityType = "PROPERTY"
	EntityTypeEvent    EntityType = "EVENT"
	EntityTypeService  EntityType = "SERVICE"
)

// AccessMode describes who may write an entity value.
type AccessMode string

const (
	AccessRead      AccessMode = "R"
	AccessWrite     AccessMode = "W"
	AccessReadWrite AccessMode = "RW"
)

// Entity is a single readable/writable property, event or service slot,
// addressed by a hierarchical key.
type Entity struct {
	Key        string            `json:"key"`
	Identifier string            `json:"identifier"`
	Name       string            `json:"name"`
	Type       EntityType        `json:"type"`
	AccessMode AccessMode        `json:"access_mode,omitempty"`
	Visible    bool              `json:"visible"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Clone returns a deep copy of the entity.
func (e Entity) Clone() Entity {
	if e.Attributes != nil {
		attrs := make(map[string]string, len(e.Attributes))
		for k, v := range e.Attributes {
			attrs[k] = v
		}

		e.Attributes = attrs
	}

	return e
}

// IntegrationEntityKey builds the key of an integration-level entity,
// e.g. "sensora-integration.integration.detect_status".
func IntegrationEntityKey(integrationID, identifier string) string {
	return integrationID + ".integration." + identifier
}

// DeviceEntityKey builds the key of a device template entity,
// e.g. "sensora-integration.device.10_0_0_1-sn1.status".
func DeviceEntityKey(integrationID, deviceIdentifier, identifier string) string {
	return integrationID + ".device." + deviceIdentifier + "." + identifier
}

// Well-known entity identifiers.
const (
	EntityStatus       = "status"
	EntityDetectStatus = "detect_status"
	EntityDetectReport = "detect_report"
	EntityBenchmark    = "benchmark"
	EntityAddDevice    = "add_device"
	EntityDeleteDevice = "delete_device"
)
