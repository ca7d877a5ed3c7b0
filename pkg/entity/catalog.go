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

package entity

import (
	"fmt"
	"sort"
	"sync"

	"github.com/carverauto/sensora/pkg/models"
)

// Catalog is the set of entities the integration declares. It is filled once
// at startup by explicit Register calls.
type Catalog struct {
	mu       sync.RWMutex
	entities map[string]models.Entity
}

func NewCatalog() *Catalog {
	return &Catalog{entities: make(map[string]models.Entity)}
}

// Register adds entities. A key that is already registered fails with models.ErrConflict.
func (c *Catalog) Register(entities ...models.Entity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range entities {
		if _, exists := c.entities[entities[i].Key]; exists {
			return fmt.Errorf("entity %s: %w", entities[i].Key, models.ErrConflict)
		}
	}

	for i := range entities {
		c.entities[entities[i].Key] = entities[i].Clone()
	}

	return nil
}

// Unregister removes entities by key, e.g. when their device is deleted.
func (c *Catalog) Unregister(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entities, key)
	}
}

func (c *Catalog) Lookup(key string) (models.Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entities[key]
	if !ok {
		return models.Entity{}, false
	}

	return e.Clone(), true
}

// All returns the registered entities ordered by key.
func (c *Catalog) All() []models.Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Entity, 0, len(c.entities))
	for _, e := range c.entities {
		out = append(out, e.Clone())
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}

// IntegrationEntities are the integration-level entities: the detect status
// property, the benchmark and device services, and the report event.
func IntegrationEntities(integrationID string) []models.Entity {
	entity := func(identifier, name string, typ models.EntityType, mode models.AccessMode) models.Entity {
		return models.Entity{
			Key:        models.IntegrationEntityKey(integrationID, identifier),
			Identifier: identifier,
			Name:       name,
			Type:       typ,
			AccessMode: mode,
			Visible:    true,
		}
	}

	return []models.Entity{
		entity(models.EntityDetectStatus, "Detect Status", models.EntityTypeProperty, models.AccessRead),
		entity(models.EntityBenchmark, "Benchmark", models.EntityTypeService, models.AccessWrite),
		entity(models.EntityDetectReport, "Detect Report", models.EntityTypeEvent, models.AccessRead),
		entity(models.EntityAddDevice, "Add Device", models.EntityTypeService, models.AccessWrite),
		entity(models.EntityDeleteDevice, "Delete Device", models.EntityTypeService, models.AccessWrite),
	}
}

// DeviceStatusEntity is the template entity every device carries.
func DeviceStatusEntity(integrationID, deviceIdentifier string) models.Entity {
	return models.Entity{
		Key:        models.DeviceEntityKey(integrationID, deviceIdentifier, models.EntityStatus),
		Identifier: models.EntityStatus,
		Name:       "Device Status",
		Type:       models.EntityTypeProperty,
		AccessMode: models.AccessRead,
		Visible:    true,
		Attributes: map[string]string{
			"enum": "ONLINE,OFFLINE",
		},
	}
}
