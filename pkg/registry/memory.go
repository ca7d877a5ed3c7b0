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

// Package registry keeps the device catalog of an integration.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/carverauto/sensora/pkg/entity"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

type identifierKey struct {
	integrationID string
	identifier    string
}

// MemoryRegistry is an in-process Registry used when no database is configured.
type MemoryRegistry struct {
	mu      sync.RWMutex
	byID    map[string]*models.Device
	byIdent map[identifierKey]string
	values  entity.ValueStore
	logger  logger.Logger
}

// NewMemoryRegistry returns an empty registry. values may be nil when entity
// cleanup is handled elsewhere.
func NewMemoryRegistry(values entity.ValueStore, log logger.Logger) *MemoryRegistry {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &MemoryRegistry{
		byID:    make(map[string]*models.Device),
		byIdent: make(map[identifierKey]string),
		values:  values,
		logger:  log,
	}
}

func (r *MemoryRegistry) FindAll(_ context.Context, integrationID string) ([]*models.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*models.Device, 0, len(r.byID))

	for _, d := range r.byID {
		if d.IntegrationID == integrationID {
			devices = append(devices, d.Clone())
		}
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Identifier < devices[j].Identifier })

	return devices, nil
}

func (r *MemoryRegistry) FindByIdentifier(_ context.Context, integrationID, identifier string) (*models.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byIdent[identifierKey{integrationID, identifier}]
	if !ok {
		return nil, fmt.Errorf("device %s: %w", identifier, models.ErrNotFound)
	}

	return r.byID[id].Clone(), nil
}

func (r *MemoryRegistry) Save(_ context.Context, device *models.Device) (*models.Device, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: nil device", models.ErrInvalidDevice)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := device.Clone()
	key := identifierKey{stored.IntegrationID, stored.Identifier}

	if stored.ID == "" {
		if _, exists := r.byIdent[key]; exists {
			return nil, fmt.Errorf("device %s: %w", stored.Identifier, models.ErrConflict)
		}

		stored.ID = uuid.NewString()
	} else {
		existing, ok := r.byID[stored.ID]
		if !ok {
			return nil, fmt.Errorf("device id %s: %w", stored.ID, models.ErrNotFound)
		}

		if existing.Identifier != stored.Identifier || existing.IntegrationID != stored.IntegrationID {
			if owner, taken := r.byIdent[key]; taken && owner != stored.ID {
				return nil, fmt.Errorf("device %s: %w", stored.Identifier, models.ErrConflict)
			}

			delete(r.byIdent, identifierKey{existing.IntegrationID, existing.Identifier})
		}
	}

	r.byID[stored.ID] = stored
	r.byIdent[key] = stored.ID

	return stored.Clone(), nil
}

func (r *MemoryRegistry) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()

	device, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()

		return fmt.Errorf("device id %s: %w", id, models.ErrNotFound)
	}

	delete(r.byID, id)
	delete(r.byIdent, identifierKey{device.IntegrationID, device.Identifier})
	r.mu.Unlock()

	return removeEntityValues(ctx, r.values, device)
}

// removeEntityValues deletes the stored values of every entity of device.
func removeEntityValues(ctx context.Context, values entity.ValueStore, device *models.Device) error {
	if values == nil || device == nil || len(device.Entities) == 0 {
		return nil
	}

	keys := make([]string, 0, len(device.Entities))
	for i := range device.Entities {
		keys = append(keys, device.Entities[i].Key)
	}

	if err := values.DeleteValues(ctx, keys...); err != nil {
		return fmt.Errorf("device %s removed but entity cleanup failed: %w", device.Identifier, err)
	}

	return nil
}

var _ Registry = (*MemoryRegistry)(nil)
