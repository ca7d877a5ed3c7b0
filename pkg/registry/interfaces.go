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

package registry

//go:generate mockgen -destination=mock_registry.go -package=registry github.com/carverauto/sensora/pkg/registry Registry

import (
	"context"

	"github.com/carverauto/sensora/pkg/models"
)

// Registry stores the devices of each integration.
type Registry interface {
	// FindAll returns every device of the integration.
	FindAll(ctx context.Context, integrationID string) ([]*models.Device, error)

	// FindByIdentifier returns models.ErrNotFound when no device has the identifier.
	FindByIdentifier(ctx context.Context, integrationID, identifier string) (*models.Device, error)

	// Save inserts a device without an ID, assigning one, or updates an
	// existing one. Inserting an identifier that already exists in the
	// integration fails with models.ErrConflict.
	Save(ctx context.Context, device *models.Device) (*models.Device, error)

	// DeleteByID removes the device and the stored values of its entities.
	DeleteByID(ctx context.Context, id string) error
}
