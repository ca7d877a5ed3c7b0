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

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carverauto/sensora/pkg/db"
	"github.com/carverauto/sensora/pkg/entity"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

const (
	deviceColumns = `id::text, integration_id, identifier, name, additional, entities`

	selectDevicesSQL = `SELECT ` + deviceColumns + `
		FROM sensora_devices
		WHERE integration_id = $1
		ORDER BY identifier`

	selectDeviceByIdentifierSQL = `SELECT ` + deviceColumns + `
		FROM sensora_devices
		WHERE integration_id = $1 AND identifier = $2`

	insertDeviceSQL = `INSERT INTO sensora_devices
		(id, integration_id, identifier, name, additional, entities)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updateDeviceSQL = `UPDATE sensora_devices
		SET integration_id = $2, identifier = $3, name = $4, additional = $5, entities = $6, updated_at = now()
		WHERE id = $1`

	deleteDeviceSQL = `DELETE FROM sensora_devices
		WHERE id = $1
		RETURNING ` + deviceColumns
)

// CNPGRegistry keeps devices in the sensora_devices table.
type CNPGRegistry struct {
	db     db.Querier
	values entity.ValueStore
	logger logger.Logger
}

func NewCNPGRegistry(querier db.Querier, values entity.ValueStore, log logger.Logger) *CNPGRegistry {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &CNPGRegistry{db: querier, values: values, logger: log}
}

func (r *CNPGRegistry) FindAll(ctx context.Context, integrationID string) ([]*models.Device, error) {
	rows, err := r.db.Query(ctx, selectDevicesSQL, integrationID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var devices []*models.Device

	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}

		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices: %w", err)
	}

	return devices, nil
}

func (r *CNPGRegistry) FindByIdentifier(ctx context.Context, integrationID, identifier string) (*models.Device, error) {
	device, err := scanDevice(r.db.QueryRow(ctx, selectDeviceByIdentifierSQL, integrationID, identifier))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("device %s: %w", identifier, models.ErrNotFound)
	}

	if err != nil {
		return nil, err
	}

	return device, nil
}

func (r *CNPGRegistry) Save(ctx context.Context, device *models.Device) (*models.Device, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: nil device", models.ErrInvalidDevice)
	}

	stored := device.Clone()

	additional, entities, err := encodeDeviceJSON(stored)
	if err != nil {
		return nil, err
	}

	if stored.ID == "" {
		stored.ID = uuid.NewString()

		_, err = r.db.Exec(ctx, insertDeviceSQL,
			stored.ID, stored.IntegrationID, stored.Identifier, stored.Name, additional, entities)
	} else {
		tag, execErr := r.db.Exec(ctx, updateDeviceSQL,
			stored.ID, stored.IntegrationID, stored.Identifier, stored.Name, additional, entities)
		if execErr == nil && tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("device id %s: %w", stored.ID, models.ErrNotFound)
		}

		err = execErr
	}

	if db.IsUniqueViolation(err) {
		return nil, fmt.Errorf("device %s: %w", stored.Identifier, models.ErrConflict)
	}

	if err != nil {
		return nil, fmt.Errorf("save device %s: %w", stored.Identifier, err)
	}

	return stored, nil
}

func (r *CNPGRegistry) DeleteByID(ctx context.Context, id string) error {
	device, err := scanDevice(r.db.QueryRow(ctx, deleteDeviceSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("device id %s: %w", id, models.ErrNotFound)
	}

	if err != nil {
		return fmt.Errorf("delete device %s: %w", id, err)
	}

	r.logger.Debug().Str("device_id", id).Str("identifier", device.Identifier).Msg("Deleted device row")

	return removeEntityValues(ctx, r.values, device)
}

func encodeDeviceJSON(device *models.Device) (additional, entities []byte, err error) {
	props := device.Additional
	if props == nil {
		props = map[string]string{}
	}

	if additional, err = json.Marshal(props); err != nil {
		return nil, nil, fmt.Errorf("encode additional properties: %w", err)
	}

	list := device.Entities
	if list == nil {
		list = []models.Entity{}
	}

	if entities, err = json.Marshal(list); err != nil {
		return nil, nil, fmt.Errorf("encode entities: %w", err)
	}

	return additional, entities, nil
}

func scanDevice(row pgx.Row) (*models.Device, error) {
	var (
		device     models.Device
		additional []byte
		entities   []byte
	)

	if err := row.Scan(&device.ID, &device.IntegrationID, &device.Identifier, &device.Name, &additional, &entities); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("scan device: %w", err)
	}

	if len(additional) > 0 {
		if err := json.Unmarshal(additional, &device.Additional); err != nil {
			return nil, fmt.Errorf("decode additional properties of %s: %w", device.Identifier, err)
		}
	}

	if len(entities) > 0 {
		if err := json.Unmarshal(entities, &device.Entities); err != nil {
			return nil, fmt.Errorf("decode entities of %s: %w", device.Identifier, err)
		}
	}

	return &device, nil
}

var _ Registry = (*CNPGRegistry)(nil)
