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
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/sensora/pkg/entity"
	"github.com/carverauto/sensora/pkg/kv"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

func newDevice(address, serial string) *models.Device {
	identifier := models.DeviceIdentifier(address, serial)

	return &models.Device{
		IntegrationID: models.DefaultIntegrationID,
		Name:          "sensor " + serial,
		Identifier:    identifier,
		Additional: map[string]string{
			models.AdditionalIP:           address,
			models.AdditionalSerialNumber: serial,
		},
		Entities: []models.Entity{entity.DeviceStatusEntity(models.DefaultIntegrationID, identifier)},
	}
}

func TestMemoryRegistrySaveAndFind(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry(nil, logger.NewTestLogger())

	saved, err := reg.Save(ctx, newDevice("10.0.0.1", "SN1"))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	found, err := reg.FindByIdentifier(ctx, models.DefaultIntegrationID, "10_0_0_1-sn1")
	require.NoError(t, err)
	assert.Equal(t, saved, found)

	_, err = reg.FindByIdentifier(ctx, "other-integration", "10_0_0_1-sn1")
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = reg.Save(ctx, newDevice("10.0.0.2", "SN2"))
	require.NoError(t, err)

	all, err := reg.FindAll(ctx, models.DefaultIntegrationID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "10_0_0_1-sn1", all[0].Identifier)
	assert.Equal(t, "10_0_0_2-sn2", all[1].Identifier)
}

func TestMemoryRegistryConflict(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry(nil, nil)

	_, err := reg.Save(ctx, newDevice("10.0.0.1", "SN1"))
	require.NoError(t, err)

	_, err = reg.Save(ctx, newDevice("10.0.0.1", "sn1"))
	require.ErrorIs(t, err, models.ErrConflict)
}

func TestMemoryRegistryUpdate(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry(nil, nil)

	saved, err := reg.Save(ctx, newDevice("10.0.0.1", "SN1"))
	require.NoError(t, err)

	saved.Name = "renamed"

	_, err = reg.Save(ctx, saved)
	require.NoError(t, err)

	found, err := reg.FindByIdentifier(ctx, models.DefaultIntegrationID, saved.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "renamed", found.Name)

	ghost := newDevice("10.0.0.9", "SN9")
	ghost.ID = "does-not-exist"

	_, err = reg.Save(ctx, ghost)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryRegistryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry(nil, nil)

	saved, err := reg.Save(ctx, newDevice("10.0.0.1", "SN1"))
	require.NoError(t, err)

	saved.Additional[models.AdditionalIP] = "mutated"

	found, err := reg.FindByIdentifier(ctx, models.DefaultIntegrationID, saved.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", found.Address())
}

func TestMemoryRegistryDeleteRemovesStatus(t *testing.T) {
	ctx := context.Background()
	values := entity.NewKVValueStore(kv.NewMemoryStore(), nil)
	reg := NewMemoryRegistry(values, nil)

	saved, err := reg.Save(ctx, newDevice("10.0.0.1", "SN1"))
	require.NoError(t, err)

	key, ok := saved.StatusEntityKey()
	require.True(t, ok)
	require.NoError(t, values.WriteValue(ctx, key, int64(models.DeviceOnline)))

	require.NoError(t, reg.DeleteByID(ctx, saved.ID))

	_, found, err := values.FindValueByKey(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = reg.FindByIdentifier(ctx, models.DefaultIntegrationID, saved.Identifier)
	require.ErrorIs(t, err, models.ErrNotFound)

	require.ErrorIs(t, reg.DeleteByID(ctx, saved.ID), models.ErrNotFound)
}

func TestMemoryRegistryDeleteCleanupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	values := entity.NewMockValueStore(ctrl)
	reg := NewMemoryRegistry(values, nil)
	ctx := context.Background()

	saved, err := reg.Save(ctx, newDevice("10.0.0.1", "SN1"))
	require.NoError(t, err)

	boom := errors.New("kv down")
	values.EXPECT().DeleteValues(gomock.Any(), "sensora-integration.device.10_0_0_1-sn1.status").Return(boom)

	require.ErrorIs(t, reg.DeleteByID(ctx, saved.ID), boom)

	// the row is gone even when entity cleanup fails
	_, err = reg.FindByIdentifier(ctx, models.DefaultIntegrationID, saved.Identifier)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryRegistryConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry(nil, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := reg.Save(ctx, newDevice("10.0.0.1", "SN1")); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, successes)
}
