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

package status

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/sensora/pkg/benchmark"
	"github.com/carverauto/sensora/pkg/entity"
	"github.com/carverauto/sensora/pkg/kv"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
	"github.com/carverauto/sensora/pkg/registry"
)

const integ = models.DefaultIntegrationID

var errStore = errors.New("store unavailable")

type fixture struct {
	reg    *registry.MemoryRegistry
	values *entity.KVValueStore
	svc    *Service
}

func newFixture(t *testing.T, state benchmark.StateProvider) *fixture {
	t.Helper()

	log := logger.NewTestLogger()
	values := entity.NewKVValueStore(kv.NewMemoryStore(), log)
	reg := registry.NewMemoryRegistry(values, log)

	return &fixture{
		reg:    reg,
		values: values,
		svc:    NewService(integ, reg, values, state, log),
	}
}

func (f *fixture) addDevice(t *testing.T, address, serial string, status *models.DeviceStatus) *models.Device {
	t.Helper()

	identifier := models.DeviceIdentifier(address, serial)

	saved, err := f.reg.Save(context.Background(), &models.Device{
		IntegrationID: integ,
		Name:          serial,
		Identifier:    identifier,
		Additional:    map[string]string{models.AdditionalIP: address},
		Entities:      []models.Entity{entity.DeviceStatusEntity(integ, identifier)},
	})
	require.NoError(t, err)

	if status != nil {
		key, _ := saved.StatusEntityKey()
		require.NoError(t, f.values.WriteValue(context.Background(), key, int64(*status)))
	}

	return saved
}

func statusPtr(s models.DeviceStatus) *models.DeviceStatus { return &s }

func TestCountOnline(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.addDevice(t, "10.0.0.1", "a", statusPtr(models.DeviceOnline))
	f.addDevice(t, "10.0.0.2", "b", statusPtr(models.DeviceOnline))
	f.addDevice(t, "10.0.0.3", "c", statusPtr(models.DeviceOffline))
	f.addDevice(t, "10.0.0.4", "d", nil)

	_, err := f.reg.Save(ctx, &models.Device{IntegrationID: integ, Name: "bare", Identifier: "bare"})
	require.NoError(t, err)

	count, err := f.svc.CountOnline(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCountOnlineEmpty(t *testing.T) {
	f := newFixture(t, nil)

	count, err := f.svc.CountOnline(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCountOnlineErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := registry.NewMockRegistry(ctrl)
	values := entity.NewMockValueStore(ctrl)
	svc := NewService(integ, reg, values, nil, logger.NewTestLogger())

	reg.EXPECT().FindAll(gomock.Any(), integ).Return(nil, errStore)

	_, err := svc.CountOnline(context.Background())
	require.ErrorIs(t, err, errStore)

	device := &models.Device{Identifier: "x", Entities: []models.Entity{entity.DeviceStatusEntity(integ, "x")}}
	reg.EXPECT().FindAll(gomock.Any(), integ).Return([]*models.Device{device}, nil)
	values.EXPECT().FindValuesByKeys(gomock.Any(), []string{device.Entities[0].Key}).Return(nil, errStore)

	_, err = svc.CountOnline(context.Background())
	require.ErrorIs(t, err, errStore)
}

func TestGetStatus(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	online := f.addDevice(t, "10.0.0.1", "a", statusPtr(models.DeviceOnline))
	offline := f.addDevice(t, "10.0.0.2", "b", statusPtr(models.DeviceOffline))
	unknown := f.addDevice(t, "10.0.0.3", "c", nil)
	weird := f.addDevice(t, "10.0.0.4", "d", statusPtr(models.DeviceStatus(7)))

	_, err := f.reg.Save(ctx, &models.Device{IntegrationID: integ, Name: "bare", Identifier: "bare"})
	require.NoError(t, err)

	tests := []struct {
		identifier string
		want       string
	}{
		{identifier: online.Identifier, want: "ONLINE"},
		{identifier: offline.Identifier, want: "OFFLINE"},
		{identifier: unknown.Identifier, want: "UNKNOWN"},
		{identifier: weird.Identifier, want: "UNKNOWN"},
		{identifier: "bare", want: "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			info, err := f.svc.GetStatus(ctx, tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.identifier, info.Identifier)
			assert.Equal(t, tt.want, info.Status)
		})
	}

	_, err = f.svc.GetStatus(ctx, "missing")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetOnlineIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	device := &models.Device{
		Identifier: "10_0_0_1-a",
		Entities:   []models.Entity{entity.DeviceStatusEntity(integ, "10_0_0_1-a")},
	}
	key := device.Entities[0].Key

	reg := registry.NewMockRegistry(ctrl)
	values := entity.NewMockValueStore(ctrl)
	svc := NewService(integ, reg, values, nil, logger.NewTestLogger())

	reg.EXPECT().FindByIdentifier(gomock.Any(), integ, device.Identifier).Return(device, nil).Times(2)

	gomock.InOrder(
		values.EXPECT().FindValueByKey(gomock.Any(), key).Return(int64(models.DeviceOffline), true, nil),
		values.EXPECT().WriteValue(gomock.Any(), key, int64(models.DeviceOnline)).Return(nil).Times(1),
		values.EXPECT().FindValueByKey(gomock.Any(), key).Return(int64(models.DeviceOnline), true, nil),
		values.EXPECT().FindValueByKey(gomock.Any(), key).Return(int64(models.DeviceOnline), true, nil),
	)

	require.NoError(t, svc.SetOnline(context.Background(), device.Identifier))
	require.NoError(t, svc.SetOnline(context.Background(), device.Identifier))
}

func TestSetOnlineWithStore(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	d := f.addDevice(t, "10.0.0.9", "z", nil)

	require.NoError(t, f.svc.SetOnline(ctx, d.Identifier))

	info, err := f.svc.GetStatus(ctx, d.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "ONLINE", info.Status)

	require.ErrorIs(t, f.svc.SetOnline(ctx, "missing"), models.ErrNotFound)
}

func TestSetOnlineWriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	device := &models.Device{
		Identifier: "d",
		Entities:   []models.Entity{entity.DeviceStatusEntity(integ, "d")},
	}

	reg := registry.NewMockRegistry(ctrl)
	values := entity.NewMockValueStore(ctrl)
	svc := NewService(integ, reg, values, nil, logger.NewTestLogger())

	reg.EXPECT().FindByIdentifier(gomock.Any(), integ, "d").Return(device, nil)
	values.EXPECT().FindValueByKey(gomock.Any(), gomock.Any()).Return(int64(0), false, nil)
	values.EXPECT().WriteValue(gomock.Any(), gomock.Any(), int64(models.DeviceOnline)).Return(errStore)

	require.ErrorIs(t, svc.SetOnline(context.Background(), "d"), errStore)
}

func TestSweepStatePassthrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := benchmark.NewMockStateProvider(ctrl)
	f := newFixture(t, state)

	state.EXPECT().DetectStatus().Return(models.DetectDetecting)
	assert.Equal(t, models.DetectDetecting, f.svc.DetectStatus())

	state.EXPECT().LatestReport().Return(nil)
	assert.Equal(t, &models.DetectReport{}, f.svc.LatestReport())

	report := &models.DetectReport{OnlineCount: 4, OfflineCount: 1, ConsumedTime: 20}
	state.EXPECT().LatestReport().Return(report)
	assert.Same(t, report, f.svc.LatestReport())
}
