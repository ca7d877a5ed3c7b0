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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/sensora/pkg/benchmark"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

const testIntegration = "sensora-integration"

type testServer struct {
	status  *MockStatusQuerier
	devices *MockDeviceManager
	runner  *benchmark.MockRunner
	sensors *MockSensorSource
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctrl := gomock.NewController(t)

	ts := &testServer{
		status:  NewMockStatusQuerier(ctrl),
		devices: NewMockDeviceManager(ctrl),
		runner:  benchmark.NewMockRunner(ctrl),
		sensors: NewMockSensorSource(ctrl),
	}

	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})

	s := NewServer(testIntegration, models.CORSConfig{AllowedOrigins: []string{"*"}}, logger.NewTestLogger(),
		WithStatusQuerier(ts.status),
		WithDeviceManager(ts.devices),
		WithRunner(ts.runner),
		WithSensorSource(ts.sensors),
		WithMetricsHandler(metricsHandler),
	)

	ts.handler = s.Handler()

	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))

	return v
}

func TestActiveCount(t *testing.T) {
	ts := newTestServer(t)
	ts.status.EXPECT().CountOnline(gomock.Any()).Return(3, nil)

	rr := ts.do(http.MethodGet, "/"+testIntegration+"/active-count", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(3), decodeBody[models.CountResponse](t, rr).Count)
}

func TestActiveCountFailureIsInternalError(t *testing.T) {
	ts := newTestServer(t)
	ts.status.EXPECT().CountOnline(gomock.Any()).Return(0, errors.New("kv down"))

	rr := ts.do(http.MethodGet, "/"+testIntegration+"/active-count", "")

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	resp := decodeBody[models.ErrorResponse](t, rr)
	assert.Equal(t, "Internal server error", resp.Message)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
}

func TestUnknownIntegrationIsNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodGet, "/other-integration/active-count", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReportAndDetectStatus(t *testing.T) {
	ts := newTestServer(t)
	ts.status.EXPECT().LatestReport().Return(&models.DetectReport{ConsumedTime: 12, OnlineCount: 2, OfflineCount: 1})
	ts.status.EXPECT().DetectStatus().Return(models.DetectDetecting)

	rr := ts.do(http.MethodGet, "/"+testIntegration+"/report", "")
	require.Equal(t, http.StatusOK, rr.Code)

	report := decodeBody[models.DetectReport](t, rr)
	assert.Equal(t, int64(12), report.ConsumedTime)
	assert.Equal(t, int64(3), report.Total())

	rr = ts.do(http.MethodGet, "/"+testIntegration+"/detect-status", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "DETECTING", decodeBody[models.DetectStatusResponse](t, rr).DetectStatus)
}

func TestReportBeforeFirstSweep(t *testing.T) {
	ts := newTestServer(t)
	ts.status.EXPECT().LatestReport().Return(&models.DetectReport{})

	rr := ts.do(http.MethodGet, "/"+testIntegration+"/report", "")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.JSONEq(t, `{"consumedTime":0,"onlineCount":0,"offlineCount":0}`, rr.Body.String())
}

func TestRunBenchmark(t *testing.T) {
	tests := []struct {
		name   string
		report *models.DetectReport
		err    error
		code   int
	}{
		{name: "completed", report: &models.DetectReport{OnlineCount: 1}, code: http.StatusOK},
		{name: "in progress", err: models.ErrSweepInProgress, code: http.StatusConflict},
		{name: "registry failure", err: errors.New("boom"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.runner.EXPECT().RunBenchmark(gomock.Any()).Return(tt.report, tt.err)

			rr := ts.do(http.MethodPost, "/"+testIntegration+"/benchmark", "")

			assert.Equal(t, tt.code, rr.Code)
		})
	}
}

func TestRunBenchmarkOutlivesClientDisconnect(t *testing.T) {
	ts := newTestServer(t)

	ts.runner.EXPECT().RunBenchmark(gomock.Any()).DoAndReturn(func(ctx context.Context) (*models.DetectReport, error) {
		require.NoError(t, ctx.Err())

		return &models.DetectReport{OnlineCount: 2}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/"+testIntegration+"/benchmark", http.NoBody).WithContext(ctx)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAddDevice(t *testing.T) {
	ts := newTestServer(t)

	ts.devices.EXPECT().
		AddDevice(gomock.Any(), &models.AddDeviceRequest{Name: "probe", Address: "10.0.0.5", SerialNumber: "SN1"}).
		Return(&models.Device{Name: "probe", Identifier: "10_0_0_5-sn1"}, nil)

	rr := ts.do(http.MethodPost, "/"+testIntegration+"/device",
		`{"name":"probe","address":"10.0.0.5","serialNumber":"SN1"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "10_0_0_5-sn1", decodeBody[models.Device](t, rr).Identifier)
}

func TestAddDeviceAcceptsAliases(t *testing.T) {
	ts := newTestServer(t)

	ts.devices.EXPECT().
		AddDevice(gomock.Any(), &models.AddDeviceRequest{Name: "probe", Address: "10.0.0.5", SerialNumber: "SN1"}).
		Return(&models.Device{Name: "probe"}, nil)

	rr := ts.do(http.MethodPost, "/"+testIntegration+"/device", `{"name":"probe","ip":"10.0.0.5","sn":"SN1"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestAddDeviceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "conflict", err: fmt.Errorf("device exists: %w", models.ErrConflict), code: http.StatusConflict},
		{name: "invalid", err: fmt.Errorf("%w: name is required", models.ErrInvalidDevice), code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.devices.EXPECT().AddDevice(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rr := ts.do(http.MethodPost, "/"+testIntegration+"/device", `{"name":"x","address":"1.2.3.4","serialNumber":"a"}`)

			require.Equal(t, tt.code, rr.Code)
			assert.Contains(t, decodeBody[models.ErrorResponse](t, rr).Message, tt.err.Error())
		})
	}
}

func TestAddDeviceMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodPost, "/"+testIntegration+"/device", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchDevices(t *testing.T) {
	ts := newTestServer(t)

	ts.devices.EXPECT().SearchDevices(gomock.Any(), "lab", "10_0").Return([]models.DeviceSummary{
		{Name: "lab-1", Identifier: "10_0_0_1-a", Status: "ONLINE"},
	}, nil)

	rr := ts.do(http.MethodGet, "/"+testIntegration+"/devices?name=lab&identifier=10_0", "")

	require.Equal(t, http.StatusOK, rr.Code)

	summaries := decodeBody[[]models.DeviceSummary](t, rr)
	require.Len(t, summaries, 1)
	assert.Equal(t, "ONLINE", summaries[0].Status)
}

func TestSearchDevicesEmptyIsArray(t *testing.T) {
	ts := newTestServer(t)
	ts.devices.EXPECT().SearchDevices(gomock.Any(), "", "").Return(nil, nil)

	rr := ts.do(http.MethodGet, "/"+testIntegration+"/devices", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestDeviceStatus(t *testing.T) {
	ts := newTestServer(t)

	ts.status.EXPECT().GetStatus(gomock.Any(), "dev-1").
		Return(&models.DeviceStatusInfo{Identifier: "dev-1", Status: "OFFLINE"}, nil)
	ts.status.EXPECT().GetStatus(gomock.Any(), "missing").
		Return(nil, fmt.Errorf("device missing: %w", models.ErrNotFound))

	rr := ts.do(http.MethodGet, "/"+testIntegration+"/devices/dev-1/status", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OFFLINE", decodeBody[models.DeviceStatusInfo](t, rr).Status)

	rr = ts.do(http.MethodGet, "/"+testIntegration+"/devices/missing/status", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSetOnline(t *testing.T) {
	ts := newTestServer(t)

	ts.status.EXPECT().SetOnline(gomock.Any(), "dev-1").Return(nil)
	ts.status.EXPECT().SetOnline(gomock.Any(), "missing").Return(models.ErrNotFound)

	rr := ts.do(http.MethodPost, "/"+testIntegration+"/devices/dev-1/status/online", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Device dev-1 is ONLINE\n", rr.Body.String())

	rr = ts.do(http.MethodPost, "/"+testIntegration+"/devices/missing/status/online", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteDevice(t *testing.T) {
	ts := newTestServer(t)

	ts.devices.EXPECT().DeleteDevice(gomock.Any(), "dev-1").Return(&models.Device{Identifier: "dev-1"}, nil)
	ts.devices.EXPECT().DeleteDevice(gomock.Any(), "dev-1").Return(nil, models.ErrNotFound)

	rr := ts.do(http.MethodDelete, "/"+testIntegration+"/devices/dev-1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Device dev-1 deleted\n", rr.Body.String())

	rr = ts.do(http.MethodDelete, "/"+testIntegration+"/devices/dev-1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSensorData(t *testing.T) {
	ts := newTestServer(t)

	ts.sensors.EXPECT().Snapshot().Return(map[string]models.SensorReading{
		"beaver-iot/test/em320th/data": {Humidity: 40.5, Temperature: 21},
	})

	rr := ts.do(http.MethodGet, "/"+testIntegration+"/sensor-data", "")

	require.Equal(t, http.StatusOK, rr.Code)

	snapshot := decodeBody[map[string]models.SensorReading](t, rr)
	assert.InDelta(t, 40.5, snapshot["beaver-iot/test/em320th/data"].Humidity, 0.001)
}

func TestSensorDataSingleTopic(t *testing.T) {
	ts := newTestServer(t)

	const topic = "beaver-iot/test/em320th/data"

	ts.sensors.EXPECT().Reading(topic).Return(models.SensorReading{Humidity: 55, Temperature: 19.5}, true)
	ts.sensors.EXPECT().Reading("beaver-iot/test/other").Return(models.SensorReading{}, false)

	rr := ts.do(http.MethodGet, "/"+testIntegration+"/sensor-data?topic="+topic, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.InDelta(t, 19.5, decodeBody[models.SensorReading](t, rr).Temperature, 0.001)

	rr = ts.do(http.MethodGet, "/"+testIntegration+"/sensor-data?topic=beaver-iot/test/other", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "# metrics")
}

func TestUnconfiguredComponentsAreNotRouted(t *testing.T) {
	s := NewServer(testIntegration, models.CORSConfig{}, logger.NewTestLogger())

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/"+testIntegration+"/sensor-data", http.NoBody))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
