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
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/carverauto/sensora/pkg/models"
)

// addDeviceBody accepts the field names used by both the UI and the legacy
// gateway tooling.
type addDeviceBody struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	SerialNumber string `json:"serialNumber"`
	IP           string `json:"ip"`
	SN           string `json:"sn"`
}

func (b *addDeviceBody) request() *models.AddDeviceRequest {
	req := &models.AddDeviceRequest{
		Name:         b.Name,
		Address:      b.Address,
		SerialNumber: b.SerialNumber,
	}

	if strings.TrimSpace(req.Address) == "" {
		req.Address = b.IP
	}

	if strings.TrimSpace(req.SerialNumber) == "" {
		req.SerialNumber = b.SN
	}

	return req
}

func (*Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "ok")
}

func (s *Server) activeCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.status.CountOnline(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	s.writeJSONResponse(w, http.StatusOK, models.CountResponse{Count: int64(count)})
}

func (s *Server) report(w http.ResponseWriter, _ *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, s.status.LatestReport())
}

func (s *Server) detectStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, models.DetectStatusResponse{
		DetectStatus: s.status.DetectStatus().String(),
	})
}

func (s *Server) runBenchmark(w http.ResponseWriter, r *http.Request) {
	// a client that stops waiting must not cut the fleet sweep short
	report, err := s.runner.RunBenchmark(context.WithoutCancel(r.Context()))
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	s.writeJSONResponse(w, http.StatusOK, report)
}

func (s *Server) addDevice(w http.ResponseWriter, r *http.Request) {
	var body addDeviceBody

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&body); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)

		return
	}

	device, err := s.devices.AddDevice(r.Context(), body.request())
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	s.writeJSONResponse(w, http.StatusCreated, device)
}

func (s *Server) searchDevices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	summaries, err := s.devices.SearchDevices(r.Context(), query.Get("name"), query.Get("identifier"))
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	if summaries == nil {
		summaries = []models.DeviceSummary{}
	}

	s.writeJSONResponse(w, http.StatusOK, summaries)
}

func (s *Server) deviceStatus(w http.ResponseWriter, r *http.Request) {
	info, err := s.status.GetStatus(r.Context(), mux.Vars(r)["identifier"])
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	s.writeJSONResponse(w, http.StatusOK, info)
}

func (s *Server) setOnline(w http.ResponseWriter, r *http.Request) {
	identifier := mux.Vars(r)["identifier"]

	if err := s.status.SetOnline(r.Context(), identifier); err != nil {
		s.writeDomainError(w, r, fmt.Errorf("failed to set device %s online: %w", identifier, err))

		return
	}

	writeText(w, fmt.Sprintf("Device %s is %s", identifier, models.DeviceOnline))
}

func (s *Server) deleteDevice(w http.ResponseWriter, r *http.Request) {
	identifier := mux.Vars(r)["identifier"]

	if _, err := s.devices.DeleteDevice(r.Context(), identifier); err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	writeText(w, fmt.Sprintf("Device %s deleted", identifier))
}

// sensorData serves the whole snapshot, or one topic's reading when the topic
// query parameter is set.
func (s *Server) sensorData(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		s.writeJSONResponse(w, http.StatusOK, s.sensors.Snapshot())

		return
	}

	reading, ok := s.sensors.Reading(topic)
	if !ok {
		writeError(w, fmt.Sprintf("No reading for topic %s", topic), http.StatusNotFound)

		return
	}

	s.writeJSONResponse(w, http.StatusOK, reading)
}
