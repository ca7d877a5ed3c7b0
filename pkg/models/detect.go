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

import "time"

// DetectStatus tells whether a benchmark sweep is in progress.
type DetectStatus int64

const (
	DetectStandby DetectStatus = iota
	DetectDetecting
)

func (s DetectStatus) String() string {
	switch s {
	case DetectStandby:
		return "STANDBY"
	case DetectDetecting:
		return "DETECTING"
	default:
		return "UNKNOWN"
	}
}

// DetectReport summarizes one completed sweep. FinishedAt is left out of the
// JSON form of the empty report served before the first sweep.
type DetectReport struct {
	ConsumedTime int64     `json:"consumedTime"`
	OnlineCount  int64     `json:"onlineCount"`
	OfflineCount int64     `json:"offlineCount"`
	FinishedAt   time.Time `json:"finishedAt,omitzero"`
}

// Total is the number of devices classified in the sweep.
func (r *DetectReport) Total() int64 {
	if r == nil {
		return 0
	}

	return r.OnlineCount + r.OfflineCount
}

// SensorReading is the latest humidity/temperature pair observed on a topic.
type SensorReading struct {
	Humidity    float64 `json:"humidity"`
	Temperature float64 `json:"temperature"`
}
