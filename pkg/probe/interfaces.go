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

//go:generate mockgen -destination=mock_probe.go -package=probe github.com/carverauto/sensora/pkg/probe Prober

// Package probe checks whether a single device answers on the network.
package probe

import (
	"context"
	"time"
)

// Outcome classifies one probe.
type Outcome int

const (
	// Reachable means the device answered.
	Reachable Outcome = iota
	// Unreachable means the device did not answer before the timeout or the
	// network reported it unreachable.
	Unreachable
	// ProbeError means the probe itself could not run (bad address, DNS
	// failure, missing socket permission, cancellation).
	ProbeError
)

func (o Outcome) String() string {
	switch o {
	case Reachable:
		return "reachable"
	case Unreachable:
		return "unreachable"
	case ProbeError:
		return "probe_error"
	default:
		return "unknown"
	}
}

// Result is the typed outcome of one probe.
type Result struct {
	Outcome Outcome
	Method  string
	RTT     time.Duration
	Err     error
}

// Prober probes one address, giving up after timeout.
type Prober interface {
	Probe(ctx context.Context, address string, timeout time.Duration) Result
}
