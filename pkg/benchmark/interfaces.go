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

//go:generate mockgen -destination=mock_benchmark.go -package=benchmark github.com/carverauto/sensora/pkg/benchmark Runner,StateProvider

// Package benchmark runs reachability sweeps over the registered fleet.
package benchmark

import (
	"context"

	"github.com/carverauto/sensora/pkg/models"
)

// Runner executes one sweep.
type Runner interface {
	RunBenchmark(ctx context.Context) (*models.DetectReport, error)
}

// StateProvider exposes the sweep state owned by the orchestrator.
type StateProvider interface {
	DetectStatus() models.DetectStatus
	LatestReport() *models.DetectReport
}
