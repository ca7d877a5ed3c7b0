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

//go:generate mockgen -destination=mock_entity.go -package=entity github.com/carverauto/sensora/pkg/entity ValueStore

// Package entity reads and writes the current values of named entities.
package entity

import (
	"context"
)

// ValueStore holds the current integer value of entity keys such as a
// device's status ordinal.
type ValueStore interface {
	// FindValueByKey returns the stored value and whether one exists.
	FindValueByKey(ctx context.Context, key string) (int64, bool, error)

	// FindValuesByKeys returns the values that exist. Missing keys are absent from the map.
	FindValuesByKeys(ctx context.Context, keys []string) (map[string]int64, error)

	WriteValue(ctx context.Context, key string, value int64) error

	// DeleteValues removes every key. Missing keys are ignored.
	DeleteValues(ctx context.Context, keys ...string) error
}
