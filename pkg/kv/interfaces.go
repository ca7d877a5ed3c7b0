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

//go:generate mockgen -destination=mock_kv.go -package=kv github.com/carverauto/sensora/pkg/kv KVStore

// Package kv holds the key/value stores backing entity values.
package kv

import (
	"context"
	"time"
)

// KVStore is the minimal key/value contract used for entity values and remote configuration.
type KVStore interface {
	// Get returns the value, whether the key was found, and an error if the lookup failed.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores a value. A zero ttl keeps the value until it is deleted.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Watch streams new values for key. A nil value signals a delete. The
	// channel is closed when ctx is canceled or the store is closed.
	Watch(ctx context.Context, key string) (<-chan []byte, error)

	Close() error
}
