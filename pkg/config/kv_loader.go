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

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/carverauto/sensora/pkg/kv"
	"github.com/carverauto/sensora/pkg/logger"
)

var errKVKeyNotFound = errors.New("key not found in KV store")

// KVKeyForPath maps a config file path to its KV key, config/<basename>.
func KVKeyForPath(path string) string {
	return "config/" + filepath.Base(path)
}

// KVConfigLoader loads configuration from a KV store.
type KVConfigLoader struct {
	store kv.KVStore
}

func NewKVConfigLoader(store kv.KVStore) *KVConfigLoader {
	return &KVConfigLoader{store: store}
}

func (k *KVConfigLoader) Load(ctx context.Context, path string, dst interface{}) error {
	key := KVKeyForPath(path)

	data, found, err := k.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get key '%s' from KV store: %w", key, err)
	}

	if !found {
		return fmt.Errorf("%w: '%s'", errKVKeyNotFound, key)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from key '%s': %w", key, err)
	}

	return nil
}

// WatchKV calls onChange with every new non-empty value stored under key
// until ctx is canceled. The store is left open.
func WatchKV(ctx context.Context, store kv.KVStore, key string, log logger.Logger, onChange func([]byte)) {
	if store == nil || key == "" || onChange == nil {
		return
	}

	ch, err := store.Watch(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("KV watch failed")

		return
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-ch:
				if !ok {
					return
				}

				if len(data) == 0 {
					log.Info().Str("key", key).Msg("KV config deleted, keeping current settings")
					continue
				}

				log.Info().Str("key", key).Msg("KV config updated")
				onChange(data)
			}
		}
	}()
}
