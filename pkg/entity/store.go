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

package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carverauto/sensora/pkg/kv"
	"github.com/carverauto/sensora/pkg/logger"
)

var errEmptyKey = errors.New("entity key is empty")

// KVValueStore keeps entity values as JSON numbers in a kv.KVStore.
type KVValueStore struct {
	store  kv.KVStore
	logger logger.Logger
}

func NewKVValueStore(store kv.KVStore, log logger.Logger) *KVValueStore {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &KVValueStore{store: store, logger: log}
}

func (s *KVValueStore) FindValueByKey(ctx context.Context, key string) (int64, bool, error) {
	if key == "" {
		return 0, false, errEmptyKey
	}

	data, found, err := s.store.Get(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("read entity %s: %w", key, err)
	}

	if !found {
		return 0, false, nil
	}

	var value int64
	if err := json.Unmarshal(data, &value); err != nil {
		// treated like an absent value so a corrupt entry never blocks queries
		s.logger.Warn().Err(err).Str("key", key).Msg("Ignoring undecodable entity value")

		return 0, false, nil
	}

	return value, true, nil
}

func (s *KVValueStore) FindValuesByKeys(ctx context.Context, keys []string) (map[string]int64, error) {
	values := make(map[string]int64, len(keys))

	for _, key := range keys {
		if _, seen := values[key]; seen {
			continue
		}

		value, found, err := s.FindValueByKey(ctx, key)
		if err != nil {
			return nil, err
		}

		if found {
			values[key] = value
		}
	}

	return values, nil
}

func (s *KVValueStore) WriteValue(ctx context.Context, key string, value int64) error {
	if key == "" {
		return errEmptyKey
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, key, data, 0); err != nil {
		return fmt.Errorf("write entity %s: %w", key, err)
	}

	return nil
}

func (s *KVValueStore) DeleteValues(ctx context.Context, keys ...string) error {
	var errs []error

	for _, key := range keys {
		if key == "" {
			continue
		}

		if err := s.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete entity %s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

var _ ValueStore = (*KVValueStore)(nil)
