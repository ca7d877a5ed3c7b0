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

package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/sensora/pkg/logger"
)

// NatsStore keeps values in a JetStream key/value bucket. Keys are passed
// through EncodeKey so device identifiers never violate the bucket alphabet.
type NatsStore struct {
	nc     *nats.Conn
	ownsNC bool
	kv     jetstream.KeyValue
	ctx    context.Context
	logger logger.Logger
}

// NewNatsStore connects to natsURL and opens (or creates) bucket.
func NewNatsStore(ctx context.Context, natsURL, domain, bucket string, ttl time.Duration, log logger.Logger) (*NatsStore, error) {
	if natsURL == "" {
		return nil, errNatsURLRequired
	}

	nc, err := nats.Connect(natsURL, nats.Name("sensora-kv"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	store, err := NewNatsStoreFromConn(ctx, nc, domain, bucket, ttl, log)
	if err != nil {
		nc.Close()

		return nil, err
	}

	store.ownsNC = true

	return store, nil
}

// NewNatsStoreFromConn opens bucket on an existing connection. Close leaves the connection open.
func NewNatsStoreFromConn(
	ctx context.Context, nc *nats.Conn, domain, bucket string, ttl time.Duration, log logger.Logger,
) (*NatsStore, error) {
	if bucket == "" {
		return nil, errBucketRequired
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	var (
		js  jetstream.JetStream
		err error
	)

	if domain != "" {
		js, err = jetstream.NewWithDomain(nc, domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	config := jetstream.KeyValueConfig{
		Bucket: bucket,
	}

	if ttl > 0 {
		config.TTL = ttl
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create KV bucket: %w", err)
	}

	return &NatsStore{
		nc:     nc,
		kv:     kv,
		ctx:    ctx,
		logger: log,
	}, nil
}

func (n *NatsStore) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	var entry jetstream.KeyValueEntry

	entry, err = n.kv.Get(ctx, EncodeKey(key))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return entry.Value(), true, nil
}

// Put ignores ttl; expiry is configured on the bucket.
func (n *NatsStore) Put(ctx context.Context, key string, value []byte, _ time.Duration) error {
	if _, err := n.kv.Put(ctx, EncodeKey(key), value); err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}

	return nil
}

func (n *NatsStore) Delete(ctx context.Context, key string) error {
	err := n.kv.Delete(ctx, EncodeKey(key))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

func (n *NatsStore) Watch(ctx context.Context, key string) (<-chan []byte, error) {
	watcher, err := n.kv.Watch(ctx, EncodeKey(key), jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to watch key %s: %w", key, err)
	}

	ch := make(chan []byte, 1)
	go n.handleWatchUpdates(ctx, key, watcher, ch)

	return ch, nil
}

func (n *NatsStore) handleWatchUpdates(ctx context.Context, key string, watcher jetstream.KeyWatcher, ch chan<- []byte) {
	defer func() {
		if err := watcher.Stop(); err != nil {
			n.logger.Warn().Err(err).Str("key", key).Msg("Failed to stop KV watcher")
		}

		close(ch)
	}()

	for {
		var update jetstream.KeyValueEntry

		select {
		case <-ctx.Done():
			return
		case <-n.ctx.Done():
			return
		case entry, ok := <-watcher.Updates():
			if !ok {
				return
			}

			update = entry
		}

		if update == nil {
			// end of initial values marker
			continue
		}

		var value []byte
		if update.Operation() == jetstream.KeyValuePut {
			value = update.Value()
		}

		select {
		case ch <- value:
		case <-ctx.Done():
			return
		case <-n.ctx.Done():
			return
		}
	}
}

func (n *NatsStore) Close() error {
	if n.ownsNC {
		n.nc.Close()
	}

	return nil
}

var _ KVStore = (*NatsStore)(nil)
