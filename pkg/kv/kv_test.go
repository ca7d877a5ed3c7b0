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
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/sensora/pkg/logger"
)

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "sensora-integration.device.10_0_0_1-sn1.status", want: "sensora-integration.device.10_0_0_1-sn1.status"},
		{name: "equals escaped", in: "a=b", want: "a=3Db"},
		{name: "space and hash", in: "a b#", want: "a=20b=23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeKey(tt.in))
		})
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, "k", []byte("1"), 0))

	value, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("1"), value)

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "k", []byte("v"), time.Minute))

	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewMemoryStore()

	ch, err := store.Watch(ctx, "k")
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "k", []byte("v1"), 0))
	require.NoError(t, store.Delete(ctx, "k"))

	assert.Equal(t, []byte("v1"), <-ch)
	assert.Nil(t, <-ch)

	require.NoError(t, store.Close())

	_, ok := <-ch
	assert.False(t, ok)

	_, _, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, errStoreClosed)
}

func TestNatsStore(t *testing.T) {
	srv := runJetStreamServer(t)
	t.Cleanup(srv.Shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := NewNatsStore(ctx, srv.ClientURL(), "", "sensora-test", 0, logger.NewTestLogger())
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	key := "sensora-integration.device.10_0_0_1-sn#1.status"

	_, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	ch, err := store.Watch(ctx, key)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, key, []byte("0"), 0))

	value, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("0"), value)

	select {
	case update := <-ch:
		assert.Equal(t, []byte("0"), update)
	case <-time.After(5 * time.Second):
		t.Fatal("no watch update received")
	}

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, "never-written"))

	_, found, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewNatsStoreValidation(t *testing.T) {
	_, err := NewNatsStore(context.Background(), "", "", "bucket", 0, nil)
	require.ErrorIs(t, err, errNatsURLRequired)
}

func runJetStreamServer(t *testing.T) *server.Server {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	srv, err := server.NewServer(opts)
	require.NoError(t, err)

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		t.Fatalf("embedded NATS server not ready for connections")
	}

	return srv
}
