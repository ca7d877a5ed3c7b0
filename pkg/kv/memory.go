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
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a process-local KVStore.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	watchers map[string][]chan []byte
	closed   bool
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string]memoryEntry),
		watchers: make(map[string][]chan []byte),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, errStoreClosed
	}

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}

	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		return nil, false, nil
	}

	out := make([]byte, len(entry.value))
	copy(out, entry.value)

	return out, true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errStoreClosed
	}

	m.putLocked(key, value, ttl)

	return nil
}

func (m *MemoryStore) putLocked(key string, value []byte, ttl time.Duration) {
	stored := make([]byte, len(value))
	copy(stored, value)

	entry := memoryEntry{value: stored}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.entries[key] = entry
	m.notifyLocked(key, stored)
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errStoreClosed
	}

	if _, ok := m.entries[key]; !ok {
		return nil
	}

	delete(m.entries, key)
	m.notifyLocked(key, nil)

	return nil
}

// notifyLocked never blocks; a slow watcher misses intermediate values.
func (m *MemoryStore) notifyLocked(key string, value []byte) {
	for _, ch := range m.watchers[key] {
		select {
		case ch <- value:
		default:
		}
	}
}

func (m *MemoryStore) Watch(ctx context.Context, key string) (<-chan []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errStoreClosed
	}

	ch := make(chan []byte, 8)
	m.watchers[key] = append(m.watchers[key], ch)

	go func() {
		<-ctx.Done()
		m.removeWatcher(key, ch)
	}()

	return ch, nil
}

func (m *MemoryStore) removeWatcher(key string, ch chan []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	watchers := m.watchers[key]
	for i, w := range watchers {
		if w == ch {
			m.watchers[key] = append(watchers[:i], watchers[i+1:]...)
			close(ch)

			return
		}
	}
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true

	for key, watchers := range m.watchers {
		for _, ch := range watchers {
			close(ch)
		}

		delete(m.watchers, key)
	}

	return nil
}

var _ KVStore = (*MemoryStore)(nil)
