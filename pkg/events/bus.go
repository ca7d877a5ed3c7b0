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

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carverauto/sensora/pkg/logger"
)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches events to in-process subscribers keyed by Kind and then to
// any forwarding publishers. Handlers run synchronously on the publishing
// goroutine, in subscription order, so they must hand long work off.
type Bus struct {
	mu       sync.RWMutex
	subs     map[Kind][]subscription
	forwards []Publisher
	nextID   uint64
	logger   logger.Logger
	now      func() time.Time
}

func NewBus(log logger.Logger) *Bus {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Bus{
		subs:   make(map[Kind][]subscription),
		logger: log,
		now:    time.Now,
	}
}

// Subscribe registers handler for kind and returns a function that removes it.
func (b *Bus) Subscribe(kind Kind, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.subs[kind]
		for i := range subs {
			if subs[i].id == id {
				b.subs[kind] = append(subs[:i:i], subs[i+1:]...)

				return
			}
		}
	}
}

// Forward sends every published event to p after local delivery.
func (b *Bus) Forward(p Publisher) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.forwards = append(b.forwards, p)
}

// Publish delivers event to every subscriber of its kind. Forwarding errors
// are logged; the first one is returned after all deliveries.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	if event.Time.IsZero() {
		event.Time = b.now()
	}

	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[event.Kind]...)
	forwards := append([]Publisher(nil), b.forwards...)
	b.mu.RUnlock()

	for _, sub := range subs {
		b.deliver(ctx, sub.handler, event)
	}

	var firstErr error

	for _, p := range forwards {
		if err := p.Publish(ctx, event); err != nil {
			b.logger.Warn().Err(err).Str("event", event.Path()).Msg("Failed to forward event")

			if firstErr == nil {
				firstErr = fmt.Errorf("forward %s: %w", event.Path(), err)
			}
		}
	}

	return firstErr
}

func (b *Bus) deliver(ctx context.Context, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Str("event", event.Path()).
				Msg("Event handler panicked")
		}
	}()

	handler(ctx, event)
}

var _ Publisher = (*Bus)(nil)
