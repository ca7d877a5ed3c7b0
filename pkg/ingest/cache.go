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

package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/metrics"
	"github.com/carverauto/sensora/pkg/models"
)

const (
	fieldHumidity    = "humidity"
	fieldTemperature = "temperature"
)

var (
	errAlreadyStarted = errors.New("ingestion cache already subscribed")
	errNotAnObject    = errors.New("payload is not a JSON object")
)

// Cache holds the most recent reading of every topic. Each message replaces
// the previous reading of its topic entirely.
type Cache struct {
	username  string
	subPath   string
	recorder  metrics.Recorder
	forwarder Forwarder
	logger    logger.Logger

	mu       sync.RWMutex
	readings map[string]models.SensorReading

	startMu sync.Mutex
	started bool
}

// Option customizes a Cache.
type Option func(*Cache)

// WithForwarder ships every received payload to f after decoding.
func WithForwarder(f Forwarder) Option {
	return func(c *Cache) {
		c.forwarder = f
	}
}

// NewCache creates a cache that subscribes to username/subPath once started.
func NewCache(username, subPath string, recorder metrics.Recorder, log logger.Logger, opts ...Option) *Cache {
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	if username == "" {
		username = models.DefaultMQTTUsername
	}

	if subPath == "" {
		subPath = models.DefaultTopicSubPath
	}

	c := &Cache{
		username: username,
		subPath:  subPath,
		recorder: recorder,
		logger:   log,
		readings: make(map[string]models.SensorReading),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start subscribes in shared mode. It may only succeed once.
func (c *Cache) Start(_ context.Context, sub Subscriber) error {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	if c.started {
		return errAlreadyStarted
	}

	if err := sub.Subscribe(c.username, c.subPath, c.HandleMessage, true); err != nil {
		return fmt.Errorf("failed to subscribe to telemetry: %w", err)
	}

	c.started = true

	c.logger.Info().
		Str("topic", sub.FullTopicName(c.username, c.subPath)).
		Str("username", c.username).
		Msg("Subscribed to LoRa gateway telemetry")

	return nil
}

// HandleMessage decodes one payload and stores it under topic. Malformed
// payloads are logged and dropped, leaving the previous reading in place.
func (c *Cache) HandleMessage(topic string, payload []byte) {
	ctx := context.Background()

	reading, err := decodeReading(payload)
	if err != nil {
		c.logger.Error().Err(err).Str("topic", topic).Msg("Failed to parse LoRa gateway message payload")
		c.recorder.IngestMessage(ctx, false)

		if c.forwarder != nil {
			c.forwarder.DeadLetter(ctx, topic, payload, err)
		}

		return
	}

	c.mu.Lock()
	c.readings[topic] = reading
	c.mu.Unlock()

	c.recorder.IngestMessage(ctx, true)

	if c.forwarder != nil {
		c.forwarder.Forward(ctx, topic, payload)
	}

	c.logger.Debug().
		Str("topic", topic).
		Float64(fieldHumidity, reading.Humidity).
		Float64(fieldTemperature, reading.Temperature).
		Msg("Extracted sensor data")
}

func decodeReading(payload []byte) (models.SensorReading, error) {
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return models.SensorReading{}, err
	}

	if fields == nil {
		return models.SensorReading{}, errNotAnObject
	}

	return models.SensorReading{
		Humidity:    numberOrZero(fields[fieldHumidity]),
		Temperature: numberOrZero(fields[fieldTemperature]),
	}, nil
}

func numberOrZero(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}

	return 0
}

// Snapshot returns a copy of every cached reading.
func (c *Cache) Snapshot() map[string]models.SensorReading {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return maps.Clone(c.readings)
}

// Reading returns the cached reading of one topic.
func (c *Cache) Reading(topic string) (models.SensorReading, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.readings[topic]

	return r, ok
}
