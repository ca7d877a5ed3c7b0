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

package forward

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return w.err
	}

	w.messages = append(w.messages, msgs...)

	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true

	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}

	return ""
}

func TestForwardWritesToMainTopic(t *testing.T) {
	main, dlq := &fakeWriter{}, &fakeWriter{}
	f := newKafkaForwarderWith(main, dlq, logger.NewTestLogger())

	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	f.now = func() time.Time { return fixed }

	f.Forward(context.Background(), "beaver-iot/test/em320th/data", []byte(`{"humidity":1}`))

	require.Len(t, main.messages, 1)
	assert.Empty(t, dlq.messages)

	msg := main.messages[0]
	assert.Equal(t, "beaver-iot/test/em320th/data", string(msg.Key))
	assert.Equal(t, `{"humidity":1}`, string(msg.Value))
	assert.Equal(t, fixed, msg.Time)
	assert.Equal(t, "beaver-iot/test/em320th/data", header(msg, headerMQTTTopic))
}

func TestDeadLetterCarriesCause(t *testing.T) {
	main, dlq := &fakeWriter{}, &fakeWriter{}
	f := newKafkaForwarderWith(main, dlq, logger.NewTestLogger())

	f.DeadLetter(context.Background(), "t", []byte("garbage"), errors.New("invalid character 'g'"))

	require.Len(t, dlq.messages, 1)
	assert.Empty(t, main.messages)
	assert.Equal(t, "invalid character 'g'", header(dlq.messages[0], headerError))
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	main := &fakeWriter{err: errors.New("closed")}
	f := newKafkaForwarderWith(main, &fakeWriter{}, logger.NewTestLogger())

	assert.NotPanics(t, func() {
		f.Forward(context.Background(), "t", []byte("{}"))
	})
}

func TestCloseClosesBothWriters(t *testing.T) {
	main, dlq := &fakeWriter{}, &fakeWriter{}
	f := newKafkaForwarderWith(main, dlq, logger.NewTestLogger())

	require.NoError(t, f.Close())
	assert.True(t, main.closed)
	assert.True(t, dlq.closed)
}

func TestNewKafkaForwarderConfiguresWriters(t *testing.T) {
	cfg := &models.KafkaConfig{
		Brokers:   []string{"127.0.0.1:9092"},
		Topic:     "sensora.telemetry",
		DLQTopic:  "sensora.telemetry.dlq",
		BatchSize: 50,
	}

	f := NewKafkaForwarder(cfg, logger.NewTestLogger())
	t.Cleanup(func() { _ = f.Close() })

	main, ok := f.main.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "sensora.telemetry", main.Topic)
	assert.Equal(t, 50, main.BatchSize)
	assert.True(t, main.Async)

	dlq, ok := f.dlq.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "sensora.telemetry.dlq", dlq.Topic)
}
