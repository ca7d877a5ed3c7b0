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

// Package forward ships raw gateway telemetry to Kafka.
package forward

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

const (
	headerMQTTTopic = "mqtt_topic"
	headerError     = "error"
	dlqBatchSize    = 10
	batchTimeout    = 50 * time.Millisecond
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder writes accepted payloads to the main topic and rejected ones
// to the dead letter topic. Writes are asynchronous; delivery failures are
// only logged.
type KafkaForwarder struct {
	main   messageWriter
	dlq    messageWriter
	logger logger.Logger
	now    func() time.Time
}

// NewKafkaForwarder creates writers for cfg.Topic and cfg.DLQTopic, keyed by
// MQTT topic so one gateway's readings stay ordered within a partition.
func NewKafkaForwarder(cfg *models.KafkaConfig, log logger.Logger) *KafkaForwarder {
	f := &KafkaForwarder{logger: log, now: time.Now}

	balancer := &kafka.Hash{}

	f.main = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     balancer,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: batchTimeout,
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion:   f.completion(cfg.Topic),
	}

	f.dlq = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.DLQTopic,
		Balancer:     balancer,
		BatchSize:    dlqBatchSize,
		BatchTimeout: batchTimeout,
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion:   f.completion(cfg.DLQTopic),
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Str("dlq_topic", cfg.DLQTopic).
		Msg("Forwarding gateway telemetry to Kafka")

	return f
}

func newKafkaForwarderWith(main, dlq messageWriter, log logger.Logger) *KafkaForwarder {
	return &KafkaForwarder{main: main, dlq: dlq, logger: log, now: time.Now}
}

func (f *KafkaForwarder) completion(topic string) func([]kafka.Message, error) {
	return func(messages []kafka.Message, err error) {
		if err != nil {
			f.logger.Warn().Err(err).Str("topic", topic).Int("messages", len(messages)).Msg("Kafka delivery failed")
		}
	}
}

// Forward queues payload for the main topic.
func (f *KafkaForwarder) Forward(ctx context.Context, topic string, payload []byte) {
	msg := kafka.Message{
		Key:     []byte(topic),
		Value:   payload,
		Time:    f.now(),
		Headers: []kafka.Header{{Key: headerMQTTTopic, Value: []byte(topic)}},
	}

	if err := f.main.WriteMessages(ctx, msg); err != nil {
		f.logger.Warn().Err(err).Str("mqtt_topic", topic).Msg("Failed to queue telemetry for Kafka")
	}
}

// DeadLetter queues payload for the dead letter topic along with the decode error.
func (f *KafkaForwarder) DeadLetter(ctx context.Context, topic string, payload []byte, cause error) {
	headers := []kafka.Header{{Key: headerMQTTTopic, Value: []byte(topic)}}
	if cause != nil {
		headers = append(headers, kafka.Header{Key: headerError, Value: []byte(cause.Error())})
	}

	msg := kafka.Message{
		Key:     []byte(topic),
		Value:   payload,
		Time:    f.now(),
		Headers: headers,
	}

	if err := f.dlq.WriteMessages(ctx, msg); err != nil {
		f.logger.Warn().Err(err).Str("mqtt_topic", topic).Msg("Failed to queue rejected telemetry for Kafka")
	}
}

// Close flushes pending batches and releases both writers.
func (f *KafkaForwarder) Close() error {
	return errors.Join(f.main.Close(), f.dlq.Close())
}
