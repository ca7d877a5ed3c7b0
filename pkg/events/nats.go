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
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

const cloudEventTypePrefix = "com.carverauto.sensora."

// NATSPublisher publishes events as CloudEvents to a JetStream stream on
// <subjectPrefix>.<kind>.
type NATSPublisher struct {
	js            jetstream.JetStream
	subjectPrefix string
	source        string
	logger        logger.Logger
}

func NewNATSPublisher(js jetstream.JetStream, subjectPrefix, source string, log logger.Logger) *NATSPublisher {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &NATSPublisher{
		js:            js,
		subjectPrefix: subjectPrefix,
		source:        source,
		logger:        log,
	}
}

// Subject returns the subject events of kind are published on.
func (p *NATSPublisher) Subject(kind Kind) string {
	return p.subjectPrefix + "." + string(kind)
}

// Subjects returns the subject of every kind, for stream provisioning.
func (p *NATSPublisher) Subjects() []string {
	kinds := Kinds()
	out := make([]string, 0, len(kinds))

	for _, kind := range kinds {
		out = append(out, p.Subject(kind))
	}

	return out
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	ts := event.Time

	ce := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          p.source,
		Type:            cloudEventTypePrefix + string(event.Kind),
		DataContentType: "application/json",
		Subject:         p.Subject(event.Kind),
		Time:            &ts,
		Data:            event.Payload,
	}

	body, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Kind, err)
	}

	ack, err := p.js.Publish(ctx, ce.Subject, body)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Kind, err)
	}

	p.logger.Debug().
		Str("event_id", ce.ID).
		Str("subject", ce.Subject).
		Uint64("seq", ack.Sequence).
		Msg("Published event")

	return nil
}

var _ Publisher = (*NATSPublisher)(nil)
