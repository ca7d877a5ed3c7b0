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

//go:generate mockgen -destination=mock_ingest.go -package=ingest github.com/carverauto/sensora/pkg/ingest Subscriber,Forwarder

// Package ingest keeps the latest sensor reading per MQTT topic.
package ingest

import "context"

// Subscriber delivers messages published under <prefix>/<username>/<subPath>.
// Shared subscriptions split the stream between service replicas.
type Subscriber interface {
	Subscribe(username, subPath string, handler func(topic string, payload []byte), shared bool) error
	FullTopicName(username, subPath string) string
}

// Forwarder ships raw payloads downstream. Accepted payloads go to Forward,
// payloads that failed to decode go to DeadLetter.
type Forwarder interface {
	Forward(ctx context.Context, topic string, payload []byte)
	DeadLetter(ctx context.Context, topic string, payload []byte, cause error)
}
