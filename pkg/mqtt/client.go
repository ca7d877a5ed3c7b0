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

// Package mqtt subscribes to gateway telemetry topics on an MQTT broker.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

const (
	defaultKeepAlive      = 30 * time.Second
	defaultPingTimeout    = 10 * time.Second
	defaultRetryInterval  = 5 * time.Second
	defaultSubscribeWait  = 10 * time.Second
	defaultDisconnectWait = 250 // milliseconds
	sharedTopicPrefix     = "$share"
)

var (
	errEmptySubPath      = errors.New("topic sub path is required")
	errNilHandler        = errors.New("message handler is required")
	errSubscribeTimedOut = errors.New("mqtt subscribe timed out")
)

type subscription struct {
	topic   string
	handler func(topic string, payload []byte)
}

// Client wraps a paho client. Subscriptions are remembered and replayed on
// every (re)connect, so they survive broker restarts.
type Client struct {
	cfg    *models.MQTTConfig
	client paho.Client
	logger logger.Logger

	mu   sync.Mutex
	subs map[string]subscription
}

// NewClient builds a client for cfg. It does not connect.
func NewClient(cfg *models.MQTTConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewTestLogger()
	}

	c := &Client{
		cfg:    cfg,
		logger: log,
		subs:   make(map[string]subscription),
	}

	c.client = paho.NewClient(c.clientOptions())

	return c
}

// clientOptions keeps paho's in-order delivery: handlers run one at a time in
// arrival order, so the last message on a topic is the last one handled.
func (c *Client) clientOptions() *paho.ClientOptions {
	opts := paho.NewClientOptions().
		AddBroker(c.cfg.Broker).
		SetClientID(c.cfg.ClientID).
		SetOrderMatters(true).
		SetCleanSession(true).
		SetKeepAlive(defaultKeepAlive).
		SetPingTimeout(defaultPingTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(defaultRetryInterval).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(c.onConnectionLost)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
	}

	if c.cfg.Password != "" {
		opts.SetPassword(c.cfg.Password)
	}

	return opts
}

// newClientWith is used by tests to swap in a fake paho client.
func newClientWith(cfg *models.MQTTConfig, pc paho.Client, log logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: pc,
		logger: log,
		subs:   make(map[string]subscription),
	}
}

// Connect blocks until the broker accepts the connection or ctx ends. paho
// keeps retrying in the background after ctx ends.
func (c *Client) Connect(ctx context.Context) error {
	token := c.client.Connect()

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt connect %s: %w", c.cfg.Broker, err)
		}

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FullTopicName is the topic a gateway publishes to:
// <prefix>/<username>/<subPath>.
func (c *Client) FullTopicName(username, subPath string) string {
	return FullTopicName(c.cfg.TopicPrefix, username, subPath)
}

func FullTopicName(prefix, username, subPath string) string {
	parts := make([]string, 0, 3)

	for _, p := range []string{prefix, username, subPath} {
		if p = strings.Trim(p, "/"); p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, "/")
}

// SubscriptionTopic is the filter sent to the broker. Shared subscriptions
// use the $share/<group>/ form so replicas split the stream.
func SubscriptionTopic(group, fullTopic string, shared bool) string {
	if !shared || group == "" {
		return fullTopic
	}

	return sharedTopicPrefix + "/" + group + "/" + fullTopic
}

// Subscribe registers handler for <prefix>/<username>/<subPath>. The handler
// receives the full topic name of each message and runs on paho's goroutines.
func (c *Client) Subscribe(username, subPath string, handler func(topic string, payload []byte), shared bool) error {
	if strings.Trim(subPath, "/") == "" {
		return errEmptySubPath
	}

	if handler == nil {
		return errNilHandler
	}

	topic := SubscriptionTopic(c.cfg.ShareGroup, c.FullTopicName(username, subPath), shared)
	sub := subscription{topic: topic, handler: handler}

	c.mu.Lock()
	c.subs[topic] = sub
	c.mu.Unlock()

	c.logger.Debug().
		Str("broker", c.cfg.Broker).
		Str("client_id", c.cfg.ClientID).
		Str("topic", topic).
		Bool("shared", shared).
		Msg("Registering MQTT subscription")

	if !c.client.IsConnectionOpen() {
		// replayed by onConnect
		return nil
	}

	return c.subscribe(c.client, sub)
}

func (c *Client) subscribe(pc paho.Client, sub subscription) error {
	token := pc.Subscribe(sub.topic, c.cfg.QoS, func(_ paho.Client, msg paho.Message) {
		sub.handler(msg.Topic(), msg.Payload())
	})

	if !token.WaitTimeout(defaultSubscribeWait) {
		return fmt.Errorf("%w: %s", errSubscribeTimedOut, sub.topic)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", sub.topic, err)
	}

	c.logger.Info().Str("topic", sub.topic).Uint8("qos", c.cfg.QoS).Msg("Subscribed to MQTT topic")

	return nil
}

func (c *Client) onConnect(pc paho.Client) {
	c.logger.Info().Str("broker", c.cfg.Broker).Msg("Connected to MQTT broker")

	c.mu.Lock()
	subs := make([]subscription, 0, len(c.subs))

	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		if err := c.subscribe(pc, sub); err != nil {
			c.logger.Error().Err(err).Str("topic", sub.topic).Msg("Failed to restore MQTT subscription")
		}
	}
}

func (c *Client) onConnectionLost(_ paho.Client, err error) {
	c.logger.Warn().Err(err).Str("broker", c.cfg.Broker).Msg("MQTT connection lost")
}

// Close unsubscribes and disconnects.
func (c *Client) Close() error {
	c.mu.Lock()
	topics := make([]string, 0, len(c.subs))

	for topic := range c.subs {
		topics = append(topics, topic)
	}

	c.subs = make(map[string]subscription)
	c.mu.Unlock()

	if c.client.IsConnectionOpen() && len(topics) > 0 {
		token := c.client.Unsubscribe(topics...)
		if token.WaitTimeout(defaultSubscribeWait) && token.Error() != nil {
			c.logger.Warn().Err(token.Error()).Msg("Failed to unsubscribe")
		}
	}

	c.client.Disconnect(defaultDisconnectWait)

	return nil
}
