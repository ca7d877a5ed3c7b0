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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/sensora/pkg/logger"
)

// Duration is a time.Duration that unmarshals from either a Go duration string
// ("5s") or a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		if value == "" {
			*d = 0
			return nil
		}

		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

var (
	errListenAddrRequired   = errors.New("listen_addr is required")
	errNATSURLRequired      = errors.New("nats url is required")
	errUnknownStoreBackend  = errors.New("unknown status store backend")
	errUnknownProbeMode     = errors.New("unknown probe mode")
	errMQTTBrokerRequired   = errors.New("mqtt broker is required")
	errDatabaseHostRequired = errors.New("database host is required")
	errKafkaBrokersRequired = errors.New("kafka brokers are required")
)

// Status store backends.
const (
	StoreBackendMemory = "memory"
	StoreBackendNATS   = "nats"
)

// Probe modes.
const (
	ProbeModeICMP = "icmp"
	ProbeModeTCP  = "tcp"
	ProbeModeAuto = "auto"
)

const (
	DefaultProbeTimeout   = 5 * time.Second
	DefaultMaxConcurrency = 256
	DefaultTopicSubPath   = "em320th/data"
	DefaultMQTTUsername   = "test"
	DefaultTopicPrefix    = "beaver-iot"
	DefaultShareGroup     = "sensora"
	DefaultKafkaTopic     = "sensora.telemetry"
	DefaultKafkaBatchSize = 100
)

// ServiceConfig is the top-level configuration of the sensora service.
type ServiceConfig struct {
	IntegrationID string            `json:"integration_id"`
	ListenAddr    string            `json:"listen_addr"`
	Logging       *logger.Config    `json:"logging,omitempty"`
	CORS          CORSConfig        `json:"cors"`
	NATS          *NATSConfig       `json:"nats,omitempty"`
	StatusStore   StatusStoreConfig `json:"status_store"`
	Events        *EventsConfig     `json:"events,omitempty"`
	Database      *DatabaseConfig   `json:"database,omitempty"`
	MQTT          *MQTTConfig       `json:"mqtt,omitempty"`
	Kafka         *KafkaConfig      `json:"kafka,omitempty"`
	Benchmark     BenchmarkConfig   `json:"benchmark"`
}

// CORSConfig controls the CORS middleware of the HTTP API.
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins,omitempty"`
	AllowCredentials bool     `json:"allow_credentials,omitempty"`
}

// NATSConfig configures NATS connectivity.
type NATSConfig struct {
	URL       string         `json:"url"`
	Domain    string         `json:"domain,omitempty"`
	CredsFile string         `json:"creds_file,omitempty"`
	TLS       *NATSTLSConfig `json:"tls,omitempty"`
}

// NATSTLSConfig enables mutual TLS towards NATS.
type NATSTLSConfig struct {
	CertFile   string `json:"cert_file"`
	KeyFile    string `json:"key_file"`
	CAFile     string `json:"ca_file"`
	ServerName string `json:"server_name,omitempty"`
}

// StatusStoreConfig selects where entity values live.
type StatusStoreConfig struct {
	Backend string `json:"backend"`
	Bucket  string `json:"bucket,omitempty"`
}

// EventsConfig configures the JetStream bridge for integration events.
type EventsConfig struct {
	Enabled       bool   `json:"enabled"`
	StreamName    string `json:"stream_name"`
	SubjectPrefix string `json:"subject_prefix"`
}

// DatabaseConfig points the device registry at a Postgres cluster. When it is
// absent the registry is kept in memory.
type DatabaseConfig struct {
	Host            string   `json:"host"`
	Port            int      `json:"port"`
	Database        string   `json:"database"`
	Username        string   `json:"username"`
	Password        string   `json:"password"`
	SSLMode         string   `json:"ssl_mode"`
	ApplicationName string   `json:"application_name"`
	MaxConnections  int32    `json:"max_connections"`
	MinConnections  int32    `json:"min_connections"`
	MaxConnLifetime Duration `json:"max_conn_lifetime"`
}

// MQTTConfig configures the LoRa gateway telemetry subscription.
type MQTTConfig struct {
	Enabled      bool   `json:"enabled"`
	Broker       string `json:"broker"`
	ClientID     string `json:"client_id"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	TopicPrefix  string `json:"topic_prefix"`
	TopicSubPath string `json:"topic_sub_path"`
	ShareGroup   string `json:"share_group"`
	QoS          byte   `json:"qos"`
}

// KafkaConfig forwards raw gateway telemetry to Kafka. Payloads that fail to
// decode go to the dead letter topic.
type KafkaConfig struct {
	Enabled   bool     `json:"enabled"`
	Brokers   []string `json:"brokers"`
	Topic     string   `json:"topic"`
	DLQTopic  string   `json:"dlq_topic"`
	BatchSize int      `json:"batch_size"`
}

// BenchmarkConfig tunes the reachability sweep.
type BenchmarkConfig struct {
	Interval       Duration `json:"interval"`
	ProbeTimeout   Duration `json:"probe_timeout"`
	MaxConcurrency int      `json:"max_concurrency"`
	ProbeMode      string   `json:"probe_mode"`
	TCPPorts       []int    `json:"tcp_ports,omitempty"`
	Privileged     bool     `json:"privileged"`
}

// Validate fills defaults and rejects unusable settings.
func (c *ServiceConfig) Validate() error {
	if c.IntegrationID == "" {
		c.IntegrationID = DefaultIntegrationID
	}

	if c.ListenAddr == "" {
		return errListenAddrRequired
	}

	if err := c.validateStatusStore(); err != nil {
		return err
	}

	if c.Events != nil && c.Events.Enabled {
		if c.NATS == nil || c.NATS.URL == "" {
			return errNATSURLRequired
		}

		if c.Events.StreamName == "" {
			c.Events.StreamName = "SENSORA_EVENTS"
		}

		if c.Events.SubjectPrefix == "" {
			c.Events.SubjectPrefix = "events." + c.IntegrationID
		}
	}

	if c.Database != nil {
		if c.Database.Host == "" {
			return errDatabaseHostRequired
		}

		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
	}

	if c.MQTT != nil && c.MQTT.Enabled {
		c.MQTT.applyDefaults(c.IntegrationID)

		if c.MQTT.Broker == "" {
			return errMQTTBrokerRequired
		}
	}

	if c.Kafka != nil && c.Kafka.Enabled {
		if err := c.Kafka.validate(); err != nil {
			return err
		}
	}

	return c.Benchmark.validate()
}

func (c *ServiceConfig) validateStatusStore() error {
	switch c.StatusStore.Backend {
	case "":
		c.StatusStore.Backend = StoreBackendMemory
	case StoreBackendMemory:
	case StoreBackendNATS:
		if c.NATS == nil || c.NATS.URL == "" {
			return errNATSURLRequired
		}

		if c.StatusStore.Bucket == "" {
			c.StatusStore.Bucket = "sensora-entities"
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownStoreBackend, c.StatusStore.Backend)
	}

	return nil
}

func (m *MQTTConfig) applyDefaults(integrationID string) {
	if m.ClientID == "" {
		m.ClientID = integrationID
	}

	if m.Username == "" {
		m.Username = DefaultMQTTUsername
	}

	if m.TopicPrefix == "" {
		m.TopicPrefix = DefaultTopicPrefix
	}

	if m.TopicSubPath == "" {
		m.TopicSubPath = DefaultTopicSubPath
	}

	if m.ShareGroup == "" {
		m.ShareGroup = DefaultShareGroup
	}

	if m.QoS > 2 {
		m.QoS = 2
	}
}

func (k *KafkaConfig) validate() error {
	if len(k.Brokers) == 0 {
		return errKafkaBrokersRequired
	}

	if k.Topic == "" {
		k.Topic = DefaultKafkaTopic
	}

	if k.DLQTopic == "" {
		k.DLQTopic = k.Topic + ".dlq"
	}

	if k.BatchSize <= 0 {
		k.BatchSize = DefaultKafkaBatchSize
	}

	return nil
}

func (b *BenchmarkConfig) validate() error {
	if b.ProbeTimeout <= 0 {
		b.ProbeTimeout = Duration(DefaultProbeTimeout)
	}

	if b.MaxConcurrency <= 0 {
		b.MaxConcurrency = DefaultMaxConcurrency
	}

	switch b.ProbeMode {
	case "":
		b.ProbeMode = ProbeModeAuto
	case ProbeModeICMP, ProbeModeTCP, ProbeModeAuto:
	default:
		return fmt.Errorf("%w: %q", errUnknownProbeMode, b.ProbeMode)
	}

	if len(b.TCPPorts) == 0 {
		b.TCPPorts = []int{80, 443, 22}
	}

	return nil
}
