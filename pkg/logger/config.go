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

package logger

import (
	"os"
	"strings"
	"time"
)

const (
	// envPrefix names the sensora specific override of each logging variable.
	envPrefix = "SENSORA_"

	defaultOTelBatchTimeout = 5 * time.Second
	defaultOTelServiceName  = "sensora"
)

// DefaultConfig builds the logging config from the environment. Every
// setting reads SENSORA_<NAME> before the bare <NAME>, so SENSORA_LOG_LEVEL
// wins over LOG_LEVEL.
func DefaultConfig() *Config {
	return &Config{
		Level:      normalizeLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		Debug:      getEnvBoolOrDefault("DEBUG", false),
		Output:     getEnvOrDefault("LOG_OUTPUT", "stdout"),
		TimeFormat: getEnvOrDefault("LOG_TIME_FORMAT", ""),
		OTel:       DefaultOTelConfig(),
	}
}

// DefaultOTelConfig reads the OTLP log exporter settings. The logs endpoint
// falls back to OTEL_EXPORTER_OTLP_ENDPOINT, and export turns on by itself
// once an endpoint is known unless OTEL_LOGS_ENABLED says otherwise.
func DefaultOTelConfig() OTelConfig {
	endpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""))

	batchTimeout := defaultOTelBatchTimeout
	if timeoutStr := getEnvOrDefault("OTEL_EXPORTER_OTLP_LOGS_TIMEOUT", ""); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil && d > 0 {
			batchTimeout = d
		}
	}

	return OTelConfig{
		Enabled:      getEnvBoolOrDefault("OTEL_LOGS_ENABLED", endpoint != ""),
		Endpoint:     endpoint,
		Headers:      parseHeaders(getEnvOrDefault("OTEL_EXPORTER_OTLP_LOGS_HEADERS", "")),
		ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", defaultOTelServiceName),
		BatchTimeout: Duration(batchTimeout),
		Insecure:     getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_LOGS_INSECURE", false),
	}
}

// parseHeaders reads the OTLP key=value,key=value header list.
func parseHeaders(raw string) map[string]string {
	headers := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}

		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return headers
}

// normalizeLevel accepts the level spellings operators tend to type.
func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))

	switch level {
	case "warning":
		return "warn"
	case "err":
		return "error"
	default:
		return level
	}
}

func lookupEnv(key string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}

	return os.Getenv(key)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := lookupEnv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	switch strings.ToLower(lookupEnv(key)) {
	case "":
		return defaultValue
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
