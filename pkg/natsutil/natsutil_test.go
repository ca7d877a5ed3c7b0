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

package natsutil

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

func TestEnsureSubjectList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subjects []string
		subject  string
		want     []string
	}{
		{
			name:    "adds subject when list empty",
			subject: "events.sensora-integration.detect_report",
			want:    []string{"events.sensora-integration.detect_report"},
		},
		{
			name:     "keeps list when wildcard matches",
			subjects: []string{"events.sensora-integration.*"},
			subject:  "events.sensora-integration.detect_report",
			want:     []string{"events.sensora-integration.*"},
		},
		{
			name:     "keeps list when greater wildcard matches",
			subjects: []string{"events.>"},
			subject:  "events.sensora-integration.detect_report",
			want:     []string{"events.>"},
		},
		{
			name:     "appends when unmatched",
			subjects: []string{"logs.syslog.*"},
			subject:  "events.sensora-integration.detect_report",
			want:     []string{"logs.syslog.*", "events.sensora-integration.detect_report"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := EnsureSubjectList(append([]string(nil), tc.subjects...), tc.subject)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatchesSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		subject  string
		expected bool
	}{
		{"exact match", "events.a.b", "events.a.b", true},
		{"single wildcard", "events.*.b", "events.a.b", true},
		{"greater wildcard", "events.>", "events.a.b", true},
		{"greater needs a token", "events.>", "events", false},
		{"too short", "events.a", "events.a.b", false},
		{"too long", "events.a.b.c", "events.a.b", false},
		{"token mismatch", "events.x.b", "events.a.b", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, MatchesSubject(tc.pattern, tc.subject))
		})
	}
}

func TestConnectAndEnsureStream(t *testing.T) {
	srv, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, JetStream: true, StoreDir: t.TempDir()})
	require.NoError(t, err)

	go srv.Start()

	require.True(t, srv.ReadyForConnections(10*time.Second))
	t.Cleanup(srv.Shutdown)

	_, err = Connect(nil, "test", logger.NewTestLogger())
	require.ErrorIs(t, err, errNATSConfigNil)

	nc, err := Connect(&models.NATSConfig{URL: srv.ClientURL()}, "test", logger.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	js, err := JetStream(nc, "")
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, EnsureStream(ctx, js, "SENSORA_EVENTS", "events.a.>"))
	require.NoError(t, EnsureStream(ctx, js, "SENSORA_EVENTS", "events.a.x", "events.b.>"))

	stream, err := js.Stream(ctx, "SENSORA_EVENTS")
	require.NoError(t, err)

	info, err := stream.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"events.a.>", "events.b.>"}, info.Config.Subjects)
}
