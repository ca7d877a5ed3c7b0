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
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStream returns a JetStream context, scoped to domain when set.
func JetStream(nc *nats.Conn, domain string) (jetstream.JetStream, error) {
	if domain == "" {
		js, err := jetstream.New(nc)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context: %w", err)
		}

		return js, nil
	}

	js, err := jetstream.NewWithDomain(nc, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context with domain %s: %w", domain, err)
	}

	return js, nil
}

// EnsureStream creates the stream, or widens its subject list so that every
// subject in subjects is captured.
func EnsureStream(ctx context.Context, js jetstream.JetStream, name string, subjects ...string) error {
	stream, err := js.Stream(ctx, name)
	if err != nil && !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", name, err)
	}

	var cfg jetstream.StreamConfig

	if stream != nil {
		info, infoErr := stream.Info(ctx)
		if infoErr != nil {
			return fmt.Errorf("failed to read stream %s: %w", name, infoErr)
		}

		cfg = info.Config
	} else {
		cfg = jetstream.StreamConfig{Name: name}
	}

	changed := stream == nil

	for _, subject := range subjects {
		updated := EnsureSubjectList(cfg.Subjects, subject)
		if len(updated) != len(cfg.Subjects) {
			changed = true
		}

		cfg.Subjects = updated
	}

	if !changed {
		return nil
	}

	if _, err := js.CreateOrUpdateStream(ctx, cfg); err != nil {
		return fmt.Errorf("failed to create or update stream %s: %w", name, err)
	}

	return nil
}

// EnsureSubjectList appends subject unless an existing pattern already matches it.
func EnsureSubjectList(subjects []string, subject string) []string {
	for _, existing := range subjects {
		if MatchesSubject(existing, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// MatchesSubject applies NATS wildcard rules: '*' matches one token and a
// trailing '>' matches one or more.
func MatchesSubject(pattern, subject string) bool {
	if pattern == subject {
		return true
	}

	pTokens := strings.Split(pattern, ".")
	sTokens := strings.Split(subject, ".")

	for i, p := range pTokens {
		if p == ">" {
			return i == len(pTokens)-1 && len(sTokens) > i
		}

		if i >= len(sTokens) {
			return false
		}

		if p != "*" && p != sTokens[i] {
			return false
		}
	}

	return len(pTokens) == len(sTokens)
}
