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

package db

import (
	"strings"
)

// splitSQLStatements splits a migration file on top-level semicolons. Quoted
// strings, quoted identifiers, dollar-quoted bodies and comments never split.
func splitSQLStatements(content string) []string {
	var (
		statements []string
		current    strings.Builder
		quote      byte
		dollarTag  string
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}

		current.Reset()
	}

	for i := 0; i < len(content); i++ {
		ch := content[i]
		rest := content[i:]

		switch {
		case dollarTag != "":
			if strings.HasPrefix(rest, dollarTag) {
				current.WriteString(dollarTag)
				i += len(dollarTag) - 1
				dollarTag = ""

				continue
			}
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case strings.HasPrefix(rest, "--"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				i = len(content)
			} else {
				i += end - 1
			}

			continue
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				i = len(content)
			} else {
				i += end + 3
			}

			continue
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '$':
			if tag := dollarQuoteTag(rest); tag != "" {
				dollarTag = tag
				current.WriteString(tag)
				i += len(tag) - 1

				continue
			}
		case ch == ';':
			flush()

			continue
		}

		current.WriteByte(ch)
	}

	flush()

	return statements
}

// dollarQuoteTag returns the opening tag ($$ or $name$) at the start of s.
func dollarQuoteTag(s string) string {
	for i := 1; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '$':
			return s[:i+1]
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9' && i > 1:
			continue
		default:
			return ""
		}
	}

	return ""
}
