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

package kv

import (
	"fmt"
	"strings"
)

// EncodeKey maps an arbitrary key onto the JetStream KV key alphabet
// ([-/_=.a-zA-Z0-9]). Bytes outside it, and '=' itself, become =XX.
func EncodeKey(key string) string {
	var b strings.Builder

	b.Grow(len(key))

	for i := 0; i < len(key); i++ {
		c := key[i]

		if isKeyByte(c) {
			b.WriteByte(c)
			continue
		}

		fmt.Fprintf(&b, "=%02X", c)
	}

	return b.String()
}

func isKeyByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '/', c == '_', c == '.':
		return true
	default:
		return false
	}
}
