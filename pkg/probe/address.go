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

package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	errEmptyAddress = errors.New("empty probe address")
	errNoAddress    = errors.New("no IP address")
)

// NormalizeAddress trims the address and restores dotted form for legacy
// records that stored IPv4 addresses with underscores (10_0_0_1).
func NormalizeAddress(address string) string {
	address = strings.TrimSpace(address)

	if strings.Count(address, "_") == 3 && !strings.Contains(address, ".") {
		if dotted := strings.ReplaceAll(address, "_", "."); net.ParseIP(dotted) != nil {
			return dotted
		}
	}

	return address
}

// resolveIP returns the IP to probe for address, resolving host names.
// Resolved names prefer an IPv4 address and fall back to IPv6.
func resolveIP(ctx context.Context, address string) (net.IP, error) {
	address = NormalizeAddress(address)
	if address == "" {
		return nil, errEmptyAddress
	}

	// literal IPv6 addresses may arrive bracketed
	literal := strings.TrimSuffix(strings.TrimPrefix(address, "["), "]")

	if ip := net.ParseIP(literal); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}

		return ip, nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", address, err)
	}

	var v6 net.IP

	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4, nil
		}

		if v6 == nil {
			v6 = a.IP
		}
	}

	if v6 != nil {
		return v6, nil
	}

	return nil, fmt.Errorf("%w: %s", errNoAddress, address)
}

func isIPv4(ip net.IP) bool {
	return ip.To4() != nil
}

func errorResult(method string, err error) Result {
	return Result{Outcome: ProbeError, Method: method, Err: err}
}
