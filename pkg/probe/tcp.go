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
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/carverauto/sensora/pkg/logger"
)

const methodTCP = "tcp"

// TCPProber treats a device as reachable when any of its ports accepts a
// connection or actively refuses one. A refusal means the host answered.
type TCPProber struct {
	ports  []int
	dialer net.Dialer
	logger logger.Logger
}

func NewTCPProber(ports []int, log logger.Logger) *TCPProber {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &TCPProber{
		ports:  append([]int(nil), ports...),
		logger: log,
	}
}

func (p *TCPProber) Probe(ctx context.Context, address string, timeout time.Duration) Result {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ip, err := resolveIP(probeCtx, address)
	if err != nil {
		return errorResult(methodTCP, err)
	}

	if len(p.ports) == 0 {
		return errorResult(methodTCP, errNoPorts)
	}

	results := make(chan Result, len(p.ports))
	start := time.Now()

	for _, port := range p.ports {
		go func(port int) {
			results <- p.dialPort(probeCtx, ctx, ip, port, start)
		}(port)
	}

	final := Result{Outcome: Unreachable, Method: methodTCP, Err: context.DeadlineExceeded}

	for range p.ports {
		r := <-results
		if r.Outcome == Reachable {
			// remaining dials observe the canceled context and exit
			return r
		}

		if r.Outcome == ProbeError && final.Outcome != ProbeError {
			final = r
		}
	}

	return final
}

func (p *TCPProber) dialPort(probeCtx, parent context.Context, ip net.IP, port int, start time.Time) Result {
	target := net.JoinHostPort(ip.String(), strconv.Itoa(port))

	conn, err := p.dialer.DialContext(probeCtx, "tcp", target)
	if err == nil {
		_ = conn.Close()

		return Result{Outcome: Reachable, Method: methodTCP, RTT: time.Since(start)}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return Result{Outcome: Reachable, Method: methodTCP, RTT: time.Since(start)}
	}

	p.logger.Trace().Err(err).Str("target", target).Msg("TCP probe failed")

	res := classifyNetError(methodTCP, probeCtx, parent, err)
	if res.Outcome == ProbeError && !errors.Is(res.Err, context.Canceled) {
		// anything the network said other than a refusal means no answer
		res.Outcome = Unreachable
	}

	return res
}

func isHostUnreachable(err error) bool {
	return errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTDOWN)
}
