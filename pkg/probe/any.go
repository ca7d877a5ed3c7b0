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
	"time"

	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

var (
	errNoPorts       = errors.New("no TCP ports configured")
	errNoProbers     = errors.New("no probers configured")
	errUnknownMethod = errors.New("unknown probe mode")
)

// AnyProber runs every prober at once and reports the device reachable as soon
// as one of them succeeds. It only reports ProbeError when every prober failed
// to run, so a missing ICMP permission degrades to the TCP result.
type AnyProber struct {
	probers []Prober
}

func NewAnyProber(probers ...Prober) *AnyProber {
	return &AnyProber{probers: probers}
}

func (a *AnyProber) Probe(ctx context.Context, address string, timeout time.Duration) Result {
	if len(a.probers) == 0 {
		return errorResult("any", errNoProbers)
	}

	if len(a.probers) == 1 {
		return a.probers[0].Probe(ctx, address, timeout)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan Result, len(a.probers))

	for _, p := range a.probers {
		go func(p Prober) {
			results <- p.Probe(ctx, address, timeout)
		}(p)
	}

	var (
		unreachable *Result
		errs        []error
		lastErr     Result
	)

	for range a.probers {
		r := <-results

		switch r.Outcome {
		case Reachable:
			return r
		case Unreachable:
			if unreachable == nil {
				unreachable = &r
			}
		default:
			errs = append(errs, r.Err)
			lastErr = r
		}
	}

	if unreachable != nil {
		return *unreachable
	}

	lastErr.Err = errors.Join(errs...)

	return lastErr
}

// New builds the prober selected by cfg.ProbeMode.
func New(cfg *models.BenchmarkConfig, log logger.Logger) (Prober, error) {
	switch cfg.ProbeMode {
	case models.ProbeModeICMP:
		return NewICMPProber(cfg.Privileged, log), nil
	case models.ProbeModeTCP:
		return NewTCPProber(cfg.TCPPorts, log), nil
	case models.ProbeModeAuto, "":
		return NewAnyProber(NewICMPProber(cfg.Privileged, log), NewTCPProber(cfg.TCPPorts, log)), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownMethod, cfg.ProbeMode)
	}
}
