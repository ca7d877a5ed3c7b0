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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: " 10.0.0.1 ", want: "10.0.0.1"},
		{in: "10_0_0_1", want: "10.0.0.1"},
		{in: "gw_01_a_b", want: "gw_01_a_b"},
		{in: "sensor.local", want: "sensor.local"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAddress(tt.in))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "reachable", Reachable.String())
	assert.Equal(t, "unreachable", Unreachable.String())
	assert.Equal(t, "probe_error", ProbeError.String())
	assert.Equal(t, "unknown", Outcome(9).String())
}

func listenerPort(t *testing.T) (int, func()) {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			_ = conn.Close()
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port, func() { _ = ln.Close() }
}

func closedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)

	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	return port
}

func TestTCPProberReachableOnOpenPort(t *testing.T) {
	port, stop := listenerPort(t)
	defer stop()

	p := NewTCPProber([]int{port}, logger.NewTestLogger())
	res := p.Probe(context.Background(), "127.0.0.1", time.Second)

	assert.Equal(t, Reachable, res.Outcome)
	assert.Equal(t, methodTCP, res.Method)
	require.NoError(t, res.Err)
}

func TestTCPProberRefusedCountsAsReachable(t *testing.T) {
	p := NewTCPProber([]int{closedPort(t)}, logger.NewTestLogger())
	res := p.Probe(context.Background(), "127_0_0_1", time.Second)

	assert.Equal(t, Reachable, res.Outcome)
}

func TestTCPProberUnreachableAddress(t *testing.T) {
	// TEST-NET-1 is never routed; depending on the sandbox the dial either
	// times out or fails with a network error, both of which mean no answer.
	p := NewTCPProber([]int{9}, logger.NewTestLogger())
	res := p.Probe(context.Background(), "192.0.2.1", 200*time.Millisecond)

	assert.Equal(t, Unreachable, res.Outcome)
}

func TestTCPProberInvalidAddress(t *testing.T) {
	p := NewTCPProber([]int{80}, logger.NewTestLogger())

	res := p.Probe(context.Background(), "", time.Second)
	assert.Equal(t, ProbeError, res.Outcome)
	require.ErrorIs(t, res.Err, errEmptyAddress)

	res = p.Probe(context.Background(), "host.invalid", time.Second)
	assert.Equal(t, ProbeError, res.Outcome)
	require.Error(t, res.Err)
}

func TestTCPProberWithoutPorts(t *testing.T) {
	p := NewTCPProber(nil, logger.NewTestLogger())

	res := p.Probe(context.Background(), "127.0.0.1", time.Second)
	assert.Equal(t, ProbeError, res.Outcome)
	require.ErrorIs(t, res.Err, errNoPorts)
}

func TestTCPProberCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewTCPProber([]int{9}, logger.NewTestLogger())
	res := p.Probe(ctx, "192.0.2.1", time.Second)

	assert.NotEqual(t, Reachable, res.Outcome)
	require.Error(t, res.Err)
}

func TestAnyProber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	errPerm := errors.New("operation not permitted")

	tests := []struct {
		name   string
		first  Result
		second Result
		want   Outcome
	}{
		{
			name:   "first reachable",
			first:  Result{Outcome: Reachable, Method: "icmp"},
			second: Result{Outcome: Unreachable, Method: "tcp"},
			want:   Reachable,
		},
		{
			name:   "icmp not permitted falls back to tcp",
			first:  Result{Outcome: ProbeError, Method: "icmp", Err: errPerm},
			second: Result{Outcome: Reachable, Method: "tcp"},
			want:   Reachable,
		},
		{
			name:   "error and unreachable",
			first:  Result{Outcome: ProbeError, Method: "icmp", Err: errPerm},
			second: Result{Outcome: Unreachable, Method: "tcp"},
			want:   Unreachable,
		},
		{
			name:   "both errors",
			first:  Result{Outcome: ProbeError, Method: "icmp", Err: errPerm},
			second: Result{Outcome: ProbeError, Method: "tcp", Err: errNoPorts},
			want:   ProbeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := NewMockProber(ctrl)
			second := NewMockProber(ctrl)

			first.EXPECT().Probe(gomock.Any(), "10.0.0.1", time.Second).Return(tt.first)
			second.EXPECT().Probe(gomock.Any(), "10.0.0.1", time.Second).Return(tt.second)

			res := NewAnyProber(first, second).Probe(context.Background(), "10.0.0.1", time.Second)
			assert.Equal(t, tt.want, res.Outcome)

			if tt.want == ProbeError {
				require.ErrorIs(t, res.Err, errPerm)
				require.ErrorIs(t, res.Err, errNoPorts)
			}
		})
	}
}

func TestAnyProberEmpty(t *testing.T) {
	res := NewAnyProber().Probe(context.Background(), "10.0.0.1", time.Second)
	assert.Equal(t, ProbeError, res.Outcome)
	require.ErrorIs(t, res.Err, errNoProbers)
}

func TestNewSelectsMode(t *testing.T) {
	log := logger.NewTestLogger()

	p, err := New(&models.BenchmarkConfig{ProbeMode: models.ProbeModeICMP}, log)
	require.NoError(t, err)
	assert.IsType(t, &ICMPProber{}, p)

	p, err = New(&models.BenchmarkConfig{ProbeMode: models.ProbeModeTCP, TCPPorts: []int{22}}, log)
	require.NoError(t, err)
	assert.IsType(t, &TCPProber{}, p)

	p, err = New(&models.BenchmarkConfig{ProbeMode: models.ProbeModeAuto}, log)
	require.NoError(t, err)
	assert.IsType(t, &AnyProber{}, p)

	_, err = New(&models.BenchmarkConfig{ProbeMode: "arp"}, log)
	require.ErrorIs(t, err, errUnknownMethod)
}

func TestICMPEchoRequestMatchesReply(t *testing.T) {
	p := NewICMPProber(true, logger.NewTestLogger())
	target := net.ParseIP("10.0.0.1").To4()

	wire, err := p.echoRequest(target, 7)
	require.NoError(t, err)

	// turn the request into a reply: type 0, checksum adjusted by the type delta
	reply := append([]byte(nil), wire...)
	reply[0] = 0
	sum := uint32(reply[2])<<8 | uint32(reply[3])
	sum += 8 << 8
	sum = (sum & 0xffff) + (sum >> 16)
	reply[2], reply[3] = byte(sum>>8), byte(sum)

	assert.True(t, p.matchesReply(reply, &net.IPAddr{IP: target}, target, 7))
	assert.False(t, p.matchesReply(reply, &net.IPAddr{IP: target}, target, 8), "other sequence")
	assert.False(t, p.matchesReply(reply, &net.IPAddr{IP: net.ParseIP("10.0.0.2")}, target, 7), "other peer")
	assert.False(t, p.matchesReply(wire, &net.IPAddr{IP: target}, target, 7), "echo request is not a reply")
}

func TestICMPProberLoopback(t *testing.T) {
	p := NewICMPProber(false, logger.NewTestLogger())

	res := p.Probe(context.Background(), "127.0.0.1", time.Second)
	if res.Outcome == ProbeError {
		t.Skipf("unprivileged ICMP sockets unavailable: %v", res.Err)
	}

	assert.Equal(t, Reachable, res.Outcome)
	assert.Positive(t, res.RTT)
}

func TestICMPProberInvalidAddress(t *testing.T) {
	p := NewICMPProber(false, logger.NewTestLogger())

	res := p.Probe(context.Background(), "  ", time.Second)
	assert.Equal(t, ProbeError, res.Outcome)
	require.ErrorIs(t, res.Err, errEmptyAddress)
}

func TestICMPv6EchoRequestMatchesReply(t *testing.T) {
	p := NewICMPProber(true, logger.NewTestLogger())
	target := net.ParseIP("2001:db8::10")

	wire, err := p.echoRequest(target, 3)
	require.NoError(t, err)
	require.Equal(t, byte(128), wire[0], "ICMPv6 echo request")

	reply := append([]byte(nil), wire...)
	reply[0] = 129

	assert.True(t, p.matchesReply(reply, &net.IPAddr{IP: target}, target, 3))
	assert.False(t, p.matchesReply(wire, &net.IPAddr{IP: target}, target, 3), "echo request is not a reply")
	assert.False(t, p.matchesReply(reply, &net.IPAddr{IP: net.ParseIP("2001:db8::11")}, target, 3), "other peer")
}

func TestICMPListenArgs(t *testing.T) {
	v4, v6 := net.ParseIP("10.0.0.1").To4(), net.ParseIP("fe80::1")

	tests := []struct {
		privileged bool
		target     net.IP
		network    string
		local      string
	}{
		{privileged: true, target: v4, network: "ip4:icmp", local: "0.0.0.0"},
		{privileged: false, target: v4, network: "udp4", local: "0.0.0.0"},
		{privileged: true, target: v6, network: "ip6:ipv6-icmp", local: "::"},
		{privileged: false, target: v6, network: "udp6", local: "::"},
	}

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			network, local := NewICMPProber(tt.privileged, nil).listenArgs(tt.target)

			assert.Equal(t, tt.network, network)
			assert.Equal(t, tt.local, local)
		})
	}
}

func TestResolveIP(t *testing.T) {
	ip, err := resolveIP(context.Background(), "10_0_0_7")
	require.NoError(t, err)
	assert.Len(t, ip, net.IPv4len)

	ip, err = resolveIP(context.Background(), "::1")
	require.NoError(t, err)
	assert.True(t, ip.Equal(net.IPv6loopback))

	ip, err = resolveIP(context.Background(), "[2001:db8::1]")
	require.NoError(t, err)
	assert.True(t, ip.Equal(net.ParseIP("2001:db8::1")))

	_, err = resolveIP(context.Background(), "")
	require.ErrorIs(t, err, errEmptyAddress)
}

func TestTCPProberIPv6Loopback(t *testing.T) {
	ln, err := net.Listen("tcp6", "[::1]:0")
	if err != nil {
		t.Skipf("IPv6 loopback unavailable: %v", err)
	}
	defer func() { _ = ln.Close() }()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			_ = conn.Close()
		}
	}()

	p := NewTCPProber([]int{ln.Addr().(*net.TCPAddr).Port}, logger.NewTestLogger())
	res := p.Probe(context.Background(), "::1", time.Second)

	assert.Equal(t, Reachable, res.Outcome)
	require.NoError(t, res.Err)
}
