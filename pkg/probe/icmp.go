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
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/carverauto/sensora/pkg/logger"
)

const (
	methodICMP      = "icmp"
	protocolICMP    = 1
	protocolICMPv6  = 58
	maxICMPReadSize = 1500
)

var errShortEchoReply = errors.New("unexpected ICMP message")

// ICMPProber sends one ICMP or ICMPv6 echo request per probe. Unprivileged
// mode uses datagram ICMP sockets (udp4/udp6), which need
// net.ipv4.ping_group_range on Linux; privileged mode uses a raw socket.
type ICMPProber struct {
	privileged bool
	id         int
	seq        atomic.Uint32
	payload    []byte
	logger     logger.Logger
}

func NewICMPProber(privileged bool, log logger.Logger) *ICMPProber {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &ICMPProber{
		privileged: privileged,
		id:         os.Getpid() & 0xffff,
		payload:    []byte("sensora-probe"),
		logger:     log,
	}
}

// listenArgs returns the network and local address for an echo to target.
func (p *ICMPProber) listenArgs(target net.IP) (network, local string) {
	switch {
	case isIPv4(target) && p.privileged:
		return "ip4:icmp", "0.0.0.0"
	case isIPv4(target):
		return "udp4", "0.0.0.0"
	case p.privileged:
		return "ip6:ipv6-icmp", "::"
	default:
		return "udp6", "::"
	}
}

func (p *ICMPProber) Probe(ctx context.Context, address string, timeout time.Duration) Result {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ip, err := resolveIP(probeCtx, address)
	if err != nil {
		return errorResult(methodICMP, err)
	}

	network, local := p.listenArgs(ip)

	conn, err := icmp.ListenPacket(network, local)
	if err != nil {
		return errorResult(methodICMP, fmt.Errorf("open icmp socket: %w", err))
	}
	defer func() { _ = conn.Close() }()

	seq := int(p.seq.Add(1) & 0xffff)

	wire, err := p.echoRequest(ip, seq)
	if err != nil {
		return errorResult(methodICMP, err)
	}

	deadline, _ := probeCtx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return errorResult(methodICMP, err)
	}

	// closing the socket unblocks the read when the caller cancels
	stop := context.AfterFunc(probeCtx, func() { _ = conn.Close() })
	defer stop()

	start := time.Now()

	if _, err := conn.WriteTo(wire, p.destination(ip)); err != nil {
		return classifyNetError(methodICMP, probeCtx, ctx, err)
	}

	buf := make([]byte, maxICMPReadSize)

	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return classifyNetError(methodICMP, probeCtx, ctx, err)
		}

		if p.matchesReply(buf[:n], peer, ip, seq) {
			return Result{Outcome: Reachable, Method: methodICMP, RTT: time.Since(start)}
		}
	}
}

func (p *ICMPProber) echoRequest(target net.IP, seq int) ([]byte, error) {
	var typ icmp.Type = ipv4.ICMPTypeEcho
	if !isIPv4(target) {
		typ = ipv6.ICMPTypeEchoRequest
	}

	// the kernel fills in the ICMPv6 checksum, so no pseudo header is passed
	msg := icmp.Message{
		Type: typ,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: p.payload,
		},
	}

	wire, err := msg.Marshal(nil)
	if err != nil {
		return nil, fmt.Errorf("marshal echo request: %w", err)
	}

	return wire, nil
}

func (p *ICMPProber) destination(ip net.IP) net.Addr {
	if p.privileged {
		return &net.IPAddr{IP: ip}
	}

	return &net.UDPAddr{IP: ip}
}

// matchesReply reports whether raw is the echo reply to our request. Datagram
// sockets rewrite the echo ID, so it is only checked on raw sockets.
func (p *ICMPProber) matchesReply(raw []byte, peer net.Addr, target net.IP, seq int) bool {
	if !peerIP(peer).Equal(target) {
		return false
	}

	proto, reply := protocolICMP, icmp.Type(ipv4.ICMPTypeEchoReply)
	if !isIPv4(target) {
		proto, reply = protocolICMPv6, ipv6.ICMPTypeEchoReply
	}

	msg, err := icmp.ParseMessage(proto, raw)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Dropping unparsable ICMP packet")

		return false
	}

	if msg.Type != reply {
		return false
	}

	echo, ok := msg.Body.(*icmp.Echo)
	if !ok {
		p.logger.Debug().Err(errShortEchoReply).Msg("Dropping ICMP reply")

		return false
	}

	if echo.Seq != seq {
		return false
	}

	return !p.privileged || echo.ID == p.id
}

func peerIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	default:
		return nil
	}
}

// classifyNetError turns socket errors into outcomes. Running out of time is
// Unreachable; a canceled parent context is a ProbeError.
func classifyNetError(method string, probeCtx, parent context.Context, err error) Result {
	if parent.Err() != nil {
		return errorResult(method, parent.Err())
	}

	var netErr net.Error
	if probeCtx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		return Result{Outcome: Unreachable, Method: method, Err: context.DeadlineExceeded}
	}

	if isHostUnreachable(err) {
		return Result{Outcome: Unreachable, Method: method, Err: err}
	}

	return errorResult(method, err)
}
