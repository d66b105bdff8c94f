package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// ICMPProber sends a raw ICMP echo request and waits for the reply.
// It avoids spawning a process per tick but needs raw-socket
// privileges, so it is opt-in.
type ICMPProber struct {
	// Timeout bounds the wait for an echo reply. Defaults to 3s.
	Timeout time.Duration
}

func (p *ICMPProber) Probe(ctx context.Context, ip string) (bool, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return false, fmt.Errorf("icmp listen: %w", err)
	}
	defer conn.Close()

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   os.Getpid() & 0xffff,
			Seq:  1,
			Data: []byte("devtrack"),
		},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return false, fmt.Errorf("icmp marshal: %w", err)
	}

	target := &net.IPAddr{IP: net.ParseIP(ip)}
	if target.IP == nil {
		return false, fmt.Errorf("invalid IP address %q", ip)
	}
	if _, err := conn.WriteTo(wb, target); err != nil {
		return false, fmt.Errorf("icmp send: %w", err)
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return false, err
	}

	rb := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(rb)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				// No reply inside the window: host is offline.
				return false, nil
			}
			return false, err
		}
		rm, err := icmp.ParseMessage(ipv4.ICMPTypeEchoReply.Protocol(), rb[:n])
		if err != nil {
			continue
		}
		if rm.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		if pa, ok := peer.(*net.IPAddr); ok && !pa.IP.Equal(target.IP) {
			continue
		}
		return true, nil
	}
}
