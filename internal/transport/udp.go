// Package transport wraps the raw UDP socket this client speaks to the
// server over: an enlarged receive buffer, a blocking-with-timeout
// receive for the main loop, and a non-blocking try-receive for drains
// between ticks (spec.md §4.2).
package transport

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// ReadBufferSize is the OS socket receive buffer size. Map downloads
// burst many large packets in quick succession; the default OS buffer
// drops packets under that load.
const ReadBufferSize = 4 * 1024 * 1024

// MaxPacketSize is the largest UDP datagram this client will read.
const MaxPacketSize = 64 * 1024

// Socket is a UDP endpoint bound to a local port, optionally connected
// to a single remote peer.
type Socket struct {
	conn *net.UDPConn
}

// Listen opens a socket on localAddr ("" picks an OS-assigned port) and
// enlarges its receive buffer. Used both for the LAN-discovery server
// info query and, after a rebind, the main game session (spec.md §4.5
// step 2: "a fresh ephemeral port for the real session").
func Listen(localAddr string) (*Socket, error) {
	if localAddr == "" {
		localAddr = ":0"
	}
	addr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve local addr: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen: %w", err)
	}
	if err := conn.SetReadBuffer(ReadBufferSize); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: set read buffer: %w", err)
	}
	return &Socket{conn: conn}, nil
}

// LocalAddr returns the socket's bound local address.
func (s *Socket) LocalAddr() net.Addr { return s.conn.LocalAddr() }

// Close releases the underlying OS socket.
func (s *Socket) Close() error { return s.conn.Close() }

// SendTo writes buf to addr.
func (s *Socket) SendTo(buf []byte, addr *net.UDPAddr) error {
	_, err := s.conn.WriteToUDP(buf, addr)
	if err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// ErrTimeout is returned by Receive when no packet arrives before the
// deadline.
var ErrTimeout = errors.New("transport: receive timeout")

// Receive blocks up to timeout for one datagram, returning its payload
// and sender address.
func (s *Socket) Receive(timeout time.Duration) ([]byte, *net.UDPAddr, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, nil, fmt.Errorf("transport: set read deadline: %w", err)
	}
	buf := make([]byte, MaxPacketSize)
	n, addr, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, nil, ErrTimeout
		}
		return nil, nil, fmt.Errorf("transport: read: %w", err)
	}
	return buf[:n], addr, nil
}

// TryReceive performs a non-blocking receive: it returns (nil, nil, nil)
// immediately if no datagram is queued.
func (s *Socket) TryReceive() ([]byte, *net.UDPAddr, error) {
	buf, addr, err := s.Receive(time.Microsecond)
	if errors.Is(err, ErrTimeout) {
		return nil, nil, nil
	}
	return buf, addr, err
}
