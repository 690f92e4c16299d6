package sstv

import (
	"errors"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// recvSize is the read buffer size. The device sends one frame per
// TCP segment, the largest observed is well below this.
const recvSize = 2048

// Transport is the blocking byte-frame interface the authenticator
// and the receivers work against. *Conn is the live implementation,
// tests supply fakes.
type Transport interface {
	Send(b []byte) (int, error)
	Recv() ([]byte, error)
	SetTimeout(d time.Duration)
	LocalAddr() string
	Close() error
}

// Conn owns one TCP connection to the device. All calls are blocking
// and the connection must not be shared between goroutines without
// external synchronization.
type Conn struct {
	conn    net.Conn
	timeout time.Duration
	closed  bool
	log     zerolog.Logger
}

// Dial opens the TCP stream. The timeout applies to the connect
// attempt and becomes the initial read timeout, zero means block
// forever.
func Dial(host string, port uint16, timeout time.Duration) (*Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return &Conn{conn: conn, timeout: timeout, log: zerolog.Nop()}, nil
}

// SetLogger enables trace logging of raw frames. Without it the
// connection logs nothing.
func (c *Conn) SetLogger(log zerolog.Logger) {
	c.log = log
}

// SetTimeout changes the read timeout for following Recv calls.
func (c *Conn) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Send writes the whole buffer or fails, there are no silent partial
// writes.
func (c *Conn) Send(b []byte) (int, error) {
	sent := 0
	for sent < len(b) {
		n, err := c.conn.Write(b[sent:])
		sent += n
		if err != nil {
			return sent, err
		}
	}
	c.log.Trace().Hex("frame", b).Msg("[sstv] send")
	return sent, nil
}

// Recv blocks for one frame up to the configured timeout. A timeout
// maps to ErrTimeout, a zero-length read or EOF to ErrClosed.
func (c *Conn) Recv() ([]byte, error) {
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, err
		}
	} else {
		_ = c.conn.SetReadDeadline(time.Time{})
	}

	b := make([]byte, recvSize)
	n, err := c.conn.Read(b)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, ErrTimeout
		}
		if errors.Is(err, io.EOF) {
			return nil, ErrClosed
		}
		return nil, err
	}
	if n == 0 {
		return nil, ErrClosed
	}

	c.log.Trace().Hex("frame", b[:n]).Msg("[sstv] recv")
	return b[:n], nil
}

// LocalAddr returns the local endpoint IP as seen by the OS. The
// handshake payload carries it back to the device.
func (c *Conn) LocalAddr() string {
	if addr, ok := c.conn.LocalAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return ""
}

// Close releases the socket. Safe to call multiple times.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// LocalMAC returns the hardware address of the first non-loopback
// interface as six colon-separated hex octets. The device only needs
// a stable identifier, so all zeros is an acceptable fallback.
func LocalMAC() string {
	if ifaces, err := net.Interfaces(); err == nil {
		for _, iface := range ifaces {
			if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) < 6 {
				continue
			}
			return iface.HardwareAddr.String()
		}
	}
	return "00:00:00:00:00:00"
}
