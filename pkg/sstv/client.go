package sstv

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config is the immutable connection configuration of a Client or
// Receiver. Zero fields take defaults.
type Config struct {
	AppLabel string // identity shown on the TV, also the sender of every frame
	Host     string
	Port     uint16 // default 55000

	AuthTimeout  time.Duration // default 20s, negative = wait forever
	RecvTimeout  time.Duration // default 2s, negative = no timeout
	AuthAttempts int           // default 3

	// MAC is sent in the handshake. Default is the address of the
	// first non-loopback interface.
	MAC string
}

func (cfg *Config) setDefaults() {
	if cfg.AppLabel == "" {
		cfg.AppLabel = "sstvd"
	}
	if cfg.Port == 0 {
		cfg.Port = 55000
	}
	switch {
	case cfg.AuthTimeout == 0:
		cfg.AuthTimeout = 20 * time.Second
	case cfg.AuthTimeout < 0:
		cfg.AuthTimeout = 0
	}
	switch {
	case cfg.RecvTimeout == 0:
		cfg.RecvTimeout = 2 * time.Second
	case cfg.RecvTimeout < 0:
		cfg.RecvTimeout = 0
	}
	if cfg.AuthAttempts == 0 {
		cfg.AuthAttempts = 3
	}
	if cfg.MAC == "" {
		cfg.MAC = LocalMAC()
	}
}

// Client sends key and text commands to the device. The first send
// dials and authenticates transparently, so any handshake failure
// surfaces from the send call itself.
type Client struct {
	cfg Config
	tr  Transport
	log zerolog.Logger
}

func NewClient(cfg Config) *Client {
	cfg.setDefaults()
	return &Client{cfg: cfg, log: zerolog.Nop()}
}

func (c *Client) SetLogger(log zerolog.Logger) {
	c.log = log
}

// Dial connects and authenticates. Sends do this lazily, an explicit
// call only makes handshake errors observable earlier.
func (c *Client) Dial() error {
	conn, err := Dial(c.cfg.Host, c.cfg.Port, c.cfg.AuthTimeout)
	if err != nil {
		return err
	}
	conn.SetLogger(c.log)

	c.log.Debug().Str("host", c.cfg.Host).Uint16("port", c.cfg.Port).Msg("[sstv] authenticate")

	if err = authenticate(conn, c.cfg.MAC, c.cfg.AppLabel, c.cfg.RecvTimeout, c.cfg.AuthAttempts); err != nil {
		_ = conn.Close()
		return err
	}

	c.tr = conn
	return nil
}

// SendKey sends one key press. The code must be a valid device key
// code ("KEY_MUTE", "KEY_0", ...).
func (c *Client) SendKey(key string) (int, error) {
	b64, err := EncodeBase64(key)
	if err != nil {
		return 0, err
	}
	frame, err := commandFrame(c.cfg.AppLabel, modeKey, append([]byte{0x00, 0x00, 0x00}, b64...))
	if err != nil {
		return 0, err
	}
	return c.send(frame)
}

// SendText sends a text. The device accepts it only while a text
// field (search, password, ...) is focused.
func (c *Client) SendText(text string) (int, error) {
	b64, err := EncodeBase64(text)
	if err != nil {
		return 0, err
	}
	frame, err := commandFrame(c.cfg.AppLabel, modeText, append([]byte{0x01, 0x00}, b64...))
	if err != nil {
		return 0, err
	}
	return c.send(frame)
}

// SetChannel switches to a channel by sending its number as four
// zero-padded digit key presses, pausing delay between them (none
// after the last). Numbers outside 0..9999 are a caller error.
func (c *Client) SetChannel(channel int, delay time.Duration) error {
	if channel < 0 || channel > 9999 {
		return ErrInvalidChannel
	}
	digits := fmt.Sprintf("%04d", channel)
	for i := 0; i < len(digits); i++ {
		if _, err := c.SendKey("KEY_" + digits[i:i+1]); err != nil {
			return err
		}
		if delay > 0 && i < len(digits)-1 {
			time.Sleep(delay)
		}
	}
	return nil
}

// Recv receives and parses one frame, e.g. the KeyOK confirmation
// following a key press.
func (c *Client) Recv() (Message, error) {
	t, err := c.transport()
	if err != nil {
		return Message{}, err
	}
	raw, err := t.Recv()
	if err != nil {
		return Message{}, err
	}
	return ParseMessage(raw)
}

// Close disconnects. The next send dials again.
func (c *Client) Close() error {
	if c.tr == nil {
		return nil
	}
	err := c.tr.Close()
	c.tr = nil
	return err
}

func (c *Client) send(frame []byte) (int, error) {
	t, err := c.transport()
	if err != nil {
		return 0, err
	}
	return t.Send(frame)
}

func (c *Client) transport() (Transport, error) {
	if c.tr == nil {
		if err := c.Dial(); err != nil {
			return nil, err
		}
	}
	return c.tr, nil
}
