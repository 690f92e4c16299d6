// Package sstv implements the TCP remote-control protocol of Samsung
// D-series (and newer) SmartTV devices - port 55000, length-prefixed
// binary frames, base64-encoded credentials.
package sstv

import (
	"encoding/base64"
	"fmt"
)

// Message kinds, extracted from tests with an UE40D5700 TV set
// and a HT-D5100 BluRay Home Theatre. Any other byte value is
// carried as is.
const (
	KeyConfirm     = 0x00 // key received while viewing TV
	KeyConfirmMenu = 0x01 // key received while in menu
	StateChange    = 0x02 // status update from the device
	Timeshift      = 0x04 // somehow related to time-shift
)

// Known message payloads (exact byte sequences).
const (
	AuthOK          = "\x64\x00\x01\x00"
	AuthDenied      = "\x64\x00\x00\x00"
	AuthNeedConfirm = "\x0a\x00\x02\x00\x00\x00" // waiting for user confirmation on the TV screen
	AuthTimeout     = "\x64\x00"
	KeyOK           = "\x00\x00\x00\x00"

	StatusShowingMenu    = "\x10\x00\x02\x00\x00\x00"
	StatusShowingTV      = "\x10\x00\x01\x00\x00\x00"
	StatusShowingTTX     = "\x10\x00\x0c\x00\x00\x00"
	StatusShowingOverlay = "\x10\x00\x18\x00\x00\x00"
)

// command frame modes
const (
	modeKey  = 0x00
	modeText = 0x01
)

// appSuffix is appended to the app label in the sender field
// of every frame the client sends.
const appSuffix = ".iapp.samsung"

// EncodeString encodes b as the device string type: two bytes
// little-endian length, then the raw bytes.
func EncodeString(b []byte) ([]byte, error) {
	n := len(b)
	if n > 0xFFFF {
		return nil, ErrTooLong
	}
	return append([]byte{byte(n), byte(n >> 8)}, b...), nil
}

// EncodeBase64 base64-encodes s and wraps the result via EncodeString.
// The device expects credentials (IP, MAC, app label) in this form.
func EncodeBase64(s string) ([]byte, error) {
	b64 := base64.StdEncoding.EncodeToString([]byte(s))
	return EncodeString([]byte(b64))
}

// DecodeString reads one length-prefixed string from b and returns
// its payload together with whatever bytes follow it.
func DecodeString(b []byte) (value, rest []byte, err error) {
	if len(b) < 2 {
		return nil, nil, ErrTruncated
	}
	n := int(b[0]) | int(b[1])<<8
	if len(b) < n+2 {
		return nil, nil, ErrTruncated
	}
	return b[2 : n+2], b[n+2:], nil
}

// Message is one frame sent by the device. Sender is the name of the
// sending application, Payload is raw bytes - free-form event data or,
// during authentication, one of the Auth* status codes.
type Message struct {
	Kind    byte
	Sender  string
	Payload string
}

// ParseMessage parses a raw received frame. The two declared lengths
// must consume the buffer exactly, trailing bytes mean the frame is
// malformed.
func ParseMessage(b []byte) (Message, error) {
	if len(b) < 1 {
		return Message{}, ErrMalformed
	}
	sender, rest, err := DecodeString(b[1:])
	if err != nil {
		return Message{}, err
	}
	payload, rest, err := DecodeString(rest)
	if err != nil {
		return Message{}, err
	}
	if len(rest) != 0 {
		return Message{}, ErrMalformed
	}
	return Message{Kind: b[0], Sender: string(sender), Payload: string(payload)}, nil
}

// Equal compares kind and payload. The sender is ignored - the same
// event may arrive attributed to different applications.
func (m Message) Equal(other Message) bool {
	return m.Kind == other.Kind && m.Payload == other.Payload
}

func (m Message) String() string {
	return fmt.Sprintf("%02x:%q", m.Kind, m.Payload)
}

// commandFrame builds a key (mode 0x00) or text (mode 0x01) request.
func commandFrame(appLabel string, mode byte, inner []byte) ([]byte, error) {
	sender, err := EncodeString([]byte(appLabel + appSuffix))
	if err != nil {
		return nil, err
	}
	payload, err := EncodeString(inner)
	if err != nil {
		return nil, err
	}
	b := append([]byte{mode}, sender...)
	return append(b, payload...), nil
}

// authFrame builds the handshake request from the local endpoint
// address, the local MAC and the application label.
func authFrame(ip, mac, appLabel string) ([]byte, error) {
	inner := []byte{0x64, 0x00}
	for _, s := range []string{ip, mac, appLabel} {
		b64, err := EncodeBase64(s)
		if err != nil {
			return nil, err
		}
		inner = append(inner, b64...)
	}
	return commandFrame(appLabel, 0x00, inner)
}
