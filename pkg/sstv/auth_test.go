package sstv

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a scripted device: each Recv pops the next step,
// which is either a raw frame or an error.
type fakeTransport struct {
	steps   []any // []byte or error
	sent    [][]byte
	timeout time.Duration
	closed  bool
}

func (f *fakeTransport) Send(b []byte) (int, error) {
	f.sent = append(f.sent, b)
	return len(b), nil
}

func (f *fakeTransport) Recv() ([]byte, error) {
	if len(f.steps) == 0 {
		return nil, ErrTimeout
	}
	step := f.steps[0]
	f.steps = f.steps[1:]
	if err, ok := step.(error); ok {
		return nil, err
	}
	return step.([]byte), nil
}

func (f *fakeTransport) SetTimeout(d time.Duration) { f.timeout = d }
func (f *fakeTransport) LocalAddr() string          { return "192.168.1.2" }

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

// deviceFrame builds a wire frame the way the device would.
func deviceFrame(kind byte, sender, payload string) []byte {
	return append([]byte{kind}, []byte(lp(sender)+lp(payload))...)
}

func authResponse(payload string) []byte {
	return deviceFrame(KeyConfirm, "iapp.samsung", payload)
}

func TestAuthenticateOK(t *testing.T) {
	f := &fakeTransport{steps: []any{authResponse(AuthOK)}}

	err := authenticate(f, "aa:bb:cc:dd:ee:ff", "pyremote", 2*time.Second, 3)
	require.NoError(t, err)

	// the handshake request went out first
	require.Len(t, f.sent, 1)
	want, _ := authFrame("192.168.1.2", "aa:bb:cc:dd:ee:ff", "pyremote")
	assert.Equal(t, want, f.sent[0])

	// success switches the read timeout to the receive timeout
	assert.Equal(t, 2*time.Second, f.timeout)
	assert.False(t, f.closed)
}

func TestAuthenticateConfirmThenOK(t *testing.T) {
	f := &fakeTransport{steps: []any{
		authResponse(AuthNeedConfirm),
		ErrTimeout,
		authResponse(AuthOK),
	}}

	err := authenticate(f, "aa:bb:cc:dd:ee:ff", "pyremote", 2*time.Second, 3)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, f.timeout)
}

func TestAuthenticateConfirmForever(t *testing.T) {
	f := &fakeTransport{steps: []any{
		authResponse(AuthNeedConfirm),
		authResponse(AuthNeedConfirm),
		authResponse(AuthNeedConfirm),
	}}

	err := authenticate(f, "aa:bb:cc:dd:ee:ff", "pyremote", 2*time.Second, 3)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, f.steps) // full retry budget consumed
}

func TestAuthenticateAllTimeouts(t *testing.T) {
	f := &fakeTransport{steps: []any{ErrTimeout, ErrTimeout, ErrTimeout}}

	err := authenticate(f, "aa:bb:cc:dd:ee:ff", "pyremote", 2*time.Second, 3)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, f.steps)
}

func TestAuthenticateDenied(t *testing.T) {
	f := &fakeTransport{steps: []any{
		authResponse(AuthNeedConfirm),
		authResponse(AuthDenied),
	}}

	err := authenticate(f, "aa:bb:cc:dd:ee:ff", "pyremote", 2*time.Second, 3)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.True(t, f.closed)
}

func TestAuthenticateDeviceTimeout(t *testing.T) {
	f := &fakeTransport{steps: []any{
		authResponse(AuthTimeout),
		authResponse(AuthOK), // must never be read
	}}

	err := authenticate(f, "aa:bb:cc:dd:ee:ff", "pyremote", 2*time.Second, 3)
	assert.ErrorIs(t, err, ErrAuthTimeout)
	require.Len(t, f.steps, 1)
}

func TestAuthenticateUnknownResponse(t *testing.T) {
	f := &fakeTransport{steps: []any{authResponse("\x13\x37")}}

	err := authenticate(f, "aa:bb:cc:dd:ee:ff", "pyremote", 2*time.Second, 3)

	var unknown *UnknownResponseError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "\x13\x37", unknown.Msg.Payload)
}

func TestAuthenticateTransportError(t *testing.T) {
	f := &fakeTransport{steps: []any{ErrClosed}}

	err := authenticate(f, "aa:bb:cc:dd:ee:ff", "pyremote", 2*time.Second, 3)
	assert.ErrorIs(t, err, ErrClosed)
}
