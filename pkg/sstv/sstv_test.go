package sstv

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lp builds the expected length-prefixed form by hand.
func lp(s string) string {
	return string([]byte{byte(len(s)), byte(len(s) >> 8)}) + s
}

func lp64(s string) string {
	return lp(base64.StdEncoding.EncodeToString([]byte(s)))
}

func TestEncodeString(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
		err  error
	}{
		{name: "empty", in: []byte{}, want: []byte{0x00, 0x00}},
		{name: "short", in: []byte("abc"), want: []byte{0x03, 0x00, 'a', 'b', 'c'}},
		{name: "length uses both bytes", in: bytes.Repeat([]byte{'x'}, 0x0102), want: append([]byte{0x02, 0x01}, bytes.Repeat([]byte{'x'}, 0x0102)...)},
		{name: "max length", in: bytes.Repeat([]byte{'x'}, 0xFFFF), want: append([]byte{0xFF, 0xFF}, bytes.Repeat([]byte{'x'}, 0xFFFF)...)},
		{name: "too long", in: bytes.Repeat([]byte{'x'}, 0x10000), err: ErrTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeString(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeBase64(t *testing.T) {
	got, err := EncodeBase64("pyremote")
	require.NoError(t, err)
	assert.Equal(t, []byte(lp64("pyremote")), got)
}

func TestDecodeStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "192.168.1.120", string(bytes.Repeat([]byte{0xAB}, 0xFFFF))} {
		enc, err := EncodeString([]byte(s))
		require.NoError(t, err)

		value, rest, err := DecodeString(enc)
		require.NoError(t, err)
		assert.Equal(t, s, string(value))
		assert.Empty(t, rest)
	}
}

func TestDecodeStringRemainder(t *testing.T) {
	value, rest, err := DecodeString([]byte(lp("abc") + "tail"))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(value))
	assert.Equal(t, "tail", string(rest))
}

func TestDecodeStringTruncated(t *testing.T) {
	for _, b := range [][]byte{nil, {0x05}, {0x05, 0x00}, {0x05, 0x00, 'a', 'b'}} {
		_, _, err := DecodeString(b)
		assert.ErrorIs(t, err, ErrTruncated)
	}
}

func TestParseMessage(t *testing.T) {
	raw := append([]byte{0x02}, []byte(lp("src")+lp("payload"))...)

	msg, err := ParseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, Message{Kind: StateChange, Sender: "src", Payload: "payload"}, msg)

	// unknown kinds are carried opaquely
	raw[0] = 0xC8
	msg, err = ParseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(0xC8), msg.Kind)
}

func TestParseMessageMalformed(t *testing.T) {
	raw := append([]byte{0x02}, []byte(lp("src")+lp("payload"))...)

	_, err := ParseMessage(append(raw, 0x00)) // one trailing byte
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseMessage(nil)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseMessage([]byte{0x02, 0x05, 0x00, 'a'})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestMessageEqualIgnoresSender(t *testing.T) {
	a := Message{Kind: KeyConfirm, Sender: "tv", Payload: KeyOK}
	b := Message{Kind: KeyConfirm, Sender: "bluray", Payload: KeyOK}
	c := Message{Kind: KeyConfirmMenu, Sender: "tv", Payload: KeyOK}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Message{Kind: KeyConfirm, Sender: "tv", Payload: AuthOK}))
}

func TestCommandFrame(t *testing.T) {
	got, err := commandFrame("test", modeKey, []byte("inner"))
	require.NoError(t, err)
	want := "\x00" + lp("test.iapp.samsung") + lp("inner")
	assert.Equal(t, want, string(got))

	got, err = commandFrame("test", modeText, []byte("inner"))
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), got[0])
}

func TestAuthFrame(t *testing.T) {
	got, err := authFrame("192.168.1.2", "aa:bb:cc:dd:ee:ff", "pyremote")
	require.NoError(t, err)

	inner := "\x64\x00" + lp64("192.168.1.2") + lp64("aa:bb:cc:dd:ee:ff") + lp64("pyremote")
	want := "\x00" + lp("pyremote.iapp.samsung") + lp(inner)
	assert.Equal(t, want, string(got))
}
