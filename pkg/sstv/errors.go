package sstv

import (
	"errors"
	"fmt"
)

var (
	// ErrTooLong indicates a string longer than 65535 bytes was
	// passed to the codec.
	ErrTooLong = errors.New("string too long")

	// ErrTruncated indicates a buffer ended before the declared
	// string length was reached.
	ErrTruncated = errors.New("truncated frame")

	// ErrMalformed indicates a frame whose declared lengths do not
	// exactly consume the buffer.
	ErrMalformed = errors.New("malformed frame")

	// ErrTimeout indicates no frame arrived within the configured
	// receive timeout. Callers polling for events treat this as an
	// ordinary branch, not a failure.
	ErrTimeout = errors.New("receive timeout")

	// ErrClosed indicates the device closed the connection
	// (a zero-length read).
	ErrClosed = errors.New("connection closed by device")

	// ErrAccessDenied indicates the device rejected the application,
	// either explicitly or by exhausting all auth attempts.
	ErrAccessDenied = errors.New("access denied by remote device")

	// ErrAuthTimeout indicates the device reported an authentication
	// timeout. Terminal, not retried.
	ErrAuthTimeout = errors.New("authentication timeout")

	// ErrInvalidChannel indicates a channel number outside 0..9999.
	ErrInvalidChannel = errors.New("channel number out of range")
)

// UnknownResponseError is returned when the device answers the
// handshake with a payload none of the known Auth* constants match.
type UnknownResponseError struct {
	Msg Message
}

func (e *UnknownResponseError) Error() string {
	return fmt.Sprintf("unknown auth response: %s", e.Msg)
}
