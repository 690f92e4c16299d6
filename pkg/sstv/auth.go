package sstv

import (
	"errors"
	"time"
)

// authenticate performs the handshake on a freshly dialed transport.
//
// The device may push any number of intermediate "waiting for user
// confirmation on the TV screen" frames before the final verdict, so
// every non-terminal outcome (receive timeout or need-confirmation)
// consumes one attempt and the loop continues. Only AuthOK,
// AuthDenied, AuthTimeout or an unknown payload stop it early.
// On success the read timeout is switched from the auth timeout to
// recvTimeout.
func authenticate(t Transport, mac, appLabel string, recvTimeout time.Duration, attempts int) error {
	frame, err := authFrame(t.LocalAddr(), mac, appLabel)
	if err != nil {
		return err
	}
	if _, err = t.Send(frame); err != nil {
		return err
	}

	for i := 0; i < attempts; i++ {
		raw, err := t.Recv()
		if errors.Is(err, ErrTimeout) {
			continue
		}
		if err != nil {
			return err
		}

		msg, err := ParseMessage(raw)
		if err != nil {
			return err
		}

		switch msg.Payload {
		case AuthOK:
			t.SetTimeout(recvTimeout)
			return nil
		case AuthNeedConfirm:
			continue
		case AuthDenied:
			_ = t.Close()
			return ErrAccessDenied
		case AuthTimeout:
			return ErrAuthTimeout
		default:
			return &UnknownResponseError{Msg: msg}
		}
	}

	return ErrAccessDenied
}
