package sstv

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Receiver consumes the event stream the device pushes after
// authentication - key confirmations, status changes. It works in one
// of two modes over the same connection:
//
// Pull: call Next to block for the next message the Filter accepts.
//
// Push: register (matcher, callback) pairs with Listen, then Start a
// single background worker that fans every message out to all
// matching pairs in registration order. Stop is cooperative, the
// worker observes it once per receive cycle, so shutdown takes at
// most one receive timeout.
//
// The connection is owned by whichever mode is in use, never mix both
// and never send commands through it concurrently.
type Receiver struct {
	c *Client

	// Filter drops messages in pull mode. Nil accepts everything.
	Filter func(Message) bool

	listeners []subscriber

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	log      zerolog.Logger
}

type subscriber struct {
	match func(Message) bool
	fn    func(Message)
}

func NewReceiver(cfg Config) *Receiver {
	return &Receiver{
		c:    NewClient(cfg),
		stop: make(chan struct{}),
		done: make(chan struct{}),
		log:  zerolog.Nop(),
	}
}

func (r *Receiver) SetLogger(log zerolog.Logger) {
	r.log = log
	r.c.SetLogger(log)
}

// Next blocks until the device sends a message the Filter accepts.
// Receive timeouts are not message boundaries and retry silently,
// every other error propagates.
func (r *Receiver) Next() (Message, error) {
	for {
		msg, err := r.c.Recv()
		if errors.Is(err, ErrTimeout) {
			continue
		}
		if err != nil {
			return Message{}, err
		}
		if r.Filter == nil || r.Filter(msg) {
			return msg, nil
		}
	}
}

// Listen registers a callback for push mode. A nil matcher matches
// every message. Register all pairs before Start, the slice is not
// guarded.
func (r *Receiver) Listen(match func(Message) bool, fn func(Message)) {
	r.listeners = append(r.listeners, subscriber{match: match, fn: fn})
}

// Start connects, authenticates and launches the worker. A receiver
// runs once, it is not restartable after Stop or a failed Start.
func (r *Receiver) Start() error {
	if err := r.c.Dial(); err != nil {
		close(r.done) // unblock Wait
		return err
	}
	go r.run()
	return nil
}

// Stop requests a graceful worker shutdown.
func (r *Receiver) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
}

// Wait blocks until the worker exits. Joining implies stopping.
func (r *Receiver) Wait() {
	r.Stop()
	<-r.done
}

func (r *Receiver) run() {
	defer close(r.done)
	defer func() {
		_ = r.c.Close()
	}()

	for {
		select {
		case <-r.stop:
			return
		default:
		}

		raw, err := r.c.tr.Recv()
		if errors.Is(err, ErrTimeout) {
			continue
		}
		if err != nil {
			r.log.Error().Err(err).Msg("[sstv] receive")
			return
		}

		// one bad frame must not kill the loop
		msg, err := ParseMessage(raw)
		if err != nil {
			r.log.Warn().Err(err).Hex("frame", raw).Msg("[sstv] parse")
			continue
		}

		for _, s := range r.listeners {
			if s.match == nil || s.match(msg) {
				s.fn(msg)
			}
		}
	}
}
