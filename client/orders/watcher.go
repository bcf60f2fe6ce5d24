package orders

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/steakz-restaurant/client/api"
	"github.com/yeremiapane/steakz-restaurant/models"
)

// Stream is an open push subscription.
type Stream interface {
	Next() (models.OrderEvent, error)
	Close() error
}

// EventSource is the push stream plus the catch-up endpoint behind it.
type EventSource interface {
	Dial(ctx context.Context) (Stream, error)
	Since(ctx context.Context, seq uint64) ([]models.OrderEvent, error)
}

type clientSource struct{ c *api.Client }

// ClientSource adapts an API client to EventSource.
func ClientSource(c *api.Client) EventSource { return clientSource{c: c} }

func (s clientSource) Dial(ctx context.Context) (Stream, error) {
	stream, err := s.c.DialOrderEvents(ctx)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (s clientSource) Since(ctx context.Context, seq uint64) ([]models.OrderEvent, error) {
	return s.c.OrderEvents(ctx, seq, 0)
}

// Watcher delivers every visible order event once, in sequence order. It
// catches up over HTTP after each (re)connect and keeps polling while the
// push stream is down.
type Watcher struct {
	src     EventSource
	onEvent func(models.OrderEvent)
	retry   *backoff.ExponentialBackOff
	stable  time.Duration
	log     logrus.FieldLogger

	mu      sync.Mutex
	lastSeq uint64
}

type WatcherOption func(*Watcher)

// StartAfter skips events up to and including seq.
func StartAfter(seq uint64) WatcherOption {
	return func(w *Watcher) { w.lastSeq = seq }
}

// WithReconnectBackoff sets the first and the largest wait between reconnects.
func WithReconnectBackoff(initial, ceiling time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.retry.InitialInterval = initial
		w.retry.MaxInterval = ceiling
		w.retry.Reset()
	}
}

// WithStableAfter sets how long a connection must last before the reconnect
// backoff starts over.
func WithStableAfter(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.stable = d }
}

func WithWatcherLogger(l logrus.FieldLogger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

func NewWatcher(src EventSource, onEvent func(models.OrderEvent), opts ...WatcherOption) *Watcher {
	l := logrus.New()
	l.SetOutput(io.Discard)

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = time.Second
	retry.MaxInterval = 30 * time.Second

	w := &Watcher{
		src:     src,
		onEvent: onEvent,
		retry:   retry,
		stable:  time.Minute,
		log:     l,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LastSeq is the sequence of the last delivered event.
func (w *Watcher) LastSeq() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeq
}

func (w *Watcher) deliver(ev models.OrderEvent) {
	w.mu.Lock()
	if ev.ID <= w.lastSeq {
		w.mu.Unlock()
		return
	}
	w.lastSeq = ev.ID
	w.mu.Unlock()
	if w.onEvent != nil {
		w.onEvent(ev)
	}
}

// catchUp pages through everything after the last delivered sequence.
func (w *Watcher) catchUp(ctx context.Context) error {
	for {
		from := w.LastSeq()
		events, err := w.src.Since(ctx, from)
		if err != nil {
			return err
		}
		for _, ev := range events {
			w.deliver(ev)
		}
		if len(events) == 0 || w.LastSeq() == from {
			return nil
		}
	}
}

// Run watches until ctx ends. Rejected credentials stop it with the API error.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		err := w.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if api.IsUnauthorized(err) || errors.Is(err, api.ErrNoToken) {
			return err
		}

		delay := w.retry.NextBackOff()
		if delay == backoff.Stop {
			delay = w.retry.MaxInterval
		}
		w.log.WithError(err).WithField("retry_in", delay).Warn("order event stream lost")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		// Polling fallback while disconnected.
		if err := w.catchUp(ctx); err != nil && ctx.Err() == nil {
			w.log.WithError(err).Warn("order event catch-up failed")
		}
	}
}

// session dials first and catches up second so nothing published in between
// is lost. Duplicates are dropped by sequence.
func (w *Watcher) session(ctx context.Context) error {
	stream, err := w.src.Dial(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()
	connected := time.Now()

	if err := w.catchUp(ctx); err != nil {
		return err
	}
	for {
		ev, err := stream.Next()
		if err != nil {
			if time.Since(connected) >= w.stable {
				w.retry.Reset()
			}
			return err
		}
		w.deliver(ev)
	}
}
