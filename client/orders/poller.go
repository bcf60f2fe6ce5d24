package orders

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPollInterval = 30 * time.Second
	DefaultPollJitter   = 3 * time.Second
	maxFailureDelay     = 2 * time.Minute
)

// Poller runs fetch on a fixed interval, one call at a time. Failures back off
// exponentially until the next success.
type Poller struct {
	fetch    func(context.Context) error
	interval time.Duration
	jitter   time.Duration
	failures *backoff.ExponentialBackOff
	trigger  chan struct{}
	log      logrus.FieldLogger
}

type PollerOption func(*Poller)

func WithJitter(d time.Duration) PollerOption {
	return func(p *Poller) { p.jitter = d }
}

// WithFailureBackoff sets the first and the largest delay after failures.
func WithFailureBackoff(initial, ceiling time.Duration) PollerOption {
	return func(p *Poller) {
		p.failures.InitialInterval = initial
		p.failures.MaxInterval = ceiling
		p.failures.Reset()
	}
}

func WithPollerLogger(l logrus.FieldLogger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.log = l
		}
	}
}

func NewPoller(fetch func(context.Context) error, interval time.Duration, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	l := logrus.New()
	l.SetOutput(io.Discard)

	failures := backoff.NewExponentialBackOff()
	failures.InitialInterval = time.Second
	failures.MaxInterval = maxFailureDelay

	p := &Poller{
		fetch:    fetch,
		interval: interval,
		jitter:   DefaultPollJitter,
		failures: failures,
		trigger:  make(chan struct{}, 1),
		log:      l,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.jitter >= p.interval {
		p.jitter = p.interval / 2
	}
	return p
}

// Trigger asks for a fetch as soon as the current one is done. Triggers that
// arrive while one is already pending collapse into it.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run fetches immediately and then on schedule until ctx ends.
func (p *Poller) Run(ctx context.Context) error {
	for {
		delay := p.tick(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-p.trigger:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (p *Poller) tick(ctx context.Context) time.Duration {
	if err := p.fetch(ctx); err != nil {
		if ctx.Err() != nil {
			return 0
		}
		delay := p.failures.NextBackOff()
		if delay == backoff.Stop {
			delay = p.failures.MaxInterval
		}
		p.log.WithError(err).WithField("retry_in", delay).Warn("poll failed")
		return delay
	}
	p.failures.Reset()
	return p.nextInterval()
}

func (p *Poller) nextInterval() time.Duration {
	if p.jitter <= 0 {
		return p.interval
	}
	offset := time.Duration(rand.Int64N(int64(2*p.jitter))) - p.jitter
	return p.interval + offset
}
