package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/client/api"
	"github.com/yeremiapane/steakz-restaurant/models"
)

type fakeStream struct {
	events chan models.OrderEvent
	closed chan struct{}
	once   sync.Once
}

func newFakeStream() *fakeStream {
	return &fakeStream{events: make(chan models.OrderEvent, 16), closed: make(chan struct{})}
}

func (s *fakeStream) Next() (models.OrderEvent, error) {
	select {
	case ev, ok := <-s.events:
		if !ok {
			return models.OrderEvent{}, errors.New("connection reset")
		}
		return ev, nil
	case <-s.closed:
		return models.OrderEvent{}, errors.New("closed")
	}
}

func (s *fakeStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

type fakeSource struct {
	mu      sync.Mutex
	log     []models.OrderEvent
	streams chan *fakeStream
	dialErr error
	dials   int
}

func (f *fakeSource) Dial(ctx context.Context) (Stream, error) {
	f.mu.Lock()
	f.dials++
	err := f.dialErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s := newFakeStream()
	go func() {
		<-ctx.Done()
		s.Close()
	}()
	f.streams <- s
	return s, nil
}

func (f *fakeSource) Since(ctx context.Context, seq uint64) ([]models.OrderEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OrderEvent
	for _, ev := range f.log {
		if ev.ID > seq {
			out = append(out, ev)
		}
		if len(out) == 2 {
			break
		}
	}
	return out, nil
}

type collector struct {
	mu  sync.Mutex
	ids []uint64
}

func (c *collector) add(ev models.OrderEvent) {
	c.mu.Lock()
	c.ids = append(c.ids, ev.ID)
	c.mu.Unlock()
}

func (c *collector) snapshot() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint64(nil), c.ids...)
}

func ev(id uint64) models.OrderEvent {
	return models.OrderEvent{ID: id, OrderID: uint(id), Type: models.EventOrderStatus}
}

func TestWatcherCatchesUpAndDropsDuplicates(t *testing.T) {
	src := &fakeSource{log: []models.OrderEvent{ev(1), ev(2), ev(3)}, streams: make(chan *fakeStream, 4)}
	got := &collector{}
	w := NewWatcher(src, got.add)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	stream := <-src.streams
	stream.events <- ev(2)
	stream.events <- ev(3)
	stream.events <- ev(4)

	require.Eventually(t, func() bool { return w.LastSeq() == 4 }, time.Second, time.Millisecond)
	assert.Equal(t, []uint64{1, 2, 3, 4}, got.snapshot())
}

func TestWatcherResumesAfterDisconnect(t *testing.T) {
	src := &fakeSource{streams: make(chan *fakeStream, 4)}
	got := &collector{}
	w := NewWatcher(src, got.add, StartAfter(10), WithReconnectBackoff(5*time.Millisecond, 20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	first := <-src.streams
	first.events <- ev(9)
	first.events <- ev(11)
	require.Eventually(t, func() bool { return w.LastSeq() == 11 }, time.Second, time.Millisecond)

	// Published while the stream is down.
	src.mu.Lock()
	src.log = append(src.log, ev(12), ev(13))
	src.mu.Unlock()
	close(first.events)

	second := <-src.streams
	second.events <- ev(14)
	require.Eventually(t, func() bool { return w.LastSeq() == 14 }, time.Second, time.Millisecond)
	assert.Equal(t, []uint64{11, 12, 13, 14}, got.snapshot())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherStopsOnRejectedToken(t *testing.T) {
	src := &fakeSource{dialErr: &api.Error{StatusCode: 401, Message: "websocket handshake rejected"}, streams: make(chan *fakeStream, 1)}
	w := NewWatcher(src, nil)

	err := w.Run(context.Background())
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, 1, src.dials)
}

func TestWatcherPollsWhileDialFails(t *testing.T) {
	src := &fakeSource{
		log:     []models.OrderEvent{ev(1), ev(2), ev(3)},
		dialErr: errors.New("connection refused"),
		streams: make(chan *fakeStream, 1),
	}
	got := &collector{}
	w := NewWatcher(src, got.add, WithReconnectBackoff(5*time.Millisecond, 10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.Eventually(t, func() bool { return w.LastSeq() == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, []uint64{1, 2, 3}, got.snapshot())
}

func TestWatcherAgainstServer(t *testing.T) {
	app, url := serve(t)
	chef := clientFor(t, app, url, "chef")

	events := make(chan models.OrderEvent, 8)
	w := NewWatcher(ClientSource(chef), func(e models.OrderEvent) { events <- e })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)
	require.Eventually(t, func() bool { return app.Hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	order := placeWalkIn(t, app, url, "Steakz Burger")
	select {
	case e := <-events:
		assert.Equal(t, order.ID, e.OrderID)
		assert.Equal(t, models.EventOrderCreated, e.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("no order event received")
	}
	assert.Equal(t, uint64(1), w.LastSeq())
}
