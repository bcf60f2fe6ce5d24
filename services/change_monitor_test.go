package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (p *recordingPublisher) BroadcastEvent(ev *models.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *ev)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestPublishPendingInSequence(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	cm := NewChangeMonitor(f.db, pub)

	order := f.placeFor(t, f.customer)
	_, err := f.orders.UpdateStatus(f.cashier, order.ID, models.OrderConfirmed)
	require.NoError(t, err)

	n, err := cm.PublishPending()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, pub.events, 2)
	assert.Equal(t, models.EventOrderCreated, pub.events[0].Type)
	assert.Equal(t, models.EventOrderStatus, pub.events[1].Type)
	assert.Less(t, pub.events[0].ID, pub.events[1].ID)

	n, err = cm.PublishPending()
	require.NoError(t, err)
	assert.Zero(t, n, "published events are not sent twice")
}

func TestChangeMonitorLoop(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	cm := NewChangeMonitor(f.db, pub)
	cm.Interval = 10 * time.Millisecond
	cm.Start()

	f.placeFor(t, f.customer)
	assert.Eventually(t, func() bool { return pub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	cm.Stop()
	cm.Stop()
}
