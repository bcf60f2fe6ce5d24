package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"gorm.io/gorm"
)

// Publisher receives order events in sequence order.
type Publisher interface {
	BroadcastEvent(ev *models.OrderEvent)
}

// ChangeMonitor relays unpublished order events to connected clients and
// marks them published.
type ChangeMonitor struct {
	DB        *gorm.DB
	Publisher Publisher
	Interval  time.Duration
	BatchSize int

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewChangeMonitor(db *gorm.DB, publisher Publisher) *ChangeMonitor {
	return &ChangeMonitor{
		DB:        db,
		Publisher: publisher,
		Interval:  time.Second,
		BatchSize: 100,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		defer close(cm.done)
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := cm.PublishPending(); err != nil {
					utils.ErrorLogger.WithError(err).Error("publish order events")
				}
			case <-cm.stopChan:
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight batch to finish.
func (cm *ChangeMonitor) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopChan) })
	<-cm.done
}

// PublishPending relays one batch and returns how many events it published.
func (cm *ChangeMonitor) PublishPending() (int, error) {
	var events []models.OrderEvent
	err := cm.DB.Where("published = ?", false).
		Order("id ASC").
		Limit(cm.BatchSize).
		Find(&events).Error
	if err != nil || len(events) == 0 {
		return 0, err
	}

	for i := range events {
		cm.Publisher.BroadcastEvent(&events[i])
	}

	ids := make([]uint64, len(events))
	for i, ev := range events {
		ids[i] = ev.ID
	}
	if err := cm.DB.Model(&models.OrderEvent{}).Where("id IN ?", ids).Update("published", true).Error; err != nil {
		return 0, err
	}

	utils.InfoLogger.WithField("count", len(events)).Debug("published order events")
	return len(events), nil
}
