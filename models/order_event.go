package models

import "time"

const (
	EventOrderCreated = "order_created"
	EventOrderStatus  = "order_status"
	EventOrderPayment = "order_payment"
	EventOrderReceipt = "order_receipt"
)

// OrderEvent is appended in the same transaction as the order change it records.
// ID is the stream sequence clients resume from.
type OrderEvent struct {
	ID        uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"orderId"`
	BranchID  *uint       `gorm:"index" json:"branchId,omitempty"`
	UserID    *uint       `gorm:"index" json:"userId,omitempty"`
	Type      string      `gorm:"type:varchar(30);not null" json:"type"`
	Status    OrderStatus `gorm:"type:varchar(20)" json:"status"`
	Published bool        `gorm:"not null;default:false;index" json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewOrderEvent records the current state of o.
func NewOrderEvent(o *Order, eventType string) *OrderEvent {
	return &OrderEvent{
		OrderID:  o.ID,
		BranchID: o.BranchID,
		UserID:   o.UserID,
		Type:     eventType,
		Status:   o.Status,
	}
}
