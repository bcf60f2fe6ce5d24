package models

import (
	"fmt"
	"time"
)

// Order is created once per checkout. Items and prices never change afterwards;
// only Status and PaymentStatus move.
type Order struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	UserID             *uint         `gorm:"index" json:"userId"`
	User               *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BranchID           *uint         `gorm:"index" json:"branchId,omitempty"`
	Branch             *Branch       `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Status             OrderStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Subtotal           float64       `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`
	Total              float64       `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	PaymentMethod      PaymentMethod `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	PaymentStatus      PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"paymentStatus"`
	Discount           float64       `gorm:"type:decimal(10,2);not null;default:0" json:"discount,omitempty"`
	DiscountType       DiscountType  `gorm:"type:varchar(20)" json:"discountType,omitempty"`
	WalkInName         *string       `gorm:"type:varchar(150)" json:"walkInName"`
	WalkInPhone        *string       `gorm:"type:varchar(50)" json:"walkInPhone"`
	ReceiptNumber      string        `gorm:"type:varchar(50)" json:"receiptNumber,omitempty"`
	ReceiptGeneratedAt *time.Time    `json:"receiptGeneratedAt,omitempty"`
	OrderItems         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// CustomerLabel names whoever the order is for, for kitchen tickets and receipts.
func (o *Order) CustomerLabel() string {
	switch {
	case o.User != nil:
		return o.User.Username
	case o.WalkInName != nil && *o.WalkInName != "":
		return *o.WalkInName
	case o.WalkInPhone != nil && *o.WalkInPhone != "":
		return *o.WalkInPhone
	case o.UserID != nil:
		return fmt.Sprintf("Customer-%d", *o.UserID)
	}
	return "Walk-in"
}

// ItemCount sums the quantities of the order snapshot.
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.OrderItems {
		n += item.Quantity
	}
	return n
}
