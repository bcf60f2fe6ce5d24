package models

import "time"

// OrderItem snapshots the menu price at order time.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"orderId"`
	MenuItemID uint      `gorm:"not null" json:"menuItemId"`
	MenuItem   MenuItem  `gorm:"foreignKey:MenuItemID;constraint:OnDelete:RESTRICT" json:"menuItem"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt  time.Time `json:"createdAt"`
}
