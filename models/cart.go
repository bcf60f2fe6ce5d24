package models

import "time"

// Cart belongs to exactly one user. Total and ItemCount are derived on read.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"userId"`
	Version   uint64     `gorm:"not null;default:0" json:"version"`
	CartItems []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"cartItems"`
	Total     float64    `gorm:"-" json:"total"`
	ItemCount int        `gorm:"-" json:"itemCount"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CartID     uint      `gorm:"not null;index" json:"cartId"`
	MenuItemID uint      `gorm:"not null" json:"menuItemId"`
	MenuItem   MenuItem  `gorm:"foreignKey:MenuItemID" json:"menuItem"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IsEmpty reports whether the cart holds no item with a positive quantity.
func (c *Cart) IsEmpty() bool {
	if c == nil {
		return true
	}
	for _, item := range c.CartItems {
		if item.Quantity > 0 {
			return false
		}
	}
	return true
}
