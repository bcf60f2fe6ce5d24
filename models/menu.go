package models

import "time"

type MenuCategory string

const (
	CategoryAppetizer MenuCategory = "APPETIZER"
	CategoryMain      MenuCategory = "MAIN"
	CategoryDessert   MenuCategory = "DESSERT"
	CategoryBeverage  MenuCategory = "BEVERAGE"
)

func (c MenuCategory) Valid() bool {
	switch c {
	case CategoryAppetizer, CategoryMain, CategoryDessert, CategoryBeverage:
		return true
	}
	return false
}

type MenuItem struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    MenuCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	ImageURL    string       `gorm:"type:varchar(255)" json:"imageUrl,omitempty"`
	IsAvailable bool         `gorm:"not null;default:true" json:"isAvailable"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
