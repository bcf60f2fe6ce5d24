package models

import "time"

type Branch struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(150);not null" json:"name"`
	Address     string    `gorm:"type:varchar(255)" json:"address"`
	City        string    `gorm:"type:varchar(100)" json:"city"`
	District    string    `gorm:"type:varchar(100)" json:"district"`
	Phone       string    `gorm:"type:varchar(50)" json:"phone"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
