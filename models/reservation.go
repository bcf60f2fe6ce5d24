package models

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

func (s ReservationStatus) Valid() bool {
	return s == ReservationPending || s == ReservationConfirmed || s == ReservationCancelled
}

type Reservation struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	UserID        uint              `gorm:"not null;index" json:"userId"`
	User          *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BranchID      *uint             `gorm:"index" json:"branchId,omitempty"`
	Branch        *Branch           `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Date          string            `gorm:"type:varchar(10);not null" json:"date"`
	Time          string            `gorm:"type:varchar(5);not null" json:"time"`
	PartySize     int               `gorm:"not null" json:"partySize"`
	Status        ReservationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	PaymentStatus PaymentStatus     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"paymentStatus"`
	DepositAmount float64           `gorm:"type:decimal(10,2);not null;default:0" json:"depositAmount"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination derives page flags from a total row count.
func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

type ReservationsPage struct {
	Reservations []Reservation `json:"reservations"`
	Pagination   Pagination    `json:"pagination"`
}
