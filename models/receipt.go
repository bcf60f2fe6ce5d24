package models

import "time"

type RestaurantInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Receipt is issued from an order snapshot; the order carries the number.
type Receipt struct {
	ReceiptNumber string         `json:"receiptNumber"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	Restaurant    RestaurantInfo `json:"restaurant"`
	Order         Order          `json:"order"`
}
