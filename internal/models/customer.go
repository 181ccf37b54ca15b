package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	Name                string    `json:"name" gorm:"not null"`
	WhatsApp            string    `json:"whatsapp" gorm:"column:whatsapp;not null"`
	Email               string    `json:"email"`
	Address             string    `json:"address" gorm:"type:text"`
	Observations        string    `json:"observations" gorm:"type:text"`
	DeliveryPreferences string    `json:"delivery_preferences" gorm:"type:text"`
	IsGiftEligible      bool      `json:"is_gift_eligible" gorm:"default:false"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// Aggregates recomputed from the customer's orders; stored so the
	// dashboard can list customers without re-reading every order.
	TotalOrders     int             `json:"total_orders" gorm:"default:0"`
	TotalSpent      decimal.Decimal `json:"total_spent" gorm:"type:decimal(10,2);default:0"`
	CompletedOrders int             `json:"completed_orders" gorm:"default:0"`
	CancelledOrders int             `json:"cancelled_orders" gorm:"default:0"`
	PendingOrders   int             `json:"pending_orders" gorm:"default:0"`
	PaidSpent       decimal.Decimal `json:"paid_spent" gorm:"type:decimal(10,2);default:0"`
	PendingSpent    decimal.Decimal `json:"pending_spent" gorm:"type:decimal(10,2);default:0"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerTotals carries the recomputed order aggregates written back to a
// customer row in a single update.
type CustomerTotals struct {
	TotalOrders     int
	TotalSpent      decimal.Decimal
	CompletedOrders int
	CancelledOrders int
	PendingOrders   int
	PaidSpent       decimal.Decimal
	PendingSpent    decimal.Decimal
}
