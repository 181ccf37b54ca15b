package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one product line inside an order. UnitPrice is the product's
// price at order time and stays fixed even when the product price changes
// or the product is deleted later.
type OrderItem struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	OrderID        uint            `json:"order_id" gorm:"not null;index"`
	ProductID      uint            `json:"product_id" gorm:"not null"`
	Product        *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity       int             `json:"quantity" gorm:"not null"`
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	ItemDiscount   decimal.Decimal `json:"item_discount" gorm:"type:decimal(10,2);default:0"`
	FinalUnitPrice decimal.Decimal `json:"final_unit_price" gorm:"type:decimal(10,2);not null"`
	Total          decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
