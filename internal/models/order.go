package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

type Order struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	Number            int             `json:"number" gorm:"uniqueIndex;not null"`
	CustomerID        uint            `json:"customer_id" gorm:"not null;index"`
	Customer          *Customer       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items             []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Subtotal          decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	DeliveryFee       decimal.Decimal `json:"delivery_fee" gorm:"type:decimal(10,2);default:0"`
	OrderDiscount     decimal.Decimal `json:"order_discount" gorm:"type:decimal(10,2);default:0"`
	Total             decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Status            OrderStatus     `json:"status" gorm:"type:varchar(16);default:'pending'"`
	PaymentStatus     PaymentStatus   `json:"payment_status" gorm:"type:varchar(16);default:'pending'"`
	PaymentMethod     string          `json:"payment_method"`
	DeliveryMethod    string          `json:"delivery_method"`
	SalesChannel      string          `json:"sales_channel"`
	Notes             string          `json:"notes" gorm:"type:text"`
	OrderDate         time.Time       `json:"order_date" gorm:"not null"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
	CompletedAt       *time.Time      `json:"completed_at"`
	PaymentDate       *time.Time      `json:"payment_date"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// ComputeTotals rebuilds every derived money field from the order's items,
// delivery fee and discounts. The stored total is never trusted on its own.
func (o *Order) ComputeTotals() {
	subtotal := decimal.Zero
	for i := range o.Items {
		item := &o.Items[i]
		item.FinalUnitPrice = item.UnitPrice.Sub(item.ItemDiscount)
		item.Total = item.FinalUnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(item.Total)
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Sub(o.OrderDiscount).Add(o.DeliveryFee)
}

// Normalize fills default statuses and enforces the cancellation cascade:
// a cancelled order always carries a cancelled payment status.
func (o *Order) Normalize() {
	if o.Status == "" {
		o.Status = OrderPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	if o.Status == OrderCancelled {
		o.PaymentStatus = PaymentCancelled
	}
}

// IsTerminal reports whether the order can no longer change status.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderDelivered || o.Status == OrderCancelled
}
