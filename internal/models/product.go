package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one entry of a product's price history log.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

type PriceHistory []PricePoint

func (h *PriceHistory) Scan(value interface{}) error {
	if value == nil {
		*h = PriceHistory{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan PriceHistory: %v", value)
	}

	return json.Unmarshal(bytes, h)
}

func (h PriceHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	return json.Marshal(h)
}

type Product struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"not null"`
	Description     string          `json:"description" gorm:"type:text"`
	CategoryID      uint            `json:"category_id" gorm:"not null;index"`
	Category        *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Weight          string          `json:"weight"`
	IsActive        bool            `json:"is_active" gorm:"default:true"`
	ImageURL        string          `json:"image_url"`
	CustomPackaging bool            `json:"custom_packaging" gorm:"default:false"`
	TotalSold       int             `json:"total_sold" gorm:"default:0"`
	PriceHistory    PriceHistory    `json:"price_history" gorm:"type:jsonb"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
