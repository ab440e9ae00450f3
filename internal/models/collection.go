package models

import (
	"time"
)

// DefaultExchangeRate is used when a collection is created without a rate
const DefaultExchangeRate = 7.75

// Collection is both the stored row and the wire shape. PriceUSD and
// CardCount are computed by the backend on every read.
type Collection struct {
	ID           uint      `json:"collection_id" gorm:"column:collection_id;primaryKey;autoIncrement"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Title        string    `json:"title" gorm:"not null"`
	PriceUSD     float64   `json:"collection_price_usd" gorm:"-"`
	CardCount    int       `json:"card_count" gorm:"-"`
	ExchangeRate float64   `json:"exchange_rate" gorm:"not null;default:7.75"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateCollectionRequest struct {
	Title        string   `json:"title" binding:"required"`
	UserID       uint     `json:"user_id" binding:"required"`
	ExchangeRate *float64 `json:"exchange_rate,omitempty"`
}

type UpdateExchangeRateRequest struct {
	NewExchangeRate float64 `json:"new_exchange_rate"`
}
