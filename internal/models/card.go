package models

import (
	"time"
)

// CollectionCard is a stored card-in-collection row
type CollectionCard struct {
	ID           uint            `gorm:"column:card_id;primaryKey;autoIncrement"`
	CollectionID uint            `gorm:"not null;index"`
	ConditionID  uint            `gorm:"not null"`
	Condition    ConditionRecord `gorm:"foreignKey:ConditionID"`
	LanguageID   uint            `gorm:"not null"`
	Language     LanguageRecord  `gorm:"foreignKey:LanguageID"`
	Quantity     int             `gorm:"not null;default:1"`
	CardName     string          `gorm:"not null;index"`
	NumberInSet  string
	SetName      string
	Edition      string
	ImagePath    string `gorm:"default:null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CollectionCard) TableName() string { return "cards_in_collection" }

// Card is the wire shape of a card in a collection
type Card struct {
	ID        uint      `json:"card_id"`
	Name      string    `json:"name"`
	Condition Condition `json:"condition"`
	Quantity  int       `json:"quantity"`
	Language  Language  `json:"language"`
	Version   string    `json:"version"`
	SetName   string    `json:"set_name"`
	SetNumber string    `json:"set_number"`
	Date      time.Time `json:"date"`
	Image     string    `json:"image"`
	ValueUSD  float64   `json:"value_usd"`
}

type AddCardRequest struct {
	CollectionID uint   `json:"collection_id" binding:"required"`
	ConditionID  uint   `json:"condition_id" binding:"required"`
	Quantity     int    `json:"quantity"`
	CardName     string `json:"card_name" binding:"required"`
	NumberInSet  string `json:"number_in_set"`
	SetName      string `json:"set_name"`
	LanguageID   uint   `json:"language_id" binding:"required"`
	Edition      string `json:"edition"`
	ImageData    string `json:"image_data,omitempty"` // base64 encoded
}

type RemoveCardRequest struct {
	CardID       uint `json:"card_id" binding:"required"`
	CollectionID uint `json:"collection_id" binding:"required"`
}

// TotalQuantity is the "number of cards" shown for a card list.
func TotalQuantity(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Quantity
	}
	return total
}
