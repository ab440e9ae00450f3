package models

import (
	"time"
)

// CollectionValueSnapshot stores a collection's daily value for historical tracking
type CollectionValueSnapshot struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CollectionID uint      `json:"collection_id" gorm:"not null;uniqueIndex:idx_snapshot_day"`
	SnapshotDate time.Time `json:"snapshot_date" gorm:"not null;uniqueIndex:idx_snapshot_day"`
	TotalCards   int       `json:"total_cards"`
	TotalValue   float64   `json:"total_value"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValueHistoryResponse is the API response for value history
type ValueHistoryResponse struct {
	CollectionID uint                      `json:"collection_id"`
	Snapshots    []CollectionValueSnapshot `json:"snapshots"`
	Period       string                    `json:"period"` // "week", "month", "year", "all"
}
