package models

import (
	"strings"
	"time"
)

// CardPrice is a catalog price for one card printing in one condition and
// language. Key fields are stored normalized (see PriceKey).
type CardPrice struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CardName    string    `json:"card_name" gorm:"not null;uniqueIndex:idx_price_key"`
	SetName     string    `json:"set_name" gorm:"not null;uniqueIndex:idx_price_key"`
	NumberInSet string    `json:"number_in_set" gorm:"not null;uniqueIndex:idx_price_key"`
	Condition   Condition `json:"condition" gorm:"not null;uniqueIndex:idx_price_key"`
	Language    Language  `json:"language" gorm:"not null;uniqueIndex:idx_price_key;default:'EN'"`
	PriceUSD    float64   `json:"price_usd"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpsertPriceRequest struct {
	CardName    string  `json:"card_name" binding:"required"`
	SetName     string  `json:"set_name"`
	NumberInSet string  `json:"number_in_set"`
	Condition   string  `json:"condition"`
	Language    string  `json:"language"`
	PriceUSD    float64 `json:"price_usd"`
}

// PriceKey identifies a catalog price
type PriceKey struct {
	CardName    string
	SetName     string
	NumberInSet string
	Condition   Condition
	Language    Language
}

// Normalize lower-cases and trims the free-text parts so lookups are
// insensitive to how users typed the card.
func (k PriceKey) Normalize() PriceKey {
	k.CardName = strings.ToLower(strings.TrimSpace(k.CardName))
	k.SetName = strings.ToLower(strings.TrimSpace(k.SetName))
	k.NumberInSet = strings.ToLower(strings.TrimSpace(k.NumberInSet))
	if k.Condition == "" {
		k.Condition = ConditionNM
	}
	if k.Language == "" {
		k.Language = LanguageEnglish
	}
	return k
}

// String renders the key for cache lookups
func (k PriceKey) String() string {
	return strings.Join([]string{k.CardName, k.SetName, k.NumberInSet, string(k.Condition), string(k.Language)}, "|")
}

// WithCondition returns a copy of k with a different condition
func (k PriceKey) WithCondition(c Condition) PriceKey {
	k.Condition = c
	return k
}

// WithLanguage returns a copy of k with a different language
func (k PriceKey) WithLanguage(l Language) PriceKey {
	k.Language = l
	return k
}

// FallbackChain lists the keys tried when pricing a card: the exact
// condition and language, then Near Mint in the same language, then Near
// Mint English. Duplicates are dropped.
func (k PriceKey) FallbackChain() []PriceKey {
	k = k.Normalize()
	chain := []PriceKey{k}
	seen := map[string]bool{k.String(): true}
	for _, next := range []PriceKey{
		k.WithCondition(ConditionNM),
		k.WithCondition(ConditionNM).WithLanguage(LanguageEnglish),
	} {
		if seen[next.String()] {
			continue
		}
		seen[next.String()] = true
		chain = append(chain, next)
	}
	return chain
}
