package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PhilipFalla/pokecollect-gui/internal/metrics"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// DefaultPriceCacheSize is the number of resolved price keys kept in memory
const DefaultPriceCacheSize = 1024

var (
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrUnknownCondition = errors.New("unknown condition")
)

// PriceService values cards from the card_prices catalog. Collection totals
// are always derived here so the client never prices a card itself.
type PriceService struct {
	db    *gorm.DB
	cache *lru.Cache[string, float64] // normalized key -> resolved unit price
}

// Valuation is the priced view of a set of collection rows
type Valuation struct {
	TotalUSD   decimal.Decimal
	CardCount  int
	LineValues map[uint]decimal.Decimal // card id -> unit price * quantity
}

// NewPriceService creates a price service with an LRU of cacheSize entries
func NewPriceService(db *gorm.DB, cacheSize int) (*PriceService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultPriceCacheSize
	}
	cache, err := lru.New[string, float64](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create price cache: %w", err)
	}
	return &PriceService{db: db, cache: cache}, nil
}

// KeyFor builds the catalog key of a stored card. Condition and Language
// must be preloaded.
func KeyFor(card models.CollectionCard) models.PriceKey {
	return models.PriceKey{
		CardName:    card.CardName,
		SetName:     card.SetName,
		NumberInSet: card.NumberInSet,
		Condition:   card.Condition.Code,
		Language:    card.Language.Code,
	}
}

// UnitPrice resolves the price of one copy of a card.
// Fallback order: exact condition/language -> NM same language -> NM English -> 0
func (s *PriceService) UnitPrice(key models.PriceKey) float64 {
	key = key.Normalize()
	cacheKey := key.String()

	if price, ok := s.cache.Get(cacheKey); ok {
		metrics.PriceCacheHits.Inc()
		return price
	}
	metrics.PriceCacheMisses.Inc()

	price := 0.0
	for _, candidate := range key.FallbackChain() {
		var rows []models.CardPrice
		err := s.db.Where("card_name = ? AND set_name = ? AND number_in_set = ? AND condition = ? AND language = ?",
			candidate.CardName, candidate.SetName, candidate.NumberInSet, candidate.Condition, candidate.Language).
			Limit(1).
			Find(&rows).Error
		if err != nil {
			// Don't cache a failed lookup, the next read retries the database
			slog.Warn("price lookup failed", slog.String("key", candidate.String()), slog.Any("error", err))
			return 0
		}
		if len(rows) > 0 {
			price = rows[0].PriceUSD
			break
		}
	}

	s.cache.Add(cacheKey, price)
	return price
}

// Valuate prices every row and sums the quantities
func (s *PriceService) Valuate(cards []models.CollectionCard) Valuation {
	v := Valuation{
		TotalUSD:   decimal.Zero,
		LineValues: make(map[uint]decimal.Decimal, len(cards)),
	}
	for _, card := range cards {
		unit := decimal.NewFromFloat(s.UnitPrice(KeyFor(card)))
		line := unit.Mul(decimal.NewFromInt(int64(card.Quantity))).Round(2)
		v.LineValues[card.ID] = line
		v.TotalUSD = v.TotalUSD.Add(line)
		v.CardCount += card.Quantity
	}
	v.TotalUSD = v.TotalUSD.Round(2)
	return v
}

// LoadCards returns a collection's rows in insertion order with lookups preloaded
func (s *PriceService) LoadCards(collectionID uint) ([]models.CollectionCard, error) {
	var cards []models.CollectionCard
	err := s.db.Preload("Condition").Preload("Language").
		Where("collection_id = ?", collectionID).
		Order("card_id ASC").
		Find(&cards).Error
	return cards, err
}

// Populate fills the computed PriceUSD and CardCount of each collection
func (s *PriceService) Populate(collections []models.Collection) error {
	if len(collections) == 0 {
		return nil
	}

	ids := make([]uint, len(collections))
	for i, c := range collections {
		ids[i] = c.ID
	}

	var cards []models.CollectionCard
	if err := s.db.Preload("Condition").Preload("Language").
		Where("collection_id IN ?", ids).
		Find(&cards).Error; err != nil {
		return err
	}

	byCollection := make(map[uint][]models.CollectionCard, len(collections))
	for _, card := range cards {
		byCollection[card.CollectionID] = append(byCollection[card.CollectionID], card)
	}

	for i := range collections {
		v := s.Valuate(byCollection[collections[i].ID])
		collections[i].PriceUSD = v.TotalUSD.InexactFloat64()
		collections[i].CardCount = v.CardCount
	}
	return nil
}

// Upsert creates or replaces a catalog price and drops cached lookups, since
// any cached fallback may now resolve differently.
func (s *PriceService) Upsert(req models.UpsertPriceRequest) (*models.CardPrice, error) {
	if req.PriceUSD < 0 {
		return nil, ErrInvalidPrice
	}

	condition := models.ConditionNM
	if req.Condition != "" {
		parsed, err := models.ParseCondition(req.Condition)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCondition, req.Condition)
		}
		condition = parsed
	}

	key := models.PriceKey{
		CardName:    req.CardName,
		SetName:     req.SetName,
		NumberInSet: req.NumberInSet,
		Condition:   condition,
		Language:    models.NormalizeLanguage(req.Language),
	}.Normalize()

	now := time.Now()
	price := models.CardPrice{
		CardName:    key.CardName,
		SetName:     key.SetName,
		NumberInSet: key.NumberInSet,
		Condition:   key.Condition,
		Language:    key.Language,
		PriceUSD:    req.PriceUSD,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "card_name"}, {Name: "set_name"}, {Name: "number_in_set"}, {Name: "condition"}, {Name: "language"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"price_usd", "updated_at"}),
	}).Create(&price).Error
	if err != nil {
		return nil, err
	}

	var stored models.CardPrice
	if err := s.db.Where("card_name = ? AND set_name = ? AND number_in_set = ? AND condition = ? AND language = ?",
		key.CardName, key.SetName, key.NumberInSet, key.Condition, key.Language).
		First(&stored).Error; err != nil {
		return nil, err
	}

	s.cache.Purge()
	metrics.PricesUpserted.Inc()
	return &stored, nil
}

// TotalValue returns the value of every collection combined
func (s *PriceService) TotalValue() (decimal.Decimal, error) {
	var cards []models.CollectionCard
	if err := s.db.Preload("Condition").Preload("Language").Find(&cards).Error; err != nil {
		return decimal.Zero, err
	}
	return s.Valuate(cards).TotalUSD, nil
}
