package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
	"github.com/PhilipFalla/pokecollect-gui/internal/services"
)

// Maximum quantity allowed per collection row
const maxQuantity = 9999

// ImageRoute is where stored card images are served
const ImageRoute = "/images/cards"

type CardHandler struct {
	db           *gorm.DB
	priceService *services.PriceService
	imageStorage *services.ImageStorageService
}

func NewCardHandler(db *gorm.DB, prices *services.PriceService, imageStorage *services.ImageStorageService) *CardHandler {
	return &CardHandler{
		db:           db,
		priceService: prices,
		imageStorage: imageStorage,
	}
}

// toCard converts a stored row to its wire shape
func toCard(row models.CollectionCard, valueUSD float64) models.Card {
	card := models.Card{
		ID:        row.ID,
		Name:      row.CardName,
		Condition: row.Condition.Code,
		Quantity:  row.Quantity,
		Language:  row.Language.Code,
		Version:   row.Edition,
		SetName:   row.SetName,
		SetNumber: row.NumberInSet,
		Date:      row.UpdatedAt,
		ValueUSD:  valueUSD,
	}
	if row.ImagePath != "" {
		card.Image = ImageRoute + "/" + row.ImagePath
	}
	return card
}

func (h *CardHandler) collectionExists(id uint) bool {
	var count int64
	h.db.Model(&models.Collection{}).Where("collection_id = ?", id).Count(&count)
	return count > 0
}

// GetCardsByCollection lists a collection's cards in the order they were added
func (h *CardHandler) GetCardsByCollection(c *gin.Context) {
	id, ok := paramID(c, "collectionId")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid collection id")
		return
	}
	if !h.collectionExists(id) {
		respondError(c, http.StatusNotFound, "Collection not found")
		return
	}

	rows, err := h.priceService.LoadCards(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch cards")
		return
	}

	valuation := h.priceService.Valuate(rows)
	cards := make([]models.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, toCard(row, valuation.LineValues[row.ID].InexactFloat64()))
	}

	c.JSON(http.StatusOK, cards)
}

// AddCardToCollection adds a card as a new row; identical printings get
// separate rows.
func (h *CardHandler) AddCardToCollection(c *gin.Context) {
	var req models.AddCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "collection_id, condition_id, card_name and language_id are required")
		return
	}

	// Validate and set defaults
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		respondError(c, http.StatusBadRequest, "quantity must be positive")
		return
	}
	if quantity > maxQuantity {
		respondError(c, http.StatusBadRequest, "quantity exceeds maximum allowed (9999)")
		return
	}

	name := strings.TrimSpace(req.CardName)
	if name == "" {
		respondError(c, http.StatusBadRequest, "card_name must not be empty")
		return
	}

	var condition models.ConditionRecord
	if err := h.db.First(&condition, req.ConditionID).Error; err != nil {
		respondError(c, http.StatusBadRequest, "unknown condition_id")
		return
	}
	var language models.LanguageRecord
	if err := h.db.First(&language, req.LanguageID).Error; err != nil {
		respondError(c, http.StatusBadRequest, "unknown language_id")
		return
	}

	if !h.collectionExists(req.CollectionID) {
		respondError(c, http.StatusNotFound, "Collection not found")
		return
	}

	// Handle the image first
	var imagePath string
	if req.ImageData != "" && h.imageStorage != nil {
		imageData, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid image data")
			return
		}
		filename, err := h.imageStorage.SaveImage(imageData)
		if err != nil {
			// Log but don't fail - image is optional
			slog.Warn("failed to store card image", slog.Any("error", err))
		} else {
			imagePath = filename
		}
	}

	now := time.Now()
	row := models.CollectionCard{
		CollectionID: req.CollectionID,
		ConditionID:  condition.ID,
		LanguageID:   language.ID,
		Quantity:     quantity,
		CardName:     name,
		NumberInSet:  strings.TrimSpace(req.NumberInSet),
		SetName:      strings.TrimSpace(req.SetName),
		Edition:      strings.TrimSpace(req.Edition),
		ImagePath:    imagePath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.db.Omit("Condition", "Language").Create(&row).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to add card")
		return
	}

	row.Condition = condition
	row.Language = language
	valuation := h.priceService.Valuate([]models.CollectionCard{row})
	c.JSON(http.StatusCreated, toCard(row, valuation.LineValues[row.ID].InexactFloat64()))
}

// RemoveCardFromCollection deletes one row from a collection
func (h *CardHandler) RemoveCardFromCollection(c *gin.Context) {
	var req models.RemoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "card_id and collection_id are required")
		return
	}

	var rows []models.CollectionCard
	if err := h.db.Where("card_id = ? AND collection_id = ?", req.CardID, req.CollectionID).
		Limit(1).
		Find(&rows).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to remove card")
		return
	}
	if len(rows) == 0 {
		respondError(c, http.StatusNotFound, "Card not found in collection")
		return
	}

	if err := h.db.Delete(&models.CollectionCard{}, rows[0].ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to remove card")
		return
	}

	if h.imageStorage != nil {
		if err := h.imageStorage.Delete(rows[0].ImagePath); err != nil {
			slog.Warn("failed to delete card image", slog.String("file", rows[0].ImagePath), slog.Any("error", err))
		}
	}

	c.Status(http.StatusNoContent)
}
