package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
	"github.com/PhilipFalla/pokecollect-gui/internal/services"
)

type CollectionHandler struct {
	db              *gorm.DB
	priceService    *services.PriceService
	snapshotService *services.SnapshotService
}

func NewCollectionHandler(db *gorm.DB, prices *services.PriceService, snapshot *services.SnapshotService) *CollectionHandler {
	return &CollectionHandler{
		db:              db,
		priceService:    prices,
		snapshotService: snapshot,
	}
}

// loadCollection fetches a collection with its computed totals. It writes the
// error response itself and returns false when the caller should stop.
func (h *CollectionHandler) loadCollection(c *gin.Context, id uint) (*models.Collection, bool) {
	var collections []models.Collection
	if err := h.db.Where("collection_id = ?", id).Limit(1).Find(&collections).Error; err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if len(collections) == 0 {
		respondError(c, http.StatusNotFound, "Collection not found")
		return nil, false
	}
	if err := h.priceService.Populate(collections); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return &collections[0], true
}

// GetCollectionsByUser lists a user's collections, newest first
func (h *CollectionHandler) GetCollectionsByUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var users int64
	h.db.Model(&models.User{}).Where("user_id = ?", userID).Count(&users)
	if users == 0 {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	collections := []models.Collection{}
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&collections).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch collections")
		return
	}
	if err := h.priceService.Populate(collections); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch collections")
		return
	}

	c.JSON(http.StatusOK, collections)
}

// CreateCollection creates an empty collection
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var req models.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "title and user_id are required")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondError(c, http.StatusBadRequest, "title must not be empty")
		return
	}

	rate := models.DefaultExchangeRate
	if req.ExchangeRate != nil {
		rate = *req.ExchangeRate
	}
	if rate <= 0 {
		respondError(c, http.StatusBadRequest, "exchange rate must be positive")
		return
	}

	var users int64
	h.db.Model(&models.User{}).Where("user_id = ?", req.UserID).Count(&users)
	if users == 0 {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	collection := models.Collection{
		UserID:       req.UserID,
		Title:        title,
		ExchangeRate: rate,
		CreatedAt:    time.Now(),
	}
	if err := h.db.Create(&collection).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create collection")
		return
	}

	c.JSON(http.StatusCreated, collection)
}

// GetCollection returns one collection with its current value
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid collection id")
		return
	}

	collection, ok := h.loadCollection(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, collection)
}

// UpdateExchangeRate sets the collection's USD to local currency rate
func (h *CollectionHandler) UpdateExchangeRate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid collection id")
		return
	}

	var req models.UpdateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "new_exchange_rate is required")
		return
	}
	if req.NewExchangeRate <= 0 {
		respondError(c, http.StatusBadRequest, "exchange rate must be positive")
		return
	}

	collection, ok := h.loadCollection(c, id)
	if !ok {
		return
	}

	if err := h.db.Model(&models.Collection{}).
		Where("collection_id = ?", id).
		Update("exchange_rate", req.NewExchangeRate).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update exchange rate")
		return
	}
	collection.ExchangeRate = req.NewExchangeRate

	c.JSON(http.StatusOK, collection)
}

// GetValueHistory returns collection value snapshots for charting
func (h *CollectionHandler) GetValueHistory(c *gin.Context) {
	if h.snapshotService == nil {
		respondError(c, http.StatusServiceUnavailable, "snapshot service not available")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid collection id")
		return
	}
	if _, ok := h.loadCollection(c, id); !ok {
		return
	}

	period := c.DefaultQuery("period", "month")

	snapshots, err := h.snapshotService.GetHistory(id, period)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, models.ValueHistoryResponse{
		CollectionID: id,
		Snapshots:    snapshots,
		Period:       period,
	})
}
