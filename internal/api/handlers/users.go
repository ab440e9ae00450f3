package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
	"github.com/PhilipFalla/pokecollect-gui/internal/services"
)

type UserHandler struct {
	db           *gorm.DB
	passwords    *services.PasswordService
	imageStorage *services.ImageStorageService
}

func NewUserHandler(db *gorm.DB, passwords *services.PasswordService, imageStorage *services.ImageStorageService) *UserHandler {
	return &UserHandler{
		db:           db,
		passwords:    passwords,
		imageStorage: imageStorage,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new account
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	email := normalizeEmail(req.Email)
	if !strings.Contains(email, "@") {
		respondError(c, http.StatusBadRequest, "invalid email address")
		return
	}

	var existing int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&existing)
	if existing > 0 {
		respondError(c, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := h.passwords.Hash(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrPasswordTooLong) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := models.User{Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	if err := h.db.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	slog.Info("user created", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusCreated, user)
}

// GetUser is the credential check: it returns the user only when the
// password matches. Unknown emails and wrong passwords are indistinguishable.
func (h *UserHandler) GetUser(c *gin.Context) {
	email := normalizeEmail(c.Param("email"))
	password := c.Query("password")

	var users []models.User
	if err := h.db.Where("email = ?", email).Limit(1).Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if len(users) == 0 {
		respondError(c, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
		return
	}

	if err := h.passwords.Verify(users[0].PasswordHash, password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Invalid credentials")
		return
	}

	c.JSON(http.StatusOK, users[0])
}

// DeleteUser removes the account and everything it owns
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	var images []string
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var collectionIDs []uint
		if err := tx.Model(&models.Collection{}).Where("user_id = ?", user.ID).Pluck("collection_id", &collectionIDs).Error; err != nil {
			return err
		}

		if len(collectionIDs) > 0 {
			if err := tx.Model(&models.CollectionCard{}).
				Where("collection_id IN ? AND image_path IS NOT NULL AND image_path <> ''", collectionIDs).
				Pluck("image_path", &images).Error; err != nil {
				return err
			}
			if err := tx.Where("collection_id IN ?", collectionIDs).Delete(&models.CollectionCard{}).Error; err != nil {
				return err
			}
			if err := tx.Where("collection_id IN ?", collectionIDs).Delete(&models.CollectionValueSnapshot{}).Error; err != nil {
				return err
			}
			if err := tx.Where("collection_id IN ?", collectionIDs).Delete(&models.Collection{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	if h.imageStorage != nil {
		for _, image := range images {
			if err := h.imageStorage.Delete(image); err != nil {
				slog.Warn("failed to delete card image", slog.String("file", image), slog.Any("error", err))
			}
		}
	}

	slog.Info("user deleted", slog.Uint64("user_id", uint64(user.ID)))
	c.Status(http.StatusNoContent)
}
