package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// respondError writes the {"detail": ...} body every client expects
func respondError(c *gin.Context, status int, detail string) {
	c.JSON(status, models.ErrorResponse{Detail: detail})
}

// paramID parses a numeric path parameter
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
