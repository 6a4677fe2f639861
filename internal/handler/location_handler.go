package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListLocations обработчик GET /api/locations - поиск локаций с агрегатами
// рейтинга, поддерживаемыми агрегатором отзывов.
func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.LocationService.SearchLocations(
		c.Query("category"), c.Query("region"), c.Query("min_rating"), c.Query("keyword"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}
