package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type submitReviewRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   int    `json:"target_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

// SubmitReview обработчик POST /api/reviews - принимает отзыв и синхронно
// запускает пересчет агрегата рейтинга цели.
func (h *Handler) SubmitReview(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса"})
		return
	}
	id, err := h.ReviewService.Submit(act, req.TargetType, req.TargetID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListReviews обработчик GET /api/reviews - видимые отзывы цели.
func (h *Handler) ListReviews(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Query("target_id"))
	if err != nil || targetID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
		return
	}
	reviews, err := h.ReviewService.ListByTarget(c.Query("target_type"), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// HideReview обработчик POST /api/reviews/:id/hide - скрывает отзыв (модерация).
func (h *Handler) HideReview(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ReviewService.Hide(act, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "hidden"})
}

// ShowReview обработчик POST /api/reviews/:id/show - возвращает отзыв в выдачу.
func (h *Handler) ShowReview(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ReviewService.Show(act, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "visible"})
}
