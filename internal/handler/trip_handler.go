package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx/types"
)

type createTripRequest struct {
	Title   string         `json:"title" binding:"required"`
	Payload types.JSONText `json:"payload"`
}

// CreateTrip обработчик POST /api/trips - создает план поездки (в очередь модерации).
func (h *Handler) CreateTrip(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req createTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса"})
		return
	}
	id, err := h.TripService.CreateTrip(act, req.Title, req.Payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListPublicTrips обработчик GET /api/trips - одобренные публичные поездки.
func (h *Handler) ListPublicTrips(c *gin.Context) {
	trips, err := h.TripService.ListPublic()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// ListMyTrips обработчик GET /api/trips/mine - заявки текущего пользователя.
func (h *Handler) ListMyTrips(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	trips, err := h.TripService.ListMine(act)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTrip обработчик GET /api/trips/:id - одна заявка.
func (h *Handler) GetTrip(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	trip, err := h.TripService.GetTrip(id)
	if err != nil {
		respondError(c, err)
		return
	}
	// непубличная заявка видна владельцу, поддержке и администратору
	if !trip.IsPublic && trip.OwnerID != act.UserID && !act.IsSupport() && !act.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Заявка недоступна"})
		return
	}
	c.JSON(http.StatusOK, trip)
}

// ListPendingReview обработчик GET /api/trips/pending-review - очередь модерации.
func (h *Handler) ListPendingReview(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	trips, err := h.TripService.ListPendingReview(act)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// ListClaimable обработчик GET /api/trips/claimable - заявки, ожидающие агента.
func (h *Handler) ListClaimable(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	trips, err := h.TripService.ListClaimable(act)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// ApproveTrip обработчик POST /api/trips/:id/approve - одобрение модерацией.
func (h *Handler) ApproveTrip(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.TripService.Approve(act, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

type rejectTripRequest struct {
	Reason string `json:"reason"`
}

// RejectTrip обработчик POST /api/trips/:id/reject - отклонение с причиной.
func (h *Handler) RejectTrip(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req rejectTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса"})
		return
	}
	if err := h.TripService.Reject(act, id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// ResubmitTrip обработчик POST /api/trips/:id/resubmit - повторная подача после отклонения.
func (h *Handler) ResubmitTrip(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.TripService.Resubmit(act, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "pending_review"})
}

// RequestSupport обработчик POST /api/trips/:id/request-support - запрос сопровождения.
func (h *Handler) RequestSupport(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.TripService.RequestSupport(act, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "pending"})
}

// ClaimTrip обработчик POST /api/trips/:id/claim - агент берет заявку.
func (h *Handler) ClaimTrip(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.AssignmentService.Claim(act, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "assigned", "supporter_id": act.UserID})
}

// CompleteTrip обработчик POST /api/trips/:id/complete - агент завершает заявку.
func (h *Handler) CompleteTrip(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.AssignmentService.Complete(act, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "done"})
}
