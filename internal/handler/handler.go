package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/authctx"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/service"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/ws"

	"github.com/gin-gonic/gin"
)

// Handler структурирует зависимости сервисов для обработки HTTP-запросов.
type Handler struct {
	TripService         *service.TripService
	AssignmentService   *service.AssignmentService
	ConversationService *service.ConversationService
	ReviewService       *service.ReviewService
	LocationService     *service.LocationService
	Hub                 *ws.Hub
}

// NewHandler создает новый Handler с внедрением зависимостей (сервисов).
func NewHandler(ts *service.TripService, as *service.AssignmentService,
	cs *service.ConversationService, rs *service.ReviewService,
	ls *service.LocationService, hub *ws.Hub) *Handler {
	return &Handler{
		TripService:         ts,
		AssignmentService:   as,
		ConversationService: cs,
		ReviewService:       rs,
		LocationService:     ls,
		Hub:                 hub,
	}
}

// actor извлекает аутентифицированного участника из заголовков, проставленных
// внешним компонентом авторизации. Ядро учетные данные не проверяет.
func actor(c *gin.Context) (authctx.Actor, bool) {
	userID, err := strconv.Atoi(c.GetHeader("X-User-ID"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Не указан пользователь"})
		return authctx.Actor{}, false
	}
	role := c.GetHeader("X-User-Role")
	if role == "" {
		role = authctx.RoleTraveler
	}
	return authctx.Actor{UserID: userID, Role: role}, true
}

// respondError переводит типизированную ошибку сервиса в HTTP-статус.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindUnauthorized:
		status = http.StatusForbidden
	}
	message := "Внутренняя ошибка сервера"
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		message = appErr.Message
	}
	c.JSON(status, gin.H{"error": message})
}

// pathID читает числовой параметр пути.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор"})
		return 0, false
	}
	return id, true
}
