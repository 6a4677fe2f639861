package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/authctx"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// политику источников обеспечивает обратный прокси
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS обработчик GET /ws - поднимает websocket-подключение участника.
// Идентификацию (user_id, role) проставляет внешний слой авторизации;
// браузерные клиенты передают ее query-параметрами, проксируемыми им.
func (h *Handler) ServeWS(c *gin.Context) {
	userID, err := strconv.Atoi(c.Query("user_id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Не указан пользователь"})
		return
	}
	role := model.SenderTraveler
	if c.Query("role") == authctx.RoleSupport {
		role = model.SenderSupport
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("не удалось поднять websocket: %v", err)
		return
	}
	client := ws.NewClient(h.Hub, conn, userID, role)
	go client.WritePump()
	go client.ReadPump()
}
