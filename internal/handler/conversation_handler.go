package handler

import (
	"net/http"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"

	"github.com/gin-gonic/gin"
)

// GetOrCreateConversation обработчик POST /api/conversations - возвращает
// диалог путешественника, создавая его при первом обращении.
func (h *Handler) GetOrCreateConversation(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	conv, err := h.ConversationService.GetOrCreate(act.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ListConversations обработчик GET /api/conversations - все диалоги (панель поддержки).
func (h *Handler) ListConversations(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	convs, err := h.ConversationService.ListAll(act)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

// AssignConversation обработчик POST /api/conversations/:id/assign - агент
// закрепляет диалог за собой.
func (h *Handler) AssignConversation(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	if err := h.ConversationService.AssignAgent(act, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "active"})
}

// ResolveConversation обработчик POST /api/conversations/:id/resolve - закрытие диалога.
func (h *Handler) ResolveConversation(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	if err := h.ConversationService.Resolve(act, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}

// ReopenConversation обработчик POST /api/conversations/:id/reopen - возобновление.
func (h *Handler) ReopenConversation(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	if err := h.ConversationService.Reopen(act, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "active"})
}

// ListMessages обработчик GET /api/conversations/:id/messages - история диалога.
func (h *Handler) ListMessages(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	if act.IsTraveler() {
		// путешественнику доступна только собственная история
		conv, err := h.ConversationService.GetOrCreate(act.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		if conv.ID != conversationID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Чужой диалог недоступен"})
			return
		}
	}
	messages, err := h.Hub.History(conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkRead обработчик POST /api/conversations/:id/read - сброс непрочитанного.
func (h *Handler) MarkRead(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	role := model.SenderTraveler
	if act.IsSupport() {
		role = model.SenderSupport
	}
	if err := h.Hub.MarkRead(c.Param("id"), role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
