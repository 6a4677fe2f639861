package ws

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"
)

// MessageStore описывает операции хранилища над сообщениями, нужные хабу.
// Insert возвращает сообщение с назначенным базой created_at: порядок внутри
// диалога определяет хранилище, а не часы отправителя.
type MessageStore interface {
	Insert(conversationID string, senderID int, senderRole, content string) (*model.Message, error)
	ListByConversation(conversationID string) ([]model.Message, error)
	MarkRead(conversationID, readerRole string) error
}

// ConversationStore описывает операции хранилища над диалогами, нужные хабу.
type ConversationStore interface {
	GetByID(id string) (*model.Conversation, error)
	BumpLastMessage(id, preview, senderRole string) error
	ResetUnread(id, role string) error
}

// Hub поддерживает членство подключений по каналам диалогов и рассылает
// сообщения в порядке фиксации в хранилище. Отправки внутри одного диалога
// сериализуются, поэтому все наблюдатели видят один и тот же тотальный
// порядок даже при одновременных отправителях. Порядок между разными
// диалогами не гарантируется.
type Hub struct {
	messages MessageStore
	convs    ConversationStore

	mu    sync.Mutex
	rooms map[string]map[*Client]bool

	// sendMu сериализует пары "зафиксировать + разослать" по диалогу
	sendMuMu sync.Mutex
	sendMu   map[string]*sync.Mutex
}

// NewHub создает новый realtime-хаб поверх хранилищ сообщений и диалогов.
func NewHub(messages MessageStore, convs ConversationStore) *Hub {
	return &Hub{
		messages: messages,
		convs:    convs,
		rooms:    make(map[string]map[*Client]bool),
		sendMu:   make(map[string]*sync.Mutex),
	}
}

func (h *Hub) conversationMu(conversationID string) *sync.Mutex {
	h.sendMuMu.Lock()
	defer h.sendMuMu.Unlock()
	mu, ok := h.sendMu[conversationID]
	if !ok {
		mu = &sync.Mutex{}
		h.sendMu[conversationID] = mu
	}
	return mu
}

// Join подключает участника к каналу диалога и отправляет ему полную историю.
// Путешественник может войти только в собственный диалог. История уходит
// только этому подключению; повторное подключение после обрыва снова получает
// историю - доставка устойчива к переигрыванию, а не exactly-once.
func (h *Hub) Join(c *Client, conversationID string) error {
	conv, err := h.convs.GetByID(conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("диалог не найден")
		}
		return apperr.Internal("ошибка получения диалога", err)
	}
	if c.Role == model.SenderTraveler && conv.TravelerID != c.UserID {
		return apperr.Unauthorized("чужой диалог недоступен")
	}

	history, err := h.messages.ListByConversation(conversationID)
	if err != nil {
		return apperr.Internal("ошибка получения истории диалога", err)
	}

	h.mu.Lock()
	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = make(map[*Client]bool)
	}
	h.rooms[conversationID][c] = true
	h.mu.Unlock()

	c.enqueue(mustMarshal(HistoryEvent{
		Type:           EventHistory,
		ConversationID: conversationID,
		Messages:       history,
	}))
	return nil
}

// Leave убирает подключение из всех каналов. Оборванное подключение просто
// исчезает из множества участников; сообщения не теряются - они были
// зафиксированы до рассылки.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	for conversationID, members := range h.rooms {
		if members[c] {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, conversationID)
			}
		}
	}
	h.mu.Unlock()
}

// Send фиксирует сообщение и рассылает его всем участникам канала.
// Под мьютексом диалога выполняются: вставка (created_at назначает база),
// обновление сводки диалога со счетчиком непрочитанного у противоположной
// стороны и постановка в очереди рассылки - поэтому порядок рассылки совпадает
// с порядком фиксации. Ошибка возвращается отправителю синхронно.
func (h *Hub) Send(c *Client, conversationID, content string) (*model.Message, error) {
	if content == "" {
		return nil, apperr.Validation("сообщение не может быть пустым")
	}
	if !h.isMember(c, conversationID) {
		return nil, apperr.Unauthorized("сначала подключитесь к диалогу")
	}

	mu := h.conversationMu(conversationID)
	mu.Lock()
	defer mu.Unlock()

	msg, err := h.messages.Insert(conversationID, c.UserID, c.Role, content)
	if err != nil {
		return nil, apperr.Internal("ошибка сохранения сообщения", err)
	}
	if err := h.convs.BumpLastMessage(conversationID, content, c.Role); err != nil {
		log.Printf("не удалось обновить сводку диалога %s: %v", conversationID, err)
	}

	h.broadcast(conversationID, mustMarshal(ReceiveEvent{Type: EventReceive, Message: *msg}))
	return msg, nil
}

// Typing рассылает эфемерное оповещение о наборе текста всем участникам,
// кроме самого печатающего. Ничего не сохраняется; доставка best-effort.
func (h *Hub) Typing(c *Client, conversationID string, isTyping bool) {
	if !h.isMember(c, conversationID) {
		return
	}
	payload := mustMarshal(TypingEvent{
		Type:           EventTyping,
		ConversationID: conversationID,
		UserID:         c.UserID,
		IsTyping:       isTyping,
	})
	h.mu.Lock()
	for member := range h.rooms[conversationID] {
		if member != c {
			member.enqueue(payload)
		}
	}
	h.mu.Unlock()
}

// History возвращает всю историю диалога в порядке фиксации.
func (h *Hub) History(conversationID string) ([]model.Message, error) {
	messages, err := h.messages.ListByConversation(conversationID)
	if err != nil {
		return nil, apperr.Internal("ошибка получения истории диалога", err)
	}
	return messages, nil
}

// MarkRead сбрасывает счетчик непрочитанного роли и помечает прочитанными
// сохраненные сообщения, адресованные ей.
func (h *Hub) MarkRead(conversationID, role string) error {
	if err := h.messages.MarkRead(conversationID, role); err != nil {
		return apperr.Internal("ошибка пометки сообщений прочитанными", err)
	}
	if err := h.convs.ResetUnread(conversationID, role); err != nil {
		return apperr.Internal("ошибка сброса счетчика непрочитанного", err)
	}
	return nil
}

func (h *Hub) isMember(c *Client, conversationID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[conversationID][c]
}

func (h *Hub) broadcast(conversationID string, payload []byte) {
	h.mu.Lock()
	for member := range h.rooms[conversationID] {
		member.enqueue(payload)
	}
	h.mu.Unlock()
}

func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("ошибка сериализации события: %v", err)
		return []byte(`{"type":"error","message":"internal"}`)
	}
	return data
}
