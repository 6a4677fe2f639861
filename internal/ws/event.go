package ws

import "github.com/JRimIT/Travel-Buddy-sub000/internal/model"

// Типы событий realtime-канала.
const (
	EventJoin     = "join_conversation"
	EventHistory  = "message_history"
	EventSend     = "send_message"
	EventReceive  = "receive_message"
	EventTyping   = "typing"
	EventMarkRead = "mark_read"
	EventError    = "error"
)

// Event - конверт входящего события от клиента.
type Event struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content,omitempty"`
	IsTyping       bool   `json:"is_typing,omitempty"`
}

// HistoryEvent отправляется подключившемуся участнику: полная история диалога
// в порядке created_at.
type HistoryEvent struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversation_id"`
	Messages       []model.Message `json:"messages"`
}

// ReceiveEvent рассылается всем участникам канала после фиксации сообщения.
type ReceiveEvent struct {
	Type    string        `json:"type"`
	Message model.Message `json:"message"`
}

// TypingEvent - эфемерное оповещение о наборе текста; не сохраняется,
// порядок доставки не гарантируется.
type TypingEvent struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	UserID         int    `json:"user_id"`
	IsTyping       bool   `json:"is_typing"`
}

// ErrorEvent сообщает отправителю о синхронной ошибке обработки события.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
