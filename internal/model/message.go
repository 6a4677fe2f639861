package model

import "time"

// Роли отправителя сообщения.
const (
	SenderTraveler = "traveler"
	SenderSupport  = "support"
)

// Message представляет сообщение чата в диалоге с поддержкой.
// CreatedAt назначается базой данных в момент вставки, поэтому порядок
// сообщений внутри диалога определяет хранилище, а не часы отправителя.
// Сообщения никогда не удаляются; мутируется только флаг IsRead.
type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	SenderID       int       `db:"sender_id" json:"sender_id"`
	SenderRole     string    `db:"sender_role" json:"sender_role"`
	Content        string    `db:"content" json:"content"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
