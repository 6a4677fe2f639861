package repository

import (
	"fmt"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MessageRepository обеспечивает сохранение и получение сообщений чата.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository создает новый репозиторий сообщений.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert сохраняет сообщение и возвращает его вместе с назначенным базой
// created_at (clock_timestamp() в момент вставки). Порядок сообщений внутри
// диалога задает именно это значение, а не часы отправителя.
func (r *MessageRepository) Insert(conversationID string, senderID int, senderRole, content string) (*model.Message, error) {
	id := uuid.NewString()
	var msg model.Message
	err := r.db.Get(&msg,
		`INSERT INTO messages (id, conversation_id, sender_id, sender_role, content)
		 VALUES ($1, $2, $3, $4, $5) RETURNING *`,
		id, conversationID, senderID, senderRole, content)
	if err != nil {
		return nil, fmt.Errorf("ошибка при сохранении сообщения: %w", err)
	}
	return &msg, nil
}

// ListByConversation возвращает всю историю диалога в порядке создания.
func (r *MessageRepository) ListByConversation(conversationID string) ([]model.Message, error) {
	messages := []model.Message{}
	err := r.db.Select(&messages,
		"SELECT * FROM messages WHERE conversation_id=$1 ORDER BY created_at, id", conversationID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении истории диалога: %w", err)
	}
	return messages, nil
}

// MarkRead помечает прочитанными все сообщения диалога, адресованные указанной
// роли (то есть отправленные противоположной стороной).
func (r *MessageRepository) MarkRead(conversationID, readerRole string) error {
	senderRole := model.SenderSupport
	if readerRole == model.SenderSupport {
		senderRole = model.SenderTraveler
	}
	_, err := r.db.Exec(
		"UPDATE messages SET is_read=TRUE WHERE conversation_id=$1 AND sender_role=$2 AND is_read=FALSE",
		conversationID, senderRole)
	if err != nil {
		return fmt.Errorf("не удалось пометить сообщения прочитанными: %w", err)
	}
	return nil
}
