package repository

import (
	"errors"
	"fmt"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ConversationRepository обеспечивает доступ к диалогам поддержки в базе данных.
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository создает новый репозиторий диалогов.
func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetByID возвращает диалог по идентификатору.
func (r *ConversationRepository) GetByID(id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.Get(&conv, "SELECT * FROM conversations WHERE id=$1", id)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetByTraveler возвращает диалог путешественника (sql.ErrNoRows, если его нет).
func (r *ConversationRepository) GetByTraveler(travelerID int) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.Get(&conv, "SELECT * FROM conversations WHERE traveler_id=$1", travelerID)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ErrDuplicateTraveler возвращается Insert, когда диалог для путешественника
// уже существует (нарушение уникального индекса по traveler_id).
var ErrDuplicateTraveler = errors.New("диалог для путешественника уже существует")

// Insert создает новый диалог в статусе pending. Уникальный индекс по
// traveler_id гарантирует не более одного диалога на путешественника;
// при гонке создания проигравший получает ErrDuplicateTraveler и перечитывает.
func (r *ConversationRepository) Insert(travelerID int) (*model.Conversation, error) {
	id := uuid.NewString()
	var conv model.Conversation
	err := r.db.Get(&conv,
		`INSERT INTO conversations (id, traveler_id, status) VALUES ($1, $2, $3) RETURNING *`,
		id, travelerID, model.ConversationPending)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTraveler
		}
		return nil, err
	}
	return &conv, nil
}

// isUniqueViolation сообщает, вызвана ли ошибка нарушением уникального индекса
// (код 23505 в PostgreSQL).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// AssignAgent закрепляет агента за диалогом: pending -> active, условным обновлением.
func (r *ConversationRepository) AssignAgent(id string, agentID int) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE conversations SET support_agent_id=$2, status=$3
		 WHERE id=$1 AND status=$4`,
		id, agentID, model.ConversationActive, model.ConversationPending)
	if err != nil {
		return 0, fmt.Errorf("не удалось назначить агента на диалог: %w", err)
	}
	return res.RowsAffected()
}

// Resolve помечает диалог решенным (административное действие, безусловное).
func (r *ConversationRepository) Resolve(id string) (int64, error) {
	res, err := r.db.Exec("UPDATE conversations SET status=$2 WHERE id=$1",
		id, model.ConversationResolved)
	if err != nil {
		return 0, fmt.Errorf("не удалось закрыть диалог: %w", err)
	}
	return res.RowsAffected()
}

// Reopen возвращает решенный диалог в работу с новым агентом:
// resolved -> active, тем же условным обновлением, что и остальные переходы.
func (r *ConversationRepository) Reopen(id string, agentID int) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE conversations SET support_agent_id=$2, status=$3
		 WHERE id=$1 AND status=$4`,
		id, agentID, model.ConversationActive, model.ConversationResolved)
	if err != nil {
		return 0, fmt.Errorf("не удалось возобновить диалог: %w", err)
	}
	return res.RowsAffected()
}

// BumpLastMessage обновляет сводку диалога после отправки сообщения и
// увеличивает счетчик непрочитанного у противоположной стороны.
func (r *ConversationRepository) BumpLastMessage(id, preview, senderRole string) error {
	counter := "unread_agent"
	if senderRole == model.SenderSupport {
		counter = "unread_traveler"
	}
	query := fmt.Sprintf(
		`UPDATE conversations SET last_message=$2, last_message_at=now(), %s=%s+1 WHERE id=$1`,
		counter, counter)
	_, err := r.db.Exec(query, id, preview)
	if err != nil {
		return fmt.Errorf("не удалось обновить сводку диалога: %w", err)
	}
	return nil
}

// ResetUnread обнуляет счетчик непрочитанного для указанной роли.
func (r *ConversationRepository) ResetUnread(id, role string) error {
	counter := "unread_traveler"
	if role == model.SenderSupport {
		counter = "unread_agent"
	}
	query := fmt.Sprintf("UPDATE conversations SET %s=0 WHERE id=$1", counter)
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("не удалось сбросить счетчик непрочитанного: %w", err)
	}
	return nil
}

// ListAll возвращает все диалоги для панели поддержки, свежие сверху.
func (r *ConversationRepository) ListAll() ([]model.Conversation, error) {
	convs := []model.Conversation{}
	err := r.db.Select(&convs,
		"SELECT * FROM conversations ORDER BY last_message_at DESC NULLS LAST, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка диалогов: %w", err)
	}
	return convs, nil
}
