package service

import (
	"database/sql"
	"errors"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/authctx"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/repository"
)

// ConversationStore описывает операции хранилища над диалогами поддержки.
// Insert обязан возвращать repository.ErrDuplicateTraveler при попытке создать
// второй диалог для того же путешественника.
type ConversationStore interface {
	GetByID(id string) (*model.Conversation, error)
	GetByTraveler(travelerID int) (*model.Conversation, error)
	Insert(travelerID int) (*model.Conversation, error)
	AssignAgent(id string, agentID int) (int64, error)
	Resolve(id string) (int64, error)
	Reopen(id string, agentID int) (int64, error)
	ResetUnread(id, role string) error
	ListAll() ([]model.Conversation, error)
}

// ConversationService управляет единственным диалогом путешественника с
// поддержкой: ленивое создание, закрепление агента, закрытие и возобновление.
type ConversationService struct {
	convs ConversationStore
}

// NewConversationService создает новый сервис диалогов.
func NewConversationService(convs ConversationStore) *ConversationService {
	return &ConversationService{convs: convs}
}

// GetOrCreate возвращает диалог путешественника, создавая его при первом
// обращении. Гонку создания разрешает уникальный индекс по traveler_id:
// первый пишущий побеждает, проигравший перечитывает существующую запись.
func (s *ConversationService) GetOrCreate(travelerID int) (*model.Conversation, error) {
	conv, err := s.convs.GetByTraveler(travelerID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Internal("ошибка поиска диалога", err)
	}
	conv, err = s.convs.Insert(travelerID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTraveler) {
			// проиграли гонку создания - читаем запись победителя
			conv, err = s.convs.GetByTraveler(travelerID)
			if err != nil {
				return nil, apperr.Internal("ошибка чтения диалога после гонки создания", err)
			}
			return conv, nil
		}
		return nil, apperr.Internal("ошибка создания диалога", err)
	}
	return conv, nil
}

// AssignAgent закрепляет агента за диалогом: pending -> active. Повторный
// вызов тем же агентом - идемпотентный no-op; resolved-диалог возвращает
// Conflict (для возобновления есть явный Reopen).
func (s *ConversationService) AssignAgent(actor authctx.Actor, conversationID string) error {
	if !actor.IsSupport() {
		return apperr.Unauthorized("назначение доступно только агенту поддержки")
	}
	rows, err := s.convs.AssignAgent(conversationID, actor.UserID)
	if err != nil {
		return apperr.Internal("ошибка назначения агента", err)
	}
	if rows == 0 {
		conv, err := s.convs.GetByID(conversationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("диалог не найден")
			}
			return apperr.Internal("ошибка получения диалога", err)
		}
		if conv.Status == model.ConversationActive &&
			conv.SupportAgentID != nil && *conv.SupportAgentID == actor.UserID {
			return nil // уже назначены - идемпотентность
		}
		return apperr.Conflict("диалог уже в работе или закрыт")
	}
	return nil
}

// Resolve закрывает диалог. Административное действие, безусловное.
func (s *ConversationService) Resolve(actor authctx.Actor, conversationID string) error {
	if !actor.IsSupport() && !actor.IsAdmin() {
		return apperr.Unauthorized("закрытие диалога доступно только поддержке")
	}
	rows, err := s.convs.Resolve(conversationID)
	if err != nil {
		return apperr.Internal("ошибка закрытия диалога", err)
	}
	if rows == 0 {
		return apperr.NotFound("диалог не найден")
	}
	return nil
}

// Reopen возобновляет закрытый диалог с новым агентом: resolved -> active.
// Явный переход под тем же условным обновлением, что и остальные.
func (s *ConversationService) Reopen(actor authctx.Actor, conversationID string) error {
	if !actor.IsSupport() {
		return apperr.Unauthorized("возобновление доступно только агенту поддержки")
	}
	rows, err := s.convs.Reopen(conversationID, actor.UserID)
	if err != nil {
		return apperr.Internal("ошибка возобновления диалога", err)
	}
	if rows == 0 {
		if _, err := s.convs.GetByID(conversationID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("диалог не найден")
			}
			return apperr.Internal("ошибка получения диалога", err)
		}
		return apperr.Conflict("возобновить можно только закрытый диалог")
	}
	return nil
}

// ListAll возвращает все диалоги для панели поддержки.
func (s *ConversationService) ListAll(actor authctx.Actor) ([]model.Conversation, error) {
	if !actor.IsSupport() && !actor.IsAdmin() {
		return nil, apperr.Unauthorized("список диалогов доступен только поддержке")
	}
	convs, err := s.convs.ListAll()
	if err != nil {
		return nil, apperr.Internal("ошибка получения списка диалогов", err)
	}
	return convs, nil
}
