package service

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/authctx"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"

	"github.com/jmoiron/sqlx/types"
)

// TripStore описывает операции хранилища над заявками на поездки.
// Мутации с предусловием возвращают число затронутых строк: предикат и запись
// выполняются одной атомарной операцией, ноль строк означает несовпадение
// предусловия (никогда не частичную запись).
type TripStore interface {
	Create(ownerID int, title string, payload types.JSONText) (int, error)
	GetByID(id int) (*model.TripRequest, error)
	Approve(id, reviewerID int) (int64, error)
	Reject(id, reviewerID int, reason string) (int64, error)
	Resubmit(id, ownerID int) (int64, error)
	RequestSupport(id, ownerID int) (int64, error)
	Claim(id, agentID int) (int64, error)
	Complete(id, agentID int) (int64, error)
	ListPublic() ([]model.TripRequest, error)
	ListByOwner(ownerID int) ([]model.TripRequest, error)
	ListPendingReview() ([]model.TripRequest, error)
	ListClaimable() ([]model.TripRequest, error)
}

// TripService реализует жизненный цикл заявки на поездку: две независимые оси
// состояния (модерация и бронирование). Ось модерации покидает pending_review
// один раз; ось бронирования движется только вперед. Несовпадение предусловия -
// финальный типизированный результат вызова, без автоматических повторов.
type TripService struct {
	trips TripStore
}

// NewTripService создает новый сервис жизненного цикла заявок.
func NewTripService(trips TripStore) *TripService {
	return &TripService{trips: trips}
}

// CreateTrip создает план поездки; он сразу попадает в очередь модерации.
func (s *TripService) CreateTrip(actor authctx.Actor, title string, payload types.JSONText) (int, error) {
	if strings.TrimSpace(title) == "" {
		return 0, apperr.Validation("название поездки не может быть пустым")
	}
	id, err := s.trips.Create(actor.UserID, title, payload)
	if err != nil {
		return 0, apperr.Internal("ошибка создания заявки", err)
	}
	return id, nil
}

// Approve одобряет заявку: pending_review -> approved, заявка становится публичной.
func (s *TripService) Approve(actor authctx.Actor, tripID int) error {
	if !actor.IsAdmin() {
		return apperr.Unauthorized("одобрение доступно только администратору")
	}
	rows, err := s.trips.Approve(tripID, actor.UserID)
	if err != nil {
		return apperr.Internal("ошибка одобрения заявки", err)
	}
	if rows == 0 {
		return s.missToError(tripID, "заявка уже прошла модерацию")
	}
	return nil
}

// Reject отклоняет заявку с обязательной причиной: pending_review -> rejected.
func (s *TripService) Reject(actor authctx.Actor, tripID int, reason string) error {
	if !actor.IsAdmin() {
		return apperr.Unauthorized("отклонение доступно только администратору")
	}
	if strings.TrimSpace(reason) == "" {
		return apperr.Validation("причина отклонения не может быть пустой")
	}
	rows, err := s.trips.Reject(tripID, actor.UserID, reason)
	if err != nil {
		return apperr.Internal("ошибка отклонения заявки", err)
	}
	if rows == 0 {
		return s.missToError(tripID, "заявка уже прошла модерацию")
	}
	return nil
}

// Resubmit повторно подает отклоненную заявку на модерацию.
func (s *TripService) Resubmit(actor authctx.Actor, tripID int) error {
	rows, err := s.trips.Resubmit(tripID, actor.UserID)
	if err != nil {
		return apperr.Internal("ошибка повторной подачи заявки", err)
	}
	if rows == 0 {
		return s.missToError(tripID, "повторная подача возможна только для отклоненной заявки")
	}
	return nil
}

// RequestSupport запрашивает сопровождение бронирования: none -> pending.
// Доступно только владельцу заявки.
func (s *TripService) RequestSupport(actor authctx.Actor, tripID int) error {
	rows, err := s.trips.RequestSupport(tripID, actor.UserID)
	if err != nil {
		return apperr.Internal("ошибка запроса сопровождения", err)
	}
	if rows == 0 {
		return s.missToError(tripID, "сопровождение уже запрошено или заявка не ваша")
	}
	return nil
}

// GetTrip возвращает заявку по ID.
func (s *TripService) GetTrip(tripID int) (*model.TripRequest, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("заявка не найдена")
		}
		return nil, apperr.Internal("ошибка получения заявки", err)
	}
	return trip, nil
}

// ListPublic возвращает одобренные публичные поездки.
func (s *TripService) ListPublic() ([]model.TripRequest, error) {
	trips, err := s.trips.ListPublic()
	if err != nil {
		return nil, apperr.Internal("ошибка получения публичных поездок", err)
	}
	return trips, nil
}

// ListMine возвращает заявки текущего пользователя.
func (s *TripService) ListMine(actor authctx.Actor) ([]model.TripRequest, error) {
	trips, err := s.trips.ListByOwner(actor.UserID)
	if err != nil {
		return nil, apperr.Internal("ошибка получения заявок пользователя", err)
	}
	return trips, nil
}

// ListPendingReview возвращает очередь модерации (только администратору).
func (s *TripService) ListPendingReview(actor authctx.Actor) ([]model.TripRequest, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Unauthorized("очередь модерации доступна только администратору")
	}
	trips, err := s.trips.ListPendingReview()
	if err != nil {
		return nil, apperr.Internal("ошибка получения очереди модерации", err)
	}
	return trips, nil
}

// ListClaimable возвращает заявки, ожидающие агента (только агентам поддержки).
func (s *TripService) ListClaimable(actor authctx.Actor) ([]model.TripRequest, error) {
	if !actor.IsSupport() {
		return nil, apperr.Unauthorized("список заявок доступен только агентам поддержки")
	}
	trips, err := s.trips.ListClaimable()
	if err != nil {
		return nil, apperr.Internal("ошибка получения ожидающих заявок", err)
	}
	return trips, nil
}

// missToError превращает промах условного обновления в NotFound (заявки нет)
// либо Conflict (заявка есть, но предусловие не выполнено).
func (s *TripService) missToError(tripID int, conflictMsg string) error {
	if _, err := s.trips.GetByID(tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("заявка не найдена")
		}
		return apperr.Internal("ошибка получения заявки", err)
	}
	return apperr.Conflict(conflictMsg)
}
