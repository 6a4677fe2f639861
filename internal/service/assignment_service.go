package service

import (
	"database/sql"
	"errors"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/authctx"
)

// AssignmentService закрепляет ожидающую заявку ровно за одним агентом.
// Вся гонка разрешается единственным условным обновлением хранилища:
// из N одновременных вызовов Claim успех получает один, остальные - Conflict.
// Обратного перехода assigned -> pending нет: отказ от взятой заявки не
// предусмотрен.
type AssignmentService struct {
	trips TripStore
}

// NewAssignmentService создает новый сервис назначения агентов.
func NewAssignmentService(trips TripStore) *AssignmentService {
	return &AssignmentService{trips: trips}
}

// Claim закрепляет заявку за агентом: pending -> assigned одним атомарным
// compare-and-set ("supporter_id=агент WHERE booking_status=pending AND
// supporter_id IS NULL"). Ноль затронутых строк означает, что заявку уже
// взяли или она не готова, - финальный результат, без повторов.
func (s *AssignmentService) Claim(actor authctx.Actor, tripID int) error {
	if !actor.IsSupport() {
		return apperr.Unauthorized("взять заявку может только агент поддержки")
	}
	rows, err := s.trips.Claim(tripID, actor.UserID)
	if err != nil {
		return apperr.Internal("ошибка при взятии заявки", err)
	}
	if rows == 0 {
		trip, err := s.trips.GetByID(tripID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("заявка не найдена")
			}
			return apperr.Internal("ошибка получения заявки", err)
		}
		if trip.SupporterID != nil {
			return apperr.Conflict("заявку уже взял другой агент")
		}
		return apperr.Conflict("заявка не ожидает агента")
	}
	return nil
}

// Complete завершает взятую заявку: assigned -> done, только для агента,
// который ее взял. Чужую заявку завершить нельзя.
func (s *AssignmentService) Complete(actor authctx.Actor, tripID int) error {
	if !actor.IsSupport() {
		return apperr.Unauthorized("завершить заявку может только агент поддержки")
	}
	rows, err := s.trips.Complete(tripID, actor.UserID)
	if err != nil {
		return apperr.Internal("ошибка при завершении заявки", err)
	}
	if rows == 0 {
		trip, err := s.trips.GetByID(tripID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("заявка не найдена")
			}
			return apperr.Internal("ошибка получения заявки", err)
		}
		if trip.SupporterID != nil && *trip.SupporterID != actor.UserID {
			return apperr.Unauthorized("заявка закреплена за другим агентом")
		}
		return apperr.Conflict("заявка не находится в работе")
	}
	return nil
}
