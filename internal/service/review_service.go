package service

import (
	"database/sql"
	"errors"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/authctx"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"
)

// ReviewStore описывает операции хранилища над отзывами.
type ReviewStore interface {
	Create(review *model.Review) (int, error)
	GetByID(id int) (*model.Review, error)
	SetVisibility(id int, visibility string) (int64, error)
	ListByTarget(targetType string, targetID int) ([]model.Review, error)
}

// ReviewService принимает отзывы и управляет их видимостью; после каждого
// события синхронно запускает пересчет агрегата рейтинга цели.
type ReviewService struct {
	reviews ReviewStore
	rating  *RatingService
}

// NewReviewService создает новый сервис отзывов.
func NewReviewService(reviews ReviewStore, rating *RatingService) *ReviewService {
	return &ReviewService{reviews: reviews, rating: rating}
}

// Submit сохраняет отзыв и пересчитывает агрегат цели. Проверка входных
// данных выполняется до любого обращения к хранилищу.
func (s *ReviewService) Submit(actor authctx.Actor, targetType string, targetID, rating int, comment string) (int, error) {
	if rating < 1 || rating > 5 {
		return 0, apperr.Validation("оценка должна быть от 1 до 5")
	}
	if targetType != model.TargetTrip && targetType != model.TargetLocation {
		return 0, apperr.Validation("неизвестный тип цели отзыва")
	}
	review := &model.Review{
		AuthorID:   actor.UserID,
		TargetType: targetType,
		TargetID:   targetID,
		Rating:     rating,
		Comment:    comment,
	}
	id, err := s.reviews.Create(review)
	if err != nil {
		return 0, apperr.Internal("ошибка создания отзыва", err)
	}
	if err := s.rating.OnReviewChange(targetType, targetID); err != nil {
		return 0, err
	}
	return id, nil
}

// Hide скрывает отзыв (модерация) и пересчитывает агрегат цели.
func (s *ReviewService) Hide(actor authctx.Actor, reviewID int) error {
	return s.setVisibility(actor, reviewID, model.ReviewHidden)
}

// Show возвращает скрытый отзыв в выдачу и пересчитывает агрегат цели.
func (s *ReviewService) Show(actor authctx.Actor, reviewID int) error {
	return s.setVisibility(actor, reviewID, model.ReviewVisible)
}

func (s *ReviewService) setVisibility(actor authctx.Actor, reviewID int, visibility string) error {
	if !actor.IsAdmin() {
		return apperr.Unauthorized("модерация отзывов доступна только администратору")
	}
	review, err := s.reviews.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("отзыв не найден")
		}
		return apperr.Internal("ошибка получения отзыва", err)
	}
	if _, err := s.reviews.SetVisibility(reviewID, visibility); err != nil {
		return apperr.Internal("ошибка изменения видимости отзыва", err)
	}
	return s.rating.OnReviewChange(review.TargetType, review.TargetID)
}

// ListByTarget возвращает видимые отзывы цели.
func (s *ReviewService) ListByTarget(targetType string, targetID int) ([]model.Review, error) {
	reviews, err := s.reviews.ListByTarget(targetType, targetID)
	if err != nil {
		return nil, apperr.Internal("ошибка получения отзывов", err)
	}
	return reviews, nil
}
