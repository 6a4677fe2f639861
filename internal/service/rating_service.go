package service

import (
	"math"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"
)

// RatingReviewStore дает агрегатору доступ к оценкам видимых отзывов.
type RatingReviewStore interface {
	VisibleRatings(targetType string, targetID int) ([]int, error)
}

// RatingTargetStore записывает материализованный агрегат на цель отзыва.
type RatingTargetStore interface {
	UpdateRating(id, count int, avg float64) error
}

// RatingService пересчитывает агрегат рейтинга цели (count, average по
// видимым отзывам, среднее с округлением до одного знака) при создании отзыва
// и смене его видимости. Это полный пересчет чтение-затем-запись: при двух
// одновременных пересчетах одной цели возможна потеря обновления. Известное и
// принятое слабое место; строгая корректность потребовала бы перехода на
// атомарные инкременты суммы и счетчика на каждом событии отзыва.
type RatingService struct {
	reviews   RatingReviewStore
	trips     RatingTargetStore
	locations RatingTargetStore
}

// NewRatingService создает новый агрегатор рейтингов.
func NewRatingService(reviews RatingReviewStore, trips, locations RatingTargetStore) *RatingService {
	return &RatingService{reviews: reviews, trips: trips, locations: locations}
}

// OnReviewChange пересчитывает и записывает агрегат для указанной цели.
// Вызывается синхронно после создания, скрытия или показа отзыва.
func (s *RatingService) OnReviewChange(targetType string, targetID int) error {
	ratings, err := s.reviews.VisibleRatings(targetType, targetID)
	if err != nil {
		return apperr.Internal("ошибка чтения оценок для пересчета", err)
	}
	count := len(ratings)
	avg := 0.0
	if count > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		avg = math.Round(float64(sum)/float64(count)*10) / 10
	}
	var target RatingTargetStore
	switch targetType {
	case model.TargetTrip:
		target = s.trips
	case model.TargetLocation:
		target = s.locations
	default:
		return apperr.Validation("неизвестный тип цели отзыва")
	}
	if err := target.UpdateRating(targetID, count, avg); err != nil {
		return apperr.Internal("ошибка записи агрегата рейтинга", err)
	}
	return nil
}
