package repository

import (
	"fmt"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"

	"github.com/jmoiron/sqlx"
)

// ReviewRepository обеспечивает доступ к отзывам в базе данных.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создает новый репозиторий отзывов.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет новый отзыв (видимый по умолчанию).
func (r *ReviewRepository) Create(review *model.Review) (int, error) {
	query := `INSERT INTO reviews (author_id, target_type, target_id, rating, comment, visibility)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int
	err := r.db.QueryRow(query, review.AuthorID, review.TargetType, review.TargetID,
		review.Rating, review.Comment, model.ReviewVisible).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать отзыв: %w", err)
	}
	return id, nil
}

// GetByID возвращает отзыв по ID.
func (r *ReviewRepository) GetByID(id int) (*model.Review, error) {
	var review model.Review
	err := r.db.Get(&review, "SELECT * FROM reviews WHERE id=$1", id)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// SetVisibility меняет видимость отзыва (модерация).
func (r *ReviewRepository) SetVisibility(id int, visibility string) (int64, error) {
	res, err := r.db.Exec("UPDATE reviews SET visibility=$2 WHERE id=$1", id, visibility)
	if err != nil {
		return 0, fmt.Errorf("не удалось изменить видимость отзыва: %w", err)
	}
	return res.RowsAffected()
}

// VisibleRatings возвращает оценки всех видимых отзывов цели.
func (r *ReviewRepository) VisibleRatings(targetType string, targetID int) ([]int, error) {
	ratings := []int{}
	err := r.db.Select(&ratings,
		"SELECT rating FROM reviews WHERE target_type=$1 AND target_id=$2 AND visibility=$3",
		targetType, targetID, model.ReviewVisible)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении оценок: %w", err)
	}
	return ratings, nil
}

// ListByTarget возвращает видимые отзывы цели, свежие сверху.
func (r *ReviewRepository) ListByTarget(targetType string, targetID int) ([]model.Review, error) {
	reviews := []model.Review{}
	err := r.db.Select(&reviews,
		`SELECT * FROM reviews WHERE target_type=$1 AND target_id=$2 AND visibility=$3
		 ORDER BY created_at DESC`,
		targetType, targetID, model.ReviewVisible)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении отзывов: %w", err)
	}
	return reviews, nil
}
