package repository

import (
	"fmt"
	"strings"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"

	"github.com/jmoiron/sqlx"
)

// LocationRepository обеспечивает доступ к данным локаций в базе данных.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository создает новый репозиторий локаций.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// FindByFilters выполняет поиск локаций по категории, региону, минимальному
// рейтингу и ключевому слову.
func (r *LocationRepository) FindByFilters(category, region string, minRating float64, keyword string) ([]model.Location, error) {
	query := "SELECT * FROM locations WHERE 1=1"
	args := []interface{}{}
	if category != "" && strings.ToLower(category) != "any" {
		query += " AND LOWER(category)=LOWER(?)"
		args = append(args, category)
	}
	if region != "" && strings.ToLower(region) != "any" {
		query += " AND LOWER(region)=LOWER(?)"
		args = append(args, region)
	}
	if minRating > 0 {
		query += " AND rating_avg >= ?"
		args = append(args, minRating)
	}
	if keyword != "" {
		kw := "%" + strings.ToLower(keyword) + "%"
		query += " AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)"
		args = append(args, kw, kw)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	locations := []model.Location{}
	if err := r.db.Select(&locations, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка при поиске локаций: %w", err)
	}
	return locations, nil
}

// UpdateRating записывает материализованный агрегат рейтинга на локацию.
func (r *LocationRepository) UpdateRating(id, count int, avg float64) error {
	_, err := r.db.Exec(
		"UPDATE locations SET rating_count=$2, rating_avg=$3 WHERE id=$1", id, count, avg)
	if err != nil {
		return fmt.Errorf("не удалось обновить рейтинг локации: %w", err)
	}
	return nil
}
