package service

import (
	"strconv"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"
)

// LocationStore описывает операции хранилища над локациями, нужные поиску.
type LocationStore interface {
	FindByFilters(category, region string, minRating float64, keyword string) ([]model.Location, error)
}

// LocationService содержит бизнес-логику, связанную с локациями.
type LocationService struct {
	locations LocationStore
}

// NewLocationService создает новый сервис локаций.
func NewLocationService(locations LocationStore) *LocationService {
	return &LocationService{locations: locations}
}

// SearchLocations выполняет поиск локаций по параметрам фильтрации.
// minRating передается строкой из query-параметра; пустая строка - без фильтра.
func (s *LocationService) SearchLocations(category, region, minRating, keyword string) ([]model.Location, error) {
	min := 0.0
	if minRating != "" {
		parsed, err := strconv.ParseFloat(minRating, 64)
		if err != nil {
			return nil, apperr.Validation("некорректный минимальный рейтинг")
		}
		min = parsed
	}
	locations, err := s.locations.FindByFilters(category, region, min, keyword)
	if err != nil {
		return nil, apperr.Internal("ошибка поиска локаций", err)
	}
	return locations, nil
}
