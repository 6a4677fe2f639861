package model

import "time"

// Типы целей отзыва.
const (
	TargetTrip     = "trip"
	TargetLocation = "location"
)

// Видимость отзыва. Скрытые отзывы не участвуют в агрегате рейтинга.
const (
	ReviewVisible = "visible"
	ReviewHidden  = "hidden"
)

// Review представляет отзыв пользователя о поездке или локации.
// Агрегат рейтинга (count, average) не является отдельной сущностью -
// он материализуется на самой цели и всегда равен среднему по видимым отзывам.
type Review struct {
	ID         int       `db:"id" json:"id"`
	AuthorID   int       `db:"author_id" json:"author_id"`
	TargetType string    `db:"target_type" json:"target_type"`
	TargetID   int       `db:"target_id" json:"target_id"`
	Rating     int       `db:"rating" json:"rating"` // от 1 до 5
	Comment    string    `db:"comment" json:"comment"`
	Visibility string    `db:"visibility" json:"visibility"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
