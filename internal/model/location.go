package model

// Location представляет туристическую локацию, упоминаемую в планах поездок.
// Поля rating_avg/rating_count материализуются агрегатором рейтинга по
// видимым отзывам с target_type = "location".
type Location struct {
	ID          int     `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Category    string  `db:"category" json:"category"` // категория локации: природная, историческая, жилье и т.п.
	Region      string  `db:"region" json:"region"`
	RatingAvg   float64 `db:"rating_avg" json:"rating_avg"`
	RatingCount int     `db:"rating_count" json:"rating_count"`
	Latitude    float64 `db:"latitude" json:"latitude"`
	Longitude   float64 `db:"longitude" json:"longitude"`
}
