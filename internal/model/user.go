package model

// User представляет участника системы: путешественника, агента поддержки или
// администратора. TelegramID заполняется для агентов, получающих уведомления
// о заявках через бот поддержки.
type User struct {
	ID         int    `db:"id" json:"id"`
	TelegramID int64  `db:"telegram_id" json:"telegram_id"`
	Username   string `db:"username" json:"username"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	Role       string `db:"role" json:"role"` // traveler, support, admin
}
