package repository

import (
	"fmt"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"

	"github.com/jmoiron/sqlx"
)

// UserRepository обеспечивает доступ к данным пользователей в базе данных.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создает новый репозиторий пользователей.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create добавляет нового пользователя. Возвращает ID созданной записи.
func (r *UserRepository) Create(user *model.User) (int, error) {
	query := `INSERT INTO users (telegram_id, username, first_name, last_name, role)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	err := r.db.QueryRow(query, user.TelegramID, user.Username, user.FirstName, user.LastName, user.Role).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать пользователя: %w", err)
	}
	return id, nil
}

// GetByTelegramID ищет пользователя по его Telegram ID.
func (r *UserRepository) GetByTelegramID(telegramID int64) (*model.User, error) {
	var user model.User
	err := r.db.Get(&user, "SELECT * FROM users WHERE telegram_id=$1", telegramID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
