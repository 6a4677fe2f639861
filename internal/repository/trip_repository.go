package repository

import (
	"fmt"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

// TripRepository обеспечивает доступ к заявкам на поездки в базе данных.
// Все переходы состояний выражены одиночными условными UPDATE: предусловие и
// запись нового состояния выполняются одной атомарной операцией, поэтому
// устаревшее чтение в памяти не может привести к потерянному или двойному
// переходу. Несовпадение предусловия возвращается как ноль затронутых строк.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository создает новый репозиторий заявок на поездки.
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create создает новую заявку в статусе pending_review / none.
func (r *TripRepository) Create(ownerID int, title string, payload types.JSONText) (int, error) {
	if len(payload) == 0 {
		payload = types.JSONText("{}")
	}
	query := `INSERT INTO trip_requests (owner_id, title, review_status, booking_status, payload)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	err := r.db.QueryRow(query, ownerID, title, model.ReviewPending, model.BookingNone, payload).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать заявку на поездку: %w", err)
	}
	return id, nil
}

// GetByID возвращает заявку по ID.
func (r *TripRepository) GetByID(id int) (*model.TripRequest, error) {
	var trip model.TripRequest
	err := r.db.Get(&trip, "SELECT * FROM trip_requests WHERE id=$1", id)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// Approve переводит заявку pending_review -> approved и делает ее публичной.
// Возвращает число затронутых строк (0 - предусловие не выполнено).
func (r *TripRepository) Approve(id, reviewerID int) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE trip_requests
		 SET review_status=$3, is_public=TRUE, reviewer_id=$2, reviewed_at=now(), reject_reason=NULL
		 WHERE id=$1 AND review_status=$4`,
		id, reviewerID, model.ReviewApproved, model.ReviewPending)
	if err != nil {
		return 0, fmt.Errorf("не удалось одобрить заявку: %w", err)
	}
	return res.RowsAffected()
}

// Reject переводит заявку pending_review -> rejected с указанием причины.
func (r *TripRepository) Reject(id, reviewerID int, reason string) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE trip_requests
		 SET review_status=$3, is_public=FALSE, reviewer_id=$2, reviewed_at=now(), reject_reason=$5
		 WHERE id=$1 AND review_status=$4`,
		id, reviewerID, model.ReviewRejected, model.ReviewPending, reason)
	if err != nil {
		return 0, fmt.Errorf("не удалось отклонить заявку: %w", err)
	}
	return res.RowsAffected()
}

// Resubmit возвращает отклоненную заявку на повторную модерацию.
// Повторная подача допустима только из rejected.
func (r *TripRepository) Resubmit(id, ownerID int) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE trip_requests
		 SET review_status=$3, is_public=FALSE, reviewer_id=NULL, reviewed_at=NULL, reject_reason=NULL
		 WHERE id=$1 AND owner_id=$2 AND review_status=$4`,
		id, ownerID, model.ReviewPending, model.ReviewRejected)
	if err != nil {
		return 0, fmt.Errorf("не удалось повторно подать заявку: %w", err)
	}
	return res.RowsAffected()
}

// RequestSupport переводит ось бронирования none -> pending для заявки владельца.
func (r *TripRepository) RequestSupport(id, ownerID int) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE trip_requests SET booking_status=$3
		 WHERE id=$1 AND owner_id=$2 AND booking_status=$4`,
		id, ownerID, model.BookingPending, model.BookingNone)
	if err != nil {
		return 0, fmt.Errorf("не удалось запросить сопровождение: %w", err)
	}
	return res.RowsAffected()
}

// Claim атомарно закрепляет ожидающую заявку за агентом: предикат
// (booking_status=pending AND supporter_id IS NULL) и мутация выполняются
// одним запросом. Из N конкурирующих агентов строку получит ровно один,
// остальные увидят ноль затронутых строк. Ни блокировок, ни повторов.
func (r *TripRepository) Claim(id, agentID int) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE trip_requests SET supporter_id=$2, booking_status=$3
		 WHERE id=$1 AND booking_status=$4 AND supporter_id IS NULL`,
		id, agentID, model.BookingAssigned, model.BookingPending)
	if err != nil {
		return 0, fmt.Errorf("не удалось взять заявку: %w", err)
	}
	return res.RowsAffected()
}

// Complete завершает заявку: assigned -> done, только для агента, который ее взял.
func (r *TripRepository) Complete(id, agentID int) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE trip_requests SET booking_status=$3
		 WHERE id=$1 AND booking_status=$4 AND supporter_id=$2`,
		id, agentID, model.BookingDone, model.BookingAssigned)
	if err != nil {
		return 0, fmt.Errorf("не удалось завершить заявку: %w", err)
	}
	return res.RowsAffected()
}

// ListPublic возвращает одобренные (публичные) заявки.
func (r *TripRepository) ListPublic() ([]model.TripRequest, error) {
	trips := []model.TripRequest{}
	err := r.db.Select(&trips,
		"SELECT * FROM trip_requests WHERE is_public=TRUE ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении публичных заявок: %w", err)
	}
	return trips, nil
}

// ListByOwner возвращает заявки пользователя.
func (r *TripRepository) ListByOwner(ownerID int) ([]model.TripRequest, error) {
	trips := []model.TripRequest{}
	err := r.db.Select(&trips,
		"SELECT * FROM trip_requests WHERE owner_id=$1 ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении заявок пользователя: %w", err)
	}
	return trips, nil
}

// ListPendingReview возвращает очередь модерации для администратора.
func (r *TripRepository) ListPendingReview() ([]model.TripRequest, error) {
	trips := []model.TripRequest{}
	err := r.db.Select(&trips,
		"SELECT * FROM trip_requests WHERE review_status=$1 ORDER BY created_at", model.ReviewPending)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении очереди модерации: %w", err)
	}
	return trips, nil
}

// ListClaimable возвращает заявки, ожидающие агента поддержки.
func (r *TripRepository) ListClaimable() ([]model.TripRequest, error) {
	trips := []model.TripRequest{}
	err := r.db.Select(&trips,
		"SELECT * FROM trip_requests WHERE booking_status=$1 AND supporter_id IS NULL ORDER BY created_at",
		model.BookingPending)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении ожидающих заявок: %w", err)
	}
	return trips, nil
}

// UpdateRating записывает материализованный агрегат рейтинга на заявку.
func (r *TripRepository) UpdateRating(id, count int, avg float64) error {
	_, err := r.db.Exec(
		"UPDATE trip_requests SET rating_count=$2, rating_avg=$3 WHERE id=$1", id, count, avg)
	if err != nil {
		return fmt.Errorf("не удалось обновить рейтинг заявки: %w", err)
	}
	return nil
}
