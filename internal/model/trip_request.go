package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Статусы модерации заявки на поездку. Ось модерации покидает pending_review
// ровно один раз - в approved или rejected.
const (
	ReviewPending  = "pending_review"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Статусы бронирования. Ось движется только вперед: none -> pending -> assigned -> done.
// Перехода assigned -> pending (отказ от взятой заявки) нет.
const (
	BookingNone     = "none"
	BookingPending  = "pending"
	BookingAssigned = "assigned"
	BookingDone     = "done"
)

// TripRequest представляет план поездки пользователя и связанную с ним заявку
// на сопровождение бронирования. Две оси состояния независимы: модерация
// (админ) и бронирование (агенты поддержки).
type TripRequest struct {
	ID            int            `db:"id" json:"id"`
	OwnerID       int            `db:"owner_id" json:"owner_id"`
	Title         string         `db:"title" json:"title"`
	ReviewStatus  string         `db:"review_status" json:"review_status"`
	BookingStatus string         `db:"booking_status" json:"booking_status"`
	SupporterID   *int           `db:"supporter_id" json:"supporter_id"`   // агент, взявший заявку; не NULL только при assigned/done
	ReviewerID    *int           `db:"reviewer_id" json:"reviewer_id"`     // админ, вынесший решение
	ReviewedAt    *time.Time     `db:"reviewed_at" json:"reviewed_at"`     // момент решения модерации
	RejectReason  *string        `db:"reject_reason" json:"reject_reason"` // причина отклонения, обязательна при rejected
	IsPublic      bool           `db:"is_public" json:"is_public"`         // производное от review_status: публична только approved
	Payload       types.JSONText `db:"payload" json:"payload"`             // снимки рейсов/отелей/жилья; ядро их не интерпретирует
	RatingAvg     float64        `db:"rating_avg" json:"rating_avg"`
	RatingCount   int            `db:"rating_count" json:"rating_count"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
