package model

import "time"

// Статусы диалога с поддержкой.
const (
	ConversationPending  = "pending"
	ConversationActive   = "active"
	ConversationResolved = "resolved"
)

// Conversation представляет единственный диалог путешественника со службой
// поддержки. На одного путешественника приходится не более одного диалога
// (уникальный индекс по traveler_id); создается лениво при первом обращении.
type Conversation struct {
	ID             string     `db:"id" json:"id"`
	TravelerID     int        `db:"traveler_id" json:"traveler_id"`
	SupportAgentID *int       `db:"support_agent_id" json:"support_agent_id"`
	Status         string     `db:"status" json:"status"`
	LastMessage    string     `db:"last_message" json:"last_message"`
	LastMessageAt  *time.Time `db:"last_message_at" json:"last_message_at"`
	UnreadTraveler int        `db:"unread_traveler" json:"unread_traveler"`
	UnreadAgent    int        `db:"unread_agent" json:"unread_agent"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
