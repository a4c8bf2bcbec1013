package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification описывает внутриплатформенное уведомление пользователя.
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Link      *string   `db:"link" json:"link,omitempty"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Favorite связывает пользователя с избранной услугой.
type Favorite struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ServiceID uuid.UUID `db:"service_id" json:"service_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Review описывает отзыв пользователя об услуге.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ServiceID  uuid.UUID `db:"service_id" json:"service_id"`
	ReviewerID uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
