package models

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioProject — работа из портфолио пользователя.
type PortfolioProject struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	ImagePath   *string   `db:"image_path" json:"image_path,omitempty"`
	Link        *string   `db:"link" json:"link,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
