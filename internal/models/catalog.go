package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Category представляет категорию услуг. Справочник, который ведёт администратор.
type Category struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Icon        *string   `db:"icon" json:"icon,omitempty"`
	Color       *string   `db:"color" json:"color,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CategoryStats содержит количество активных услуг в категории.
type CategoryStats struct {
	Category
	ServicesCount int `db:"services_count" json:"services_count"`
}

// Service описывает услугу, размещённую исполнителем.
type Service struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	OwnerID     uuid.UUID       `db:"owner_id" json:"owner_id"`
	CategoryID  uuid.UUID       `db:"category_id" json:"category_id"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Tags        pq.StringArray  `db:"tags" json:"tags"`
	ImagePath   *string         `db:"image_path" json:"image_path,omitempty"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	Views       int             `db:"views" json:"views"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// ServiceWithRating — услуга вместе с агрегатом отзывов, как её видит поиск.
type ServiceWithRating struct {
	Service
	AvgRating   float64 `db:"avg_rating" json:"avg_rating"`
	ReviewCount int     `db:"review_count" json:"review_count"`
}
