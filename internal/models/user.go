package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает пользователя платформы.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     *string    `db:"full_name" json:"full_name,omitempty"`
	Role         string     `db:"role" json:"role"`
	Bio          *string    `db:"bio" json:"bio,omitempty"`
	AvatarPath   *string    `db:"avatar_path" json:"avatar_path,omitempty"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsAdmin сообщает, является ли пользователь администратором.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsProvider сообщает, может ли пользователь размещать услуги.
func (u *User) IsProvider() bool {
	return u.Role == RoleProvider || u.Role == RoleAdmin
}

// CanTransact сообщает, может ли пользователь оформлять заказы.
// Администраторы не участвуют в сделках.
func (u *User) CanTransact() bool {
	return u.Role != RoleAdmin
}

// DisplayName возвращает полное имя или username, если имя не заполнено.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}

// UserStats содержит агрегированную статистику пользователя.
type UserStats struct {
	TotalServices   int     `json:"total_services"`
	TotalOrders     int     `json:"total_orders"`
	CompletedOrders int     `json:"completed_orders"`
	AverageRating   float64 `json:"average_rating"`
	TotalReviews    int     `json:"total_reviews"`
}
