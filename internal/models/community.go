package models

import (
	"time"

	"github.com/google/uuid"
)

// Community описывает сообщество специалистов на платформе.
type Community struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	ImagePath   *string   `db:"image_path" json:"image_path,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CommunityMember фиксирует членство пользователя в сообществе.
type CommunityMember struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CommunityID uuid.UUID `db:"community_id" json:"community_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	JoinedAt    time.Time `db:"joined_at" json:"joined_at"`
}

// CommunityWithMembers — сообщество вместе с количеством участников.
type CommunityWithMembers struct {
	Community
	MembersCount int `db:"members_count" json:"members_count"`
}
