package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

// AdminUserStore описывает операции над пользователями для администратора.
type AdminUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Count(ctx context.Context) (int, error)
}

// PlatformCounters отдаёт агрегаты для сводки по платформе.
type PlatformCounters interface {
	CountActiveServices(ctx context.Context) (int, error)
	CountOrders(ctx context.Context) (int, error)
	CountReviews(ctx context.Context) (int, error)
}

// OrderLister отдаёт заказы платформы постранично.
type OrderLister interface {
	List(ctx context.Context, limit, offset int) ([]models.Order, error)
}

// AdminService — операции панели администратора: управление
// пользователями, обзор заказов и сводная статистика платформы.
type AdminService struct {
	users    AdminUserStore
	orders   OrderLister
	counters PlatformCounters
}

// NewAdminService создаёт новый административный сервис.
func NewAdminService(users AdminUserStore, orders OrderLister, counters PlatformCounters) *AdminService {
	return &AdminService{users: users, orders: orders, counters: counters}
}

// PlatformStats — сводка по платформе.
type PlatformStats struct {
	TotalUsers    int `json:"total_users"`
	TotalServices int `json:"total_services"`
	TotalOrders   int `json:"total_orders"`
	TotalReviews  int `json:"total_reviews"`
}

// ListUsers возвращает пользователей платформы.
func (s *AdminService) ListUsers(ctx context.Context, actor Actor, limit, offset int) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

// SetUserActive блокирует или разблокирует учётную запись.
// Администраторы не блокируются, в том числе самим собой.
func (s *AdminService) SetUserActive(ctx context.Context, actor Actor, userID uuid.UUID, active bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.ID {
		return apperror.New(apperror.ErrCodeConflict, "нельзя заблокировать собственную учётную запись")
	}
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return mapStoreError(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}
	if target.Role == models.RoleAdmin {
		return apperror.New(apperror.ErrCodeConflict, "нельзя заблокировать администратора")
	}
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return mapStoreError(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}
	return nil
}

// ListOrders возвращает заказы платформы для обзора администратором.
func (s *AdminService) ListOrders(ctx context.Context, actor Actor, limit, offset int) ([]models.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.List(ctx, limit, offset)
}

// SetUserRole меняет роль пользователя.
func (s *AdminService) SetUserRole(ctx context.Context, actor Actor, userID uuid.UUID, role string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, ok := models.ValidRoles[role]; !ok {
		return apperror.New(apperror.ErrCodeValidation, "недопустимая роль")
	}
	if userID == actor.ID && role != models.RoleAdmin {
		return apperror.New(apperror.ErrCodeConflict, "нельзя снять права администратора с самого себя")
	}
	if err := s.users.SetRole(ctx, userID, role); err != nil {
		return mapStoreError(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}
	return nil
}

// GetPlatformStats возвращает сводную статистику платформы.
func (s *AdminService) GetPlatformStats(ctx context.Context, actor Actor) (*PlatformStats, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	stats := &PlatformStats{}
	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalServices, err = s.counters.CountActiveServices(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.counters.CountOrders(ctx); err != nil {
		return nil, err
	}
	if stats.TotalReviews, err = s.counters.CountReviews(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
