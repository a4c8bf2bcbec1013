package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

// FavoriteStore описывает операции хранилища избранного.
type FavoriteStore interface {
	Add(ctx context.Context, userID, serviceID uuid.UUID) (*models.Favorite, error)
	Remove(ctx context.Context, userID, serviceID uuid.UUID) error
	Exists(ctx context.Context, userID, serviceID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Favorite, error)
}

// FavoriteService управляет избранными услугами пользователя.
// Добавление и удаление идемпотентны.
type FavoriteService struct {
	favorites FavoriteStore
	services  ServiceReader
}

// NewFavoriteService создаёт новый сервис избранного.
func NewFavoriteService(favorites FavoriteStore, services ServiceReader) *FavoriteService {
	return &FavoriteService{favorites: favorites, services: services}
}

// Toggle переключает услугу в избранном и возвращает новое состояние:
// true — услуга теперь в избранном.
func (s *FavoriteService) Toggle(ctx context.Context, actor Actor, serviceID uuid.UUID) (bool, error) {
	if _, err := s.services.GetByID(ctx, serviceID); err != nil {
		return false, mapStoreError(err, repository.ErrServiceNotFound, apperror.ErrServiceNotFound)
	}

	exists, err := s.favorites.Exists(ctx, actor.ID, serviceID)
	if err != nil {
		return false, err
	}
	if exists {
		if err := s.favorites.Remove(ctx, actor.ID, serviceID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.favorites.Add(ctx, actor.ID, serviceID); err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorite сообщает, находится ли услуга в избранном пользователя.
func (s *FavoriteService) IsFavorite(ctx context.Context, actor Actor, serviceID uuid.UUID) (bool, error) {
	return s.favorites.Exists(ctx, actor.ID, serviceID)
}

// List возвращает избранные услуги пользователя.
func (s *FavoriteService) List(ctx context.Context, actor Actor, limit, offset int) ([]models.Favorite, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.favorites.ListByUser(ctx, actor.ID, limit, offset)
}
