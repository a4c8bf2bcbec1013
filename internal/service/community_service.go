package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

// CommunityStore описывает операции хранилища сообществ.
type CommunityStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error)
	GetWithMembers(ctx context.Context, id uuid.UUID) (*models.CommunityWithMembers, error)
	List(ctx context.Context, limit int) ([]models.CommunityWithMembers, error)
	Join(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	Leave(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
}

// CommunityService управляет членством в профессиональных сообществах.
type CommunityService struct {
	communities CommunityStore
}

// NewCommunityService создаёт новый сервис сообществ.
func NewCommunityService(communities CommunityStore) *CommunityService {
	return &CommunityService{communities: communities}
}

const communityListLimit = 50

// List возвращает сообщества с числом участников.
func (s *CommunityService) List(ctx context.Context) ([]models.CommunityWithMembers, error) {
	return s.communities.List(ctx, communityListLimit)
}

// CommunityDetail — сообщество с количеством участников и признаком
// членства зрителя.
type CommunityDetail struct {
	models.CommunityWithMembers
	IsJoined bool `json:"is_joined"`
}

// Get возвращает страницу сообщества. Для авторизованного зрителя
// дополнительно вычисляется признак членства.
func (s *CommunityService) Get(ctx context.Context, viewer *Actor, communityID uuid.UUID) (*CommunityDetail, error) {
	community, err := s.communities.GetWithMembers(ctx, communityID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrCommunityNotFound, apperror.ErrCommunityNotFound)
	}

	detail := &CommunityDetail{CommunityWithMembers: *community}
	if viewer != nil {
		joined, err := s.communities.IsMember(ctx, communityID, viewer.ID)
		if err != nil {
			return nil, err
		}
		detail.IsJoined = joined
	}
	return detail, nil
}

// Join вступает в сообщество. Повторное вступление идемпотентно.
func (s *CommunityService) Join(ctx context.Context, actor Actor, communityID uuid.UUID) error {
	if _, err := s.communities.GetByID(ctx, communityID); err != nil {
		return mapStoreError(err, repository.ErrCommunityNotFound, apperror.ErrCommunityNotFound)
	}
	_, err := s.communities.Join(ctx, communityID, actor.ID)
	return err
}

// Leave выходит из сообщества. Выход без членства идемпотентен.
func (s *CommunityService) Leave(ctx context.Context, actor Actor, communityID uuid.UUID) error {
	if _, err := s.communities.GetByID(ctx, communityID); err != nil {
		return mapStoreError(err, repository.ErrCommunityNotFound, apperror.ErrCommunityNotFound)
	}
	_, err := s.communities.Leave(ctx, communityID, actor.ID)
	return err
}
