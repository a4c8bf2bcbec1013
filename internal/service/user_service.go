package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
	"github.com/skillbridge/backend/internal/validation"
)

// UserStore описывает операции хранилища пользователей.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	SetRole(ctx context.Context, id uuid.UUID, role string) error
	GetStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
}

// UserService управляет профилями пользователей и сменой роли.
type UserService struct {
	users UserStore
}

// NewUserService создаёт новый сервис пользователей.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetProfile возвращает публичный профиль пользователя.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}
	return user, nil
}

// BecomeProvider переводит клиента в исполнители. Переход явный и
// необратимый через этот сервис; администратор роль не меняет.
func (s *UserService) BecomeProvider(ctx context.Context, actor Actor) (*models.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}
	switch user.Role {
	case models.RoleProvider:
		return nil, apperror.New(apperror.ErrCodeAlreadyExists, "вы уже исполнитель")
	case models.RoleAdmin:
		return nil, apperror.New(apperror.ErrCodeForbidden, "администратор не участвует в сделках")
	}

	if err := s.users.SetRole(ctx, actor.ID, models.RoleProvider); err != nil {
		return nil, err
	}
	user.Role = models.RoleProvider
	return user, nil
}

// ProfileInput — редактируемые поля профиля.
type ProfileInput struct {
	FullName   *string
	Bio        *string
	AvatarPath *string
}

// UpdateProfile обновляет собственный профиль пользователя. Незаполненные
// поля не меняются.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, in ProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}

	if in.FullName != nil {
		fullName := strings.TrimSpace(*in.FullName)
		if err := validation.ValidateLength("имя", fullName, 0, 200); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		if fullName == "" {
			user.FullName = nil
		} else {
			user.FullName = &fullName
		}
	}
	if in.Bio != nil {
		if err := validation.ValidateLength("о себе", *in.Bio, 0, 2000); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		user.Bio = in.Bio
	}
	if in.AvatarPath != nil {
		user.AvatarPath = in.AvatarPath
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetStats возвращает агрегированную статистику пользователя.
func (s *UserService) GetStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapStoreError(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}
	return s.users.GetStats(ctx, userID)
}
