package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
	"github.com/skillbridge/backend/internal/validation"
)

// ReviewStore описывает операции хранилища отзывов.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]models.Review, error)
	GetAverageRating(ctx context.Context, serviceID uuid.UUID) (float64, int, error)
}

// ReviewService управляет отзывами на услуги. Один пользователь оставляет
// не более одного отзыва на услугу и не может оценивать собственную.
type ReviewService struct {
	reviews  ReviewStore
	services ServiceReader
}

// NewReviewService создаёт новый сервис отзывов.
func NewReviewService(reviews ReviewStore, services ServiceReader) *ReviewService {
	return &ReviewService{reviews: reviews, services: services}
}

// ReviewInput — данные отзыва.
type ReviewInput struct {
	Rating  int
	Comment string
}

// CreateReview добавляет отзыв на услугу.
func (s *ReviewService) CreateReview(ctx context.Context, actor Actor, serviceID uuid.UUID, in ReviewInput) (*models.Review, error) {
	service, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrServiceNotFound, apperror.ErrServiceNotFound)
	}
	if service.OwnerID == actor.ID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя оставить отзыв на собственную услугу")
	}
	if err := validation.ValidateRating(in.Rating); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validation.ValidateLength("комментарий", in.Comment, 0, validation.MaxReviewCommentLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	review := &models.Review{
		ServiceID:  serviceID,
		ReviewerID: actor.ID,
		Rating:     in.Rating,
	}
	if in.Comment != "" {
		review.Comment = &in.Comment
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.New(apperror.ErrCodeAlreadyExists, "вы уже оставили отзыв на эту услугу")
		}
		return nil, err
	}
	return review, nil
}

// ListReviews возвращает отзывы услуги.
func (s *ReviewService) ListReviews(ctx context.Context, serviceID uuid.UUID) ([]models.Review, error) {
	if _, err := s.services.GetByID(ctx, serviceID); err != nil {
		return nil, mapStoreError(err, repository.ErrServiceNotFound, apperror.ErrServiceNotFound)
	}
	return s.reviews.ListByService(ctx, serviceID)
}

// GetServiceRating возвращает средний рейтинг и число отзывов услуги.
func (s *ReviewService) GetServiceRating(ctx context.Context, serviceID uuid.UUID) (float64, int, error) {
	return s.reviews.GetAverageRating(ctx, serviceID)
}
