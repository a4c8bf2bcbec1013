package service

import (
	"errors"

	"github.com/skillbridge/backend/internal/pkg/apperror"
)

// mapStoreError переводит ошибку хранилища в доменную. Ожидаемая ошибка
// "не найдено" превращается в переданный apperror, любая другая ошибка
// считается сбоем инфраструктуры и доходит до клиента как внутренняя.
func mapStoreError(err, notFound error, mapped *apperror.AppError) error {
	if errors.Is(err, notFound) {
		return mapped
	}
	return apperror.Wrap(err, apperror.ErrCodeInternal, "внутренняя ошибка хранилища")
}
