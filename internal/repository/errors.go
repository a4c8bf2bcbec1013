package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// Ошибки уровня репозитория.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrContractNotFound     = errors.New("contract not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrFavoriteNotFound     = errors.New("favorite not found")
	ErrCommunityNotFound    = errors.New("community not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrDuplicate            = errors.New("duplicate record")
)

// uniqueViolation — код PostgreSQL для нарушения уникального ограничения.
const uniqueViolation = "23505"

// IsUniqueViolation сообщает, вызвана ли ошибка нарушением уникального
// ограничения. Пустой constraint означает любое ограничение.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// escapeLike экранирует метасимволы шаблона LIKE в пользовательском вводе,
// чтобы % и _ в запросе искались буквально.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
