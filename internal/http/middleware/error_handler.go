package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillbridge/backend/internal/logger"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

// ErrorHandler обрабатывает ошибки централизованно: ошибки прикладного
// уровня отображаются в HTTP статус, внутренние ошибки маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("ошибка обработки запроса")
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message, "code": appErr.Code})
			return
		}

		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "пользователь не найден"})
		case errors.Is(err, repository.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "заказ не найден"})
		case errors.Is(err, repository.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "услуга не найдена"})
		case errors.Is(err, repository.ErrContractNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "контракт не найден"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
		}
	}
}
