package service

import (
	"context"

	"github.com/google/uuid"
)

// NotificationSink принимает уведомления рабочих процессов.
// Контракт fire-and-forget: ошибка логируется вызывающей стороной
// и никогда не прерывает основную операцию.
type NotificationSink interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string, link *string) error
}

// EmailSender отправляет письма. Тот же best-effort контракт,
// что и у NotificationSink.
type EmailSender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}
