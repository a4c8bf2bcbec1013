package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/skillbridge/backend/internal/config"
)

// Mailer отправляет почтовые уведомления через SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer создаёт отправителя. Возвращает nil, если SMTP не настроен:
// вызывающий код трактует nil как отключённую почту.
func NewMailer(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

// Send отправляет письмо с простым текстом указанным получателям.
func (m *Mailer) Send(ctx context.Context, to []string, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("email: не удалось отправить письмо: %w", err)
	}
	return nil
}
