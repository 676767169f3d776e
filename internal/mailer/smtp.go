package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"time"

	"github.com/GoArmGo/PetFinder/internal/domain"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier реализует ports.EmailNotifier поверх SMTP.
type SMTPNotifier struct {
	addr   string
	from   string
	auth   smtp.Auth
	send   sendFunc
	logger *slog.Logger
}

// NewSMTPNotifier создаёт отправителя. Без user аутентификация не используется (локальный relay).
func NewSMTPNotifier(addr, user, password, from string, logger *slog.Logger) *SMTPNotifier {
	var auth smtp.Auth
	if user != "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPNotifier{addr: addr, from: from, auth: auth, send: smtp.SendMail, logger: logger}
}

// Send отправляет письмо; smtp.SendMail не принимает контекст, поэтому отмена проверяется до отправки.
func (n *SMTPNotifier) Send(ctx context.Context, email domain.SightingEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	msg := buildMessage(n.from, email, start)
	if err := n.send(n.addr, n.auth, n.from, []string{email.To}, msg); err != nil {
		n.logger.Error("failed to send email", "to", email.To, "error", err)
		return domain.Upstream("email", err)
	}

	n.logger.Info("email sent", "to", email.To, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func buildMessage(from string, email domain.SightingEmail, now time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", email.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(email.Body)
	b.WriteString("\r\n")
	return b.Bytes()
}
