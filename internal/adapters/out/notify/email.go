package notify

import (
	"context"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/notification"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailSender delivers customer messages over SMTP.
type EmailSender struct {
	addr     string
	from     string
	auth     smtp.Auth
	sendMail sendMailFunc
}

func NewEmailSender(cfg SMTPConfig) *EmailSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &EmailSender{
		addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		from:     cfg.From,
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

func (s *EmailSender) Send(ctx context.Context, m notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(m.Target, "\r\n") {
		return fmt.Errorf("invalid recipient %q: line break in address", m.Target)
	}
	to, err := mail.ParseAddress(m.Target)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", m.Target, err)
	}

	return s.sendMail(s.addr, s.auth, s.from, []string{to.Address}, s.compose(to.Address, m))
}

func (s *EmailSender) compose(to string, m notification.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject(m.Event))
	fmt.Fprintf(&b, "Date: %s\r\n", m.CreatedAt.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(m.Text())
	b.WriteString("\r\n")
	return []byte(b.String())
}

func subject(e notification.Event) string {
	words := strings.Split(string(e), "_")
	if len(words) > 0 && words[0] != "" {
		words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	}
	return strings.Join(words, " ")
}
