package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Mailer delivers outbound mail. Handlers dispatch sends on a goroutine and
// only log failures; nothing is retried.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

const resetSubject = "Şifre Sıfırlama Talebi"

func resetBody(link string) string {
	return fmt.Sprintf(`Şifrenizi sıfırlamak için gönderilen linki ziyaret ediniz.

%s

Eğer bu talebi siz yapmadıysanız, birisi şifrenizi ele geçirmeye çalışıyor olabilir.
`, link)
}

// ==========================
// SMTP mailer
// ==========================
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTP(host string, port int, username, password, from string) (*SMTPMailer, error) {
	opts := []gomail.Option{gomail.WithPort(port)}
	if username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}
	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(gomail.TypeTextPlain, resetBody(link))
	return m.client.DialAndSendWithContext(ctx, msg)
}

// ==========================
// Log mailer (dev)
// ==========================

// LogMailer writes the mail to the log instead of sending it.
// Used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, to, link string) error {
	slog.Info("password reset mail (smtp disabled)", "to", to, "link", link)
	return nil
}
