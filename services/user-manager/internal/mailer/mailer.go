// Package mailer delivers transactional emails over SMTP
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<p>Olá,</p>
<p>Recebemos um pedido para redefinir a sua senha. Confirme o seu e-mail para continuar:</p>
<p><a href="{{.Link}}">Confirmar e-mail</a></p>
<p>Se não foi você, ignore esta mensagem.</p>`))

// sender is satisfied by *mail.Dialer
type sender interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPMailer sends emails through an SMTP server behind a circuit breaker
type SMTPMailer struct {
	sender  sender
	from    string
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *zap.Logger
}

// NewSMTPMailer creates a mailer for the given SMTP server
func NewSMTPMailer(host string, port int, username, password, from string, logger *zap.Logger) *SMTPMailer {
	return newSMTPMailer(mail.NewDialer(host, port, username, password), from, logger)
}

func newSMTPMailer(s sender, from string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		sender: s,
		from:   from,
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "SMTP",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
		logger: logger,
	}
}

// SendPasswordReset emails the confirmation link of a password recovery
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	var body bytes.Buffer
	if err := passwordResetTemplate.Execute(&body, struct{ Link string }{Link: link}); err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	return m.send(ctx, to, "Redefinição de senha", body.String())
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	_, err := m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.sender.DialAndSend(msg)
	})
	if err != nil {
		m.logger.Error("failed to send email", zap.Error(err), zap.String("subject", subject))
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
