package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"autostyle/internal/domain/orders"

	"gopkg.in/mail.v2"
)

const (
	FromName                  = "AutoStyle"
	OrderConfirmationTemplate = "order_confirmation.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
}

// SMTPMailer sends order confirmations over SMTP.
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
	tmpl   *template.Template
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+OrderConfirmationTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = 10 * time.Second

	return &SMTPMailer{dialer: d, from: cfg.FromEmail, tmpl: tmpl}, nil
}

// OrderPlaced emails the customer a summary of a committed order.
func (m *SMTPMailer) OrderPlaced(ctx context.Context, o *orders.Order, items []orders.Item) error {
	subject, body, err := render(m.tmpl, o, items)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.from, FromName)
	msg.SetHeader("To", o.CustomerEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	errCh := make(chan error, 1)
	go func() { errCh <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("send order confirmation: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func render(tmpl *template.Template, o *orders.Order, items []orders.Item) (string, string, error) {
	data := struct {
		Order *orders.Order
		Items []orders.Item
	}{o, items}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}

	return subject.String(), body.String(), nil
}

// Noop is used when SMTP is not configured.
type Noop struct{}

func (Noop) OrderPlaced(context.Context, *orders.Order, []orders.Item) error { return nil }
