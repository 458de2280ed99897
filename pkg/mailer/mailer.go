package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

const sendTimeout = 10 * time.Second

// Config holds SMTP connection details.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	client *mail.Client
	from   string
}

// New creates a Mailer from the given SMTP configuration.
func New(cfg Config) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Mailer{
		client: client,
		from:   cfg.From,
	}, nil
}

// SendWelcome sends the newsletter welcome mail.
func (m *Mailer) SendWelcome(to string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject("Welcome to the Swag Store newsletter")
	msg.SetBodyString(mail.TypeTextPlain,
		"Thanks for subscribing! You'll be the first to hear about new drops and restocks.")

	return m.send(msg)
}

// SendOrderConfirmation sends the order confirmation mail.
func (m *Mailer) SendOrderConfirmation(to, orderNumber string, total float64) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(fmt.Sprintf("Order confirmation %s", orderNumber))
	msg.SetBodyString(mail.TypeTextPlain,
		fmt.Sprintf("We've received your order %s for a total of $%.2f. We'll let you know when it ships.", orderNumber, total))

	return m.send(msg)
}

func (m *Mailer) send(msg *mail.Msg) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
