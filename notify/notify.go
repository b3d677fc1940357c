// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/wneessen/go-mail"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/models"
)

var (
	ErrNotConfigured = errors.New("email notifications are not configured")
	ErrNoRecipient   = errors.New("recipient email is required")
)

// Message is one outgoing summary email
type Message struct {
	To         string
	Subject    string
	Body       string
	ResponseID string
}

// Receipt confirms a delivery handed to the mail server
type Receipt struct {
	SentAt time.Time
}

// Notifier delivers messages through an external mail capability
type Notifier interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// Disabled is used when no mail settings are configured
type Disabled struct{}

func (Disabled) Send(ctx context.Context, msg Message) (Receipt, error) {
	return Receipt{}, ErrNotConfigured
}

// SMTPNotifier sends plain-text mail through an SMTP relay
type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// New returns an SMTPNotifier when cfg has mail settings, Disabled otherwise
func New(cfg cliparse.Config) Notifier {
	if !cfg.MailConfigured() {
		return Disabled{}
	}
	return &SMTPNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) (Receipt, error) {
	if msg.To == "" {
		return Receipt{}, ErrNoRecipient
	}

	m := mail.NewMsg()
	if err := m.From(n.from); err != nil {
		return Receipt{}, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return Receipt{}, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	opts := []mail.Option{
		mail.WithPort(n.port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15 * time.Second),
	}
	if n.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.username),
			mail.WithPassword(n.password),
		)
	}

	client, err := mail.NewClient(n.host, opts...)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return Receipt{}, fmt.Errorf("failed to send mail: %w", err)
	}

	return Receipt{SentAt: time.Now()}, nil
}

// Summary formats a response as a notification email.
// total is the collection size after the response was stored.
func Summary(to, subject string, rec models.SurveyResponse, total int) Message {
	if subject == "" {
		subject = fmt.Sprintf("New survey response: %s", dominantLabel(rec.DominantCategory))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A new survey response was received (the %s so far).\n\n", humanize.Ordinal(total))
	fmt.Fprintf(&b, "Response ID: %s\n", rec.ID)
	fmt.Fprintf(&b, "Submitted:   %s (%s)\n", rec.Timestamp.UTC().Format(time.RFC1123), humanize.Time(rec.Timestamp))
	fmt.Fprintf(&b, "Dominant:    %s\n\n", dominantLabel(rec.DominantCategory))

	b.WriteString("Scores\n")
	for _, c := range models.Categories {
		fmt.Fprintf(&b, "  %s: %d\n", c, rec.Score(c))
	}

	fmt.Fprintf(&b, "\nAnswered %d questions: %d yes, %d no.\n", rec.TotalQuestions, rec.TotalYes, rec.TotalNo)
	if rec.ContactEmail != "" {
		fmt.Fprintf(&b, "Contact: %s\n", rec.ContactEmail)
	}

	return Message{
		To:         to,
		Subject:    subject,
		Body:       b.String(),
		ResponseID: rec.ID,
	}
}

func dominantLabel(label string) string {
	if label == "" {
		return models.DominantUnknown
	}
	return label
}
