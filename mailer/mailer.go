// Package mailer は、お問い合わせフォームのメール中継を提供します。
package mailer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wneessen/go-mail"

	"github.com/mizuasagi/folio/model"
)

// Mailer はお問い合わせ内容の送信を行うインターフェースです。
type Mailer interface {
	// Send はお問い合わせ内容を1通のメールとして送信します。
	Send(ctx context.Context, msg *model.ContactMessage) error
}

// SMTPMailer はSMTP経由でメールを送信するMailerの実装です。
type SMTPMailer struct {
	client *mail.Client
	from   string
	to     string
}

// NewSMTPMailer は新しいSMTPMailerを作成します。
func NewSMTPMailer(host, port, user, pass, from, to string) (*SMTPMailer, error) {
	if host == "" || from == "" || to == "" {
		return nil, fmt.Errorf("smtp host, mail from and mail to are required")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid smtp port: %w", err)
	}

	client, err := mail.NewClient(host,
		mail.WithPort(portNum),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(user),
		mail.WithPassword(pass),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   from,
		to:     to,
	}, nil
}

// Send はお問い合わせ内容をメールとして送信します。リトライは行いません。
func (m *SMTPMailer) Send(ctx context.Context, msg *model.ContactMessage) error {
	mm := mail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := mm.To(m.to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	if err := mm.ReplyTo(msg.Email); err != nil {
		return fmt.Errorf("invalid reply-to address: %w", err)
	}

	mm.Subject(fmt.Sprintf("[folio] Contact from %s (%s)", msg.FirstName, msg.ID))

	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\n%s\n", msg.FirstName, msg.Email, msg.Phone, msg.Message)
	mm.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("failed to send contact mail: %w", err)
	}
	return nil
}
