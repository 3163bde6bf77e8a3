package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Sender is the fixed identity every notification is sent from. It comes
// from process configuration, never from the request.
type Sender struct {
	Address string
	Name    string
}

// Outbound is a fully assembled message ready for delivery.
type Outbound struct {
	Recipients RecipientSet
	Content    MessageContent
	Attachment *Attachment
}

// DeliveryResult reports the provider's acceptance of a message.
type DeliveryResult struct {
	StatusCode int
}

// Dispatcher submits an assembled message to the delivery provider. Exactly
// one attempt is made per call; a rejection is returned as *DeliveryError.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Outbound) (DeliveryResult, error)
}

// smtpAccepted is the SMTP "mail action completed" reply code reported on
// successful submission.
const smtpAccepted = 250

// SMTPConfig holds connection parameters for the SMTP dispatcher. APIKey is
// the transactional provider credential used as the SMTP password.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	APIKey   string
}

// SMTPDispatcher delivers messages over SMTP using the go-mail library.
type SMTPDispatcher struct {
	config SMTPConfig
	sender Sender
}

// NewSMTPDispatcher creates a dispatcher sending as the given fixed sender.
func NewSMTPDispatcher(config SMTPConfig, sender Sender) *SMTPDispatcher {
	return &SMTPDispatcher{config: config, sender: sender}
}

// Dispatch builds the MIME message and submits it in a single attempt.
func (d *SMTPDispatcher) Dispatch(ctx context.Context, msg Outbound) (DeliveryResult, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(d.sender.Name, d.sender.Address); err != nil {
		return DeliveryResult{}, &DeliveryError{Detail: fmt.Sprintf("invalid sender address: %v", err)}
	}
	if err := m.To(msg.Recipients...); err != nil {
		return DeliveryResult{}, &DeliveryError{Detail: fmt.Sprintf("invalid recipient: %v", err)}
	}

	m.Subject(msg.Content.Subject)
	if msg.Content.Text != "" {
		m.SetBodyString(mail.TypeTextPlain, msg.Content.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.Content.HTML)
	} else {
		m.SetBodyString(mail.TypeTextHTML, msg.Content.HTML)
	}

	if att := msg.Attachment; att != nil {
		err := m.AttachReader(att.Filename, bytes.NewReader(att.Content),
			mail.WithFileContentType(mail.ContentType(att.MIMEType)))
		if err != nil {
			return DeliveryResult{}, &DeliveryError{Detail: fmt.Sprintf("attaching %s: %v", att.Filename, err)}
		}
	}

	c, err := mail.NewClient(d.config.Host,
		mail.WithPort(d.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(d.config.Username),
		mail.WithPassword(d.config.APIKey),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return DeliveryResult{}, &DeliveryError{Detail: fmt.Sprintf("creating mail client: %v", err)}
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return DeliveryResult{}, &DeliveryError{Detail: providerDetail(err)}
	}
	return DeliveryResult{StatusCode: smtpAccepted}, nil
}

// providerDetail extracts the provider's diagnostic text from a send
// failure. go-mail wraps SMTP rejections in *mail.SendError; its message is
// treated as opaque diagnostics, not a parsed taxonomy.
func providerDetail(err error) string {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		return sendErr.Error()
	}
	return err.Error()
}
