package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/pkg/config"
)

// EmailSender abstracts smtp.SendMail for tests.
type EmailSender func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailChannel delivers notifications over SMTP. The recipient address
// comes from the notification's user id.
type EmailChannel struct {
	cfg  config.EmailConfig
	send EmailSender
}

// NewEmailChannel uses the real SMTP client.
func NewEmailChannel(cfg config.EmailConfig) *EmailChannel {
	return &EmailChannel{cfg: cfg, send: smtp.SendMail}
}

// NewEmailChannelWithSender injects the sender, for tests.
func NewEmailChannelWithSender(cfg config.EmailConfig, send EmailSender) *EmailChannel {
	return &EmailChannel{cfg: cfg, send: send}
}

// Name implements Channel.
func (e *EmailChannel) Name() string { return "email" }

// Send implements Channel.
func (e *EmailChannel) Send(ctx context.Context, n *contracts.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.SendMail(recipientAddress(n.UserID), n.Title, n.Message, false)
}

// SendMail delivers one message. html selects the content type; the
// newsletter sender uses it directly for rendered editions.
func (e *EmailChannel) SendMail(to, subject, body string, html bool) error {
	contentType := "text/plain; charset=UTF-8"
	if html {
		contentType = "text/html; charset=UTF-8"
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", e.cfg.FromName, e.cfg.User)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: %s\r\n", contentType)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%s", e.cfg.Host, e.cfg.Port)
	auth := smtp.PlainAuth("", e.cfg.User, e.cfg.Password, e.cfg.Host)

	if err := e.send(addr, auth, e.cfg.User, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// recipientAddress maps a user id to its mailbox. User ids are email
// addresses on the platform; anything else gets a placeholder domain.
func recipientAddress(userID string) string {
	if strings.Contains(userID, "@") {
		return userID
	}
	return userID + "@example.com"
}
