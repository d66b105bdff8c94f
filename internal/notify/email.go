package notify

import (
	"context"
	"fmt"
	"net/smtp"
)

// EmailChannel sends notifications over SMTP with STARTTLS.
type EmailChannel struct {
	Server    string // host:port
	Host      string // host only, for auth
	Username  string
	Password  string
	From      string
	Recipient string
}

func (EmailChannel) Name() string { return "email" }

func (e EmailChannel) Notify(_ context.Context, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		e.From, e.Recipient, subject, body)
	auth := smtp.PlainAuth("", e.Username, e.Password, e.Host)
	if err := smtp.SendMail(e.Server, auth, e.From, []string{e.Recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail via %s: %w", e.Server, err)
	}
	return nil
}
