// Package mailer sends RFP invitations and proposal status emails over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
)

// ErrNotConfigured is returned when no SMTP host is set.
var ErrNotConfigured = errors.New("smtp is not configured")

// Settings describes the outgoing mail server.
type Settings struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer sends HTML emails through an SMTP relay.
type SMTPMailer struct {
	settings Settings
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates an SMTPMailer. From defaults to User.
func NewSMTPMailer(settings Settings) *SMTPMailer {
	if settings.From == "" {
		settings.From = settings.User
	}
	return &SMTPMailer{settings: settings, send: smtp.SendMail}
}

// Send delivers one HTML email.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.settings.Host == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(m.settings.From, to, subject, htmlBody, time.Now())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.settings.User != "" {
		auth = smtp.PlainAuth("", m.settings.User, m.settings.Password, m.settings.Host)
	}
	addr := net.JoinHostPort(m.settings.Host, strconv.Itoa(m.settings.Port))
	if err = m.send(addr, auth, m.settings.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, htmlBody string, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	if _, err = w.Write([]byte(htmlBody)); err != nil {
		return nil, fmt.Errorf("write body: %w", err)
	}
	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("close message: %w", err)
	}
	return buf.Bytes(), nil
}
