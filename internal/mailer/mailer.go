package mailer

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/KellenSmith/TaskMaster-sub001/internal/config"
)

// ErrRateLimited marks a transient provider rejection. Callers treat it
// as retryable: the same batch is resent on the next trigger.
var ErrRateLimited = errors.New("mail provider rate limited")

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(conf *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(conf.Host, conf.Port, conf.Username, conf.Password),
		from:   conf.From,
	}
}

// SendBatch delivers one newsletter batch. The default is a single
// BCC-style message addressed to the whole slice, which counts as one
// unit against any provider rate limit. With perRecipient set, each
// recipient gets an individual message instead.
func (m *SMTPMailer) SendBatch(subject, html string, recipients []string, perRecipient bool) error {
	if len(recipients) == 0 {
		return nil
	}

	if perRecipient {
		for _, recipient := range recipients {
			if err := m.send(subject, html, []string{recipient}, false); err != nil {
				return err
			}
		}

		return nil
	}

	return m.send(subject, html, recipients, true)
}

// Notify sends a short transactional message to a single recipient.
func (m *SMTPMailer) Notify(to, subject, html string) error {
	return m.send(subject, html, []string{to}, false)
}

func (m *SMTPMailer) send(subject, html string, recipients []string, bcc bool) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if bcc {
		msg.SetHeader("To", m.from)
		msg.SetHeader("Bcc", recipients...)
	} else {
		msg.SetHeader("To", recipients...)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		if isRateLimitErr(err) {
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}

		return fmt.Errorf("m.dialer.DialAndSend -> %w", err)
	}

	return nil
}

// isRateLimitErr recognizes the transient SMTP replies providers use for
// throttling (421 service unavailable, 450/452 try again later) and the
// HTTP-ish 429 some relays pass through.
func isRateLimitErr(err error) bool {
	msg := err.Error()
	for _, code := range []string{"421", "450", "452", "429"} {
		if strings.HasPrefix(msg, code+" ") || strings.Contains(msg, " "+code+" ") {
			return true
		}
	}

	return strings.Contains(strings.ToLower(msg), "rate limit")
}
