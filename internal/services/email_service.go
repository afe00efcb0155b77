package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	sender mailSender
	from   string
	dryRun bool
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string, dryRun bool) *EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &EmailService{
		sender: dialer,
		from:   fromEmail,
		dryRun: dryRun,
	}
}

// Notify sends one message per recipient so a bad address does not block
// the others.
func (s *EmailService) Notify(ctx context.Context, n Notification) error {
	to := nonEmpty(n.Emails)
	if len(to) == 0 {
		return fmt.Errorf("email: no recipients: %w", ErrNotDelivered)
	}
	var failed []error
	for _, addr := range to {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.dryRun {
			log.Printf("[email][send][dry_run] to=%s subject=%q", addr, n.Subject)
			continue
		}
		if err := s.sender.DialAndSend(s.message(addr, n)); err != nil {
			log.Printf("[email][send][err] to=%s err=%v", addr, err)
			failed = append(failed, &sendError{channel: "email", recipient: addr, err: err})
			continue
		}
		log.Printf("[email][send][ok] to=%s subject=%q", addr, n.Subject)
	}
	if len(failed) > 0 {
		return fmt.Errorf("email: %d of %d failed: %w", len(failed), len(to), failed[0])
	}
	return nil
}

func (s *EmailService) message(to string, n Notification) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", n.Text)
	if strings.TrimSpace(n.HTML) != "" {
		m.AddAlternative("text/html", n.HTML)
	}
	return m
}
