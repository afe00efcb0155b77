package services

import (
	"context"
	"errors"
	"fmt"
)

// Notification is one message addressed to email and/or phone recipients.
// Each channel picks the recipients it can reach and ignores the rest.
type Notification struct {
	Subject string
	Text    string
	HTML    string
	Emails  []string
	Phones  []string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ErrNotDelivered is returned by a channel that had nobody to send to or is
// not configured.
var ErrNotDelivered = errors.New("notification not delivered")

// MultiNotifier sends through every channel and reports all failures. It
// fails with ErrNotDelivered when no channel delivered anything.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, n Notification) error {
	var errs []error
	delivered := false
	for _, ch := range m {
		if ch == nil {
			continue
		}
		err := ch.Notify(ctx, n)
		switch {
		case err == nil:
			delivered = true
		case errors.Is(err, ErrNotDelivered):
		default:
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if !delivered {
		return ErrNotDelivered
	}
	return nil
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

func nonEmpty(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

type sendError struct {
	channel   string
	recipient string
	err       error
}

func (e *sendError) Error() string {
	return fmt.Sprintf("%s to %s: %v", e.channel, e.recipient, e.err)
}

func (e *sendError) Unwrap() error { return e.err }
