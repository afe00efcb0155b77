package services

import (
	"context"
	"log"
	"time"

	"eventhub/internal/models"
)

type notifiableStore interface {
	ListNotifiable(ctx context.Context) ([]models.Partnership, error)
	MarkInactivityNotified(ctx context.Context, id int64, at time.Time) error
}

type InactivityRunResult struct {
	Checked  int `json:"checked"`
	Notified int `json:"notified"`
	Failed   int `json:"failed"`
}

// InactivityMonitor alerts the configured recipients about partnerships
// that went quiet. A partnership is only marked as notified after the
// alert went out, so a failed send is retried on the next run.
type InactivityMonitor struct {
	repo     notifiableStore
	notifier Notifier
	emails   []string
	phones   []string
	locale   string
	now      func() time.Time
}

func NewInactivityMonitor(repo notifiableStore, notifier Notifier, emails, phones []string, locale string) *InactivityMonitor {
	return &InactivityMonitor{
		repo:     repo,
		notifier: notifier,
		emails:   emails,
		phones:   phones,
		locale:   locale,
		now:      time.Now,
	}
}

func (m *InactivityMonitor) Run(ctx context.Context) (InactivityRunResult, error) {
	var res InactivityRunResult
	list, err := m.repo.ListNotifiable(ctx)
	if err != nil {
		log.Printf("[inactivity][run][err] list: %v", err)
		return res, err
	}
	now := m.now()
	for _, p := range list {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Checked++
		st, err := EvaluateInactivity(p, now)
		if err != nil {
			log.Printf("[inactivity][run][skip] id=%d err=%v", p.ID, err)
			res.Failed++
			continue
		}
		if !notifyDue(st, now) {
			continue
		}
		n := inactivityNotification(p, st, m.locale)
		n.Emails = m.emails
		n.Phones = m.phones
		if err := m.notifier.Notify(ctx, n); err != nil {
			log.Printf("[inactivity][notify][err] id=%d err=%v", p.ID, err)
			res.Failed++
			continue
		}
		if err := m.repo.MarkInactivityNotified(ctx, p.ID, now); err != nil {
			log.Printf("[inactivity][mark][err] id=%d err=%v", p.ID, err)
			res.Failed++
			continue
		}
		res.Notified++
	}
	log.Printf("[inactivity][run][ok] checked=%d notified=%d failed=%d", res.Checked, res.Notified, res.Failed)
	return res, nil
}
