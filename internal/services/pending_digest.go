package services

import (
	"context"
	"log"
	"strings"
	"time"

	"eventhub/internal/models"
)

type pendingRanger interface {
	PendingRange(ctx context.Context, ref models.Date, rng models.PendingRange) (*models.PendingTasksResult, error)
}

// PendingDigest sends every department its own list of today's pending tasks.
type PendingDigest struct {
	tasks    pendingRanger
	notifier Notifier
	loc      *time.Location
	locale   string
	now      func() time.Time
}

func NewPendingDigest(tasks pendingRanger, notifier Notifier, loc *time.Location, locale string) *PendingDigest {
	if loc == nil {
		loc = time.UTC
	}
	return &PendingDigest{tasks: tasks, notifier: notifier, loc: loc, locale: locale, now: time.Now}
}

// Run returns the number of departments that were notified.
func (d *PendingDigest) Run(ctx context.Context) (int, error) {
	today := Today(d.now(), d.loc)
	res, err := d.tasks.PendingRange(ctx, today, models.RangeDay)
	if err != nil {
		log.Printf("[digest][run][err] date=%s err=%v", today, err)
		return 0, err
	}
	sent := 0
	for _, g := range res.Departments {
		if strings.TrimSpace(g.Department.Email) == "" && strings.TrimSpace(g.Department.Phone) == "" {
			log.Printf("[digest][skip] department=%d no contact", g.Department.ID)
			continue
		}
		if err := d.notifier.Notify(ctx, digestNotification(res, g, d.locale)); err != nil {
			log.Printf("[digest][notify][err] department=%d err=%v", g.Department.ID, err)
			continue
		}
		sent++
	}
	log.Printf("[digest][run][ok] date=%s departments=%d sent=%d", today, len(res.Departments), sent)
	return sent, nil
}
