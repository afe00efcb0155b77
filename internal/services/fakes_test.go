package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"eventhub/internal/models"
	"eventhub/internal/repositories"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

type memPartnerships struct {
	items      map[int64]models.Partnership
	activities []models.PartnershipActivity
	marked     map[int64]time.Time
	listErr    error
	next       int64
}

func newMemPartnerships(ps ...models.Partnership) *memPartnerships {
	m := &memPartnerships{items: map[int64]models.Partnership{}, marked: map[int64]time.Time{}}
	for _, p := range ps {
		m.items[p.ID] = p
		if p.ID > m.next {
			m.next = p.ID
		}
	}
	return m
}

func (m *memPartnerships) get(id int64) (models.Partnership, error) {
	p, ok := m.items[id]
	if !ok {
		return p, fmt.Errorf("partnership %d: %w", id, repositories.ErrNotFound)
	}
	return p, nil
}

func (m *memPartnerships) sorted() []models.Partnership {
	out := make([]models.Partnership, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memPartnerships) Create(_ context.Context, p *models.Partnership) error {
	m.next++
	p.ID = m.next
	m.items[p.ID] = *p
	return nil
}

func (m *memPartnerships) GetByID(_ context.Context, id int64) (*models.Partnership, error) {
	p, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *memPartnerships) List(_ context.Context, limit, offset int) ([]models.Partnership, error) {
	all := m.sorted()
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memPartnerships) ListNotifiable(_ context.Context) ([]models.Partnership, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Partnership
	for _, p := range m.sorted() {
		if p.NotifyOnInactivity {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPartnerships) Update(_ context.Context, p *models.Partnership) error {
	if _, err := m.get(p.ID); err != nil {
		return err
	}
	m.items[p.ID] = *p
	return nil
}

func (m *memPartnerships) Delete(_ context.Context, id int64) error {
	if _, err := m.get(id); err != nil {
		return err
	}
	delete(m.items, id)
	return nil
}

func (m *memPartnerships) UpdateInactivitySettings(_ context.Context, id int64, months int, notify bool) error {
	p, err := m.get(id)
	if err != nil {
		return err
	}
	p.InactivityThresholdMonths = months
	p.NotifyOnInactivity = notify
	m.items[id] = p
	return nil
}

func (m *memPartnerships) MarkInactivityNotified(_ context.Context, id int64, at time.Time) error {
	p, err := m.get(id)
	if err != nil {
		return err
	}
	p.LastInactivityNotificationSent = &at
	m.items[id] = p
	m.marked[id] = at
	return nil
}

func (m *memPartnerships) AddActivity(_ context.Context, a *models.PartnershipActivity) error {
	p, err := m.get(a.PartnershipID)
	if err != nil {
		return err
	}
	a.ID = int64(len(m.activities) + 1)
	m.activities = append(m.activities, *a)
	if p.LastActivityDate == nil || a.OccurredAt.After(*p.LastActivityDate) {
		at := a.OccurredAt
		p.LastActivityDate = &at
	}
	m.items[p.ID] = p
	return nil
}

func (m *memPartnerships) ListActivities(_ context.Context, id int64) ([]models.PartnershipActivity, error) {
	var out []models.PartnershipActivity
	for _, a := range m.activities {
		if a.PartnershipID == id {
			out = append(out, a)
		}
	}
	return out, nil
}

type memContacts struct {
	items map[int64]models.Contact
	next  int64
}

func newMemContacts(cs ...models.Contact) *memContacts {
	m := &memContacts{items: map[int64]models.Contact{}}
	for _, c := range cs {
		m.next++
		c.ID = m.next
		m.items[c.ID] = c
	}
	return m
}

func (m *memContacts) Create(_ context.Context, c *models.Contact) error {
	m.next++
	c.ID = m.next
	m.items[c.ID] = *c
	return nil
}

func (m *memContacts) Update(_ context.Context, c *models.Contact) error {
	if _, ok := m.items[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.items[c.ID] = *c
	return nil
}

func (m *memContacts) GetByID(_ context.Context, id int64) (*models.Contact, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (m *memContacts) GetByEmail(_ context.Context, email string) (*models.Contact, error) {
	for _, c := range m.items {
		if c.Email != "" && strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memContacts) List(_ context.Context, search string, limit, offset int) ([]models.Contact, error) {
	var all []models.Contact
	for _, c := range m.items {
		if search == "" || strings.Contains(strings.ToLower(c.NameEn), strings.ToLower(search)) {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memContacts) Delete(_ context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	fail func(Notification) bool
}

var errSendFailed = errors.New("send failed")

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil && r.fail(n) {
		return errSendFailed
	}
	r.sent = append(r.sent, n)
	return nil
}
