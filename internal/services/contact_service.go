package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"eventhub/internal/models"
)

// ContactStore is satisfied by *repositories.ContactRepository.
type ContactStore interface {
	Create(ctx context.Context, c *models.Contact) error
	Update(ctx context.Context, c *models.Contact) error
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	GetByEmail(ctx context.Context, email string) (*models.Contact, error)
	List(ctx context.Context, search string, limit, offset int) ([]models.Contact, error)
	Delete(ctx context.Context, id int64) error
}

var contactCSVHeader = []string{
	"name_en", "name_ar", "title", "title_ar", "organization", "email", "phone", "partnership_id", "notes",
}

const exportPageSize = 500

type ContactService struct {
	Repo ContactStore
	now  func() time.Time
}

func NewContactService(repo ContactStore) *ContactService {
	return &ContactService{Repo: repo, now: time.Now}
}

func validateContact(c *models.Contact) error {
	c.NameEn = strings.TrimSpace(c.NameEn)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	if c.NameEn == "" {
		return fmt.Errorf("%w: nameEn is required", ErrInvalidArgument)
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return fmt.Errorf("%w: invalid email %q", ErrInvalidArgument, c.Email)
		}
	}
	return nil
}

func (s *ContactService) Create(ctx context.Context, c *models.Contact) error {
	if err := validateContact(c); err != nil {
		return err
	}
	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.Repo.Create(ctx, c)
}

func (s *ContactService) Update(ctx context.Context, c *models.Contact) error {
	if err := validateContact(c); err != nil {
		return err
	}
	c.UpdatedAt = s.now()
	return s.Repo.Update(ctx, c)
}

func (s *ContactService) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *ContactService) List(ctx context.Context, search string, limit, offset int) ([]models.Contact, error) {
	return s.Repo.List(ctx, strings.TrimSpace(search), limit, offset)
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

// ExportCSV streams every contact matching search to w, header first.
func (s *ContactService) ExportCSV(ctx context.Context, w io.Writer, search string) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(contactCSVHeader); err != nil {
		return 0, err
	}
	written := 0
	for offset := 0; ; offset += exportPageSize {
		page, err := s.Repo.List(ctx, strings.TrimSpace(search), exportPageSize, offset)
		if err != nil {
			return written, err
		}
		for _, c := range page {
			if err := cw.Write(contactRecord(c)); err != nil {
				return written, err
			}
			written++
		}
		if len(page) < exportPageSize {
			break
		}
	}
	cw.Flush()
	return written, cw.Error()
}

func contactRecord(c models.Contact) []string {
	pid := ""
	if c.PartnershipID != nil {
		pid = strconv.FormatInt(*c.PartnershipID, 10)
	}
	return []string{c.NameEn, c.NameAr, c.Title, c.TitleAr, c.Organization, c.Email, c.Phone, pid, c.Notes}
}

// ImportCSV upserts contacts by email. Rows without an email are always
// created. A bad row is reported and skipped; the import continues.
// Row numbers are 1-based and count the header line.
func (s *ContactService) ImportCSV(ctx context.Context, r io.Reader) (*models.ContactImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty csv", ErrInvalidArgument)
		}
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidArgument, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["name_en"]; !ok {
		return nil, fmt.Errorf("%w: missing name_en column", ErrInvalidArgument)
	}

	res := &models.ContactImportResult{Errors: []models.ImportRowError{}}
	row := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			res.Errors = append(res.Errors, models.ImportRowError{Row: row, Error: err.Error()})
			continue
		}
		c, err := contactFromRecord(rec, cols)
		if err == nil {
			err = s.upsert(ctx, c, res)
		}
		if err != nil {
			res.Errors = append(res.Errors, models.ImportRowError{Row: row, Error: err.Error()})
		}
	}
	log.Printf("[contact][import][ok] created=%d updated=%d errors=%d", res.Created, res.Updated, len(res.Errors))
	return res, nil
}

func (s *ContactService) upsert(ctx context.Context, c *models.Contact, res *models.ContactImportResult) error {
	if err := validateContact(c); err != nil {
		return err
	}
	if c.Email != "" {
		existing, err := s.Repo.GetByEmail(ctx, c.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			c.ID = existing.ID
			c.CreatedAt = existing.CreatedAt
			if err := s.Update(ctx, c); err != nil {
				return err
			}
			res.Updated++
			return nil
		}
	}
	if err := s.Create(ctx, c); err != nil {
		return err
	}
	res.Created++
	return nil
}

func contactFromRecord(rec []string, cols map[string]int) (*models.Contact, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	c := &models.Contact{
		NameEn:       get("name_en"),
		NameAr:       get("name_ar"),
		Title:        get("title"),
		TitleAr:      get("title_ar"),
		Organization: get("organization"),
		Email:        get("email"),
		Phone:        get("phone"),
		Notes:        get("notes"),
	}
	if v := get("partnership_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid partnership_id %q", ErrInvalidArgument, v)
		}
		c.PartnershipID = &id
	}
	return c, nil
}
