package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"eventhub/internal/models"
)

// feedRecord is one row of a scraped venue listing, as JSON or CSV.
type feedRecord struct {
	Title       string `json:"title"`
	TitleAr     string `json:"title_ar"`
	URL         string `json:"url"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Location    string `json:"location"`
	Organizer   string `json:"organizer"`
	Sector      string `json:"sector"`
	Description string `json:"description"`
}

var feedDateLayouts = []string{
	models.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

var feedDayMonthLayouts = []string{
	"2 January",
	"2 Jan",
	"January 2",
	"Jan 2",
}

// ImportFeed upserts events from a listing export by url. The body is a JSON
// array of records or a CSV file with a header line. Dates without a year take
// defaultYear, or the current year when it is zero.
// JSON rows are numbered from 1; CSV rows count the header line.
func (s *EventService) ImportFeed(ctx context.Context, r io.Reader, defaultYear int) (*models.EventImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\ufeff")))
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty feed", ErrInvalidArgument)
	}
	if defaultYear == 0 {
		defaultYear = s.now().Year()
	}

	res := &models.EventImportResult{Errors: []models.ImportRowError{}}
	handle := func(row int, rec feedRecord) {
		e, err := eventFromFeed(rec, defaultYear)
		if err == nil {
			err = s.upsertFromFeed(ctx, e, res)
		}
		if err != nil {
			res.Errors = append(res.Errors, models.ImportRowError{Row: row, Error: err.Error()})
		}
	}

	if data[0] == '[' {
		err = readJSONFeed(data, res, handle)
	} else {
		err = readCSVFeed(data, res, handle)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[event][import][ok] created=%d updated=%d errors=%d", res.Created, res.Updated, len(res.Errors))
	return res, nil
}

func readJSONFeed(data []byte, res *models.EventImportResult, handle func(int, feedRecord)) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: invalid json feed: %v", ErrInvalidArgument, err)
	}
	for i, msg := range raw {
		var rec feedRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			res.Errors = append(res.Errors, models.ImportRowError{Row: i + 1, Error: err.Error()})
			continue
		}
		handle(i+1, rec)
	}
	return nil
}

func readCSVFeed(data []byte, res *models.EventImportResult, handle func(int, feedRecord)) error {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("%w: read header: %v", ErrInvalidArgument, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["title"]; !ok {
		return fmt.Errorf("%w: missing title column", ErrInvalidArgument)
	}
	get := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	row := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		row++
		if err != nil {
			res.Errors = append(res.Errors, models.ImportRowError{Row: row, Error: err.Error()})
			continue
		}
		handle(row, feedRecord{
			Title:       get(rec, "title"),
			TitleAr:     get(rec, "title_ar"),
			URL:         get(rec, "url"),
			StartDate:   get(rec, "start_date"),
			EndDate:     get(rec, "end_date"),
			Location:    get(rec, "location"),
			Organizer:   get(rec, "organizer"),
			Sector:      get(rec, "sector"),
			Description: get(rec, "description"),
		})
	}
}

func eventFromFeed(rec feedRecord, defaultYear int) (*models.Event, error) {
	start, end, err := parseFeedDates(rec.StartDate, rec.EndDate, defaultYear)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return &models.Event{
		Name:        strings.TrimSpace(rec.Title),
		NameAr:      strings.TrimSpace(rec.TitleAr),
		StartDate:   start,
		EndDate:     end,
		Location:    strings.TrimSpace(rec.Location),
		Category:    strings.TrimSpace(rec.Sector),
		Organizer:   strings.TrimSpace(rec.Organizer),
		URL:         strings.TrimSpace(rec.URL),
		Description: strings.TrimSpace(rec.Description),
	}, nil
}

// upsertFromFeed keeps the stored id and fills only the fields the feed row carries.
func (s *EventService) upsertFromFeed(ctx context.Context, e *models.Event, res *models.EventImportResult) error {
	if e.URL != "" {
		existing, err := s.Repo.GetByURL(ctx, e.URL)
		if err != nil {
			return err
		}
		if existing != nil {
			mergeFeedEvent(existing, e)
			if err := s.Update(ctx, existing); err != nil {
				return err
			}
			res.Updated++
			return nil
		}
	}
	if err := s.Create(ctx, e); err != nil {
		return err
	}
	res.Created++
	return nil
}

func mergeFeedEvent(dst, src *models.Event) {
	set := func(d *string, v string) {
		if v != "" {
			*d = v
		}
	}
	set(&dst.Name, src.Name)
	set(&dst.NameAr, src.NameAr)
	set(&dst.Location, src.Location)
	set(&dst.Category, src.Category)
	set(&dst.Organizer, src.Organizer)
	set(&dst.Description, src.Description)
	dst.StartDate = src.StartDate
	dst.EndDate = src.EndDate
}

type feedDate struct {
	t       time.Time
	hasYear bool
}

// parseFeedDates accepts a single date or a range such as "15 March – 20 March"
// in start. A missing year is taken from the other end of the range, then
// from defaultYear. A range whose end falls before its start rolls the end
// into the next year.
func parseFeedDates(startRaw, endRaw string, defaultYear int) (models.Date, models.Date, error) {
	startRaw, endRaw = strings.TrimSpace(startRaw), strings.TrimSpace(endRaw)
	if startRaw == "" {
		return models.Date{}, models.Date{}, errors.New("start_date is required")
	}
	if a, b, ok := splitDateRange(startRaw); ok {
		startRaw = a
		if endRaw == "" {
			endRaw = b
		}
	}

	start, err := parseFeedDate(startRaw)
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	end := start
	if endRaw != "" {
		if end, err = parseFeedDate(endRaw); err != nil {
			return models.Date{}, models.Date{}, err
		}
	}

	switch {
	case start.hasYear && end.hasYear:
	case end.hasYear:
		start.t = withYear(start.t, end.t.Year())
		if start.t.After(end.t) {
			start.t = withYear(start.t, end.t.Year()-1)
		}
	case start.hasYear:
		end.t = withYear(end.t, start.t.Year())
		if end.t.Before(start.t) {
			end.t = withYear(end.t, start.t.Year()+1)
		}
	default:
		start.t = withYear(start.t, defaultYear)
		end.t = withYear(end.t, defaultYear)
		if end.t.Before(start.t) {
			end.t = withYear(end.t, defaultYear+1)
		}
	}
	return models.DateOf(start.t), models.DateOf(end.t), nil
}

func splitDateRange(v string) (string, string, bool) {
	for _, sep := range []string{"\u2013", "\u2014", " - ", " to "} {
		if a, b, ok := strings.Cut(v, sep); ok {
			return strings.TrimSpace(a), strings.TrimSpace(b), true
		}
	}
	return v, "", false
}

func parseFeedDate(v string) (feedDate, error) {
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return feedDate{t: withYear(t, t.Year()), hasYear: true}, nil
		}
	}
	for _, layout := range feedDayMonthLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return feedDate{t: t}, nil
		}
	}
	return feedDate{}, fmt.Errorf("unrecognised date %q", v)
}

// withYear drops the clock and moves t to year. 29 February in a non-leap
// year becomes 1 March.
func withYear(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
