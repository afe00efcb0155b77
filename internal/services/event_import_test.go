package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/models"
	"eventhub/internal/repositories"
)

func (m *memEvents) GetByURL(_ context.Context, url string) (*models.Event, error) {
	for _, e := range m.items {
		if e.URL == url {
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memEvents) Create(_ context.Context, e *models.Event) error {
	m.items[e.ID] = *e
	return nil
}

func (m *memEvents) Update(_ context.Context, e *models.Event) error {
	if _, ok := m.items[e.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.items[e.ID] = *e
	return nil
}

func newTestEventService(events ...models.Event) (*EventService, *memEvents) {
	repo := &memEvents{items: map[string]models.Event{}}
	for _, e := range events {
		repo.items[e.ID] = e
	}
	s := NewEventService(repo)
	s.now = fixedClock(evalNow)
	return s, repo
}

func eventByURL(t *testing.T, repo *memEvents, url string) models.Event {
	t.Helper()
	e, err := repo.GetByURL(context.Background(), url)
	require.NoError(t, err)
	require.NotNil(t, e, url)
	return *e
}

func TestEventService_ImportFeedJSON(t *testing.T) {
	existing := models.Event{
		ID:        "3f1b3c1e-1111-4a2b-9c3d-000000000001",
		Name:      "IDEX",
		NameAr:    "آيدكس",
		StartDate: models.NewDate(2025, 2, 17),
		EndDate:   models.NewDate(2025, 2, 21),
		URL:       "https://www.adnec.ae/en/eventlisting/idex",
		CreatedAt: evalNow.AddDate(0, -3, 0),
	}
	s, repo := newTestEventService(existing)

	input := `[
	  {"title": "IDEX 2025", "title_ar": "", "url": "https://www.adnec.ae/en/eventlisting/idex",
	   "start_date": "17 February 2025", "end_date": "21 February 2025",
	   "location": "ADNEC Centre Abu Dhabi", "organizer": "ADNEC Group", "description": null},
	  {"title": "Abu Dhabi Art", "url": "https://www.adnec.ae/en/eventlisting/ada",
	   "start_date": "2025-11-19T00:00:00", "end_date": "", "location": "Manarat Al Saadiyat"},
	  {"title": "Broken dates", "url": "https://example.com/broken", "start_date": "sometime soon"},
	  {"title": 42},
	  {"title": "", "start_date": "2025-01-01"}
	]`

	res, err := s.ImportFeed(context.Background(), strings.NewReader(input), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Error, "sometime soon")
	assert.Equal(t, 4, res.Errors[1].Row)
	assert.Equal(t, 5, res.Errors[2].Row)

	idex := eventByURL(t, repo, existing.URL)
	assert.Equal(t, existing.ID, idex.ID)
	assert.Equal(t, existing.CreatedAt, idex.CreatedAt)
	assert.Equal(t, "IDEX 2025", idex.Name)
	assert.Equal(t, "آيدكس", idex.NameAr, "empty feed fields keep stored values")
	assert.Equal(t, "ADNEC Group", idex.Organizer)
	assert.Equal(t, evalNow, idex.UpdatedAt)

	art := eventByURL(t, repo, "https://www.adnec.ae/en/eventlisting/ada")
	assert.NotEmpty(t, art.ID)
	assert.Equal(t, "2025-11-19", art.StartDate.String())
	assert.Equal(t, "2025-11-19", art.EndDate.String())
	assert.Len(t, repo.items, 2)
}

func TestEventService_ImportFeedCSV(t *testing.T) {
	s, repo := newTestEventService()

	input := "\ufefftitle,url,start_date,end_date,location,organizer,sector,description\n" +
		"Gourmet Abu Dhabi,https://visitabudhabi.ae/gourmet,15 March \u2013 20 March,,Various,DCT,Food,Festival\n" +
		"New Year Gala,https://visitabudhabi.ae/gala,30 December \u2013 2 January,,Yas,,Culture,\n" +
		"Backwards,https://visitabudhabi.ae/back,2025-05-10,2025-05-01,,,,\n" +
		"Pop-up market,,12 Apr,,Corniche,,,\n"

	res, err := s.ImportFeed(context.Background(), strings.NewReader(input), 2025)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 0, res.Updated)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 4, res.Errors[0].Row)

	gourmet := eventByURL(t, repo, "https://visitabudhabi.ae/gourmet")
	assert.Equal(t, "2025-03-15", gourmet.StartDate.String())
	assert.Equal(t, "2025-03-20", gourmet.EndDate.String())
	assert.Equal(t, "Food", gourmet.Category)
	assert.Equal(t, "DCT", gourmet.Organizer)

	gala := eventByURL(t, repo, "https://visitabudhabi.ae/gala")
	assert.Equal(t, "2025-12-30", gala.StartDate.String())
	assert.Equal(t, "2026-01-02", gala.EndDate.String())

	// the same file again updates rather than duplicates; rows without a url are always new
	res, err = s.ImportFeed(context.Background(), strings.NewReader(input), 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 2, res.Updated)
	assert.Len(t, repo.items, 4)
}

func TestEventService_ImportFeedRejectsBadInput(t *testing.T) {
	s, _ := newTestEventService()

	_, err := s.ImportFeed(context.Background(), strings.NewReader("  \n"), 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.ImportFeed(context.Background(), strings.NewReader(`[{"title": "x"`), 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.ImportFeed(context.Background(), strings.NewReader("name,url\nx,y\n"), 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseFeedDates(t *testing.T) {
	cases := []struct {
		start, end string
		year       int
		want       [2]string
	}{
		{"2025-03-15", "", 0, [2]string{"2025-03-15", "2025-03-15"}},
		{"15 March 2025", "20 March 2025", 0, [2]string{"2025-03-15", "2025-03-20"}},
		{"2025-03-15T09:30:00+04:00", "", 0, [2]string{"2025-03-15", "2025-03-15"}},
		{"March 15, 2025", "", 0, [2]string{"2025-03-15", "2025-03-15"}},
		{"15 Mar", "20 Mar 2026", 2025, [2]string{"2026-03-15", "2026-03-20"}},
		{"28 December", "3 January 2026", 2024, [2]string{"2025-12-28", "2026-01-03"}},
		{"15 March 2025 - 17 March 2025", "", 0, [2]string{"2025-03-15", "2025-03-17"}},
		{"1 May", "", 2024, [2]string{"2024-05-01", "2024-05-01"}},
	}
	for _, tc := range cases {
		start, end, err := parseFeedDates(tc.start, tc.end, tc.year)
		require.NoError(t, err, tc.start)
		assert.Equal(t, tc.want, [2]string{start.String(), end.String()}, tc.start)
	}

	_, _, err := parseFeedDates("", "2025-01-01", 2025)
	assert.Error(t, err)
	_, _, err = parseFeedDates("TBA", "", 2025)
	assert.Error(t, err)
}
