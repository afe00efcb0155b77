package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/models"
)

var partnershipCols = []string{
	"id", "name", "name_ar", "status", "partnership_type", "start_date", "end_date",
	"last_activity_date", "inactivity_threshold_months", "notify_on_inactivity",
	"last_inactivity_notification_sent", "created_at", "updated_at",
}

func TestPartnershipRepository_GetByID_NullableFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM partnerships WHERE id=$1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(partnershipCols).
			AddRow(4, "Louvre Abu Dhabi", "", "active", "cultural", nil, nil, nil, 6, true, nil, now, now))

	p, err := NewPartnershipRepository(db).GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Nil(t, p.LastActivityDate)
	assert.Nil(t, p.LastInactivityNotificationSent)
	assert.Nil(t, p.StartDate)
	assert.Equal(t, 6, p.InactivityThresholdMonths)
	assert.True(t, p.NotifyOnInactivity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnershipRepository_AddActivity_Commits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO partnership_activities")).
		WithArgs(int64(4), "meeting", "Quarterly review", "", at, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, at))
	mock.ExpectExec(regexp.QuoteMeta("SET last_activity_date = GREATEST(")).
		WithArgs(at, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a := &models.PartnershipActivity{PartnershipID: 4, ActivityType: "meeting", Title: "Quarterly review", OccurredAt: at}
	require.NoError(t, NewPartnershipRepository(db).AddActivity(context.Background(), a))
	assert.Equal(t, int64(11), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnershipRepository_AddActivity_RollsBackOnMissingPartnership(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO partnership_activities")).
		WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	a := &models.PartnershipActivity{PartnershipID: 99, ActivityType: "call", Title: "x", OccurredAt: at}
	err = NewPartnershipRepository(db).AddActivity(context.Background(), a)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnershipRepository_MarkInactivityNotified(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("SET last_inactivity_notification_sent=$1")).
		WithArgs(at, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPartnershipRepository(db).MarkInactivityNotified(context.Background(), 4, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}
