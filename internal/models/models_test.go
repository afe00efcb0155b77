package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizedResolve(t *testing.T) {
	l := Localized{En: "Annual summit", Ar: "القمة السنوية"}
	assert.Equal(t, "القمة السنوية", l.Resolve("ar"))
	assert.Equal(t, "القمة السنوية", l.Resolve("ar-AE"))
	assert.Equal(t, "Annual summit", l.Resolve("en"))
	assert.Equal(t, "Annual summit", l.Resolve(""))

	noAr := Localized{En: "Budget", Ar: "  "}
	assert.Equal(t, "Budget", noAr.Resolve("ar"))
}

func TestDateJSON(t *testing.T) {
	var v struct {
		Due *Date `json:"dueDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2024-03-04"}`), &v))
	require.NotNil(t, v.Due)
	assert.Equal(t, "2024-03-04", v.Due.String())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dueDate":"2024-03-04"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":null}`), &v))
	assert.Nil(t, v.Due)

	assert.Error(t, json.Unmarshal([]byte(`{"dueDate":"04/03/2024"}`), &v))
}

func TestDateOfKeepsLocalCalendarDay(t *testing.T) {
	dubai := time.FixedZone("GST", 4*3600)
	late := time.Date(2024, 6, 14, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-15", DateOf(late.In(dubai)).String())
	assert.Equal(t, "2024-06-14", DateOf(late).String())
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-01", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-10T00:00:00Z")))
	assert.Equal(t, "2024-03-10", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}

func TestDateWithin(t *testing.T) {
	mon, sun := NewDate(2024, 3, 4), NewDate(2024, 3, 10)
	assert.True(t, mon.Within(mon, sun))
	assert.True(t, sun.Within(mon, sun))
	assert.False(t, sun.AddDays(1).Within(mon, sun))
	assert.Equal(t, time.Monday, mon.Weekday())
}

func TestTaskStatusIsOpen(t *testing.T) {
	for _, s := range []TaskStatus{TaskPending, TaskInProgress, TaskWaiting} {
		assert.True(t, s.IsOpen(), s)
	}
	for _, s := range []TaskStatus{TaskCompleted, TaskCancelled} {
		assert.False(t, s.IsOpen(), s)
	}
	assert.False(t, TaskStatus("archived").Valid())
}
