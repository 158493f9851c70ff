package reminders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/medreminder/internal/schedule"
	"github.com/wolfman30/medreminder/internal/views"
)

var handlerNow = time.Date(2024, 1, 2, 10, 0, 0, 0, time.Local) // a Tuesday

func newTestRouter(t *testing.T) (*chi.Mux, *Store) {
	t.Helper()
	s := NewStore()
	s.Append(batch(t, "Aspirin", schedule.FrequencyTwice, "2024-01-01", 3))
	r := chi.NewRouter()
	NewHandler(s, func() time.Time { return handlerNow }, nil).RegisterRoutes(r)
	return r, s
}

func get(t *testing.T, r http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestHandlerProjections(t *testing.T) {
	r, _ := newTestRouter(t)

	var all []schedule.Reminder
	get(t, r, "/reminders", &all)
	assert.Len(t, all, 6)

	var today []schedule.Reminder
	get(t, r, "/reminders/today", &today)
	require.Len(t, today, 2)
	assert.Equal(t, "2024-01-02", today[0].Date)

	var upcoming []schedule.Reminder
	get(t, r, "/reminders/upcoming", &upcoming)
	assert.Len(t, upcoming, 4)

	var week views.WeekView
	get(t, r, "/reminders/week", &week)
	assert.Equal(t, "2023-12-31", week.Start)
	assert.True(t, week.Days[2].IsToday)
	assert.Len(t, week.Days[1].Reminders, 2)

	var next views.WeekView
	get(t, r, "/reminders/week?offset=1", &next)
	assert.Equal(t, "2024-01-07", next.Start)

	rec := get(t, r, "/reminders/week?offset=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerMarkTaken(t *testing.T) {
	r, s := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reminders/Aspirin-2024-01-01-09-00/taken", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	got, ok := s.Get("Aspirin-2024-01-01-09-00")
	require.True(t, ok)
	assert.True(t, got.Taken)

	before := s.Snapshot()
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reminders/nope/taken", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, before, s.Snapshot())

	var meds []views.MedicineSummary
	get(t, r, "/medicines", &meds)
	require.Len(t, meds, 1)
	assert.Equal(t, 1, meds[0].Taken)
	assert.Equal(t, 5, meds[0].Remaining)
	assert.Equal(t, "9:00 PM", meds[0].NextDose)
}

func TestHandlerCalendar(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := get(t, r, "/reminders.ics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))
	assert.Equal(t, 6, strings.Count(rec.Body.String(), "BEGIN:VEVENT"))
}
