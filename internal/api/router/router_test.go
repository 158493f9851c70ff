package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/medreminder/internal/delivery"
	"github.com/wolfman30/medreminder/internal/druginfo"
	"github.com/wolfman30/medreminder/internal/prescriptions"
	"github.com/wolfman30/medreminder/internal/reminders"
	"github.com/wolfman30/medreminder/internal/schedule"
	"github.com/wolfman30/medreminder/internal/views"
	"github.com/wolfman30/medreminder/pkg/logging"
)

type stubLooker struct{}

func (stubLooker) Lookup(_ context.Context, name string) druginfo.Info {
	return druginfo.Info{Name: name, Uses: "Pain", SideEffects: druginfo.NotAvailable, DosageInstructions: druginfo.NotAvailable, Available: true}
}

func newTestRouter(t *testing.T) (http.Handler, *reminders.Store) {
	t.Helper()
	logger := logging.Default()
	store := reminders.NewStore()
	gate := delivery.NewPermissionGate(true)
	triggers := delivery.NewTriggerScheduler(nil, gate, nil, logger)
	t.Cleanup(triggers.Stop)
	dispatcher := delivery.NewDispatcher(triggers, nil, store, logger)
	now := func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local) }

	cfg := &Config{
		Logger:        logger,
		Prescriptions: prescriptions.NewHandler(prescriptions.NewService(store, dispatcher, logger), nil, logger),
		Reminders:     reminders.NewHandler(store, now, logger),
		DrugInfo:      druginfo.NewHandler(stubLooker{}),
		Alerts:        delivery.NewHandler(delivery.NewAlertsHub(logger), gate),
	}
	return New(cfg), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterPrescriptionFlow(t *testing.T) {
	router, store := newTestRouter(t)

	form := schedule.Submission{
		MedicineName: "Aspirin",
		Dosage:       "100mg",
		Frequency:    "twice",
		Duration:     "2",
		StartDate:    "2024-01-01",
		PhoneNumber:  "+15551234567",
	}
	rec := do(t, router, http.MethodPost, "/api/v1/prescriptions", form)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 4, store.Len())

	for _, r := range store.Snapshot() {
		assert.Equal(t, schedule.DeliverySkipped, r.Delivery, "no messenger configured")
	}

	rec = do(t, router, http.MethodPost, "/api/v1/reminders/Aspirin-2024-01-01-09-00/taken", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/medicines", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var meds []views.MedicineSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meds))
	require.Len(t, meds, 1)
	assert.Equal(t, 25.0, meds[0].Progress)
	assert.Equal(t, 3, meds[0].Remaining)
	assert.Equal(t, "9:00 PM", meds[0].NextDose)

	rec = do(t, router, http.MethodGet, "/api/v1/reminders/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today []schedule.Reminder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &today))
	assert.Len(t, today, 2)
}

func TestRouterRejectsInvalidPrescription(t *testing.T) {
	router, store := newTestRouter(t)
	rec := do(t, router, http.MethodPost, "/api/v1/prescriptions", schedule.Submission{MedicineName: "A"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, store.Len())
}

func TestRouterDrugInfoAndPermission(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/medicines/Aspirin/info", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var info druginfo.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "Pain", info.Uses)

	rec = do(t, router, http.MethodPost, "/api/v1/alerts/permission", map[string]bool{"granted": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"granted":true}`, rec.Body.String())
}

func TestRouterMetricsOptional(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
