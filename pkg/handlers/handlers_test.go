package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hornossanz/shift-planner/pkg/auth"
	"github.com/hornossanz/shift-planner/pkg/config"
	"github.com/hornossanz/shift-planner/pkg/database"
	"github.com/hornossanz/shift-planner/pkg/logging"
	"github.com/hornossanz/shift-planner/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	h      *Handler
	apiKey string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.InitDB(database.Options{DataPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	logger := logging.New(io.Discard, "error", "json")
	log := logrus.NewEntry(logger)

	require.NoError(t, database.Seed(context.Background(), db, log))
	require.NoError(t, auth.EnsureAdminExists(db, "admin", "admin123", log))

	h, err := New(db, cfg, logger)
	require.NoError(t, err)
	_, key, err := h.Auth.IssueKey(db, "tester", 0)
	require.NoError(t, err)
	return &testServer{router: SetupRouter(h), h: h, apiKey: key}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/admin/login", "", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
}

func TestAPIKeyRequired(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/stores", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/stores", "tester.forged", nil).Code)
	// correctly signed but never issued
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/stores", s.h.Auth.GenerateHMACKey("tester"), nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/admin/holidays", s.apiKey, gin.H{}).Code)
}

func TestStoreShifts(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/stores/1/shifts?date=2026-10-18", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	plan := decode[models.DayPlan](t, w)
	assert.Equal(t, "2026-10-18", plan.Date)
	assert.Equal(t, []models.Shift{
		{Emp: "Natalia", EmployeeID: 2, Time: "07:45 - 14:45", Type: models.ShiftStandard},
		{Emp: "Marianis", EmployeeID: 3, Time: "09:30 - 13:30", Type: models.ShiftReinforcement},
	}, plan.Shifts)
}

func TestStoreShifts_BadInput(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/stores/1/shifts", s.apiKey, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/stores/1/shifts?date=18/10/2026", s.apiKey, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/stores/abc/shifts?date=2026-10-18", s.apiKey, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/stores/99/shifts?date=2026-10-18", s.apiKey, nil).Code)
}

func TestAvAragonWednesdayLoan(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/stores/5/shifts?date=2026-10-14", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	plan := decode[models.DayPlan](t, w)
	require.Len(t, plan.Shifts, 1)
	assert.Equal(t, "Natalia (San Julián)", plan.Shifts[0].Emp)
	assert.Equal(t, uint(2), plan.Shifts[0].EmployeeID)
}

func TestStoreSchedule(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/stores/2/schedule?view=week&date=2026-10-14", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[struct {
		Days []models.DayPlan `json:"days"`
	}](t, w)
	require.Len(t, resp.Days, 7)
	assert.Equal(t, "2026-10-12", resp.Days[0].Date)

	w = s.do(t, http.MethodGet, "/api/stores/2/schedule?view=month&date=2026-02-10", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[struct {
		Days []models.DayPlan `json:"days"`
	}](t, w)
	assert.Len(t, resp.Days, 28)

	w = s.do(t, http.MethodGet, "/api/stores/2/schedule?view=year&date=2026-02-10", s.apiKey, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoreScheduleXLSX(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/stores/6/schedule.xlsx?date=2026-10-14", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "horario-6-2026-10-12.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestFindSubstitutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/substitutes", s.apiKey, gin.H{"store_id": 1, "date": "2026-10-14", "start": "08:00", "end": "14:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[struct {
		Window     string             `json:"window"`
		Candidates []models.Candidate `json:"candidates"`
	}](t, w)
	assert.Equal(t, "08:00 - 14:00", resp.Window)
	require.Len(t, resp.Candidates, 5)
	for i := 1; i < len(resp.Candidates); i++ {
		assert.False(t, resp.Candidates[i].Score.GreaterThan(resp.Candidates[i-1].Score))
	}
	for _, c := range resp.Candidates {
		assert.NotEmpty(t, c.Reasons)
	}
}

func TestFindSubstitutes_BadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body gin.H
		code int
	}{
		{"missing store", gin.H{"date": "2026-10-14", "start": "08:00", "end": "14:00"}, http.StatusBadRequest},
		{"missing window", gin.H{"store_id": 1, "date": "2026-10-14"}, http.StatusBadRequest},
		{"missing end", gin.H{"store_id": 1, "date": "2026-10-14", "start": "08:00"}, http.StatusBadRequest},
		{"bad date", gin.H{"store_id": 1, "date": "mañana", "start": "08:00", "end": "14:00"}, http.StatusBadRequest},
		{"bad clock", gin.H{"store_id": 1, "date": "2026-10-14", "start": "8am", "end": "14:00"}, http.StatusBadRequest},
		{"inverted window", gin.H{"store_id": 1, "date": "2026-10-14", "start": "14:00", "end": "08:00"}, http.StatusBadRequest},
		{"unknown store", gin.H{"store_id": 99, "date": "2026-10-14", "start": "08:00", "end": "14:00"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/substitutes", s.apiKey, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestAssignSubstitute(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	// Natalia (2) is covered by Rosa (5) on an even Sunday
	w := s.do(t, http.MethodPost, "/admin/substitutions", token, gin.H{"original_id": 2, "substitute_id": 5, "date": "2026-10-18"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assigned := decode[struct {
		Records []models.ScheduleRecord `json:"records"`
		Window  string                  `json:"window"`
	}](t, w)
	assert.Len(t, assigned.Records, 2)
	assert.Equal(t, "08:00 - 14:00", assigned.Window)

	w = s.do(t, http.MethodGet, "/api/stores/1/shifts?date=2026-10-18", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	plan := decode[models.DayPlan](t, w)
	assert.Equal(t, []models.Shift{
		{Emp: "Marianis", EmployeeID: 3, Time: "09:30 - 13:30", Type: models.ShiftReinforcement},
		{Emp: "Rosa", EmployeeID: 5, Time: "08:00 - 14:00", Type: models.ShiftReinforcement},
	}, plan.Shifts)

	w = s.do(t, http.MethodPost, "/admin/substitutions", token, gin.H{"original_id": 2, "substitute_id": 2, "date": "2026-10-18"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/admin/substitutions", token, gin.H{"original_id": 2, "substitute_id": 400, "date": "2026-10-18"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordAbsenceAndAvailability(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	w := s.do(t, http.MethodGet, "/api/available?date=2026-10-14", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	before := decode[struct {
		Employees []models.Employee `json:"employees"`
	}](t, w)

	// Carmen works San Julián that Wednesday; once absent the employee is still not free
	w = s.do(t, http.MethodPost, "/admin/absences", token, gin.H{"employee_id": 1, "date": "2026-10-14"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/available?date=2026-10-14", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	after := decode[struct {
		Employees []models.Employee `json:"employees"`
	}](t, w)
	assert.Len(t, after.Employees, len(before.Employees))
	for _, e := range after.Employees {
		assert.NotEqual(t, uint(1), e.ID)
	}

	w = s.do(t, http.MethodPost, "/api/substitutes", s.apiKey, gin.H{"store_id": 1, "date": "2026-10-14", "start": "08:00", "end": "14:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[struct {
		Candidates []models.Candidate `json:"candidates"`
	}](t, w)
	require.NotEmpty(t, resp.Candidates)
	for _, c := range resp.Candidates {
		assert.NotEqual(t, uint(1), c.ID, "an absent employee cannot cover their own gap")
	}
}

func TestHolidays(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/admin/holidays", token, gin.H{"date": "2026-10-14", "name": "Fiesta local"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, "/admin/holidays", token, gin.H{"date": "2026-10-14", "name": "Again"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/admin/holidays", token, gin.H{"date": "14-10-2026", "name": "x"}).Code)

	w = s.do(t, http.MethodGet, "/api/holidays", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Holidays []models.Holiday `json:"holidays"`
	}](t, w)
	require.Len(t, resp.Holidays, 1)
	assert.Equal(t, "Fiesta local", resp.Holidays[0].Name)

	// Av. Aragón on a holiday Wednesday is no longer a loan day
	w = s.do(t, http.MethodGet, "/api/stores/5/shifts?date=2026-10-14", s.apiKey, nil)
	plan := decode[models.DayPlan](t, w)
	require.NotEmpty(t, plan.Shifts)
	assert.Equal(t, models.ShiftHolidayShift, plan.Shifts[0].Type)

	w = s.do(t, http.MethodDelete, "/admin/holidays/"+jsonID(resp.Holidays[0].ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/admin/holidays/"+jsonID(resp.Holidays[0].ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKeysAndUsage(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/admin/keys", token, gin.H{"name": "kiosk"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[struct {
		ID  uint   `json:"id"`
		Key string `json:"key"`
	}](t, w)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stores/1/shifts?date=2026-10-18", created.Key, nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stores/1/shifts?date=2026-10-14", created.Key, nil).Code)

	w = s.do(t, http.MethodGet, "/api/usage", created.Key, nil)
	require.Equal(t, http.StatusOK, w.Code)
	usage := decode[struct {
		Today struct {
			Requests  int `json:"requests"`
			Remaining int `json:"remaining"`
		} `json:"today"`
		Days []struct {
			Requests int `json:"requests"`
			Shifts   int `json:"shifts"`
		} `json:"days"`
		Totals struct {
			Requests int `json:"requests"`
			Shifts   int `json:"shifts"`
		} `json:"totals"`
	}](t, w)
	assert.Equal(t, 2, usage.Totals.Requests)
	assert.Equal(t, 4, usage.Totals.Shifts)
	require.Len(t, usage.Days, 1)
	assert.Equal(t, 4, usage.Days[0].Shifts)
	assert.Equal(t, 2, usage.Today.Requests)
	assert.Equal(t, 9998, usage.Today.Remaining)

	w = s.do(t, http.MethodGet, "/admin/usage/"+jsonID(created.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/admin/keys/"+jsonID(created.ID), token, gin.H{"rate_limit": 50})
	assert.Equal(t, http.StatusOK, w.Code)

	keys := s.listKeys(t, token)
	require.Len(t, keys, 2)
	assert.Equal(t, "tester", keys[0].Name)
	assert.Equal(t, "kiosk", keys[1].Name)
	assert.Equal(t, 50, keys[1].RateLimit)
	assert.Equal(t, "kio...", keys[1].KeyPreview[:6])

	// the daily quota is enforced on planner routes, usage stays readable
	w = s.do(t, http.MethodPut, "/admin/keys/"+jsonID(created.ID), token, gin.H{"rate_limit": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodGet, "/api/stores", created.Key, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/usage", created.Key, nil).Code)

	// a revoked key stops working and its record does not come back
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/admin/keys/"+jsonID(created.ID), token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/stores/1/shifts?date=2026-10-18", created.Key, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/usage", created.Key, nil).Code)
	keys = s.listKeys(t, token)
	require.Len(t, keys, 1)
	assert.Equal(t, "tester", keys[0].Name)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/admin/keys/"+jsonID(created.ID), token, nil).Code)

	// reissuing the same name yields a different key
	w = s.do(t, http.MethodPost, "/admin/keys", token, gin.H{"name": "kiosk"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reissued := decode[struct {
		Key string `json:"key"`
	}](t, w)
	assert.NotEqual(t, created.Key, reissued.Key)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/admin/keys", token, gin.H{"name": "kiosk.2"}).Code)
}

type keyRow struct {
	Name       string `json:"name"`
	KeyPreview string `json:"key_preview"`
	RateLimit  int    `json:"rate_limit"`
}

func (s *testServer) listKeys(t *testing.T, token string) []keyRow {
	t.Helper()
	w := s.do(t, http.MethodGet, "/admin/keys", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return decode[struct {
		Keys []keyRow `json:"keys"`
	}](t, w).Keys
}

func jsonID(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
