package api

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"garden-care-backend/config"
	"garden-care-backend/internal/catalog"
	"garden-care-backend/internal/environment"
	"garden-care-backend/internal/growth"
	"garden-care-backend/internal/model"
	"garden-care-backend/internal/reminder"
	"garden-care-backend/internal/scheduler"
	"garden-care-backend/internal/store"
	"garden-care-backend/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	tomato int64
	now    time.Time
}

func setupRouter(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	cfg := config.Default()
	// Generous limits so tests never hit 429.
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000

	gormDB := testutil.NewDB(t)
	st := store.NewGormStore(gormDB)
	cat := catalog.New(st, time.Minute, zerolog.Nop())
	_, err := cat.Seed(ctx)
	require.NoError(t, err)
	crops, err := cat.Crops(ctx)
	require.NoError(t, err)

	now := time.Date(2024, 6, 15, 13, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	tracker := growth.NewTracker(st, cat, zerolog.Nop(), growth.WithClock(clock))
	gen := reminder.NewGenerator(st, cat, tracker, cfg.Reminder, zerolog.Nop(), reminder.WithClock(clock))
	sim := environment.NewSimulator(rand.NewPCG(1, 2), cfg.Simulation)
	monitor := environment.NewMonitor(st, cat, sim, zerolog.Nop(), environment.WithClock(clock))

	sched := scheduler.New(cfg.Scheduler.PollInterval, zerolog.Nop(), scheduler.WithClock(clock))
	require.NoError(t, sched.RegisterDefaults(cfg.Scheduler, scheduler.Services{
		Growth: tracker, Reminders: gen, Environment: monitor, Store: st,
	}))

	h := NewHandler(cat, gen, monitor, sched, zerolog.Nop())
	return &testServer{
		router: NewRouter(h, cfg.Server, zerolog.Nop()),
		db:     gormDB,
		tomato: crops[0].ID,
		now:    now,
	}
}

func (s *testServer) do(method, path, user, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) plantTomato(t *testing.T, gardenID, userID int64) *model.PlantingRecord {
	t.Helper()
	planted := s.now.AddDate(0, 0, -10)
	p := &model.PlantingRecord{
		GardenID: gardenID, CropID: s.tomato, UserID: userID, PlantingDate: &planted,
		CurrentStage: model.StageSeed, CurrentStageDay: 1, Status: model.PlantingGrowing,
	}
	require.NoError(t, s.db.Create(p).Error)
	return p
}

func TestGetCrops(t *testing.T) {
	s := setupRouter(t)

	w := s.do(http.MethodGet, "/api/crops", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Crops []model.Crop `json:"crops"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Crops, len(catalog.Builtin()))
	assert.Equal(t, "Tomato", resp.Crops[0].Name)
	assert.NotEmpty(t, resp.Crops[0].Stages)

	w = s.do(http.MethodGet, "/api/crops", "", "")
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
}

func TestGetCropStage(t *testing.T) {
	s := setupRouter(t)
	base := "/api/crops/" + itoa(s.tomato) + "/stages/"

	w := s.do(http.MethodGet, base+"Seedling", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rule model.GrowthStageRule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rule))
	assert.Equal(t, model.StageSeedling, rule.Stage)
	assert.Positive(t, rule.StageDays)

	testCases := []struct {
		name         string
		path         string
		expectedCode int
	}{
		{name: "Stage the crop lacks", path: base + "harvest", expectedCode: http.StatusNotFound},
		{name: "Unknown stage", path: base + "dormant", expectedCode: http.StatusBadRequest},
		{name: "Unknown crop", path: "/api/crops/99999/stages/seed", expectedCode: http.StatusNotFound},
		{name: "Bad crop id", path: "/api/crops/x/stages/seed", expectedCode: http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(http.MethodGet, tc.path, "", "")
			assert.Equal(t, tc.expectedCode, w.Code)
		})
	}
}

func TestUserScopedRoutesRequireUser(t *testing.T) {
	s := setupRouter(t)

	testCases := []struct {
		method string
		path   string
		user   string
	}{
		{method: http.MethodGet, path: "/api/reminders"},
		{method: http.MethodPost, path: "/api/reminders/generate", user: "abc"},
		{method: http.MethodGet, path: "/api/reminders/statistics", user: "-1"},
		{method: http.MethodPost, path: "/api/reminders/1/complete"},
	}
	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := s.do(tc.method, tc.path, tc.user, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestReminderLifecycle(t *testing.T) {
	s := setupRouter(t)
	p := s.plantTomato(t, 1, 1)

	// Seed stage only waters daily.
	w := s.do(http.MethodPost, "/api/plantings/"+itoa(p.ID)+"/growth-stage", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"planting_record_id":`+itoa(p.ID)+`,"updated":true}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/reminders/generate", "1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var generated struct {
		Count     int              `json:"count"`
		Reminders []model.Reminder `json:"reminders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generated))
	// Ten days in, the tomato is a seedling with four tasks.
	assert.Equal(t, 4, generated.Count)

	w = s.do(http.MethodGet, "/api/reminders?status=pending&limit=2", "1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Reminders []model.Reminder `json:"reminders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Reminders, 2)
	first := listed.Reminders[0]
	assert.Equal(t, model.ReminderWatering, first.ReminderType)

	w = s.do(http.MethodPost, "/api/reminders/"+itoa(first.ID)+"/complete", "2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/reminders/"+itoa(first.ID)+"/complete", "1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/reminders/"+itoa(first.ID), "1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched model.Reminder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, model.ReminderCompleted, fetched.Status)
	assert.NotNil(t, fetched.CompletedAt)

	w = s.do(http.MethodGet, "/api/reminders/"+itoa(first.ID), "2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/reminders/statistics", "1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats store.ReminderStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)

	w = s.do(http.MethodGet, "/api/reminders?limit=500", "1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodGet, "/api/reminders?type=nap", "1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReminder(t *testing.T) {
	s := setupRouter(t)

	w := s.do(http.MethodPost, "/api/reminders", "1", `{"title":"Buy mulch","priority":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var r model.Reminder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	assert.Equal(t, model.SourceManual, r.Source)
	assert.Equal(t, model.ReminderCustom, r.ReminderType)

	w = s.do(http.MethodPost, "/api/reminders", "1", `{"description":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/reminders", "1", `{"title":"x","priority":9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnvironmentRoutes(t *testing.T) {
	s := setupRouter(t)
	s.plantTomato(t, 3, 1)

	w := s.do(http.MethodGet, "/api/gardens/3/environment?auto_simulate=false", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status environment.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Empty(t, status.Sensors)
	assert.Nil(t, status.LastUpdate)

	w = s.do(http.MethodGet, "/api/gardens/3/environment", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Len(t, status.Sensors, len(model.Metrics))

	w = s.do(http.MethodPost, "/api/gardens/3/environment/weather-event?event_type=drought&duration_hours=3", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var event environment.WeatherEventResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
	assert.Equal(t, model.WeatherDrought, event.Event)
	assert.NotEmpty(t, event.Affected)

	w = s.do(http.MethodPost, "/api/gardens/3/environment/weather-event?event_type=tornado", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/gardens/3/environment/backfill?days=1&interval_minutes=60", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary environment.HistorySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 25*len(model.Metrics), summary.TotalReadings)

	w = s.do(http.MethodPost, "/api/gardens/3/environment/backfill?days=31", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/gardens/3/environment/history?hours=6&metric=temperature", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Readings map[model.Metric][]model.Reading `json:"readings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history.Readings, 1)
	assert.NotEmpty(t, history.Readings[model.MetricTemperature])

	w = s.do(http.MethodPost, "/api/gardens/3/environment/simulate?realistic=false", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/gardens/x/environment", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordReading(t *testing.T) {
	s := setupRouter(t)
	s.plantTomato(t, 4, 1)

	w := s.do(http.MethodPost, "/api/gardens/4/environment/simulate", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var sensor model.Sensor
	require.NoError(t, s.db.Where("garden_id = ? AND sensor_type = ?", 4, model.MetricSoilMoisture).First(&sensor).Error)

	w = s.do(http.MethodPost, "/api/sensors/"+itoa(sensor.ID)+"/readings", "", `{"value":12.5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var reading model.Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reading))
	assert.True(t, reading.IsAbnormal)
	assert.Equal(t, "%", reading.Unit)

	w = s.do(http.MethodPost, "/api/sensors/99999/readings", "", `{"value":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/sensors/"+itoa(sensor.ID)+"/readings", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunJob(t *testing.T) {
	s := setupRouter(t)

	w := s.do(http.MethodPost, "/api/jobs/daily_summary/run", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/jobs/nope/run", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunJob_OutlivesClientDisconnect(t *testing.T) {
	s := setupRouter(t)
	s.plantTomato(t, 5, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/reminders/run", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, s.db.Model(&model.Reminder{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(len(model.TaskTypes)), count)
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupRouter(t)
	s.do(http.MethodGet, "/api/crops", "", "")

	w := s.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "garden_http_request_latency_seconds")
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
