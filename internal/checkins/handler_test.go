package checkins_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness-backend/internal/bootstrap"
	"wellness-backend/internal/shared/config"
)

func newTestRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg.Port = "0"
	cfg.Env = "dev"
	cfg.CORSAllowOrigin = []string{"http://localhost:5173"}
	app, err := bootstrap.Build(cfg)
	require.NoError(t, err)
	return app.Router
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func TestSubmitAndFetchCheckin(t *testing.T) {
	router := newTestRouter(t, config.Config{})

	resp := doJSON(t, router, http.MethodPost, "/api/v1/checkins", `{
		"date": "2026-01-05",
		"answers": {"mood": 3, "sleepQuality": 1, "stress": 5, "energy": 2,
			"sleepHours": 5.5, "sleepHoursTouched": true,
			"contextTags": ["injury", "travel", "late_meal", "alcohol"], "userNote": "  sore knee  "}
	}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created struct {
		ID      string `json:"id"`
		Checkin struct {
			Date        string   `json:"date"`
			ContextTags []string `json:"context_tags"`
			UserNote    string   `json:"user_note"`
		} `json:"checkin"`
		Modifiers json.RawMessage `json:"modifiers"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2026-01-05", created.Checkin.Date)
	assert.Equal(t, []string{"injury", "travel", "late_meal"}, created.Checkin.ContextTags)
	assert.Equal(t, "sore knee", created.Checkin.UserNote)
	assert.JSONEq(t, `{
		"intensity_modifier": -1,
		"focus": "recovery",
		"time_budget_modifier_minutes": -10,
		"exercise_constraint": "avoid_impact",
		"add_micro_actions": ["breathwork_5min"],
		"reasoning_short": "Leaning into recovery and smaller wins today."
	}`, string(created.Modifiers))

	resp = doJSON(t, router, http.MethodGet, "/api/v1/checkins/2026-01-05", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), created.ID)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/checkins/2026-01-06", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/checkins/not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSubmitWithoutDateUsesToday(t *testing.T) {
	router := newTestRouter(t, config.Config{})

	resp := doJSON(t, router, http.MethodPost, "/api/v1/checkins", `{"answers": {"mood": 4}}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created struct {
		Checkin struct {
			Date string `json:"date"`
		} `json:"checkin"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, time.Now().Format("2006-01-02"), created.Checkin.Date)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/checkins/streak", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"days": 1, "checkedInToday": true, "lastCheckinDate": "`+created.Checkin.Date+`"}`, resp.Body.String())
}

func TestListCheckins(t *testing.T) {
	router := newTestRouter(t, config.Config{})

	for _, day := range []string{"2026-01-01", "2026-01-03", "2026-01-02"} {
		resp := doJSON(t, router, http.MethodPost, "/api/v1/checkins", `{"date": "`+day+`", "answers": {}}`)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}

	resp := doJSON(t, router, http.MethodGet, "/api/v1/checkins?limit=2", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var listed struct {
		Checkins []struct {
			Checkin struct {
				Date string `json:"date"`
			} `json:"checkin"`
		} `json:"checkins"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listed))
	require.Len(t, listed.Checkins, 2)
	assert.Equal(t, "2026-01-03", listed.Checkins[0].Checkin.Date)
	assert.Equal(t, "2026-01-02", listed.Checkins[1].Checkin.Date)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/checkins?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPreviewCheckinDoesNotStore(t *testing.T) {
	router := newTestRouter(t, config.Config{})

	resp := doJSON(t, router, http.MethodPost, "/api/v1/checkins/preview", `{
		"date": "2026-01-05",
		"answers": {"stress": 4, "contextTags": "injury", "sleepHours": 9}
	}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{
		"checkin": {
			"date": "2026-01-05",
			"mood_score": null,
			"sleep_quality_score": null,
			"stress_level": 4,
			"energy_level": null,
			"sleep_hours": null,
			"context_tags": ["injury"],
			"user_note": null
		},
		"modifiers": {
			"intensity_modifier": -1,
			"focus": "stress_support",
			"time_budget_modifier_minutes": null,
			"exercise_constraint": "avoid_impact",
			"add_micro_actions": ["breathwork_5min"],
			"reasoning_short": "Pacing today with extra calm and support."
		}
	}`, resp.Body.String())

	resp = doJSON(t, router, http.MethodGet, "/api/v1/checkins", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"checkins": []}`, resp.Body.String())
}

func TestSubmitRejectsOutOfRangeScores(t *testing.T) {
	router := newTestRouter(t, config.Config{})

	resp := doJSON(t, router, http.MethodPost, "/api/v1/checkins", `{"answers": {"mood": 9}}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSubmitIsRateLimited(t *testing.T) {
	router := newTestRouter(t, config.Config{CheckinRatePerMin: 1, CheckinRateBurst: 2})

	for i := 0; i < 2; i++ {
		resp := doJSON(t, router, http.MethodPost, "/api/v1/checkins", `{"date": "2026-01-01", "answers": {}}`)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}
	resp := doJSON(t, router, http.MethodPost, "/api/v1/checkins", `{"date": "2026-01-01", "answers": {}}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))

	// Reads stay available.
	resp = doJSON(t, router, http.MethodGet, "/api/v1/checkins", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}
