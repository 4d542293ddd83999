package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-health/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-health/internal/config"
	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

// Wednesday.
var fixedNow = time.Date(2025, 12, 10, 15, 0, 0, 0, time.UTC)

type testApp struct {
	router *gin.Engine
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repository.NewInMemoryUserRepository()
	water := repository.NewInMemoryRecordRepository[domain.WaterRecord, *domain.WaterRecord]()
	sleep := repository.NewInMemoryRecordRepository[domain.SleepRecord, *domain.SleepRecord]()
	activity := repository.NewInMemoryRecordRepository[domain.ActivityRecord, *domain.ActivityRecord]()
	items := repository.NewInMemoryRecordRepository[domain.CustomItem, *domain.CustomItem]()
	categories := repository.NewInMemoryCategoryRepository()

	tokens := services.NewTokenService("test-secret", "kanso-test", time.Hour, users)
	categorySvc := services.NewCategoryService(categories, items)
	summary := services.NewSummaryService(services.SummaryConfig{
		Users:      users,
		Water:      water,
		Sleep:      sleep,
		Activity:   activity,
		Categories: categorySvc,
		Location:   time.UTC,
		Clock:      func() time.Time { return fixedNow },
	})

	router := NewRouter(RouterDependencies{
		AuthHandler:     NewAuthHandler(services.NewAuthService(users), tokens),
		UserHandler:     NewUserHandler(services.NewUserService(users)),
		WaterHandler:    NewWaterHandler(services.NewRecordService[*domain.WaterRecord](water, nil), summary),
		SleepHandler:    NewSleepHandler(services.NewRecordService[*domain.SleepRecord](sleep, nil), summary),
		ActivityHandler: NewActivityHandler(services.NewRecordService[*domain.ActivityRecord](activity, nil), summary),
		CategoryHandler: NewCategoryHandler(categorySvc, summary),
		StatsHandler:    NewStatsHandler(summary),
		TokenService:    tokens,
		Logger:          zerolog.Nop(),
		CORSOrigins:     []string{"*"},
		RateLimit:       config.RateLimitConfig{Requests: 100, Window: time.Minute},
		StartTime:       fixedNow,
	})

	return &testApp{router: router}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// register creates a user with a complete profile and returns its token.
func (a *testApp) register(t *testing.T, username string) string {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": username,
		"password": "Password123!",
		"age":      30,
		"weightKg": 70,
		"heightM":  1.75,
		"gender":   "male",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
