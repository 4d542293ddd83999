package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebClientRoutes_Auth(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/register", "", map[string]any{
		"name":     "carol",
		"password": "Password123!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[map[string]any](t, w)["token"])

	w = app.do(t, http.MethodPost, "/api/v1/login", "", map[string]any{
		"name":     "Carol",
		"password": "Password123!",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode[map[string]any](t, w)["token"].(string)

	w = app.do(t, http.MethodGet, "/api/v1/user/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("Fail: Wrong password carries a message", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/login", "", map[string]any{
			"name":     "carol",
			"password": "nope-nope-nope",
		})

		require.Equal(t, http.StatusUnauthorized, w.Code)
		body := decode[map[string]string](t, w)
		assert.Equal(t, "invalid credentials", body["message"])
		assert.Equal(t, body["message"], body["error"])
	})
}

func TestWebClientRoutes_Category(t *testing.T) {
	app := setupApp(t)
	token := app.register(t, "alice")

	w := app.do(t, http.MethodPost, "/api/v1/category/create", token, map[string]any{"categoryName": "Mood"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mood := decode[categoryResponse](t, w)

	w = app.do(t, http.MethodGet, "/api/v1/category/list", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]categoryResponse](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, mood.ID, list[0].ID)

	base := "/api/v1/category/" + mood.ID

	w = app.do(t, http.MethodPost, base+"/add", token, map[string]any{"datetime": "2025-12-10T08:00:00", "note": "calm"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[itemResponse](t, w)

	w = app.do(t, http.MethodGet, base+"/list", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]itemResponse](t, w), 1)

	w = app.do(t, http.MethodPatch, base+"/"+item.ID, token, map[string]any{"note": "happy"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "happy", decode[itemResponse](t, w).Note)

	t.Run("Fail: Foreign category carries a message", func(t *testing.T) {
		intruder := app.register(t, "mallory")

		w := app.do(t, http.MethodGet, base+"/list", intruder, nil)

		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "unauthorized access", decode[map[string]string](t, w)["message"])
	})

	w = app.do(t, http.MethodDelete, base+"/"+item.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, http.MethodDelete, base, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, http.MethodGet, "/api/v1/category/list", token, nil)
	assert.Empty(t, decode[[]categoryResponse](t, w))
}

func TestErrorBody_Middleware(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/category/list", "", nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "authorization header required", body["message"])
	assert.Equal(t, "authorization header required", body["error"])
}
