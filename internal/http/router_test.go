package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"taskboard/internal/db"
	httpserver "taskboard/internal/http"
	"taskboard/internal/http/handlers"
	"taskboard/internal/repository/sqlite"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	router http.Handler
	hub    *ws.Hub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	sqlDB, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.MigrateSQLite(ctx, sqlDB))

	hub := ws.NewHub()
	sessions := session.NewManager(session.NewMemoryStore(), "test-secret", time.Hour)

	h := handlers.NewHandler(
		service.NewAuthService(sqlite.NewUserRepository(sqlDB), sessions, bcrypt.MinCost),
		service.NewTaskService(sqlite.NewTaskRepository(sqlDB), hub),
		service.NewMessageService(sqlite.NewMessageRepository(sqlDB), hub, 500),
	)
	h.SessionTTL = int(time.Hour.Seconds())

	router, err := httpserver.NewRouter(httpserver.Deps{
		Handler:  h,
		Health:   handlers.NewHealthHandler(handlers.PingFunc(sqlDB.PingContext), "test").WithConnections(hub.ConnectionCount),
		Sessions: sessions,
		Hub:      hub,
	})
	require.NoError(t, err)
	return &testApp{router: router, hub: hub}
}

// user is a cookie-carrying client.
type user struct {
	app    *testApp
	cookie *http.Cookie
}

func (a *testApp) anon() *user { return &user{app: a} }

func (u *user) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return u.send(req)
}

func (u *user) send(req *http.Request) *httptest.ResponseRecorder {
	if u.cookie != nil {
		req.AddCookie(u.cookie)
	}
	rec := httptest.NewRecorder()
	u.app.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			if c.MaxAge < 0 {
				u.cookie = nil
			} else {
				u.cookie = c
			}
		}
	}
	return rec
}

func (a *testApp) signup(t *testing.T, email string) *user {
	t.Helper()
	u := a.anon()
	rec := u.do(t, http.MethodPost, "/signup", map[string]string{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"email":            email,
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, u.cookie)
	return u
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type taskJSON struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Deadline    *string `json:"deadline"`
	OwnerID     int64   `json:"owner_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func TestSignupSetsSessionCookie(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "  Ada@Example.com ")

	require.True(t, u.cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, u.cookie.SameSite)
	require.Equal(t, "/", u.cookie.Path)
	require.False(t, u.cookie.Secure)

	rec := u.do(t, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	require.Equal(t, "ada@example.com", me["email"])
	require.Equal(t, "Ada", me["first_name"])
	require.NotContains(t, me, "password_hash")
}

func TestSignupErrors(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "ada@example.com")

	rec := app.anon().do(t, http.MethodPost, "/signup", map[string]string{
		"first_name": "A", "last_name": "B", "email": "ADA@example.com",
		"password": "password123", "confirm_password": "password123",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Email already exists", decode[map[string]string](t, rec)["error"])

	rec = app.anon().do(t, http.MethodPost, "/signup", map[string]string{
		"first_name": "A", "last_name": "B", "email": "b@example.com",
		"password": "password123", "confirm_password": "password124",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Passwords do not match", decode[map[string]string](t, rec)["error"])

	rec = app.anon().do(t, http.MethodPost, "/signup", map[string]string{"email": "b@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignin(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "ada@example.com")

	rec := app.anon().do(t, http.MethodPost, "/signin", map[string]string{"email": "ada@example.com", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid email or password", decode[map[string]string](t, rec)["error"])

	rec = app.anon().do(t, http.MethodPost, "/signin", map[string]string{"email": "ghost@example.com", "password": "password123"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid email or password", decode[map[string]string](t, rec)["error"])

	// browsers posting a plain form
	u := app.anon()
	form := url.Values{"email": {"ADA@example.com"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = u.send(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, u.cookie)
	require.True(t, u.cookie.Secure)
}

func TestSignoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "ada@example.com")
	stale := u.cookie

	rec := u.do(t, http.MethodPost, "/signout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, u.cookie)

	replay := &user{app: app, cookie: stale}
	require.Equal(t, http.StatusUnauthorized, replay.do(t, http.MethodGet, "/api/me", nil).Code)

	// signing out without a session is fine too
	require.Equal(t, http.StatusOK, app.anon().do(t, http.MethodPost, "/signout", nil).Code)
}

func TestAPIRequiresSession(t *testing.T) {
	app := newTestApp(t)
	anon := app.anon()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodPut, "/api/tasks/1"},
		{http.MethodDelete, "/api/tasks/1"},
		{http.MethodGet, "/api/messages"},
		{http.MethodPost, "/api/messages"},
	} {
		rec := anon.do(t, tc.method, tc.path, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		require.Equal(t, "Unauthorized", decode[map[string]string](t, rec)["error"])
	}

	forged := &user{app: app, cookie: &http.Cookie{Name: session.CookieName, Value: "forged"}}
	require.Equal(t, http.StatusUnauthorized, forged.do(t, http.MethodGet, "/api/tasks", nil).Code)
}

func TestCreateTask(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "ada@example.com")

	rec := u.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": "Write report", "priority": "High"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	task := decode[taskJSON](t, rec)
	require.NotZero(t, task.ID)
	require.Equal(t, "Pending", task.Status)
	require.Equal(t, "High", task.Priority)
	require.Nil(t, task.Deadline)
	require.NotEmpty(t, task.CreatedAt)
	require.Equal(t, task.CreatedAt, task.UpdatedAt)

	rec = u.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": "x", "priority": "Urgent", "status": "Done"})
	require.Equal(t, http.StatusOK, rec.Code)
	task = decode[taskJSON](t, rec)
	require.Equal(t, "Low", task.Priority)
	require.Equal(t, "Pending", task.Status)

	rec = u.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Title required", decode[map[string]string](t, rec)["error"])
}

func TestDeadlineRoundTrip(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "ada@example.com")

	rec := u.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": "t", "deadline": "2030-03-04T05:06:07.089+01:00"})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[taskJSON](t, rec)
	require.NotNil(t, created.Deadline)

	want := time.Date(2030, 3, 4, 4, 6, 7, 89000000, time.UTC)
	got, err := time.Parse(time.RFC3339Nano, *created.Deadline)
	require.NoError(t, err)
	require.True(t, want.Equal(got))

	fetched := decode[taskJSON](t, u.do(t, http.MethodGet, "/api/tasks/"+itoa(created.ID), nil))
	require.Equal(t, *created.Deadline, *fetched.Deadline)
}

func TestUpdateTask(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "ada@example.com")
	task := decode[taskJSON](t, u.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": "t", "priority": "Medium", "description": "d"}))

	rec := u.do(t, http.MethodPut, "/api/tasks/"+itoa(task.ID), map[string]string{"priority": "Urgent", "status": "Completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[taskJSON](t, rec)
	require.Equal(t, "Medium", updated.Priority)
	require.Equal(t, "Completed", updated.Status)
	require.Equal(t, "t", updated.Title)
	require.Equal(t, "d", updated.Description)

	rec = u.do(t, http.MethodPut, "/api/tasks/"+itoa(task.ID), map[string]string{"title": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskNonStringFieldsFallBack(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "ada@example.com")

	rec := u.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "t", "priority": 5, "status": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	task := decode[taskJSON](t, rec)
	require.Equal(t, "Low", task.Priority)
	require.Equal(t, "Pending", task.Status)

	rec = u.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": 42, "deadline": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	numeric := decode[taskJSON](t, rec)
	require.Equal(t, "42", numeric.Title)
	require.Nil(t, numeric.Deadline)

	path := "/api/tasks/" + itoa(task.ID)
	require.Equal(t, http.StatusOK, u.do(t, http.MethodPut, path, map[string]string{"priority": "High"}).Code)

	rec = u.do(t, http.MethodPut, path, map[string]any{"priority": 3, "status": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[taskJSON](t, rec)
	require.Equal(t, "High", updated.Priority)
	require.Equal(t, "Pending", updated.Status)
	require.Equal(t, "t", updated.Title)
}

func TestUpdateTaskMissingBeforeBody(t *testing.T) {
	app := newTestApp(t)
	owner := app.signup(t, "owner@example.com")
	other := app.signup(t, "other@example.com")
	task := decode[taskJSON](t, owner.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": "mine"}))
	path := "/api/tasks/" + itoa(task.ID)

	require.Equal(t, http.StatusNotFound, owner.do(t, http.MethodPut, "/api/tasks/999999", nil).Code)
	require.Equal(t, http.StatusNotFound, other.do(t, http.MethodPut, path, nil).Code)

	garbled := httptest.NewRequest(http.MethodPut, path, strings.NewReader("{not json"))
	garbled.Header.Set("Content-Type", "application/json")
	require.Equal(t, http.StatusNotFound, other.send(garbled).Code)

	garbled = httptest.NewRequest(http.MethodPut, path, strings.NewReader("{not json"))
	garbled.Header.Set("Content-Type", "application/json")
	require.Equal(t, http.StatusBadRequest, owner.send(garbled).Code)

	rec := owner.do(t, http.MethodPut, path, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "mine", decode[taskJSON](t, rec).Title)
}

func TestTaskOwnership(t *testing.T) {
	app := newTestApp(t)
	owner := app.signup(t, "owner@example.com")
	other := app.signup(t, "other@example.com")

	task := decode[taskJSON](t, owner.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": "mine"}))
	path := "/api/tasks/" + itoa(task.ID)

	foreign := []*httptest.ResponseRecorder{
		other.do(t, http.MethodGet, path, nil),
		other.do(t, http.MethodPut, path, map[string]string{"title": "stolen"}),
		other.do(t, http.MethodDelete, path, nil),
	}
	missing := owner.do(t, http.MethodGet, "/api/tasks/999999", nil)
	for _, rec := range foreign {
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, missing.Body.String(), rec.Body.String())
	}
	require.Equal(t, http.StatusNotFound, owner.do(t, http.MethodGet, "/api/tasks/abc", nil).Code)

	list := decode[[]taskJSON](t, other.do(t, http.MethodGet, "/api/tasks", nil))
	require.Empty(t, list)

	require.Equal(t, http.StatusOK, owner.do(t, http.MethodDelete, path, nil).Code)
	require.Equal(t, http.StatusNotFound, owner.do(t, http.MethodDelete, path, nil).Code)
}

func TestListTasksFilters(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "ada@example.com")

	for _, body := range []map[string]string{
		{"title": "a", "status": "Pending", "priority": "High"},
		{"title": "b", "status": "Pending", "priority": "Low"},
		{"title": "c", "status": "Completed", "priority": "High"},
	} {
		require.Equal(t, http.StatusOK, u.do(t, http.MethodPost, "/api/tasks", body).Code)
	}

	got := decode[[]taskJSON](t, u.do(t, http.MethodGet, "/api/tasks?status=Pending&priority=High", nil))
	require.Len(t, got, 1)
	require.Equal(t, "a", got[0].Title)

	got = decode[[]taskJSON](t, u.do(t, http.MethodGet, "/api/tasks?sortBy=bogus&sortDir=asc", nil))
	require.Len(t, got, 3)
	require.Equal(t, "a", got[0].Title)
	require.Equal(t, "c", got[2].Title)
}

func TestMessages(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "ada@example.com")

	rec := u.do(t, http.MethodPost, "/api/messages", map[string]string{"text": "<script>alert(1)</script>hello"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	msg := decode[map[string]any](t, rec)
	require.Equal(t, "hello", msg["text"])
	require.Equal(t, "Ada", msg["first_name"])
	require.Equal(t, "Lovelace", msg["last_name"])

	rec = u.do(t, http.MethodPost, "/api/messages", map[string]string{"text": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Text required", decode[map[string]string](t, rec)["error"])

	require.Equal(t, http.StatusOK, u.do(t, http.MethodPost, "/api/messages", map[string]string{"text": "to the room", "room": "team1"}).Code)

	history := decode[[]map[string]any](t, u.do(t, http.MethodGet, "/api/messages", nil))
	require.Len(t, history, 2)
	require.Equal(t, "hello", history[0]["text"])
	require.Equal(t, "to the room", history[1]["text"])
}

func TestPages(t *testing.T) {
	app := newTestApp(t)
	anon := app.anon()

	rec := anon.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/signin", rec.Header().Get("Location"))

	for _, path := range []string{"/dashboard", "/index", "/index.html"} {
		rec = anon.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusFound, rec.Code, path)
		require.Equal(t, "/signin", rec.Header().Get("Location"))
	}

	rec = anon.do(t, http.MethodGet, "/signin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `data-endpoint="/signin"`)

	rec = anon.do(t, http.MethodGet, "/public/js/app.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Realtime.on('reconnect'")
	require.Contains(t, rec.Body.String(), "get('room')")

	rec = anon.do(t, http.MethodGet, "/public/js/realtime.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "rooms.forEach((room) => send('join', room))")

	u := app.signup(t, "ada@example.com")
	rec = u.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Ada Lovelace")
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)
	anon := app.anon()

	require.Equal(t, http.StatusOK, anon.do(t, http.MethodGet, "/healthz", nil).Code)
	require.Equal(t, http.StatusOK, anon.do(t, http.MethodGet, "/health", nil).Code)

	rec := anon.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[handlers.HealthResponse](t, rec)
	require.Equal(t, "healthy", ready.Checks["database"])
	require.Equal(t, "0", ready.Checks["ws_connections"])

	rec = anon.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "http_requests_total")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
