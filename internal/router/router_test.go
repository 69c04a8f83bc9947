package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/taskquest/config"
	"github.com/oksasatya/taskquest/internal/container"
	"github.com/oksasatya/taskquest/pkg/helpers"
	"github.com/oksasatya/taskquest/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	helpers.BcryptCost = bcrypt.MinCost
	validation.Init()
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type app struct {
	t      *testing.T
	engine *gin.Engine
	clock  *testClock
}

func newApp(t *testing.T) *app {
	t.Helper()
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("STATIC_DIR", t.TempDir())
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("PHOTO_DRIVER", "local")

	container.Reset()
	t.Cleanup(container.Reset)
	cleanup, err := container.Bootstrap(context.Background(), config.Load(), helpers.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	svc := BuildService()
	clk := &testClock{t: time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)}
	svc.Now = clk.Now
	return &app{t: t, engine: NewEngine(svc), clock: clk}
}

func (a *app) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *app) serve(req *http.Request) (int, envelope) {
	a.t.Helper()
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func (a *app) signup(name, password string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/add_user", "", gin.H{"username": name, "password": password})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	return decode[map[string]string](a.t, env.Data)["token"]
}

func TestAliceScenario(t *testing.T) {
	a := newApp(t)
	tok := a.signup("alice", "secret")

	code, env := a.do(http.MethodGet, "/get_points", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[{"username":"alice","points":0,"profile_photo":"default_dp.png"}]`, string(env.Data))

	var ids []string
	for i := 0; i < 6; i++ {
		code, env := a.do(http.MethodPost, "/add_task", tok, gin.H{"task_text": "task"})
		require.Equal(t, http.StatusCreated, code)
		ids = append(ids, decode[map[string]any](t, env.Data)["id"].(string))
	}
	code, env = a.do(http.MethodPost, "/add_task", tok, gin.H{"task_text": "one too many"})
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Maximum number of tasks per day reached.", env.Message)

	code, env = a.do(http.MethodGet, "/get_my_tasks", tok, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, decode[[]map[string]any](t, env.Data), 6)

	code, env = a.do(http.MethodPost, "/update_task", tok, gin.H{"task_id": ids[0], "completed": true})
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"points":3}`, string(env.Data))

	code, env = a.do(http.MethodPost, "/update_task", tok, gin.H{"task_id": ids[0], "completed": true})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Task status unchanged.", env.Message)
	require.JSONEq(t, `{"points":3}`, string(env.Data))

	code, env = a.do(http.MethodGet, "/get_task_history", tok, nil)
	require.Equal(t, http.StatusOK, code)
	hist := decode[map[string]int](t, env.Data)
	require.Len(t, hist, 7)
	require.Equal(t, 1, hist["2026-05-04"])

	code, env = a.do(http.MethodDelete, "/update_task", tok, gin.H{"task_id": ids[0]})
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"points":0}`, string(env.Data))

	code, _ = a.do(http.MethodDelete, "/update_task", tok, gin.H{"task_id": ids[0]})
	require.Equal(t, http.StatusNotFound, code)
}

func TestSessionsOverHTTP(t *testing.T) {
	a := newApp(t)
	a.signup("bob", "pw")

	code, _ := a.do(http.MethodPost, "/add_user", "", gin.H{"username": "bob", "password": "x"})
	require.Equal(t, http.StatusConflict, code)

	code, _ = a.do(http.MethodPost, "/login", "", gin.H{"username": "nobody", "password": "x"})
	require.Equal(t, http.StatusNotFound, code)
	code, _ = a.do(http.MethodPost, "/login", "", gin.H{"username": "bob", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, code)

	login := func() string {
		code, env := a.do(http.MethodPost, "/login", "", gin.H{"username": "bob", "password": "pw"})
		require.Equal(t, http.StatusOK, code)
		data := decode[map[string]string](t, env.Data)
		require.Equal(t, "default_dp.png", data["profile_photo"])
		return data["token"]
	}
	phone, laptop := login(), login()

	code, _ = a.do(http.MethodPost, "/logout", phone, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodGet, "/get_my_tasks", phone, nil)
	require.Equal(t, http.StatusUnauthorized, code)
	code, _ = a.do(http.MethodGet, "/get_my_tasks", laptop, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodGet, "/get_my_tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)

	// Rename revokes every other device.
	tablet := login()
	code, env := a.do(http.MethodPost, "/update_username", laptop, gin.H{"new_username": "bob", "current_password": "pw"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "New username cannot be the same as the old one.", env.Message)

	code, env = a.do(http.MethodPost, "/update_username", laptop, gin.H{"new_username": "robert", "current_password": "pw"})
	require.Equal(t, http.StatusOK, code)
	fresh := decode[map[string]string](t, env.Data)["token"]

	for _, old := range []string{laptop, tablet} {
		code, _ = a.do(http.MethodGet, "/get_my_tasks", old, nil)
		require.Equal(t, http.StatusUnauthorized, code)
	}
	code, _ = a.do(http.MethodGet, "/get_my_tasks", fresh, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPost, "/update_password", fresh, gin.H{"new_password": "pw2"})
	require.Equal(t, http.StatusOK, code)
	newest := decode[map[string]string](t, env.Data)["token"]
	code, _ = a.do(http.MethodGet, "/get_my_tasks", fresh, nil)
	require.Equal(t, http.StatusUnauthorized, code)
	code, _ = a.do(http.MethodGet, "/get_my_tasks", newest, nil)
	require.Equal(t, http.StatusOK, code)

	// Tokens expire after the session window.
	a.clock.Advance(7 * 24 * time.Hour)
	code, _ = a.do(http.MethodGet, "/get_my_tasks", newest, nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestValidationErrors(t *testing.T) {
	a := newApp(t)
	tok := a.signup("carol", "pw")

	code, env := a.do(http.MethodPost, "/add_user", "", gin.H{"username": "../x", "password": "pw"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, string(env.Error), "username")

	code, env = a.do(http.MethodPost, "/update_task", tok, gin.H{})
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"task_id":"is required"}`, string(env.Error))

	code, _ = a.do(http.MethodPost, "/add_task", tok, gin.H{})
	require.Equal(t, http.StatusBadRequest, code)

	long := strings.Repeat("p", 80)
	code, env = a.do(http.MethodPost, "/add_user", "", gin.H{"username": "dan", "password": long})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Password must be at most 72 bytes.", env.Message)
	code, env = a.do(http.MethodPost, "/update_password", tok, gin.H{"new_password": long})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Password must be at most 72 bytes.", env.Message)

	// Login does not pattern-check names; unknown ones are simply missing.
	code, _ = a.do(http.MethodPost, "/login", "", gin.H{"username": "../x", "password": "pw"})
	require.Equal(t, http.StatusNotFound, code)
}

func TestUpdateTaskWithoutCompletedMarksIncomplete(t *testing.T) {
	a := newApp(t)
	tok := a.signup("ivy", "pw")

	_, env := a.do(http.MethodPost, "/add_task", tok, gin.H{"task_text": "stretch"})
	id := decode[map[string]any](t, env.Data)["id"].(string)

	code, env := a.do(http.MethodPost, "/update_task", tok, gin.H{"task_id": id, "completed": true})
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"points":3}`, string(env.Data))

	code, env = a.do(http.MethodPost, "/update_task", tok, gin.H{"task_id": id})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Task updated successfully", env.Message)
	require.JSONEq(t, `{"points":0}`, string(env.Data))

	_, env = a.do(http.MethodGet, "/get_my_tasks", tok, nil)
	tasks := decode[[]map[string]any](t, env.Data)
	require.Len(t, tasks, 1)
	require.Equal(t, false, tasks[0]["completed"])
}

func TestCommentsExpire(t *testing.T) {
	a := newApp(t)
	tok := a.signup("dave", "pw")

	code, _ := a.do(http.MethodPost, "/add_comment", "", gin.H{"text": "anon"})
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.do(http.MethodPost, "/add_comment", tok, gin.H{"text": "first"})
	require.Equal(t, http.StatusCreated, code)
	a.clock.Advance(11 * time.Hour)
	code, _ = a.do(http.MethodPost, "/add_comment", tok, gin.H{"text": "second"})
	require.Equal(t, http.StatusCreated, code)

	_, env := a.do(http.MethodGet, "/get_comments", "", nil)
	require.Len(t, decode[[]map[string]any](t, env.Data), 2)

	a.clock.Advance(time.Hour)
	_, env = a.do(http.MethodGet, "/get_comments", "", nil)
	comments := decode[[]map[string]any](t, env.Data)
	require.Len(t, comments, 1)
	require.Equal(t, "second", comments[0]["text"])
	require.Equal(t, "default_dp.png", comments[0]["profile_photo"])
}

func TestMyPointsIsAnonymized(t *testing.T) {
	a := newApp(t)
	a.signup("erin", "pw")
	a.signup("frank", "pw")

	_, env := a.do(http.MethodGet, "/get_my_points", "", nil)
	require.JSONEq(t, `[{"points":0},{"points":0}]`, string(env.Data))
}

func TestUploadProfilePicture(t *testing.T) {
	a := newApp(t)
	tok := a.signup("gina", "pw")

	upload := func(field, filename string) (int, envelope) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("\x89PNG fake"))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/upload_profile_picture", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+tok)
		return a.serve(req)
	}

	code, env := upload("avatar", "me.png")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "No file part", env.Message)

	code, env = upload("profile_pic", "me.exe")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "File type not allowed", env.Message)

	code, env = upload("profile_pic", "me.png")
	require.Equal(t, http.StatusOK, code)
	ref := decode[map[string]string](t, env.Data)["profile_photo"]
	require.Regexp(t, `^profile_pictures/gina_[0-9a-f]{32}\.png$`, ref)

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/"+ref, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "\x89PNG fake", w.Body.String())

	_, env = a.do(http.MethodGet, "/profile", tok, nil)
	require.Equal(t, ref, decode[map[string]any](t, env.Data)["profile_photo"])
}

func TestSearchDisabledReturnsEmpty(t *testing.T) {
	a := newApp(t)
	tok := a.signup("hank", "pw")

	code, env := a.do(http.MethodGet, "/search_users?q=ha", tok, nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[]`, string(env.Data))
}

func TestHealthz(t *testing.T) {
	a := newApp(t)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	a.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "signups")
}
