package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cuteblog/internal/db"
	"github.com/cuteblog/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSessionName = "sessionId"

// stubHTMLRender 记录最近一次渲染的模板，并把模板名写入响应体。
type stubHTMLRender struct {
	mu   sync.Mutex
	last *stubHTMLInstance
}

type stubHTMLInstance struct {
	name string
	data interface{}
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	instance := &stubHTMLInstance{name: name, data: data}
	r.mu.Lock()
	r.last = instance
	r.mu.Unlock()
	return instance
}

func (r *stubHTMLRender) lastData(t *testing.T) gin.H {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		t.Fatal("expected a template to be rendered")
	}
	data, ok := r.last.data.(gin.H)
	if !ok {
		t.Fatalf("unexpected template data type %T", r.last.data)
	}
	return data
}

func (r *stubHTMLInstance) Render(w http.ResponseWriter) error {
	_, err := w.Write([]byte(r.name))
	return err
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

type handlerHarness struct {
	api    *API
	gdb    *gorm.DB
	engine *gin.Engine
	html   *stubHTMLRender
}

func newHandlerHarness(t *testing.T) *handlerHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(db.Options{
		Driver:   db.DriverSQLite,
		DSN:      fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano()),
		LogLevel: logger.Silent,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	html := &stubHTMLRender{}
	engine := gin.New()
	engine.HTMLRender = html
	engine.Use(sessions.Sessions(testSessionName, cookie.NewStore([]byte("test-secret"))))
	engine.Use(RequestID())

	h := &handlerHarness{
		api:    NewAPI(gdb, service.NewCredentials(bcrypt.MinCost)),
		gdb:    gdb,
		engine: engine,
		html:   html,
	}

	engine.GET("/test-login/:id", func(c *gin.Context) {
		id, err := parseUintParam(c, "id")
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		user, err := h.api.auth.GetUser(id)
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		if err := startSession(c, user); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return h
}

func (h *handlerHarness) register(t *testing.T, username, email string) *db.User {
	t.Helper()
	user, err := h.api.auth.Register(service.RegisterInput{Username: username, Email: email, Password: "password1"})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func (h *handlerHarness) loginAs(t *testing.T, user *db.User) *http.Cookie {
	t.Helper()
	rec := h.do(http.MethodGet, fmt.Sprintf("/test-login/%d", user.ID), nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("test login failed with status %d", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie after login")
	}
	return cookie
}

func (h *handlerHarness) createPost(t *testing.T, ownerID uint, title string) *db.Post {
	t.Helper()
	post, err := h.api.posts.Create(ownerID, service.PostInput{Title: title, Subtitle: "S", Content: "C"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func (h *handlerHarness) do(method, path string, form url.Values, session *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	return rec
}

// sessionCookie 返回响应中最后一个会话 cookie。
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == testSessionName {
			found = c
		}
	}
	return found
}

func assertTemplate(t *testing.T, rec *httptest.ResponseRecorder, status int, template string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (body %q)", status, rec.Code, rec.Body.String())
	}
	if template != "" && rec.Body.String() != template {
		t.Fatalf("expected template %q, got %q", template, rec.Body.String())
	}
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d (body %q)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}
