package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blogem/loan-approval/models"
	"github.com/blogem/loan-approval/repositories/mocks"
	"github.com/blogem/loan-approval/userctx"
)

// newSessionRouter returns a router with sessions, identity loading and a
// /signin route that stores the given username in the session
func newSessionRouter(t *testing.T) *chi.Mux {
	t.Helper()

	sessioner, err := session.Sessioner(session.Options{
		Provider:    "memory",
		CookieName:  "test_session",
		Gclifetime:  3600,
		Maxlifetime: 3600,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(sessioner)
	r.Use(LoadIdentity)
	r.Get("/signin", func(w http.ResponseWriter, r *http.Request) {
		_ = session.GetSession(r).Set(SessionUsernameKey, r.URL.Query().Get("as"))
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(userctx.GetUsername(r.Context())))
	})
	r.With(RequireAuth).Get("/private", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello " + userctx.GetUsername(r.Context())))
	})
	return r
}

func do(r http.Handler, method, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLoadIdentity(t *testing.T) {
	r := newSessionRouter(t)

	anonymous := do(r, http.MethodGet, "/whoami", nil)
	assert.Equal(t, "", anonymous.Body.String())

	signin := do(r, http.MethodGet, "/signin?as=jane", nil)
	cookies := signin.Result().Cookies()
	require.NotEmpty(t, cookies)

	whoami := do(r, http.MethodGet, "/whoami", cookies)
	assert.Equal(t, "jane", whoami.Body.String())
}

func TestRequireAuth(t *testing.T) {
	r := newSessionRouter(t)

	rec := do(r, http.MethodGet, "/private", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := do(r, http.MethodGet, "/signin?as=jane", nil).Result().Cookies()
	rec = do(r, http.MethodGet, "/private", cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello jane", rec.Body.String())
}

func TestAuditor_RecordsMutationsWithRedaction(t *testing.T) {
	auditRepo := mocks.NewMockAuditRepository(t)
	created := make(chan *models.AuditLogEntry, 1)
	auditRepo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*models.AuditLogEntry")).
		Run(func(_ context.Context, entry *models.AuditLogEntry) { created <- entry }).
		Return(nil)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(userctx.SetUsername(r.Context(), "jane")))
		})
	})
	r.Use(NewAuditor(auditRepo, nil).Handler)
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		// The handler still sees the parsed form
		_, _ = w.Write([]byte(r.PostFormValue("username")))
	})

	form := url.Values{"username": {"jane"}, "password": {"secret1"}, "confirm_password": {"secret1"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "jane", rec.Body.String())

	var entry *models.AuditLogEntry
	select {
	case entry = <-created:
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry was not written")
	}

	assert.Equal(t, "jane", entry.Username)
	assert.Equal(t, http.MethodPost, entry.Method)
	assert.Equal(t, "/login", entry.Path)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
	assert.NotEmpty(t, entry.RequestID)

	var formData map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(entry.FormData), &formData))
	assert.Equal(t, "jane", formData["username"])
	assert.Equal(t, redacted, formData["password"])
	assert.Equal(t, redacted, formData["confirm_password"])
}

func TestAuditor_IgnoresReads(t *testing.T) {
	auditRepo := mocks.NewMockAuditRepository(t)

	handler := NewAuditor(auditRepo, nil).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuditor_WaitBlocksUntilWritesFinish(t *testing.T) {
	auditRepo := mocks.NewMockAuditRepository(t)
	release := make(chan struct{})
	var written atomic.Bool
	auditRepo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*models.AuditLogEntry")).
		Run(func(context.Context, *models.AuditLogEntry) {
			<-release
			written.Store(true)
		}).
		Return(nil)

	auditor := NewAuditor(auditRepo, nil)
	handler := auditor.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/predict", nil))

	done := make(chan struct{})
	go func() {
		auditor.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned while a write was pending")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after the write finished")
	}
	assert.True(t, written.Load())
}

func TestGetIPAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:51234"
	assert.Equal(t, "192.168.1.5", getIPAddress(req))

	req.Header.Set("X-Real-IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", getIPAddress(req))
}
