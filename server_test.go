package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/mail"
	"github.com/Zachkp/folio/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	srv    *server
	router *gin.Engine
	mail   *mail.Recorder
	db     *store.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := db.SeedGuestbook(context.Background(), now); err != nil {
		t.Fatalf("SeedGuestbook: %v", err)
	}
	catalog, err := content.Load()
	if err != nil {
		t.Fatalf("content.Load: %v", err)
	}

	cfg := &config.Config{
		FromEmail:        "site@example.com",
		ToEmail:          "owner@example.com",
		OwnerName:        "Fahad Ali",
		AdminUsername:    "admin",
		AdminPassword:    "s3cret",
		SettleDelay:      time.Millisecond,
		VisitorRetention: 24 * time.Hour,
		HighlightStyle:   "monokai",
	}
	rec := &mail.Recorder{}
	s := newServer(cfg, db, catalog, rec)
	s.now = func() time.Time { return now.Add(time.Hour) }

	r, err := s.router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return &testEnv{srv: s, router: r, mail: rec, db: db}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("DNT", "1")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestPages(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, "marquee-strip"},
		{"/", http.StatusOK, "brand-end-card"},
		{"/", http.StatusOK, "particle-79"},
		{"/about", http.StatusOK, "journey-line"},
		{"/projects", http.StatusOK, "project-0"},
		{"/projects?category=Fintech", http.StatusOK, "Fintech"},
		{"/projects/1", http.StatusOK, "project-hero-image"},
		{"/projects/999", http.StatusNotFound, "Back home"},
		{"/projects/abc", http.StatusNotFound, "Back home"},
		{"/services", http.StatusOK, "service-0"},
		{"/services/1", http.StatusOK, "service-capabilities"},
		{"/services/42", http.StatusNotFound, "Back home"},
		{"/blog", http.StatusOK, "post-0"},
		{"/blog/1", http.StatusOK, "post-body-0"},
		{"/blog/77", http.StatusNotFound, "Back home"},
		{"/contact", http.StatusOK, "fullName"},
		{"/guestbook", http.StatusOK, "Sarah Jenkins"},
		{"/privacy", http.StatusOK, "Do Not Track"},
		{"/nowhere", http.StatusNotFound, "Back home"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := env.do(httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body does not contain %q", tt.want)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", w.Code, w.Body.String())
	}
}

func TestThemeToggle(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.Header.Set("Referer", "/about")
	w := env.do(req)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/about" {
		t.Fatalf("toggle = %d to %q", w.Code, w.Header().Get("Location"))
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "theme=light") {
		t.Errorf("Set-Cookie = %q, want theme=light", w.Header().Get("Set-Cookie"))
	}

	req = httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.Header.Set("HX-Request", "true")
	req.AddCookie(&http.Cookie{Name: "theme", Value: "light"})
	w = env.do(req)
	if w.Code != http.StatusNoContent || w.Header().Get("HX-Refresh") != "true" {
		t.Errorf("htmx toggle = %d, HX-Refresh %q", w.Code, w.Header().Get("HX-Refresh"))
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "theme=dark") {
		t.Errorf("Set-Cookie = %q, want theme=dark", w.Header().Get("Set-Cookie"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "theme", Value: "light"})
	if w := env.do(req); !strings.Contains(w.Body.String(), `class="light"`) {
		t.Error("light theme cookie not applied to the page")
	}
}

func TestProcessFrames(t *testing.T) {
	env := newTestEnv(t)

	var got struct {
		Variant string `json:"variant"`
		Front   int    `json:"front"`
		Cards   []struct {
			Opacity float64 `json:"opacity"`
			Final   bool    `json:"final"`
		} `json:"cards"`
	}

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/choreography/process?progress=0.5&width=1280", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Variant != "desktop" || got.Front != 2 || len(got.Cards) != 5 || !got.Cards[4].Final {
		t.Errorf("frame = %+v", got)
	}

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/choreography/process?progress=2&width=600", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Variant != "mobile" || got.Front != 4 {
		t.Errorf("clamped mobile frame = %+v", got)
	}

	for _, q := range []string{"progress=abc", "width=0", "width=-3", "progress=NaN"} {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/choreography/process?"+q, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, w.Code)
		}
	}
}
