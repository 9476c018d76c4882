package main

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

	"github.com/Zachkp/folio/internal/store"
)

func login(t *testing.T, env *testEnv, user, pass string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {user}, "password": {pass}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return env.do(req)
}

func adminRequest(env *testEnv, method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: env.srv.admin.token})
	return req
}

func TestAdminRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/admin/dashboard", "/admin/api/stats", "/admin/guestbook", "/admin/visitors"} {
		w := env.do(httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
			t.Errorf("%s = %d to %q, want redirect to login", path, w.Code, w.Header().Get("Location"))
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: "forged"})
	if w := env.do(req); w.Code != http.StatusFound {
		t.Errorf("forged token = %d, want 302", w.Code)
	}
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)

	if w := login(t, env, "admin", "wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad password = %d, want 401", w.Code)
	}

	w := login(t, env, "admin", "s3cret")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("login = %d to %q", w.Code, w.Header().Get("Location"))
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "admin_token="+env.srv.admin.token) {
		t.Error("login did not set the admin token")
	}

	if w := env.do(adminRequest(env, http.MethodGet, "/admin/dashboard")); w.Code != http.StatusOK {
		t.Errorf("dashboard = %d", w.Code)
	}
}

func TestAdminStatsAndExport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.db.RecordVisit(ctx, store.Visitor{HashedIP: "abc", Path: "/", Timestamp: env.srv.now()}); err != nil {
		t.Fatal(err)
	}

	w := env.do(adminRequest(env, http.MethodGet, "/admin/api/stats"))
	if w.Code != http.StatusOK {
		t.Fatalf("stats = %d", w.Code)
	}
	var stats store.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalVisitors != 1 || stats.GuestbookEntries != 2 {
		t.Errorf("stats = %+v", stats)
	}

	w = env.do(adminRequest(env, http.MethodGet, "/admin/export/stats"))
	if !strings.Contains(w.Header().Get("Content-Disposition"), "admin-stats.json") {
		t.Errorf("export headers = %v", w.Header())
	}
}

func TestAdminDeletesGuestbookEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	entries, err := env.db.Entries(ctx, 10)
	if err != nil || len(entries) == 0 {
		t.Fatalf("Entries = %v, %v", entries, err)
	}
	id := entries[0].ID

	w := env.do(adminRequest(env, http.MethodGet, "/admin/guestbook"))
	if !strings.Contains(w.Body.String(), id) {
		t.Error("moderation page does not list the entry")
	}

	if w := env.do(adminRequest(env, http.MethodDelete, "/admin/guestbook/"+id)); w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}
	if w := env.do(adminRequest(env, http.MethodDelete, "/admin/guestbook/"+id)); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
	if w := env.do(httptest.NewRequest(http.MethodDelete, "/admin/guestbook/"+entries[1].ID, nil)); w.Code != http.StatusFound {
		t.Errorf("delete without login = %d, want 302", w.Code)
	}
}

func TestVisitorTrackingHashesIP(t *testing.T) {
	env := newTestEnv(t)

	a := env.srv.admin.hashIP("203.0.113.7")
	if a != env.srv.admin.hashIP("203.0.113.7") || len(a) != 16 {
		t.Errorf("hashIP not stable: %q", a)
	}
	if a == env.srv.admin.hashIP("203.0.113.8") {
		t.Error("different addresses hash the same")
	}

	for _, path := range []string{"/static/site.css", "/admin/login", "/api/contact", "/ws/stage", "/healthz"} {
		if !untracked(path) {
			t.Errorf("%s should not be tracked", path)
		}
	}
	if untracked("/blog/1") {
		t.Error("/blog/1 should be tracked")
	}
}

func TestPurgeVisitorDataRunsOnSchedule(t *testing.T) {
	env := newTestEnv(t)
	start := env.srv.now()
	var clock atomic.Int64
	clock.Store(start.UnixNano())
	env.srv.now = func() time.Time { return time.Unix(0, clock.Load()).UTC() }

	ctx := context.Background()
	if err := env.db.RecordVisit(ctx, store.Visitor{HashedIP: "abc", Path: "/", Timestamp: start}); err != nil {
		t.Fatal(err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		env.srv.purgeVisitorData(loopCtx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	if visits, err := env.db.Visitors(ctx, 10); err != nil || len(visits) != 1 {
		t.Fatalf("fresh visit purged early: %v, %v", visits, err)
	}

	// two days on, past the 24h retention
	clock.Store(start.Add(48 * time.Hour).UnixNano())
	deadline := time.Now().Add(2 * time.Second)
	for {
		visits, err := env.db.Visitors(ctx, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(visits) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expired visit was never purged")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purge loop did not stop on cancel")
	}
}
