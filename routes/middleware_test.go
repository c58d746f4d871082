// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
)

func TestSetFlashHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		set     func(session.Session, string)
		wantTyp FlashType
	}{
		{name: "error", set: SetErrorFlash, wantTyp: FlashError},
		{name: "success", set: SetSuccessFlash, wantTyp: FlashSuccess},
		{name: "warning", set: SetWarningFlash, wantTyp: FlashWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSession()
			tt.set(s, "hello")

			msg := flashOf(t, s)
			if msg.Type != tt.wantTyp || msg.Message != "hello" {
				t.Fatalf("unexpected flash message: %#v", msg)
			}
		})
	}
}

func TestCSRFInjector(t *testing.T) {
	t.Parallel()

	handler, ok := CSRFInjector().(func(csrf.CSRF, template.Data))
	if !ok {
		t.Fatalf("unexpected CSRFInjector handler type")
	}

	data := template.Data{}
	handler(testCSRF{token: "csrf-123"}, data)

	if got, ok := data["csrf_token"].(string); !ok || got != "csrf-123" {
		t.Fatalf("unexpected csrf_token value: %#v", data["csrf_token"])
	}
}

func TestFlashInjector(t *testing.T) {
	t.Parallel()

	handler, ok := FlashInjector().(func(session.Flash, template.Data))
	if !ok {
		t.Fatalf("unexpected FlashInjector handler type")
	}

	data := template.Data{}
	handler(FlashMessage{Type: FlashError, Message: "oops"}, data)

	if msg, ok := data["Flash"].(FlashMessage); !ok || msg.Message != "oops" {
		t.Fatalf("unexpected Flash value: %#v", data["Flash"])
	}

	empty := template.Data{}
	handler("not a flash message", empty)

	if _, ok := empty["Flash"]; ok {
		t.Fatalf("expected foreign flash values to be ignored")
	}
}

func TestNoCacheHeaders(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	f.Use(NoCacheHeaders())
	f.Get("/", func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNoContent)
	})
	f.Post("/", func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNoContent)
	})

	getRec := httptest.NewRecorder()
	f.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := getRec.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Fatalf("unexpected Cache-Control for GET: %q", got)
	}

	postRec := httptest.NewRecorder()
	f.ServeHTTP(postRec, httptest.NewRequest(http.MethodPost, "/", nil))

	if got := postRec.Header().Get("Cache-Control"); got != "" {
		t.Fatalf("expected no Cache-Control for POST, got %q", got)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	f.Get("/", func(c flamego.Context) string {
		return clientIP(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Body.String() != "203.0.113.7" {
		t.Fatalf("expected first forwarded address, got %q", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	setPersistence(t, false)

	f := flamego.New()
	f.Map(newTestPipeline(1 << 20))
	f.Get("/healthz", Healthz)

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if body.Status != "ok" || body.Biomarkers != 16 || body.Rules != 22 || body.Database {
		t.Fatalf("unexpected health response: %+v", body)
	}
}
