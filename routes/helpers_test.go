// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/ingest"
	"github.com/humaidq/healthscore/registry"
	"github.com/humaidq/healthscore/templates"
)

type testSession struct {
	id    string
	data  map[interface{}]interface{}
	flash interface{}
}

func newTestSession() *testSession {
	return &testSession{
		id:   "test-session",
		data: make(map[interface{}]interface{}),
	}
}

func (s *testSession) ID() string {
	return s.id
}

func (s *testSession) RegenerateID(http.ResponseWriter, *http.Request) error {
	return nil
}

func (s *testSession) Get(key interface{}) interface{} {
	return s.data[key]
}

func (s *testSession) Set(key, val interface{}) {
	s.data[key] = val
}

func (s *testSession) SetFlash(val interface{}) {
	s.flash = val
}

func (s *testSession) Delete(key interface{}) {
	delete(s.data, key)
}

func (s *testSession) Flush() {
	s.data = make(map[interface{}]interface{})
}

func (s *testSession) Encode() ([]byte, error) {
	return nil, nil
}

func (s *testSession) HasChanged() bool {
	return true
}

type testCSRF struct {
	token string
}

func (c testCSRF) Token() string {
	return c.token
}

func (c testCSRF) ValidToken(string) bool {
	return true
}

func (c testCSRF) Error(http.ResponseWriter) {}

func (c testCSRF) Validate(flamego.Context) {}

var _ csrf.CSRF = testCSRF{}

func newTestPipeline(maxBytes int64) *Pipeline {
	analyzer := analysis.NewAnalyzer(registry.MustDefault())

	return &Pipeline{
		Analyzer:       analyzer,
		Processor:      ingest.NewProcessor(analyzer, nil, 2),
		MaxUploadBytes: maxBytes,
	}
}

// newTestApp returns a flamego app with the pipeline, a test session and
// the embedded templates mapped, as cmd/start does for the real server.
func newTestApp(t *testing.T, p *Pipeline, s session.Session) *flamego.Flame {
	t.Helper()

	fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
	if err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}

	f := flamego.New()
	f.Map(p)
	f.Use(func(c flamego.Context) {
		c.MapTo(s, (*session.Session)(nil))
		c.Next()
	})
	f.Use(template.Templater(template.Options{
		FileSystem: fs,
		FuncMaps:   TemplateFuncs(),
	}))

	return f
}

type uploadPart struct {
	field    string
	filename string
	content  []byte
}

func multipartBody(t *testing.T, parts ...uploadPart) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, p := range parts {
		if p.filename == "" {
			if err := w.WriteField(p.field, ""); err != nil {
				t.Fatalf("failed to write field: %v", err)
			}

			continue
		}

		fw, err := w.CreateFormFile(p.field, p.filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}

		if _, err := fw.Write(p.content); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	return body, w.FormDataContentType()
}

func performUpload(t *testing.T, f *flamego.Flame, path string, parts ...uploadPart) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, parts...)

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON error body, got %q: %v", rec.Body.String(), err)
	}

	return body.Error
}

func flashOf(t *testing.T, s *testSession) FlashMessage {
	t.Helper()

	msg, ok := s.flash.(FlashMessage)
	if !ok {
		t.Fatalf("flash has unexpected type: %T", s.flash)
	}

	return msg
}

// setPersistence swaps the persistence seam for the duration of a
// test. Tests using it must not run in parallel.
func setPersistence(t *testing.T, enabled bool) {
	t.Helper()

	orig := persistenceEnabledFn
	persistenceEnabledFn = func() bool { return enabled }

	t.Cleanup(func() { persistenceEnabledFn = orig })
}
