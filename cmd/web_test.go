// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flamego/flamego"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/ingest"
	"github.com/humaidq/healthscore/registry"
	"github.com/humaidq/healthscore/routes"
)

func newTestServer(t *testing.T) *flamego.Flame {
	t.Helper()

	analyzer := analysis.NewAnalyzer(registry.MustDefault())
	p := &routes.Pipeline{
		Analyzer:       analyzer,
		Processor:      ingest.NewProcessor(analyzer, nil, 2),
		MaxUploadBytes: 1 << 20,
	}

	f, err := newServer(p, serverOptions{csrfSecret: "test-secret"})
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}

	return f
}

func serve(f *flamego.Flame, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	return rec
}

func TestServerRoutes(t *testing.T) {
	t.Parallel()

	f := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "index", path: "/", wantStatus: http.StatusOK, wantBody: `action="/report"`},
		{name: "healthz", path: "/healthz", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "stylesheet", path: "/style.css", wantStatus: http.StatusOK},
		{name: "history disabled", path: "/history", wantStatus: http.StatusSeeOther},
		{name: "trend disabled", path: "/biomarker/glucose", wantStatus: http.StatusSeeOther},
		{name: "unknown", path: "/does-not-exist", wantStatus: http.StatusNotFound, wantBody: "Endpoint not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(f, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("expected body to contain %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestServerAnalyzeAPI(t *testing.T) {
	t.Parallel()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("files", "labs.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}

	if _, err := part.Write([]byte("Biomarker,Value\nGlucose,88\nTSH,2.0\n")); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := serve(newTestServer(t), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Biomarkers     []analysis.ClassifiedBiomarker `json:"biomarkers"`
		FilesProcessed int                            `json:"files_processed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if res.FilesProcessed != 1 || len(res.Biomarkers) != 2 {
		t.Fatalf("expected 1 file with 2 biomarkers, got %d files and %d biomarkers", res.FilesProcessed, len(res.Biomarkers))
	}
}

func TestServerReportRequiresCSRFToken(t *testing.T) {
	t.Parallel()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("files", "labs.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}

	if _, err := part.Write([]byte("Glucose,88\n")); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/report", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := serve(newTestServer(t), req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestCSRFSecret(t *testing.T) {
	t.Parallel()

	if got, err := csrfSecret("configured", false); err != nil || got != "configured" {
		t.Fatalf("expected configured secret, got %q (%v)", got, err)
	}

	if _, err := csrfSecret("", false); !errors.Is(err, errCSRFSecretRequired) {
		t.Fatalf("expected errCSRFSecretRequired, got %v", err)
	}

	got, err := csrfSecret("", true)
	if err != nil {
		t.Fatalf("expected generated secret, got error %v", err)
	}

	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

// runWithPipelineFlags parses args against the pipeline flags and hands the
// resulting command to fn.
func runWithPipelineFlags(t *testing.T, args []string, fn func(context.Context, *cli.Command) error) error {
	t.Helper()

	c := &cli.Command{
		Name:   "test",
		Flags:  pipelineFlags(),
		Action: fn,
	}

	return c.Run(context.Background(), append([]string{"test"}, args...))
}

func TestNewRecognizer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantName string
		wantErr  bool
	}{
		{name: "default", wantName: "tesseract"},
		{name: "disabled", args: []string{"--ocr", "none"}},
		{name: "gemini without key", args: []string{"--ocr", "gemini", "--gemini-api-key", ""}, wantErr: true},
		{name: "unknown backend", args: []string{"--ocr", "paper"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := runWithPipelineFlags(t, tt.args, func(ctx context.Context, cmd *cli.Command) error {
				ocr, err := newRecognizer(ctx, cmd)
				if err != nil {
					return err
				}

				switch {
				case tt.wantName == "" && ocr != nil:
					t.Fatalf("expected OCR to be disabled, got %s", ocr.Name())
				case tt.wantName != "" && (ocr == nil || ocr.Name() != tt.wantName):
					t.Fatalf("expected %s OCR backend", tt.wantName)
				}

				return nil
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewPipelineLoadsRegistryFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "registry.yaml")
	if err := os.WriteFile(path, registry.DefaultSource(), 0o600); err != nil {
		t.Fatalf("failed to write registry: %v", err)
	}

	err := runWithPipelineFlags(t, []string{"--registry", path, "--ocr", "none", "--max-upload-mb", "2"}, func(ctx context.Context, cmd *cli.Command) error {
		p, err := newPipeline(ctx, cmd)
		if err != nil {
			return err
		}

		if p.MaxUploadBytes != 2<<20 {
			t.Fatalf("expected 2MB upload limit, got %d", p.MaxUploadBytes)
		}

		if got := len(p.Analyzer.Registry().Biomarkers()); got != 16 {
			t.Fatalf("expected 16 biomarkers, got %d", got)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("newPipeline failed: %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.yaml")

	err = runWithPipelineFlags(t, []string{"--registry", missing, "--ocr", "none"}, func(ctx context.Context, cmd *cli.Command) error {
		_, err := newPipeline(ctx, cmd)
		return err
	})
	if err == nil {
		t.Fatalf("expected an error for a missing registry file")
	}
}
